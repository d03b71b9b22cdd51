package stego

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"lsb-steganography/crypto"
)

// MaxChannels is the largest carrier a permutation can index.
const MaxChannels = math.MaxUint32

// Permutation yields a seeded pseudorandom ordering of 0..n-1 one index at a
// time.
//
// The generator is PCG-DXSM (math/rand/v2.PCG) seeded with (seed.Hi, seed.Lo).
// The shuffle is a forward Fisher-Yates: step i swaps a[i] with a[i+U(n-i)]
// and emits a[i], where U is Lemire's unbiased bounded draw over Uint64. Both
// algorithms are fixed; changing either breaks every existing carrier.
type Permutation struct {
	src  *rand.PCG
	idx  []uint32
	next int
}

// NewPermutation prepares a permutation of 0..capacity-1.
// capacity must not exceed MaxChannels.
func NewPermutation(seed crypto.Seed, capacity int) *Permutation {
	idx := make([]uint32, capacity)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return &Permutation{
		src: rand.NewPCG(seed.Hi, seed.Lo),
		idx: idx,
	}
}

// Len returns the permutation size.
func (p *Permutation) Len() int {
	return len(p.idx)
}

// Next returns the next index of the permutation, or false once all indexes
// have been returned.
func (p *Permutation) Next() (int, bool) {
	i := p.next
	if i >= len(p.idx) {
		return 0, false
	}

	if remaining := uint64(len(p.idx) - i); remaining > 1 {
		j := i + int(p.bounded(remaining))
		p.idx[i], p.idx[j] = p.idx[j], p.idx[i]
	}
	p.next++

	return int(p.idx[i]), true
}

// bounded returns a uniform value in [0, n).
func (p *Permutation) bounded(n uint64) uint64 {
	hi, lo := bits.Mul64(p.src.Uint64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(p.src.Uint64(), n)
		}
	}
	return hi
}

// Permute returns the full permutation of 0..capacity-1 for seed.
func Permute(seed crypto.Seed, capacity int) []int {
	p := NewPermutation(seed, capacity)
	out := make([]int, 0, capacity)
	for {
		pos, ok := p.Next()
		if !ok {
			return out
		}
		out = append(out, pos)
	}
}
