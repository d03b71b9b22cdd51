package stego

// PackBits expands data into one 0/1 value per bit, most significant bit first.
func PackBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>i)&1)
		}
	}
	return bits
}

// UnpackBits reverses PackBits. A trailing group of fewer than 8 bits is dropped.
func UnpackBits(bits []byte) []byte {
	acc := bitAccumulator{out: make([]byte, 0, len(bits)/8)}
	for _, bit := range bits {
		acc.push(bit)
	}
	return acc.bytes()
}

// bitAccumulator packs a stream of bits into bytes MSB-first without
// holding the bit stream itself.
type bitAccumulator struct {
	out []byte
	cur byte
	n   uint8
}

func (a *bitAccumulator) push(bit byte) {
	a.cur = a.cur<<1 | bit&1
	a.n++
	if a.n == 8 {
		a.out = append(a.out, a.cur)
		a.cur, a.n = 0, 0
	}
}

func (a *bitAccumulator) bytes() []byte {
	return a.out
}
