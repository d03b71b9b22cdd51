// Package stego to implement keyed LSB embedding and extraction
package stego

import (
	"fmt"

	"lsb-steganography/crypto"
	"lsb-steganography/models"
)

// EmbedBits writes bits into the least significant bit of carrier values,
// visiting slots in permutation order. Nothing is written unless every bit
// fits. It returns how many values actually changed.
func EmbedBits(carrier []byte, seed crypto.Seed, bits []byte) (int, error) {
	if err := checkCarrier(carrier); err != nil {
		return 0, err
	}
	if len(bits) > len(carrier) {
		return 0, &CapacityError{Required: len(bits), Available: len(carrier)}
	}

	changed := 0
	perm := NewPermutation(seed, len(carrier))
	for _, bit := range bits {
		pos, _ := perm.Next()
		v := carrier[pos]&^1 | bit&1
		if v != carrier[pos] {
			changed++
		}
		carrier[pos] = v
	}

	return changed, nil
}

// ExtractFrame reads the LSB of every carrier value in permutation order and
// returns the payload of the frame found in the recovered bytes.
func ExtractFrame(carrier []byte, seed crypto.Seed, lengthPrefixed bool) ([]byte, error) {
	if err := checkCarrier(carrier); err != nil {
		return nil, err
	}

	perm := NewPermutation(seed, len(carrier))
	acc := bitAccumulator{out: make([]byte, 0, len(carrier)/8)}
	for {
		pos, ok := perm.Next()
		if !ok {
			break
		}
		acc.push(carrier[pos] & 1)
	}

	return Unframe(acc.bytes(), lengthPrefixed)
}

func checkCarrier(carrier []byte) error {
	if uint64(len(carrier)) > MaxChannels {
		return fmt.Errorf("%w: %d channel values, max %d", ErrInvalidCarrier, len(carrier), uint64(MaxChannels))
	}
	return nil
}

// LSBSteganography embeds and extracts payloads with one key and framing mode.
// It holds no mutable state and can be shared.
type LSBSteganography struct {
	config *models.StegoConfig
	keys   crypto.Keys
}

func NewLSBSteganography(config *models.StegoConfig) *LSBSteganography {
	return &LSBSteganography{
		config: config,
		keys:   crypto.DeriveKeys([]byte(config.Key)),
	}
}

// Overhead returns the bytes added around a payload before embedding.
func (lsb *LSBSteganography) Overhead() int {
	overhead := FrameSize(0, lsb.config.LengthPrefixed)
	if lsb.config.UseEncryption {
		overhead += crypto.Overhead
	}
	return overhead
}

// CalculateCapacity returns the largest payload in bytes that fits into a
// carrier of channels values.
func (lsb *LSBSteganography) CalculateCapacity(channels int) int {
	capacity := channels/8 - lsb.Overhead()
	if capacity < 0 {
		return 0
	}
	return capacity
}

// EmbedStats describes one embedding.
type EmbedStats struct {
	FrameBits   int
	ChangedBits int
	PSNR        float64
}

// Embed encrypts (if configured), frames and writes secretData into carrier
// in place.
func (lsb *LSBSteganography) Embed(carrier []byte, secretData []byte) (*EmbedStats, error) {
	payload := secretData
	if lsb.config.UseEncryption {
		encrypted, err := crypto.Encrypt(secretData, lsb.keys.EncryptionKey[:])
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt payload: %w", err)
		}
		payload = encrypted
	}

	frame, err := Frame(payload, lsb.config.LengthPrefixed)
	if err != nil {
		return nil, err
	}

	if len(frame)*8 > len(carrier) {
		return nil, &CapacityError{Required: len(frame) * 8, Available: len(carrier)}
	}

	bits := PackBits(frame)
	changed, err := EmbedBits(carrier, lsb.keys.Seed, bits)
	if err != nil {
		return nil, err
	}

	return &EmbedStats{
		FrameBits:   len(bits),
		ChangedBits: changed,
		PSNR:        LSBPSNR(changed, len(carrier)),
	}, nil
}

// Extract recovers the payload hidden in carrier, decrypting it if configured.
func (lsb *LSBSteganography) Extract(carrier []byte) ([]byte, error) {
	payload, err := ExtractFrame(carrier, lsb.keys.Seed, lsb.config.LengthPrefixed)
	if err != nil {
		return nil, err
	}

	if lsb.config.UseEncryption {
		return crypto.Decrypt(payload, lsb.keys.EncryptionKey[:])
	}
	return payload, nil
}
