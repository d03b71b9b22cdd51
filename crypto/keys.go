package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Seed is the 128-bit permutation seed derived from a key.
type Seed struct {
	Hi uint64
	Lo uint64
}

// Keys holds everything derived from one user key.
type Keys struct {
	Seed          Seed
	EncryptionKey [EncryptionKeySize]byte
}

// DeriveKeys derives the permutation seed and the encryption key from key.
// Any key is accepted, including an empty one.
func DeriveKeys(key []byte) Keys {
	return Keys{
		Seed:          DeriveSeed(key),
		EncryptionKey: sha256.Sum256(key),
	}
}

// DeriveSeed derives the permutation seed with HKDF-SHA-256.
func DeriveSeed(key []byte) Seed {
	reader := hkdf.New(sha256.New, key, nil, []byte(SeedContext))

	var buf [16]byte
	if _, err := io.ReadFull(reader, buf[:]); err != nil {
		// HKDF-SHA-256 can produce up to 8160 bytes.
		panic(fmt.Sprintf("hkdf: %v", err))
	}

	return Seed{
		Hi: binary.BigEndian.Uint64(buf[:8]),
		Lo: binary.BigEndian.Uint64(buf[8:]),
	}
}

// ValidateKey validates a key taken from user input.
func ValidateKey(key string) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrKeyTooLong, len(key), MaxKeyLength)
	}
	return nil
}
