package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when an encrypted payload is malformed
	// or fails authentication. Both cases return this same value.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrEmptyKey is returned by ValidateKey for empty user keys.
	ErrEmptyKey = errors.New("key cannot be empty")

	// ErrKeyTooLong is returned by ValidateKey for keys over MaxKeyLength.
	ErrKeyTooLong = errors.New("key too long")
)
