package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != EncryptionKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), EncryptionKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt encrypts payload with AES-256-GCM under a fresh random nonce.
// Returns: nonce (16 bytes) || tag (16 bytes) || ciphertext
func Encrypt(payload, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, Overhead, Overhead+len(payload)+TagSize)
	nonce := out[:NonceSize]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}

	// Seal appends ciphertext||tag; the tag is moved in front of the ciphertext.
	sealed := gcm.Seal(out[Overhead:Overhead], nonce, payload, nil)
	ctLen := len(sealed) - TagSize
	copy(out[NonceSize:Overhead], sealed[ctLen:])

	return out[:Overhead+ctLen], nil
}

// Decrypt reverses Encrypt. Short blobs and authentication failures both
// return ErrDecryptionFailed and no plaintext.
func Decrypt(blob, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < Overhead {
		return nil, ErrDecryptionFailed
	}

	nonce := blob[:NonceSize]
	tag := blob[NonceSize:Overhead]
	ciphertext := blob[Overhead:]

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
