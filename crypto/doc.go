// Package crypto derives keys from a user secret and wraps payloads with
// authenticated encryption before they are embedded.
//
// One user key yields two independent values:
//
//   - an encryption key, SHA-256(key), used with AES-256-GCM
//   - a 128-bit permutation seed, HKDF-SHA-256(key, info=SeedContext)
//
// Encrypted payloads are laid out as nonce (16 bytes) || tag (16 bytes) ||
// ciphertext. The nonce is drawn from crypto/rand on every call.
package crypto
