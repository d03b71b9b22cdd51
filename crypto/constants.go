package crypto

const (
	// EncryptionKeySize is the size of the derived AES-256 key in bytes.
	EncryptionKeySize = 32
	// NonceSize is the AES-GCM nonce width used by the payload wrapper.
	NonceSize = 16
	// TagSize is the AES-GCM authentication tag width.
	TagSize = 16
	// Overhead is the number of bytes Encrypt adds to a payload.
	Overhead = NonceSize + TagSize

	// SeedContext is the HKDF info label for the permutation seed. Changing it
	// changes every permutation and breaks previously written carriers.
	SeedContext = "lsb-steganography:permutation-seed:v1"

	// MaxKeyLength bounds keys accepted from user input.
	MaxKeyLength = 1024
)
