package stego

import (
	"errors"
	"fmt"

	"lsb-steganography/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidCarrier is returned when a carrier cannot be decoded or is
	// unusable as a channel sequence.
	ErrInvalidCarrier = errors.New("invalid carrier")

	// ErrPayloadTooLarge is returned when the frame needs more bits than the
	// carrier has channel values. The carrier is left untouched.
	ErrPayloadTooLarge = errors.New("payload too large for carrier")

	// ErrFrameNotFound is returned when no start marker is recovered, which
	// means a wrong key or a carrier without hidden data.
	ErrFrameNotFound = errors.New("hidden frame not found")

	// ErrFrameCorrupted is returned when a start marker is found but the rest
	// of the frame is inconsistent.
	ErrFrameCorrupted = errors.New("hidden frame corrupted")

	// ErrTruncatedFrame is returned when the declared length runs past the end
	// of the recovered stream. It matches ErrFrameCorrupted.
	ErrTruncatedFrame = fmt.Errorf("%w: truncated", ErrFrameCorrupted)

	// ErrDecryptionFailed is returned when the embedded payload fails
	// authentication.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed
)

// CapacityError reports a frame that does not fit into a carrier.
type CapacityError struct {
	Required  int // bits
	Available int // channel values
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload too large: need %d bits but only have %d available", e.Required, e.Available)
}

// Is implements errors.Is for sentinel error matching.
func (e *CapacityError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}
