package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Frame markers. They are never escaped inside payloads.
var (
	StartMarker = []byte("###START###")
	EndMarker   = []byte("###END###")
)

// LengthFieldSize is the size of the big-endian payload length.
const LengthFieldSize = 4

// FrameSize returns the framed size of a payload of payloadLen bytes.
func FrameSize(payloadLen int, lengthPrefixed bool) int {
	size := len(StartMarker) + payloadLen + len(EndMarker)
	if lengthPrefixed {
		size += LengthFieldSize
	}
	return size
}

// Frame wraps payload as START || [len] || payload || END.
func Frame(payload []byte, lengthPrefixed bool) ([]byte, error) {
	if lengthPrefixed && uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes exceeds the length field", ErrPayloadTooLarge, len(payload))
	}

	frame := make([]byte, 0, FrameSize(len(payload), lengthPrefixed))
	frame = append(frame, StartMarker...)
	if lengthPrefixed {
		frame = binary.BigEndian.AppendUint32(frame, uint32(len(payload)))
	}
	frame = append(frame, payload...)
	frame = append(frame, EndMarker...)

	return frame, nil
}

// Unframe locates the first frame in buf and returns a copy of its payload.
//
// With a length prefix the length is authoritative and the end marker is only
// checked as a corruption guard. Without one the payload ends at the first end
// marker after the start marker, so a payload containing the end marker is cut
// short.
func Unframe(buf []byte, lengthPrefixed bool) ([]byte, error) {
	start := bytes.Index(buf, StartMarker)
	if start == -1 {
		return nil, ErrFrameNotFound
	}
	body := buf[start+len(StartMarker):]

	if !lengthPrefixed {
		end := bytes.Index(body, EndMarker)
		if end == -1 {
			return nil, fmt.Errorf("%w: end marker missing", ErrFrameNotFound)
		}
		return bytes.Clone(body[:end]), nil
	}

	if len(body) < LengthFieldSize {
		return nil, fmt.Errorf("%w: %d bytes left for the length field", ErrTruncatedFrame, len(body))
	}
	length := uint64(binary.BigEndian.Uint32(body))
	body = body[LengthFieldSize:]

	need := length + uint64(len(EndMarker))
	if uint64(len(body)) < need {
		return nil, fmt.Errorf("%w: declared %d payload bytes, %d bytes left", ErrTruncatedFrame, length, len(body))
	}

	if !bytes.Equal(body[length:need], EndMarker) {
		return nil, fmt.Errorf("%w: end marker mismatch", ErrFrameCorrupted)
	}

	return bytes.Clone(body[:length]), nil
}
