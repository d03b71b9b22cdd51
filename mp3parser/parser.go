package mp3parser

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	id3v2HeaderSize = 10
	frameHeaderSize = 4
	mpeg1           = 3
	layer3          = 1
)

var ErrInvalidHeader = errors.New("invalid frame header")

// lookup tables (MPEG1 Layer III only)
var (
	bitrateTable    = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	sampleRateTable = [4]int{44100, 48000, 32000, 0}
)

// read syncsafe int for ID3v2 size
func syncSafeToInt(b []byte) int {
	return int(b[0]&0x7F)<<21 |
		int(b[1]&0x7F)<<14 |
		int(b[2]&0x7F)<<7 |
		int(b[3]&0x7F)
}

// ParseID3v2 returns the ID3v2 header at the start of data, or nil.
func ParseID3v2(data []byte) *ID3v2Header {
	if len(data) < id3v2HeaderSize || string(data[:3]) != "ID3" {
		return nil
	}
	return &ID3v2Header{
		Version: [2]byte{data[3], data[4]},
		Flags:   data[5],
		Size:    syncSafeToInt(data[6:10]),
	}
}

// ParseFrameHeader decodes a 4-byte MPEG-1 Layer III frame header.
func ParseFrameHeader(b []byte) (*FrameHeader, error) {
	if len(b) < frameHeaderSize {
		return nil, fmt.Errorf("%w: short header", ErrInvalidHeader)
	}
	header := binary.BigEndian.Uint32(b)

	// check sync
	if (header & 0xFFE00000) != 0xFFE00000 {
		return nil, fmt.Errorf("%w: sync word 0x%08X", ErrInvalidHeader, header)
	}

	versionID := int((header >> 19) & 0x3)
	layer := int((header >> 17) & 0x3)
	if versionID != mpeg1 || layer != layer3 {
		return nil, fmt.Errorf("%w: version %d layer %d", ErrInvalidHeader, versionID, layer)
	}

	bitrate := bitrateTable[(header>>12)&0xF] * 1000
	sampleRate := sampleRateTable[(header>>10)&0x3]
	if bitrate == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("%w: unsupported bitrate or samplerate", ErrInvalidHeader)
	}

	padding := (header>>9)&0x1 == 1
	frameLen := 144*bitrate/sampleRate + btoi(padding)

	return &FrameHeader{
		VersionID:   versionID,
		Layer:       layer,
		Bitrate:     bitrate,
		SampleRate:  sampleRate,
		Padding:     padding,
		ChannelMode: int((header >> 6) & 0x3),
		FrameLength: frameLen,
	}, nil
}

// ScanFrames walks data frame by frame, skipping a leading ID3v2 tag and
// resynchronizing byte by byte over anything that is not a frame.
func ScanFrames(data []byte) (*Stream, error) {
	stream := &Stream{}

	pos := 0
	if tag := ParseID3v2(data); tag != nil {
		stream.ID3v2 = tag
		pos = id3v2HeaderSize + tag.Size
		if pos > len(data) {
			return nil, fmt.Errorf("ID3v2 tag size %d exceeds file size %d", tag.Size, len(data))
		}
	}

	for pos+frameHeaderSize <= len(data) {
		h, err := ParseFrameHeader(data[pos:])
		if err != nil || pos+h.FrameLength > len(data) {
			stream.SkipBytes++
			pos++
			continue
		}

		if stream.First == nil {
			stream.First = h
		}
		stream.Frames++
		stream.AudioBytes += h.FrameLength
		pos += h.FrameLength
	}

	return stream, nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
