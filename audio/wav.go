// Package audio decodes audio covers into flat PCM byte carriers and writes
// stego carriers back out as WAV.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"lsb-steganography/models"
	"lsb-steganography/stego"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	BitsInByte          = 8

	// offset of the sub-format GUID inside a WAVE_FORMAT_EXTENSIBLE fmt chunk
	extensibleSubFormatOffset = 24
)

// ErrUnsupportedFormat is returned for WAV files that are not integer PCM.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Carrier is decoded audio exposed as every byte of its PCM data.
type Carrier struct {
	PCM      []byte
	Metadata *models.AudioMetadata
}

func (c *Carrier) Kind() models.CarrierKind { return models.CarrierAudio }

// Channels returns the mutable PCM bytes.
func (c *Carrier) Channels() []byte { return c.PCM }

// LengthPrefixed reports false: audio frames are delimited by markers only.
func (c *Carrier) LengthPrefixed() bool { return false }

// OutputExt is always ".wav": audio stego files are written as PCM WAV.
func (c *Carrier) OutputExt(string) string { return ".wav" }

// Encode writes the carrier as a PCM WAV file. ext is ignored.
func (c *Carrier) Encode(w io.WriteSeeker, _ string) error {
	return EncodeWAV(w, c.PCM, c.Metadata)
}

// DecodeWAV reads an integer PCM WAV file, plain or WAVE_FORMAT_EXTENSIBLE
// with a PCM sub-format.
func (ad *AudioDecoder) DecodeWAV(r io.ReadSeeker) (*Carrier, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", stego.ErrInvalidCarrier)
	}

	switch decoder.WavAudioFormat {
	case wavFormatPCM:
	case wavFormatExtensible:
		subFormat, err := extensibleSubFormat(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", stego.ErrInvalidCarrier, err)
		}
		if subFormat != wavFormatPCM {
			return nil, fmt.Errorf("%w: %w: extensible WAV sub-format %d", stego.ErrInvalidCarrier, ErrUnsupportedFormat, subFormat)
		}
		// the sub-format scan moved the reader, start over
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		decoder = wav.NewDecoder(r)
		if !decoder.IsValidFile() {
			return nil, fmt.Errorf("%w: not a valid WAV file", stego.ErrInvalidCarrier)
		}
	default:
		return nil, fmt.Errorf("%w: %w: WAV format %d", stego.ErrInvalidCarrier, ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PCM data: %v", stego.ErrInvalidCarrier, err)
	}

	bitDepth := int(decoder.BitDepth)
	pcm, err := samplesToBytes(buf.Data, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stego.ErrInvalidCarrier, err)
	}

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	var duration float64
	if channels > 0 && sampleRate > 0 {
		duration = float64(len(buf.Data)/channels) / float64(sampleRate)
	}

	return &Carrier{
		PCM: pcm,
		Metadata: &models.AudioMetadata{
			SampleRate:   sampleRate,
			Channels:     channels,
			BitDepth:     bitDepth,
			Duration:     duration,
			TotalBytes:   len(pcm),
			SourceFormat: "wav",
		},
	}, nil
}

// extensibleSubFormat returns the format code at the start of the sub-format
// GUID of a WAVE_FORMAT_EXTENSIBLE fmt chunk.
func extensibleSubFormat(r io.ReadSeeker) (uint16, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	parser := riff.New(r)
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		if chunk.Size < extensibleSubFormatOffset+2 {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes", chunk.Size)
		}
		data := make([]byte, extensibleSubFormatOffset+2)
		if _, err := io.ReadFull(chunk, data); err != nil {
			return 0, fmt.Errorf("failed to read fmt chunk: %w", err)
		}
		return binary.LittleEndian.Uint16(data[extensibleSubFormatOffset:]), nil
	}
}

// EncodeWAV writes little-endian PCM bytes as a WAV file.
func EncodeWAV(w io.WriteSeeker, pcm []byte, metadata *models.AudioMetadata) error {
	samples, err := bytesToSamples(pcm, metadata.BitDepth)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: metadata.Channels,
			SampleRate:  metadata.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: metadata.BitDepth,
	}

	encoder := wav.NewEncoder(w, metadata.SampleRate, metadata.BitDepth, metadata.Channels, wavFormatPCM)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %w", err)
	}
	return nil
}

func bytesPerSample(bitDepth int) (int, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return bitDepth / BitsInByte, nil
	}
	return 0, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
}

// samplesToBytes lays samples out as they are stored in the data chunk.
func samplesToBytes(samples []int, bitDepth int) ([]byte, error) {
	width, err := bytesPerSample(bitDepth)
	if err != nil {
		return nil, err
	}

	pcm := make([]byte, len(samples)*width)
	for i, s := range samples {
		for b := 0; b < width; b++ {
			pcm[i*width+b] = byte(s >> (8 * b))
		}
	}
	return pcm, nil
}

func bytesToSamples(pcm []byte, bitDepth int) ([]int, error) {
	width, err := bytesPerSample(bitDepth)
	if err != nil {
		return nil, err
	}
	if len(pcm)%width != 0 {
		return nil, fmt.Errorf("PCM data length %d is not a multiple of %d-byte samples", len(pcm), width)
	}

	samples := make([]int, len(pcm)/width)
	for i := range samples {
		b := pcm[i*width : (i+1)*width]
		switch width {
		case 1:
			samples[i] = int(b[0])
		case 2:
			samples[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v -= 1 << 24
			}
			samples[i] = int(v)
		case 4:
			samples[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return samples, nil
}
