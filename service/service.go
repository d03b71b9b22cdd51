// Package service runs embedding and extraction against cover files.
package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lsb-steganography/audio"
	"lsb-steganography/models"
	"lsb-steganography/pixels"
	"lsb-steganography/stego"
)

// Carrier is a decoded cover whose channel values can be modified and
// written back out losslessly.
type Carrier interface {
	Kind() models.CarrierKind
	Channels() []byte
	LengthPrefixed() bool
	OutputExt(path string) string
	Encode(w io.WriteSeeker, ext string) error
}

// StegoService decodes covers, runs the codec and writes results.
type StegoService struct {
	audioDecoder *audio.AudioDecoder
	minPSNR      float64
}

func NewStegoService(audioDecoder *audio.AudioDecoder, minPSNR float64) *StegoService {
	return &StegoService{
		audioDecoder: audioDecoder,
		minPSNR:      minPSNR,
	}
}

// DecodeCarrier opens path as an image or audio carrier depending on its
// extension.
func (s *StegoService) DecodeCarrier(ctx context.Context, path string) (Carrier, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cover %s: %w", path, err)
	}

	if pixels.IsImageExt(filepath.Ext(path)) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		carrier, err := pixels.Decode(f)
		if err != nil {
			return nil, err
		}
		log.Printf("Decoded %s image %dx%d (%d channels)",
			carrier.Metadata.SourceFormat, carrier.Metadata.Width, carrier.Metadata.Height, len(carrier.Channels()))
		return carrier, nil
	}

	carrier, err := s.audioDecoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Printf("Decoded %s audio: %d Hz, %d channels, %d-bit, %.2fs (%d PCM bytes)",
		carrier.Metadata.SourceFormat, carrier.Metadata.SampleRate, carrier.Metadata.Channels,
		carrier.Metadata.BitDepth, carrier.Metadata.Duration, carrier.Metadata.TotalBytes)
	return carrier, nil
}

func newCodec(carrier Carrier, key string, useEncryption bool) *stego.LSBSteganography {
	return stego.NewLSBSteganography(&models.StegoConfig{
		Key:            key,
		UseEncryption:  useEncryption,
		LengthPrefixed: carrier.LengthPrefixed(),
	})
}

// EmbedCarrier hides payload in carrier's channel values in place.
func (s *StegoService) EmbedCarrier(carrier Carrier, payload []byte, key string, useEncryption bool) (*models.EmbedReport, error) {
	codec := newCodec(carrier, key, useEncryption)
	channels := carrier.Channels()

	stats, err := codec.Embed(channels, payload)
	if err != nil {
		return nil, err
	}

	report := &models.EmbedReport{
		Kind:       carrier.Kind(),
		Channels:   len(channels),
		FrameBits:  stats.FrameBits,
		MaxPayload: codec.CalculateCapacity(len(channels)),
		PSNR:       stats.PSNR,
	}
	switch c := carrier.(type) {
	case *audio.Carrier:
		report.AudioInfo = c.Metadata
	case *pixels.Carrier:
		report.ImageInfo = c.Metadata
	}

	log.Printf("Embedded %d payload bytes (%d frame bits, %d bits changed), PSNR %.2f dB",
		len(payload), stats.FrameBits, stats.ChangedBits, stats.PSNR)
	if !stego.ValidatePSNR(stats.PSNR, s.minPSNR) {
		log.Printf("Warning: PSNR %.2f dB is below the %.2f dB threshold", stats.PSNR, s.minPSNR)
	}

	return report, nil
}

// ExtractCarrier recovers the payload hidden in carrier.
func (s *StegoService) ExtractCarrier(carrier Carrier, key string, useEncryption bool) ([]byte, error) {
	return newCodec(carrier, key, useEncryption).Extract(carrier.Channels())
}

// EmbedFile hides the file at payloadPath in the cover at coverPath and writes
// the stego file next to outPath. The extension of outPath is replaced when
// the carrier cannot be written in that format, and an existing file is never
// overwritten. The path actually written is returned.
func (s *StegoService) EmbedFile(ctx context.Context, coverPath, payloadPath, outPath, key string, useEncryption bool) (string, *models.EmbedReport, error) {
	if _, err := os.Stat(payloadPath); err != nil {
		return "", nil, fmt.Errorf("payload %s: %w", payloadPath, err)
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read payload: %w", err)
	}

	carrier, err := s.DecodeCarrier(ctx, coverPath)
	if err != nil {
		return "", nil, err
	}

	report, err := s.EmbedCarrier(carrier, payload, key, useEncryption)
	if err != nil {
		return "", nil, err
	}

	ext := carrier.OutputExt(outPath)
	outputPath, err := UniquePath(strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ext)
	if err != nil {
		return "", nil, err
	}
	if err := writeCarrier(carrier, outputPath, ext); err != nil {
		return "", nil, err
	}
	report.OutputPath = outputPath

	log.Printf("Stego file written to %s", outputPath)
	return outputPath, report, nil
}

// ExtractFile recovers the payload from the stego file at stegoPath. When
// outPath is not empty the payload is also written there, suffixed if the
// file already exists.
func (s *StegoService) ExtractFile(ctx context.Context, stegoPath, outPath, key string, useEncryption bool) ([]byte, string, error) {
	carrier, err := s.DecodeCarrier(ctx, stegoPath)
	if err != nil {
		return nil, "", err
	}

	payload, err := s.ExtractCarrier(carrier, key, useEncryption)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Extracted %d payload bytes", len(payload))

	if outPath == "" {
		return payload, "", nil
	}

	outputPath, err := UniquePath(outPath)
	if err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write payload: %w", err)
	}
	log.Printf("Payload written to %s", outputPath)
	return payload, outputPath, nil
}

// Capacity reports how many payload bytes the cover at coverPath can hold.
func (s *StegoService) Capacity(ctx context.Context, coverPath string, useEncryption bool) (*models.CapacityReport, error) {
	carrier, err := s.DecodeCarrier(ctx, coverPath)
	if err != nil {
		return nil, err
	}

	channels := len(carrier.Channels())
	return &models.CapacityReport{
		Kind:           carrier.Kind(),
		Channels:       channels,
		MaxPayload:     newCodec(carrier, "", useEncryption).CalculateCapacity(channels),
		LengthPrefixed: carrier.LengthPrefixed(),
		UseEncryption:  useEncryption,
	}, nil
}

func writeCarrier(carrier Carrier, path, ext string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := carrier.Encode(f, ext); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write stego file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close stego file: %w", err)
	}
	return nil
}
