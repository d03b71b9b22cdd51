package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lsb-steganography/models"
)

// EmbedBytes is EmbedFile for in-memory uploads. coverName only supplies the
// extension used to pick a decoder. It returns the encoded stego file and its
// extension.
func (s *StegoService) EmbedBytes(ctx context.Context, coverName string, cover, payload []byte, key string, useEncryption bool) ([]byte, string, *models.EmbedReport, error) {
	var (
		out    []byte
		ext    string
		report *models.EmbedReport
	)
	err := withTempFile(coverName, cover, func(coverPath string) error {
		carrier, err := s.DecodeCarrier(ctx, coverPath)
		if err != nil {
			return err
		}
		report, err = s.EmbedCarrier(carrier, payload, key, useEncryption)
		if err != nil {
			return err
		}

		ext = carrier.OutputExt(coverName)
		out, err = encodeToBytes(carrier, ext)
		return err
	})
	if err != nil {
		return nil, "", nil, err
	}
	return out, ext, report, nil
}

// ExtractBytes is ExtractFile for in-memory uploads.
func (s *StegoService) ExtractBytes(ctx context.Context, stegoName string, stegoData []byte, key string, useEncryption bool) ([]byte, error) {
	var payload []byte
	err := withTempFile(stegoName, stegoData, func(stegoPath string) error {
		carrier, err := s.DecodeCarrier(ctx, stegoPath)
		if err != nil {
			return err
		}
		payload, err = s.ExtractCarrier(carrier, key, useEncryption)
		return err
	})
	return payload, err
}

// CapacityBytes is Capacity for in-memory uploads.
func (s *StegoService) CapacityBytes(ctx context.Context, coverName string, cover []byte, useEncryption bool) (*models.CapacityReport, error) {
	var report *models.CapacityReport
	err := withTempFile(coverName, cover, func(coverPath string) error {
		var err error
		report, err = s.Capacity(ctx, coverPath, useEncryption)
		return err
	})
	return report, err
}

// withTempFile stores data in a temporary file that keeps name's extension
// and removes it once fn returns.
func withTempFile(name string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp("", "upload_*"+filepath.Ext(name))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	return fn(f.Name())
}

// encodeToBytes goes through a temporary file because WAV encoding needs to
// seek back to patch chunk sizes.
func encodeToBytes(carrier Carrier, ext string) ([]byte, error) {
	f, err := os.CreateTemp("", "stego_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := carrier.Encode(f, ext); err != nil {
		return nil, fmt.Errorf("failed to encode stego file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Name())
}
