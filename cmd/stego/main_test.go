package main

import (
	"errors"
	"strings"
	"testing"

	"lsb-steganography/crypto"
	"lsb-steganography/models"
)

func TestReadKey_FromFlag(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid", "correct horse", nil},
		{"max length", strings.Repeat("k", crypto.MaxKeyLength), nil},
		{"too long", strings.Repeat("k", crypto.MaxKeyLength+1), crypto.ErrKeyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readKey(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("readKey() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.key {
				t.Errorf("readKey() = %q, want %q", got, tt.key)
			}
		})
	}
}

func TestCheckKind(t *testing.T) {
	tests := []struct {
		kind    models.CarrierKind
		path    string
		wantErr bool
	}{
		{models.CarrierImage, "cover.png", false},
		{models.CarrierImage, "cover.wav", true},
		{models.CarrierAudio, "cover.mp3", false},
		{models.CarrierAudio, "cover.bmp", true},
	}

	for _, tt := range tests {
		if err := checkKind(tt.kind, tt.path); (err != nil) != tt.wantErr {
			t.Errorf("checkKind(%s, %s) error = %v, wantErr %v", tt.kind, tt.path, err, tt.wantErr)
		}
	}
}
