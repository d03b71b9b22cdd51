package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lsb-steganography/audio"
	"lsb-steganography/models"
	"lsb-steganography/stego"
)

func newTestService() *StegoService {
	return NewStegoService(audio.NewAudioDecoder(""), 40)
}

func writePNGCover(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 3), B: uint8(x ^ y), A: 255})
		}
	}

	path := filepath.Join(dir, "cover.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeWAVCover(t *testing.T, dir string, n int) string {
	t.Helper()
	pcm := make([]byte, n)
	for i := range pcm {
		pcm[i] = byte(i * 17)
	}

	path := filepath.Join(dir, "cover.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	meta := &models.AudioMetadata{SampleRate: 8000, Channels: 1, BitDepth: 16}
	if err := audio.EncodeWAV(f, pcm, meta); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbedExtractFile(t *testing.T) {
	secret := []byte("meet at the usual place, bring the documents")

	tests := []struct {
		name    string
		cover   func(t *testing.T, dir string) string
		outName string
		wantExt string
		encrypt bool
	}{
		{"png", func(t *testing.T, dir string) string { return writePNGCover(t, dir, 32, 32) }, "stego.png", ".png", false},
		{"png encrypted", func(t *testing.T, dir string) string { return writePNGCover(t, dir, 32, 32) }, "stego.png", ".png", true},
		{"png to bmp", func(t *testing.T, dir string) string { return writePNGCover(t, dir, 32, 32) }, "stego.bmp", ".bmp", false},
		{"png lossy output", func(t *testing.T, dir string) string { return writePNGCover(t, dir, 32, 32) }, "stego.jpg", ".png", false},
		{"wav", func(t *testing.T, dir string) string { return writeWAVCover(t, dir, 4000) }, "stego.wav", ".wav", false},
		{"wav encrypted", func(t *testing.T, dir string) string { return writeWAVCover(t, dir, 4000) }, "stego.mp3", ".wav", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			svc := newTestService()
			coverPath := tt.cover(t, dir)
			payloadPath := writeFile(t, filepath.Join(dir, "secret.txt"), secret)

			outputPath, report, err := svc.EmbedFile(context.Background(), coverPath, payloadPath,
				filepath.Join(dir, tt.outName), "file key", tt.encrypt)
			if err != nil {
				t.Fatalf("EmbedFile() error = %v", err)
			}
			if filepath.Ext(outputPath) != tt.wantExt {
				t.Errorf("output path = %s, want extension %s", outputPath, tt.wantExt)
			}
			if report.OutputPath != outputPath || report.FrameBits == 0 || report.MaxPayload < len(secret) {
				t.Errorf("report = %+v", report)
			}

			got, extractedPath, err := svc.ExtractFile(context.Background(), outputPath,
				filepath.Join(dir, "recovered.txt"), "file key", tt.encrypt)
			if err != nil {
				t.Fatalf("ExtractFile() error = %v", err)
			}
			if !bytes.Equal(got, secret) {
				t.Errorf("ExtractFile() = %q, want %q", got, secret)
			}
			written, err := os.ReadFile(extractedPath)
			if err != nil || !bytes.Equal(written, secret) {
				t.Errorf("payload file = %q, %v", written, err)
			}
		})
	}
}

func TestExtractFile_WrongKey(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	coverPath := writePNGCover(t, dir, 32, 32)
	payloadPath := writeFile(t, filepath.Join(dir, "secret.bin"), []byte{1, 2, 3, 4})

	outputPath, _, err := svc.EmbedFile(context.Background(), coverPath, payloadPath,
		filepath.Join(dir, "stego.png"), "right", false)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = svc.ExtractFile(context.Background(), outputPath, "", "wrong", false)
	if !errors.Is(err, stego.ErrFrameNotFound) {
		t.Errorf("ExtractFile() error = %v, want ErrFrameNotFound", err)
	}
}

func TestEmbedFile_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	coverPath := writePNGCover(t, dir, 16, 16)
	payloadPath := writeFile(t, filepath.Join(dir, "p.txt"), []byte("x"))
	existing := writeFile(t, filepath.Join(dir, "stego.png"), []byte("keep me"))

	outputPath, _, err := svc.EmbedFile(context.Background(), coverPath, payloadPath, existing, "k", false)
	if err != nil {
		t.Fatalf("EmbedFile() error = %v", err)
	}
	if outputPath != filepath.Join(dir, "stego_1.png") {
		t.Errorf("output path = %s, want stego_1.png", outputPath)
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep me" {
		t.Error("existing file was overwritten")
	}
}

func TestEmbedFile_Errors(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	coverPath := writePNGCover(t, dir, 4, 4)
	small := writeFile(t, filepath.Join(dir, "small.txt"), []byte("x"))
	large := writeFile(t, filepath.Join(dir, "large.txt"), bytes.Repeat([]byte("x"), 100))
	junk := writeFile(t, filepath.Join(dir, "junk.png"), []byte("not a png"))

	tests := []struct {
		name    string
		cover   string
		payload string
		want    error
	}{
		{"missing cover", filepath.Join(dir, "nope.png"), small, os.ErrNotExist},
		{"missing payload", coverPath, filepath.Join(dir, "nope.txt"), os.ErrNotExist},
		{"undecodable cover", junk, small, stego.ErrInvalidCarrier},
		{"payload too large", coverPath, large, stego.ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.EmbedFile(context.Background(), tt.cover, tt.payload, filepath.Join(dir, "out.png"), "k", false)
			if !errors.Is(err, tt.want) {
				t.Errorf("EmbedFile() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "out.png")); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed embedding left an output file")
	}
}

func TestEmbedExtractBytes(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()
	cover, err := os.ReadFile(writePNGCover(t, dir, 24, 24))
	if err != nil {
		t.Fatal(err)
	}

	out, ext, report, err := svc.EmbedBytes(context.Background(), "upload.png", cover, []byte("in memory"), "bytes key", true)
	if err != nil {
		t.Fatalf("EmbedBytes() error = %v", err)
	}
	if ext != ".png" || report.Kind != models.CarrierImage || report.ImageInfo == nil {
		t.Errorf("ext = %q, report = %+v", ext, report)
	}

	got, err := svc.ExtractBytes(context.Background(), "stego"+ext, out, "bytes key", true)
	if err != nil {
		t.Fatalf("ExtractBytes() error = %v", err)
	}
	if string(got) != "in memory" {
		t.Errorf("ExtractBytes() = %q", got)
	}

	raw, err := svc.ExtractBytes(context.Background(), "stego"+ext, out, "bytes key", false)
	if err != nil {
		t.Fatalf("ExtractBytes() without decryption error = %v", err)
	}
	if len(raw) != len("in memory")+32 || bytes.Contains(raw, []byte("in memory")) {
		t.Errorf("ExtractBytes() without decryption = %q, want the sealed blob", raw)
	}
}

func TestCapacity(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService()

	tests := []struct {
		name    string
		path    string
		encrypt bool
		want    models.CapacityReport
	}{
		{"image", writePNGCover(t, dir, 32, 32), false,
			models.CapacityReport{Kind: models.CarrierImage, Channels: 3072, MaxPayload: 3072/8 - 24, LengthPrefixed: true}},
		{"image encrypted", writePNGCover(t, dir, 32, 32), true,
			models.CapacityReport{Kind: models.CarrierImage, Channels: 3072, MaxPayload: 3072/8 - 24 - 32, LengthPrefixed: true, UseEncryption: true}},
		{"audio", writeWAVCover(t, dir, 4000), false,
			models.CapacityReport{Kind: models.CarrierAudio, Channels: 4000, MaxPayload: 500 - 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Capacity(context.Background(), tt.path, tt.encrypt)
			if err != nil {
				t.Fatalf("Capacity() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("Capacity() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.wav")

	got, err := UniquePath(target)
	if err != nil || got != target {
		t.Fatalf("UniquePath() on free path = %s, %v", got, err)
	}

	writeFile(t, target, nil)
	writeFile(t, filepath.Join(dir, "out_1.wav"), nil)

	got, err = UniquePath(target)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "out_2.wav"); got != want {
		t.Errorf("UniquePath() = %s, want %s", got, want)
	}

	noExt := writeFile(t, filepath.Join(dir, "payload"), nil)
	if got, _ := UniquePath(noExt); got != noExt+"_1" {
		t.Errorf("UniquePath() without extension = %s", got)
	}
}
