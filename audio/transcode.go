package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lsb-steganography/stego"
)

// AudioDecoder turns cover files into PCM carriers.
type AudioDecoder struct {
	ffmpegPath string
}

func NewAudioDecoder(ffmpegPath string) *AudioDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &AudioDecoder{ffmpegPath: ffmpegPath}
}

// CheckFFmpeg verifies that the transcoder is installed and runnable.
func (ad *AudioDecoder) CheckFFmpeg() error {
	return exec.Command(ad.ffmpegPath, "-version").Run()
}

// DecodeFile decodes a cover by extension: WAV directly, MP3 in process, and
// anything else through ffmpeg.
func (ad *AudioDecoder) DecodeFile(ctx context.Context, path string) (*Carrier, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		carrier, err := ad.DecodeWAV(f)
		if errors.Is(err, ErrUnsupportedFormat) {
			// float or compressed WAV, let ffmpeg turn it into integer PCM
			return ad.TranscodeToWAV(ctx, path)
		}
		return carrier, err
	case ".mp3":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ad.DecodeMP3(data)
	default:
		return ad.TranscodeToWAV(ctx, path)
	}
}

// TranscodeToWAV converts any ffmpeg-readable audio file to 16-bit PCM WAV in a
// temporary file and decodes it. The temporary file is always removed.
func (ad *AudioDecoder) TranscodeToWAV(ctx context.Context, inputPath string) (*Carrier, error) {
	tempWAV, err := os.CreateTemp("", "transcoded_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary WAV file: %w", err)
	}
	tempWAV.Close()
	defer os.Remove(tempWAV.Name())

	cmd := exec.CommandContext(ctx, ad.ffmpegPath,
		"-nostdin", "-loglevel", "error", "-y",
		"-i", inputPath,
		"-f", "wav", "-acodec", "pcm_s16le",
		tempWAV.Name())
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg could not convert %s: %v: %s",
			stego.ErrInvalidCarrier, filepath.Base(inputPath), err, strings.TrimSpace(string(out)))
	}

	f, err := os.Open(tempWAV.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open transcoded WAV: %w", err)
	}
	defer f.Close()

	carrier, err := ad.DecodeWAV(f)
	if err != nil {
		return nil, err
	}
	carrier.Metadata.SourceFormat = strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	return carrier, nil
}
