package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"lsb-steganography/models"
	"lsb-steganography/stego"
)

func testPCM(n int) []byte {
	pcm := make([]byte, n)
	for i := range pcm {
		pcm[i] = byte(i*31 + i/7)
	}
	return pcm
}

func writeWAV(t *testing.T, pcm []byte, meta *models.AudioMetadata) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "cover_*.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := EncodeWAV(f, pcm, meta); err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return f.Name()
}

func TestSampleConversion_RoundTrip(t *testing.T) {
	pcm := testPCM(24)

	for _, depth := range []int{8, 16, 24, 32} {
		samples, err := bytesToSamples(pcm, depth)
		if err != nil {
			t.Fatalf("%d-bit: bytesToSamples() error = %v", depth, err)
		}
		got, err := samplesToBytes(samples, depth)
		if err != nil {
			t.Fatalf("%d-bit: samplesToBytes() error = %v", depth, err)
		}
		if !bytes.Equal(got, pcm) {
			t.Errorf("%d-bit: round trip changed bytes", depth)
		}
	}
}

func TestSampleConversion_SignExtension(t *testing.T) {
	samples, err := bytesToSamples([]byte{0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x80}, 24)
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != -1 || samples[1] != -8388608 {
		t.Errorf("24-bit samples = %v, want [-1 -8388608]", samples)
	}
}

func TestSampleConversion_Errors(t *testing.T) {
	if _, err := bytesToSamples([]byte{1, 2, 3}, 16); err == nil {
		t.Error("odd byte count accepted for 16-bit samples")
	}
	if _, err := bytesToSamples([]byte{1, 2}, 12); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("12-bit error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeWAV_RoundTrip(t *testing.T) {
	meta := &models.AudioMetadata{SampleRate: 8000, Channels: 2, BitDepth: 16}
	pcm := testPCM(4000)
	path := writeWAV(t, pcm, meta)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	carrier, err := NewAudioDecoder("").DecodeWAV(f)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}

	if !bytes.Equal(carrier.Channels(), pcm) {
		t.Error("decoded PCM differs from encoded PCM")
	}
	if carrier.Metadata.SampleRate != 8000 || carrier.Metadata.Channels != 2 || carrier.Metadata.BitDepth != 16 {
		t.Errorf("Metadata = %+v", carrier.Metadata)
	}
	if carrier.Metadata.Duration != 0.125 {
		t.Errorf("Duration = %v, want 0.125", carrier.Metadata.Duration)
	}
	if carrier.LengthPrefixed() {
		t.Error("audio carriers must not be length-prefixed")
	}
}

func TestDecodeWAV_Invalid(t *testing.T) {
	_, err := NewAudioDecoder("").DecodeWAV(bytes.NewReader([]byte("RIFF....not a wave file at all")))
	if !errors.Is(err, stego.ErrInvalidCarrier) {
		t.Errorf("DecodeWAV() error = %v, want ErrInvalidCarrier", err)
	}
}

func TestCarrier_EmbedSurvivesWAV(t *testing.T) {
	meta := &models.AudioMetadata{SampleRate: 8000, Channels: 1, BitDepth: 16}
	carrier := &Carrier{PCM: testPCM(8000), Metadata: meta}

	codec := stego.NewLSBSteganography(&models.StegoConfig{
		Key:            "wav key",
		LengthPrefixed: carrier.LengthPrefixed(),
	})
	if _, err := codec.Embed(carrier.Channels(), []byte("hidden in audio")); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	f, err := os.CreateTemp(t.TempDir(), "stego_*.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := carrier.Encode(f, carrier.OutputExt("ignored.mp3")); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	decoded, err := NewAudioDecoder("").DecodeWAV(f)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	got, err := codec.Extract(decoded.Channels())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != "hidden in audio" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestDecodeMP3_NotMP3(t *testing.T) {
	_, err := NewAudioDecoder("").DecodeMP3(bytes.Repeat([]byte{0}, 1024))
	if !errors.Is(err, stego.ErrInvalidCarrier) {
		t.Errorf("DecodeMP3() error = %v, want ErrInvalidCarrier", err)
	}
}

func TestTranscodeToWAV_MissingTranscoder(t *testing.T) {
	ad := NewAudioDecoder("/nonexistent/ffmpeg")
	if err := ad.CheckFFmpeg(); err == nil {
		t.Error("CheckFFmpeg() succeeded for a missing binary")
	}

	_, err := ad.DecodeFile(context.Background(), "cover.flac")
	if !errors.Is(err, stego.ErrInvalidCarrier) {
		t.Errorf("DecodeFile() error = %v, want ErrInvalidCarrier", err)
	}
}

// extensibleWAV builds a WAVE_FORMAT_EXTENSIBLE file with 24-bit stereo
// samples and the given sub-format code.
func extensibleWAV(pcm []byte, subFormat uint16) []byte {
	const (
		channels   = 2
		sampleRate = 8000
		bitDepth   = 24
		blockAlign = channels * bitDepth / 8
	)

	fmtChunk := make([]byte, 0, 40)
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, 0xFFFE)
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, channels)
	fmtChunk = binary.LittleEndian.AppendUint32(fmtChunk, sampleRate)
	fmtChunk = binary.LittleEndian.AppendUint32(fmtChunk, sampleRate*blockAlign)
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, blockAlign)
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, bitDepth)
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, 22) // cbSize
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, bitDepth)
	fmtChunk = binary.LittleEndian.AppendUint32(fmtChunk, 0x3) // front left | front right
	fmtChunk = binary.LittleEndian.AppendUint16(fmtChunk, subFormat)
	fmtChunk = append(fmtChunk, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71)

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(4+8+len(fmtChunk)+8+len(pcm)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(len(fmtChunk)))
	out.Write(fmtChunk)
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(len(pcm)))
	out.Write(pcm)
	return out.Bytes()
}

func TestDecodeWAV_Extensible(t *testing.T) {
	pcm := testPCM(6 * 800)

	carrier, err := NewAudioDecoder("").DecodeWAV(bytes.NewReader(extensibleWAV(pcm, 1)))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if !bytes.Equal(carrier.Channels(), pcm) {
		t.Error("decoded PCM differs from the data chunk")
	}
	if carrier.Metadata.BitDepth != 24 || carrier.Metadata.Channels != 2 || carrier.Metadata.SampleRate != 8000 {
		t.Errorf("Metadata = %+v", carrier.Metadata)
	}
}

func TestDecodeWAV_ExtensibleFloat(t *testing.T) {
	_, err := NewAudioDecoder("").DecodeWAV(bytes.NewReader(extensibleWAV(testPCM(6*800), 3)))
	if !errors.Is(err, ErrUnsupportedFormat) || !errors.Is(err, stego.ErrInvalidCarrier) {
		t.Errorf("DecodeWAV() error = %v, want ErrUnsupportedFormat and ErrInvalidCarrier", err)
	}
}
