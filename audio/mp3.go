package audio

import (
	"bytes"
	"fmt"
	"log"

	"github.com/bogem/id3v2"
	"github.com/tosone/minimp3"

	"lsb-steganography/models"
	"lsb-steganography/mp3parser"
	"lsb-steganography/stego"
)

// DecodeMP3 decodes an MP3 cover to 16-bit PCM. The stego result is written
// as WAV; MP3 frames themselves are never modified.
func (ad *AudioDecoder) DecodeMP3(mp3Data []byte) (*Carrier, error) {
	stream, err := mp3parser.ScanFrames(mp3Data)
	if err != nil || stream.Frames == 0 {
		return nil, fmt.Errorf("%w: no MP3 frames found", stego.ErrInvalidCarrier)
	}

	decoder, data, err := minimp3.DecodeFull(mp3Data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode MP3: %v", stego.ErrInvalidCarrier, err)
	}
	defer decoder.Close()

	if decoder.Channels == 0 || decoder.SampleRate == 0 || len(data) == 0 {
		return nil, fmt.Errorf("%w: MP3 decoded to no audio", stego.ErrInvalidCarrier)
	}

	samplesPerChannel := len(data) / 2 / decoder.Channels // 2 bytes per 16-bit sample
	metadata := &models.AudioMetadata{
		SampleRate:   decoder.SampleRate,
		Channels:     decoder.Channels,
		BitDepth:     16,
		Duration:     float64(samplesPerChannel) / float64(decoder.SampleRate),
		TotalBytes:   len(data),
		SourceFormat: "mp3",
		Frames:       stream.Frames,
	}

	if tag, err := id3v2.ParseReader(bytes.NewReader(mp3Data), id3v2.Options{Parse: true}); err == nil {
		metadata.Title = tag.Title()
		metadata.Artist = tag.Artist()
	} else {
		log.Printf("Warning: could not parse ID3v2 tag: %v", err)
	}

	return &Carrier{PCM: data, Metadata: metadata}, nil
}
