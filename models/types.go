// Package models contain needed models
package models

// CarrierKind identifies the family of a carrier file
type CarrierKind string

const (
	CarrierImage CarrierKind = "image"
	CarrierAudio CarrierKind = "audio"
)

// StegoResponse represents the response after insertion
type StegoResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Code    string  `json:"code,omitempty"`
	PSNR    float64 `json:"psnr,omitempty"`
}

// ExtractResponse represents the response after extraction
type ExtractResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Code           string `json:"code,omitempty"`
	SecretFilename string `json:"secret_filename,omitempty"`
}

// CapacityReport describes how much a cover can hold
type CapacityReport struct {
	Kind           CarrierKind `json:"kind"`
	Channels       int         `json:"channels"`
	MaxPayload     int         `json:"max_payload_bytes"`
	LengthPrefixed bool        `json:"length_prefixed"`
	UseEncryption  bool        `json:"use_encryption"`
}

// CapacityResponse represents the response of a capacity query
type CapacityResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	*CapacityReport
}

// AudioMetadata represents metadata about an audio file
type AudioMetadata struct {
	SampleRate   int
	Channels     int
	BitDepth     int
	Duration     float64
	TotalBytes   int
	SourceFormat string // "wav", "mp3", or the transcoded extension
	Frames       int    // MP3 frames, 0 for other formats
	Title        string
	Artist       string
}

// ImageMetadata represents metadata about an image file
type ImageMetadata struct {
	Width        int
	Height       int
	SourceFormat string
	Opaque       bool
}

// StegoConfig represents configuration for steganography operations
type StegoConfig struct {
	Key            string
	UseEncryption  bool
	LengthPrefixed bool
}

// EmbedReport summarizes one embedding
type EmbedReport struct {
	Kind       CarrierKind
	Channels   int
	FrameBits  int
	MaxPayload int
	PSNR       float64
	OutputPath string
	AudioInfo  *AudioMetadata
	ImageInfo  *ImageMetadata
}
