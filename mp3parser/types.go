// Package mp3parser scans MPEG-1 Layer III streams for frame headers
package mp3parser

// ID3v2Header represents ID3v2 tag header
type ID3v2Header struct {
	Version [2]byte
	Flags   byte
	Size    int
}

// FrameHeader represents an MP3 frame header
type FrameHeader struct {
	VersionID   int
	Layer       int
	Bitrate     int
	SampleRate  int
	Padding     bool
	ChannelMode int
	FrameLength int
}

// Stream summarizes the frames of an MP3 file
type Stream struct {
	ID3v2      *ID3v2Header
	Frames     int
	First      *FrameHeader
	SkipBytes  int // bytes that did not belong to any frame
	AudioBytes int
}
