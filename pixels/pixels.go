// Package pixels decodes image covers into flat RGB channel carriers and
// writes stego images back out losslessly.
package pixels

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"lsb-steganography/models"
	"lsb-steganography/stego"
)

// ChannelsPerPixel is the number of carrier values per pixel (R, G, B).
const ChannelsPerPixel = 3

// ErrLossyOutput is returned when asked to write a stego image in a format
// that would destroy the embedded bits.
var ErrLossyOutput = errors.New("output format is not lossless")

// Carrier is an image exposed as the R, G and B values of every pixel in
// row-major order. Alpha is kept but never carries data.
type Carrier struct {
	img      *image.NRGBA
	rgb      []byte
	Metadata *models.ImageMetadata
	format   string
}

func (c *Carrier) Kind() models.CarrierKind { return models.CarrierImage }

// Channels returns the mutable RGB values. Changes are written back to the
// image by Encode.
func (c *Carrier) Channels() []byte { return c.rgb }

// LengthPrefixed reports true: image frames carry a length field.
func (c *Carrier) LengthPrefixed() bool { return true }

// DefaultExt is the extension used when the requested output is lossy.
func (c *Carrier) DefaultExt() string {
	if IsLosslessExt("." + c.format) {
		return "." + c.format
	}
	return ".png"
}

// Image returns the image with the current channel values applied.
func (c *Carrier) Image() *image.NRGBA {
	pix := c.img.Pix
	for i, j := 0, 0; j < len(c.rgb); i, j = i+4, j+ChannelsPerPixel {
		pix[i] = c.rgb[j]
		pix[i+1] = c.rgb[j+1]
		pix[i+2] = c.rgb[j+2]
	}
	return c.img
}

// Encode writes the image in the lossless format named by ext.
func (c *Carrier) Encode(w io.WriteSeeker, ext string) error {
	return c.EncodeTo(w, ext)
}

// EncodeTo is Encode for writers that cannot seek.
func (c *Carrier) EncodeTo(w io.Writer, ext string) error {
	img := c.Image()

	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrLossyOutput, ext)
}

// IsLosslessExt reports whether ext names a format Encode can write without
// losing embedded bits.
func IsLosslessExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// IsImageExt reports whether ext names a decodable image format.
func IsImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".bmp", ".tif", ".tiff", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// Decode reads any registered image format into a carrier.
func Decode(r io.Reader) (*Carrier, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", stego.ErrInvalidCarrier, err)
	}
	return FromImage(src, format), nil
}

// FromImage converts src to 8-bit non-premultiplied RGBA and exposes its
// colour channels.
func FromImage(src image.Image, format string) *Carrier {
	bounds := src.Bounds()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*bounds.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	pixelCount := bounds.Dx() * bounds.Dy()
	rgb := make([]byte, pixelCount*ChannelsPerPixel)
	for i, j := 0, 0; j < len(rgb); i, j = i+4, j+ChannelsPerPixel {
		rgb[j] = nrgba.Pix[i]
		rgb[j+1] = nrgba.Pix[i+1]
		rgb[j+2] = nrgba.Pix[i+2]
	}

	return &Carrier{
		img: nrgba,
		rgb: rgb,
		Metadata: &models.ImageMetadata{
			Width:        bounds.Dx(),
			Height:       bounds.Dy(),
			SourceFormat: format,
			Opaque:       nrgba.Opaque(),
		},
		format: format,
	}
}

// OutputExt picks the extension for a stego image requested at path.
func (c *Carrier) OutputExt(path string) string {
	if ext := filepath.Ext(path); IsLosslessExt(ext) {
		return ext
	}
	return c.DefaultExt()
}
