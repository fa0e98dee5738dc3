// Package imgformat classifies image bytes and converts them into formats the
// PDF writer can embed.
package imgformat

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register decoder for Dimensions
	_ "image/jpeg" // register decoder for Dimensions
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrDecode indicates image bytes could not be decoded for conversion.
var ErrDecode = errors.New("image decode failed")

// Format is one of the supported raster formats.
type Format string

// Supported formats.
const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	WEBP Format = "webp"
	BMP  Format = "bmp"
)

// Default is assumed when neither a tag nor the content identifies the format.
const Default = JPEG

// FromTag maps a media type ("image/png", "image/jpg; charset=binary") or a
// bare format name to a Format.
func FromTag(tag string) (Format, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexByte(tag, ';'); i >= 0 {
		tag = strings.TrimSpace(tag[:i])
	}
	tag = strings.TrimPrefix(tag, "image/")
	switch tag {
	case "jpeg", "jpg", "pjpeg":
		return JPEG, true
	case "png", "x-png":
		return PNG, true
	case "gif":
		return GIF, true
	case "webp":
		return WEBP, true
	case "bmp", "x-bmp", "x-ms-bmp":
		return BMP, true
	}
	return "", false
}

// FromMagic identifies a format from leading bytes.
func FromMagic(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG, true
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG, true
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return GIF, true
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return WEBP, true
	case bytes.HasPrefix(data, []byte("BM")):
		return BMP, true
	}
	return "", false
}

// Sniff classifies an image. An explicit tag wins over magic bytes, which win
// over the default. Sniff never fails.
func Sniff(data []byte, tag string) Format {
	if f, ok := FromTag(tag); ok {
		return f
	}
	if f, ok := FromMagic(data); ok {
		return f
	}
	return Default
}

// MediaType returns the MIME type for f.
func MediaType(f Format) string {
	if f == "" {
		f = Default
	}
	return "image/" + string(f)
}

// PDFType returns the image type name the PDF writer expects.
func PDFType(f Format) string {
	switch f {
	case PNG, WEBP, BMP:
		return "PNG"
	case GIF:
		return "GIF"
	default:
		return "JPG"
	}
}

// Normalize returns bytes the PDF writer can embed. WEBP and BMP are decoded
// and re-encoded as PNG, as are PNGs the writer rejects (interlaced or 16-bit).
// Other formats pass through untouched.
func Normalize(data []byte, f Format) ([]byte, Format, error) {
	switch f {
	case WEBP:
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: webp: %v", ErrDecode, err)
		}
		return encodePNG(img)
	case BMP:
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: bmp: %v", ErrDecode, err)
		}
		return encodePNG(img)
	case PNG:
		if !needsReencode(data) {
			return data, PNG, nil
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: png: %v", ErrDecode, err)
		}
		return encodePNG(img)
	}
	return data, f, nil
}

// needsReencode inspects the PNG IHDR chunk: bit depth at offset 24,
// interlace method at offset 28.
func needsReencode(data []byte) bool {
	if len(data) < 29 {
		return false
	}
	return data[24] > 8 || data[28] != 0
}

func encodePNG(img image.Image) ([]byte, Format, error) {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, "", fmt.Errorf("%w: png encode: %v", ErrDecode, err)
	}
	return buf.Bytes(), PNG, nil
}

// Dimensions returns the pixel size of an image in a supported format.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}
