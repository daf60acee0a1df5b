// Package imgcodec decodes arbitrary screenshot bytes (PNG, JPEG, WebP)
// into a standard image.Image, and encodes the debug overlay back to PNG.
// Format dispatch is by signature sniffing rather than a caller-supplied
// format string, since a screenshot's origin (browser export, phone
// capture, chat upload) isn't known in advance.
package imgcodec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/gen2brain/webp"
)

// ErrDecode is returned when the byte signature matches none of the
// supported formats.
type ErrDecode struct {
	Detected string
}

func (e *ErrDecode) Error() string {
	if e.Detected != "" {
		return fmt.Sprintf("imgcodec: could not decode image (sniffed format %q)", e.Detected)
	}
	return "imgcodec: could not decode image (unrecognized format)"
}

// Decode sniffs the byte signature and decodes bytes into an image.Image.
// Supported signatures: PNG, JPEG, WebP (RIFF....WEBP). Bytes with an
// unknown signature return an *ErrDecode; bytes that sniff as a supported
// format but fail to decode return that codec's error, wrapped. Callers
// degrade on either rather than panic.
func Decode(data []byte) (image.Image, string, error) {
	switch sniff(data) {
	case "png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "png", fmt.Errorf("imgcodec: decoding png: %w", err)
		}
		return img, "png", nil
	case "jpeg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "jpeg", fmt.Errorf("imgcodec: decoding jpeg: %w", err)
		}
		return img, "jpeg", nil
	case "webp":
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "webp", fmt.Errorf("imgcodec: decoding webp: %w", err)
		}
		return img, "webp", nil
	default:
		return nil, "", &ErrDecode{}
	}
}

// sniff returns the codec name implied by the file signature, or "".
func sniff(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}):
		return "png"
	case len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff:
		return "jpeg"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	default:
		return ""
	}
}

// EncodePNG encodes img as PNG bytes, used for the debug overlay image.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imgcodec: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
