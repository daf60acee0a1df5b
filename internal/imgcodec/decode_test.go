package imgcodec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func TestDecode_PNGRoundTrip(t *testing.T) {
	data, err := EncodePNG(testImage(40, 30))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("decoded dims = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(32, 32), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	_, format, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
}

func TestDecode_GarbageReturnsErrDecode(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an image"))
	var de *ErrDecode
	if !errors.As(err, &de) {
		t.Fatalf("Decode(garbage) error = %v, want *ErrDecode", err)
	}
}

func TestDecode_EmptyBytes(t *testing.T) {
	_, _, err := Decode(nil)
	if err == nil {
		t.Fatal("Decode(nil) should fail")
	}
}

func TestDecode_TruncatedPNGFails(t *testing.T) {
	data, err := EncodePNG(testImage(20, 20))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	_, format, err := Decode(data[:len(data)/2])
	if err == nil {
		t.Fatal("a truncated PNG should fail to decode")
	}
	if format != "png" {
		t.Errorf("truncated PNG should still sniff as png, got %q", format)
	}
}

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0}, "png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, "jpeg"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), "webp"},
		{"riff-not-webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WAVE")...), ""},
		{"short", []byte{0x89}, ""},
	}
	for _, c := range cases {
		if got := sniff(c.data); got != c.want {
			t.Errorf("sniff(%s) = %q, want %q", c.name, got, c.want)
		}
	}
}
