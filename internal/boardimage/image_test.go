package boardimage

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFromImage_RejectsEmptyImage(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if err == nil {
		t.Fatal("expected an error for a zero-size image")
	}
}

func TestFromImage_DimensionsPreserved(t *testing.T) {
	bi, err := FromImage(solidImage(321, 234, color.RGBA{R: 1, G: 2, B: 3, A: 255}))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()
	if bi.Width() != 321 || bi.Height() != 234 {
		t.Errorf("dims = %dx%d, want 321x234", bi.Width(), bi.Height())
	}
}

func TestHSVAt_BrightWhiteHasHighValueLowSaturation(t *testing.T) {
	bi, err := FromImage(solidImage(200, 200, color.RGBA{R: 250, G: 250, B: 250, A: 255}))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()

	_, s, v := bi.HSVAt(100, 100, 10)
	if v < 240 {
		t.Errorf("bright white patch should have V near 255, got %.1f", v)
	}
	if s > 20 {
		t.Errorf("white patch should have low saturation, got %.1f", s)
	}
}

func TestGrayStats_UniformRegionHasZeroContrast(t *testing.T) {
	bi, err := FromImage(solidImage(200, 200, color.RGBA{R: 128, G: 128, B: 128, A: 255}))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()

	mean, stddev := bi.GrayStats(image.Rect(50, 50, 150, 150))
	if stddev > 1 {
		t.Errorf("uniform gray region should have ~0 stddev, got %.2f", stddev)
	}
	if mean < 120 || mean > 136 {
		t.Errorf("mean gray should be close to 128, got %.1f", mean)
	}
}

func TestGray_StableAcrossRepeatedCalls(t *testing.T) {
	bi, err := FromImage(solidImage(50, 50, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()

	g1 := bi.Gray()
	g2 := bi.Gray()
	if g1.Cols() != g2.Cols() || g1.Rows() != g2.Rows() {
		t.Error("Gray() should return a consistent view on repeated calls")
	}
}
