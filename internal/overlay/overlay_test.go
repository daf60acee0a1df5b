package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
)

func TestDraw_PreservesImageDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 50, G: 60, B: 70, A: 255})
		}
	}
	bi, err := boardimage.FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()

	region := geometry.Region{X: 10, Y: 10, Width: 200, Height: 200, CellSize: 200.0 / 15}
	out, err := Draw(bi, region)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("overlay dims = %dx%d, want 400x300", b.Dx(), b.Dy())
	}
}

func TestDraw_ZeroWidthRegionSkipsGridLines(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	bi, err := boardimage.FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer bi.Close()

	region := geometry.Region{}
	if _, err := Draw(bi, region); err != nil {
		t.Fatalf("Draw on a zero-width region should not error, got %v", err)
	}
}
