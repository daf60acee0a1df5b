// Package overlay draws the detected board rectangle and 15x15 grid lines
// onto a copy of the original image, producing the DebugResult overlay PNG.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"gocv.io/x/gocv"
)

var (
	rectColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	gridColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

const (
	rectThickness = 3
	gridThickness = 1
)

// Draw renders region's rectangle and grid lines onto a clone of img and
// returns the result as an image.Image ready for PNG encoding. Leaves the
// source image untouched.
func Draw(img *boardimage.Image, region geometry.Region) (image.Image, error) {
	canvas := img.Mat().Clone()
	defer canvas.Close()

	rect := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	gocv.Rectangle(&canvas, rect, rectColor, rectThickness)

	if region.Width > 0 {
		for i := 1; i < geometry.Cells; i++ {
			x := region.GridLineX(i)
			gocv.Line(&canvas, image.Pt(x, region.Y), image.Pt(x, region.Y+region.Height), gridColor, gridThickness)
		}
		for i := 1; i < geometry.Cells; i++ {
			y := region.GridLineY(i)
			gocv.Line(&canvas, image.Pt(region.X, y), image.Pt(region.X+region.Width, y), gridColor, gridThickness)
		}
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	if err := gocv.CvtColor(canvas, &rgba, gocv.ColorBGRToRGBA); err != nil {
		return nil, fmt.Errorf("overlay: converting to RGBA: %w", err)
	}

	out, err := rgba.ToImage()
	if err != nil {
		return nil, fmt.Errorf("overlay: converting mat to image.Image: %w", err)
	}
	return out, nil
}
