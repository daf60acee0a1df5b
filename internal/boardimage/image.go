// Package boardimage holds the pipeline's shared image representation: a
// BGR raster plus two lazily-computed derived views (grayscale and HSV)
// that every stage re-reads instead of recomputing.
package boardimage

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"gocv.io/x/gocv"
)

// Image is a BGR raster (OpenCV's native channel order) with process-owned
// grayscale and HSV views computed at most once and shared by every stage
// that reads through Gray() or HSV().
type Image struct {
	mat  gocv.Mat
	w, h int

	grayOnce sync.Once
	gray     gocv.Mat

	hsvOnce sync.Once
	hsv     gocv.Mat
}

// FromImage converts a decoded image.Image (any color model) into a BGR
// Image. The conversion always goes through image.RGBA so paletted, gray,
// and CMYK sources behave the same as true-color ones.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("boardimage: empty image (%dx%d)", w, h)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("boardimage: wrapping decoded pixels: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	if err := gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR); err != nil {
		bgr.Close()
		return nil, fmt.Errorf("boardimage: converting to BGR: %w", err)
	}

	return &Image{mat: bgr, w: w, h: h}, nil
}

// Close releases every view this Image has computed, including the lazily
// built Gray/HSV ones. Safe to call even if a view was never requested.
func (im *Image) Close() {
	im.mat.Close()
	if !im.gray.Empty() {
		im.gray.Close()
	}
	if !im.hsv.Empty() {
		im.hsv.Close()
	}
}

// Mat returns the underlying BGR raster. Callers must not close it; use
// Image.Close to release the whole Image including its derived views.
func (im *Image) Mat() gocv.Mat { return im.mat }

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.w }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.h }

// Bounds returns the full-image rectangle, (0,0)-(w,h).
func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.w, im.h) }

// Gray returns the single-channel grayscale view, computing it on first use
// and caching it for the lifetime of the Image.
func (im *Image) Gray() gocv.Mat {
	im.grayOnce.Do(func() {
		im.gray = gocv.NewMat()
		gocv.CvtColor(im.mat, &im.gray, gocv.ColorBGRToGray)
	})
	return im.gray
}

// HSV returns the 3-channel HSV view, computing it on first use and caching
// it for the lifetime of the Image. OpenCV's HSV ranges are H in [0,180),
// S and V in [0,255].
func (im *Image) HSV() gocv.Mat {
	im.hsvOnce.Do(func() {
		im.hsv = gocv.NewMat()
		gocv.CvtColor(im.mat, &im.hsv, gocv.ColorBGRToHSV)
	})
	return im.hsv
}

// Region returns a BGR sub-image view over rect, clamped to the image
// bounds. The returned Mat shares memory with the parent and must be
// closed independently of it (gocv.Mat.Region semantics).
func (im *Image) Region(rect image.Rectangle) gocv.Mat {
	rect = rect.Intersect(im.Bounds())
	if rect.Empty() {
		return gocv.NewMat()
	}
	return im.mat.Region(rect)
}

// HSVAt samples the mean HSV over a small square block (2*radius+1 wide)
// centered at (cx, cy), clamped to the image bounds. Used throughout the
// localizer's coarse/fine/precision scorers, which sample per-cell blocks
// rather than single pixels to be robust to anti-aliasing and JPEG noise.
func (im *Image) HSVAt(cx, cy, radius int) (h, s, v float64) {
	rect := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1).Intersect(im.Bounds())
	if rect.Empty() {
		return 0, 0, 0
	}
	block := im.HSV().Region(rect)
	defer block.Close()

	chans := gocv.Split(block)
	defer func() {
		for _, c := range chans {
			c.Close()
		}
	}()
	if len(chans) != 3 {
		return 0, 0, 0
	}
	return channelMean(chans[0]), channelMean(chans[1]), channelMean(chans[2])
}

func channelMean(m gocv.Mat) float64 {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(m, &mean, &stddev)
	return mean.GetDoubleAt(0, 0)
}

// GrayStats returns the mean brightness and standard deviation (contrast)
// of the grayscale view restricted to rect.
func (im *Image) GrayStats(rect image.Rectangle) (mean, stddev float64) {
	rect = rect.Intersect(im.Bounds())
	if rect.Empty() {
		return 0, 0
	}
	block := im.Gray().Region(rect)
	defer block.Close()

	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(block, &meanMat, &stdMat)
	return meanMat.GetDoubleAt(0, 0), stdMat.GetDoubleAt(0, 0)
}
