// Package localize finds the board's axis-aligned pixel rectangle and
// cell size, and classifies its visual mode. It is the largest package in
// the pipeline: a coarse-to-fine search that fuses a premium-square color
// prior (Phases C-E) with Sobel grid-line projection (Phase F). The
// phases narrow progressively: contour rough-framing, mode detection,
// coarse and fine pattern-grid sweeps, a parallel 1px precision sweep,
// and finally sub-pixel grid-line refinement.
package localize

import (
	"image"
	"math"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/pipelog"
	"gocv.io/x/gocv"
)

// logTag is the bracket tag this package's Sink lines carry.
const logTag = "localize"

// Localize runs Phases A-F against img and returns a best-effort
// Region. It never fails: a garbage image still produces a Region with
// Found=true, and detection quality is only reported through log.
func Localize(img *boardimage.Image, log *pipelog.Sink) geometry.Region {
	window := roughSearchWindow(img, log)
	mode := detectMode(img, window, log)

	coarse := coarseSearch(img, window, mode, log)
	fine := fineSearch(img, coarse, mode, log)
	precise := precisionSweep(img, fine, mode, log)
	final := sobelRefine(img, precise, log)

	final.Found = true
	final.Mode = mode
	log.Printf(logTag, "final region x=%d y=%d size=%.2f mode=%s", final.X, final.Y, final.CellSize, mode)
	return final
}

// mobileAspectThreshold is the height/width ratio above which a screenshot
// is treated as a mobile capture: UI chrome (header, rack, nav bar) is
// prominent enough that contour search tends to lock onto it instead of
// the board.
const mobileAspectThreshold = 1.5

// searchMinAreaFrac and searchAspectRange bound which contour Phase A will
// accept as the rough board window.
const searchMinAreaFrac = 0.04

var searchAspectRange = [2]float64{0.6, 1.6}

// roughSearchWindow implements Phase A: Canny + dilate + external contours,
// picking the largest axis-aligned bounding rectangle that plausibly holds
// a square board. Tall (mobile) screenshots skip contour search entirely
// and use a fixed upper-portion rectangle instead, since on a phone the
// header/chrome contours usually dominate.
func roughSearchWindow(img *boardimage.Image, log *pipelog.Sink) image.Rectangle {
	w, h := img.Width(), img.Height()
	if h > 0 && float64(h)/float64(w) > mobileAspectThreshold {
		// The board sits in the upper portion of a mobile screenshot,
		// below a thin status/header strip and above the rack.
		top := int(float64(h) * 0.08)
		win := image.Rect(0, top, w, top+w)
		log.Printf(logTag, "phaseA: mobile aspect %.2f, using fixed window %v", float64(h)/float64(w), win)
		return win.Intersect(img.Bounds())
	}

	gray := img.Gray()
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(edges, &dilated, kernel)

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imgArea := float64(w * h)
	var best image.Rectangle
	bestArea := 0
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		area := rect.Dx() * rect.Dy()
		if float64(area) < searchMinAreaFrac*imgArea {
			continue
		}
		aspect := float64(rect.Dx()) / float64(rect.Dy())
		if aspect < searchAspectRange[0] || aspect > searchAspectRange[1] {
			continue
		}
		if area > bestArea {
			bestArea = area
			best = rect
		}
	}

	if best.Empty() {
		log.Printf(logTag, "phaseA: no qualifying contour, using full image")
		return img.Bounds()
	}
	log.Printf(logTag, "phaseA: rough window %v (area frac %.3f)", best, float64(bestArea)/imgArea)
	return best
}

// modeBrightnessThreshold is the mean-V cutoff between light and dark
// board themes.
const modeBrightnessThreshold = 170.0

// detectMode implements Phase B: sample mean V at the four quadrant
// centers plus the geometric center of the search window, and classify
// light vs dark by whether the average exceeds modeBrightnessThreshold.
func detectMode(img *boardimage.Image, window image.Rectangle, log *pipelog.Sink) geometry.Mode {
	w, h := window.Dx(), window.Dy()
	if w <= 0 || h <= 0 {
		return geometry.Dark
	}
	points := []image.Point{
		{window.Min.X + w/4, window.Min.Y + h/4},
		{window.Min.X + 3*w/4, window.Min.Y + h/4},
		{window.Min.X + w/4, window.Min.Y + 3*h/4},
		{window.Min.X + 3*w/4, window.Min.Y + 3*h/4},
		{window.Min.X + w/2, window.Min.Y + h/2},
	}
	radius := w / 40
	if radius < 2 {
		radius = 2
	}
	var total float64
	for _, pt := range points {
		_, _, v := img.HSVAt(pt.X, pt.Y, radius)
		total += v
	}
	avg := total / float64(len(points))
	mode := geometry.Dark
	if avg > modeBrightnessThreshold {
		mode = geometry.Light
	}
	log.Printf(logTag, "phaseB: mean V=%.1f -> %s mode", avg, mode)
	return mode
}

// clampCandidate turns a raw (x, y, size) triple into a geometry.Region
// clamped fully inside the image, used by every search phase so no
// intermediate candidate escapes the image bounds mid-sweep.
func clampCandidate(x, y, size, imgW, imgH int) geometry.Region {
	return geometry.Clamp(x, y, size, imgW, imgH)
}

func roundInt(f float64) int { return int(math.Round(f)) }
