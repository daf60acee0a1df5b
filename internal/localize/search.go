package localize

import (
	"image"
	"math"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/pipelog"
)

// coarseSizeSteps and coarseXYSteps are Phase C's 15x20x20 sample
// counts over (size, x, y).
const (
	coarseSizeSteps = 15
	coarseXYSteps   = 20
)

// fineWindowSteps is how many coarse steps on either side of the coarse
// estimate Phase D re-searches, at 1/3 the coarse step size.
const fineWindowSteps = 2
const fineStepDivisor = 3

// scorer scores a candidate region; dark mode uses the premium-center
// scorer throughout Phases C-E, light mode switches to the edge-spillover
// scorer only in Phase E.
type scorer func(img *boardimage.Image, region geometry.Region, mode geometry.Mode) float64

// searchGrid sweeps size in [minSize, maxSize] over sizeSteps values and,
// for each size, sweeps (x, y) independently over xySteps values each,
// scoring every (size, x, y) candidate with score and returning the best.
// This is the shared engine behind Phase C's coarse search, Phase D's
// narrow re-search, and the widened retry.
func searchGrid(img *boardimage.Image, mode geometry.Mode, score scorer,
	minSize, maxSize float64, sizeSteps int, xMin, xMax float64, yMin, yMax float64, xySteps int) (geometry.Region, float64) {

	imgW, imgH := img.Width(), img.Height()
	var best geometry.Region
	bestScore := math.Inf(-1)

	if sizeSteps < 1 {
		sizeSteps = 1
	}
	if xySteps < 1 {
		xySteps = 1
	}

	for si := 0; si < sizeSteps; si++ {
		size := minSize
		if sizeSteps > 1 {
			size = minSize + (maxSize-minSize)*float64(si)/float64(sizeSteps-1)
		}
		for xi := 0; xi < xySteps; xi++ {
			x := xMin
			if xySteps > 1 {
				x = xMin + (xMax-xMin)*float64(xi)/float64(xySteps-1)
			}
			for yi := 0; yi < xySteps; yi++ {
				y := yMin
				if xySteps > 1 {
					y = yMin + (yMax-yMin)*float64(yi)/float64(xySteps-1)
				}
				cand := clampCandidate(roundInt(x), roundInt(y), roundInt(size), imgW, imgH)
				if cand.Width == 0 {
					continue
				}
				s := score(img, cand, mode)
				if s > bestScore {
					bestScore = s
					best = cand
				}
			}
		}
	}
	return best, bestScore
}

// coarseSearch implements Phase C: a grid of candidate rectangles over the
// search window, scored by the premium-center scorer.
func coarseSearch(img *boardimage.Image, window image.Rectangle, mode geometry.Mode, log *pipelog.Sink) geometry.Region {
	minDim := window.Dx()
	if window.Dy() < minDim {
		minDim = window.Dy()
	}
	minSize := float64(minDim) * 0.5
	maxSize := float64(minDim)

	best, score := searchGrid(img, mode, premiumCenterScore,
		minSize, maxSize, coarseSizeSteps,
		float64(window.Min.X), float64(window.Max.X)-minSize, float64(window.Min.Y), float64(window.Max.Y)-minSize,
		coarseXYSteps)

	log.Printf(logTag, "phaseC: coarse region x=%d y=%d size=%.1f score=%.1f", best.X, best.Y, best.CellSize*geometry.Cells, score)
	return best
}

// fineSearch implements Phase D: re-score a narrow window around the
// coarse estimate (±2 coarse position/size steps) at 1/3 the coarse step.
func fineSearch(img *boardimage.Image, coarse geometry.Region, mode geometry.Mode, log *pipelog.Sink) geometry.Region {
	size := coarse.CellSize * geometry.Cells
	sizeStep := size / float64(coarseSizeSteps) / float64(fineStepDivisor)
	xyStep := size / float64(coarseXYSteps) / float64(fineStepDivisor)

	// sizeStep and xyStep are fine steps; the window spans fineWindowSteps
	// coarse steps, i.e. fineWindowSteps*fineStepDivisor fine steps per side.
	reach := float64(fineWindowSteps * fineStepDivisor)
	minSize := size - sizeStep*reach
	maxSize := size + sizeStep*reach
	xMin := float64(coarse.X) - xyStep*reach
	xMax := float64(coarse.X) + xyStep*reach
	yMin := float64(coarse.Y) - xyStep*reach
	yMax := float64(coarse.Y) + xyStep*reach

	steps := fineWindowSteps*fineStepDivisor*2 + 1
	best, score := searchGrid(img, mode, premiumCenterScore,
		minSize, maxSize, steps, xMin, xMax, yMin, yMax, steps)

	if best.Width == 0 {
		return coarse
	}
	log.Printf(logTag, "phaseD: fine region x=%d y=%d size=%.1f score=%.1f", best.X, best.Y, best.CellSize*geometry.Cells, score)
	return best
}
