package localize

import (
	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/pipelog"
)

// retrySteps is the sample density of the widened retry sweep; coarser
// than Phase C since this only needs to escape a badly mis-framed Phase A
// window, not find pixel precision.
const retrySteps = 12

// Retry re-runs a widened position/size sweep around prev using the
// premium-center scorer: when classification leaves too many cells
// unidentified, localization gets one widened retry rather than trusting
// its first (possibly badly mis-framed) answer. The mode is carried over
// from prev rather than re-detected, since Phase B only needs to run once
// per image.
func Retry(img *boardimage.Image, prev geometry.Region, log *pipelog.Sink) geometry.Region {
	size := prev.CellSize * geometry.Cells
	rng := 2 * prev.CellSize
	if rng < 60 {
		rng = 60
	}

	best, score := searchGrid(img, prev.Mode, premiumCenterScore,
		size-rng, size+rng, retrySteps,
		float64(prev.X)-rng, float64(prev.X)+rng, float64(prev.Y)-rng, float64(prev.Y)+rng, retrySteps)

	if best.Width == 0 {
		return prev
	}
	best.Mode = prev.Mode
	refined := sobelRefine(img, best, log)
	refined.Mode = prev.Mode
	refined.Found = true
	log.Printf(logTag, "retry: widened region x=%d y=%d size=%.1f score=%.1f", refined.X, refined.Y, refined.CellSize*geometry.Cells, score)
	return refined
}
