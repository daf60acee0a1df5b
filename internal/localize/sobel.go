package localize

import (
	"image"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/pipelog"
	"gocv.io/x/gocv"
)

// sobelSizeRangeFrac and sobelSizeStep bound Phase F's cell-size search:
// ±5% of the current estimate at 0.1px resolution.
const (
	sobelSizeRangeFrac = 0.05
	sobelSizeStep      = 0.1
	sobelOriginRadius  = 4 // px, origin search radius around the current estimate
	sobelPad           = 24
)

// sobelRefine implements Phase F: independent x/y grid-line search against
// Sobel gradient projections. The objective is separable (vertical edges
// only inform x, horizontal edges only inform y), so x and y origins are
// searched independently for each candidate cell size rather than
// jointly, which shrinks the search space by a full dimension.
func sobelRefine(img *boardimage.Image, precise geometry.Region, log *pipelog.Sink) geometry.Region {
	size := precise.CellSize * geometry.Cells
	pad := int(size*0.1) + sobelPad
	box := image.Rect(precise.X-pad, precise.Y-pad, precise.X+int(size)+pad, precise.Y+int(size)+pad).Intersect(img.Bounds())
	if box.Empty() {
		return precise
	}

	gray := img.Gray().Region(box)
	defer gray.Close()

	sobelX := gocv.NewMat()
	defer sobelX.Close()
	gocv.Sobel(gray, &sobelX, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	absX := gocv.NewMat()
	defer absX.Close()
	gocv.ConvertScaleAbs(sobelX, &absX, 1, 0)

	sobelY := gocv.NewMat()
	defer sobelY.Close()
	gocv.Sobel(gray, &sobelY, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)
	absY := gocv.NewMat()
	defer absY.Close()
	gocv.ConvertScaleAbs(sobelY, &absY, 1, 0)

	colSum := columnSums(absX)
	rowSum := rowSums(absY)

	minCell := precise.CellSize * (1 - sobelSizeRangeFrac)
	maxCell := precise.CellSize * (1 + sobelSizeRangeFrac)

	localX := float64(precise.X - box.Min.X)
	localY := float64(precise.Y - box.Min.Y)

	bestTotal := negInf
	var bestCell, bestXOrigin, bestYOrigin float64

	for cs := minCell; cs <= maxCell; cs += sobelSizeStep {
		xScore, xOrigin := bestOrigin(colSum, localX, cs, sobelOriginRadius)
		yScore, yOrigin := bestOrigin(rowSum, localY, cs, sobelOriginRadius)
		total := xScore + yScore
		if total > bestTotal {
			bestTotal = total
			bestCell = cs
			bestXOrigin = xOrigin
			bestYOrigin = yOrigin
		}
	}

	if bestCell == 0 {
		return precise
	}
	bestSize := bestCell * geometry.Cells

	finalX := box.Min.X + roundInt(bestXOrigin)
	finalY := box.Min.Y + roundInt(bestYOrigin)
	refined := clampCandidate(finalX, finalY, roundInt(bestSize), img.Width(), img.Height())
	log.Printf(logTag, "phaseF: sobel region x=%d y=%d size=%.2f gridScore=%.1f", refined.X, refined.Y, bestSize, bestTotal)
	return refined
}

// columnSums sums |Sobel_x| down each column of a single-channel CV_8U mat.
// The mat must be freshly allocated (continuous), so each row starts at
// y*width in the raw byte view.
func columnSums(m gocv.Mat) []float64 {
	w, h := m.Cols(), m.Rows()
	bytes := m.ToBytes()
	sums := make([]float64, w)
	for y := 0; y < h; y++ {
		base := y * w
		for x := 0; x < w; x++ {
			sums[x] += float64(bytes[base+x])
		}
	}
	return sums
}

// rowSums sums |Sobel_y| across each row of a single-channel CV_8U mat.
func rowSums(m gocv.Mat) []float64 {
	w, h := m.Cols(), m.Rows()
	bytes := m.ToBytes()
	sums := make([]float64, h)
	for y := 0; y < h; y++ {
		base := y * w
		var s float64
		for x := 0; x < w; x++ {
			s += float64(bytes[base+x])
		}
		sums[y] = s
	}
	return sums
}

// bestOrigin finds the origin (within ±radius px of startOrigin) that
// maximizes the sum of proj at the 16 expected grid-line positions
// origin + i*cellSize, i=0..15, with the two neighboring pixels of each
// expected position contributing at half weight to soften sub-pixel
// misalignment.
func bestOrigin(proj []float64, startOrigin, cellSize float64, radius int) (float64, float64) {
	best := negInf
	bestOrig := startOrigin
	for d := -radius; d <= radius; d++ {
		origin := startOrigin + float64(d)
		score := gridLineScore(proj, origin, cellSize)
		if score > best {
			best = score
			bestOrig = origin
		}
	}
	return best, bestOrig
}

// gridLineScore sums proj at the 16 expected grid-line positions for a
// given origin and cell size.
func gridLineScore(proj []float64, origin, cellSize float64) float64 {
	total := 0.0
	for i := 0; i <= geometry.Cells; i++ {
		pos := origin + float64(i)*cellSize
		total += sampleHalfWeighted(proj, pos)
	}
	return total
}

// sampleHalfWeighted samples proj at the nearest integer index to pos,
// plus its two neighbors at half weight, clamped to bounds.
func sampleHalfWeighted(proj []float64, pos float64) float64 {
	idx := roundInt(pos)
	total := at(proj, idx)
	total += 0.5 * at(proj, idx-1)
	total += 0.5 * at(proj, idx+1)
	return total
}

func at(proj []float64, idx int) float64 {
	if idx < 0 || idx >= len(proj) {
		return 0
	}
	return proj[idx]
}
