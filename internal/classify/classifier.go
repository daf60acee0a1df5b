// Package classify implements per-cell letter identification via template
// matching against the glyph atlas, blank-tile detection, and the global
// tile-distribution refinement pass.
package classify

import (
	"image"
	"sort"

	"github.com/scrabblevision/boardscan/internal/atlas"
	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/tiledist"
	"gocv.io/x/gocv"
)

// acceptThreshold is the minimum top template score to assign a concrete
// letter; below it a cell falls through to '?'.
const acceptThreshold = 0.20

// blankStddevThreshold is the bottom-right-quadrant contrast below which an
// already-lettered cell is reclassified as a blank tile.
const blankStddevThreshold = 12.0

// cellSource is the minimal view classify needs over the extractor's Grid.
type cellSource interface {
	At(row, col int) gocv.Mat
}

// Classify assigns a letter (or '?') to every occupied cell in grid, using
// normalized cross-correlation against at.Template(letter), then runs the
// distribution-aware refinement pass. If at is nil (font unavailable),
// every occupied cell is set to '?' without running refinement.
func Classify(cells cellSource, at *atlas.Atlas, grid *cellgrid.Grid) {
	haveAtlas := at != nil && at.Ready()
	for r := 0; r < len(grid); r++ {
		for c := 0; c < len(grid[r]); c++ {
			cell := &grid[r][c]
			if !cell.Occupied {
				continue
			}
			if !haveAtlas {
				cell.Letter = '?'
				continue
			}
			matchCell(cells.At(r, c), at, cell)
		}
	}
	if haveAtlas {
		Refine(grid)
	}
}

// matchCell normalizes a cell crop and scores it against every template,
// recording the top-5 candidates and the accepted letter.
func matchCell(cell gocv.Mat, at *atlas.Atlas, result *cellgrid.CellResult) {
	if cell.Empty() {
		result.Letter = '?'
		return
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(cell, &resized, image.Pt(atlas.TileSize, atlas.TileSize), 0, 0, gocv.InterpolationCubic)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)

	if meanOf(gray) < 128 {
		inv := gocv.NewMat()
		gocv.BitwiseNot(gray, &inv)
		gray.Close()
		gray = inv
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	candidates := make([]cellgrid.Candidate, 0, 26)
	for i := 0; i < 26; i++ {
		letter := byte('A' + i)
		tmpl := at.Template(letter)
		if tmpl.Empty() {
			continue
		}
		score := matchScore(blurred, tmpl)
		candidates = append(candidates, cellgrid.Candidate{Letter: letter, Score: score})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	result.Candidates = candidates

	if len(candidates) == 0 || candidates[0].Score < acceptThreshold {
		result.Letter = '?'
		result.Confidence = 0
		if len(candidates) > 0 {
			result.Confidence = candidates[0].Score
		}
		return
	}

	result.Letter = candidates[0].Letter
	result.Confidence = candidates[0].Score
	result.PointValue = tiledist.PointValueOf(result.Letter)
	detectBlank(blurred, result)
}

func matchScore(img, tmpl gocv.Mat) float64 {
	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(img, tmpl, &res, gocv.TmCcoeffNormed, mask)
	_, maxVal, _, _ := gocv.MinMaxLoc(res)
	return float64(maxVal)
}

func meanOf(m gocv.Mat) float64 {
	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(m, &meanMat, &stdMat)
	return meanMat.GetDoubleAt(0, 0)
}

// detectBlank reclassifies an already-lettered cell as a blank tile if its
// bottom-right quadrant (the point-value subscript position) lacks
// contrast, i.e. no subscript was printed. The letter must already be
// assigned before this runs: a blank is recorded by lowercasing the
// letter in place (the serializer writes Letter verbatim) and zeroing
// PointValue, since a blank scores nothing.
func detectBlank(normalized gocv.Mat, result *cellgrid.CellResult) {
	w, h := normalized.Cols(), normalized.Rows()
	quad := normalized.Region(image.Rect(w/2, h/2, w, h))
	defer quad.Close()
	_, stddev := grayStats(quad)
	if stddev < blankStddevThreshold {
		result.Blank = true
		result.Letter = result.Letter - 'A' + 'a'
		result.PointValue = 0
	}
}

func grayStats(m gocv.Mat) (mean, stddev float64) {
	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(m, &meanMat, &stdMat)
	return meanMat.GetDoubleAt(0, 0), stdMat.GetDoubleAt(0, 0)
}
