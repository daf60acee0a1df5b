// Package extract carves a detected board region into 225
// independently-owned cell images with an 8% inward inset.
package extract

import (
	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"gocv.io/x/gocv"
)

// Inset is the fraction of a cell's width/height trimmed from each edge to
// exclude grid lines and anti-aliased boundaries.
const Inset = 0.08

// Grid holds the 225 owned cell crops for one board processing call. Cells
// live only for the duration of a single call; callers must call Close.
type Grid struct {
	cells [geometry.Cells][geometry.Cells]gocv.Mat
}

// Close releases every cell Mat in the grid.
func (g *Grid) Close() {
	for r := 0; r < geometry.Cells; r++ {
		for c := 0; c < geometry.Cells; c++ {
			if !g.cells[r][c].Empty() {
				g.cells[r][c].Close()
			}
		}
	}
}

// At returns the owned crop for (row, col). It may be empty if the cell
// rectangle clipped to nothing against the source image bounds.
func (g *Grid) At(row, col int) gocv.Mat {
	return g.cells[row][col]
}

// Extract crops img into a 225-cell Grid aligned to region.
func Extract(img *boardimage.Image, region geometry.Region) *Grid {
	g := &Grid{}
	bounds := img.Bounds()
	for row := 0; row < geometry.Cells; row++ {
		for col := 0; col < geometry.Cells; col++ {
			rect := region.InsetCellRect(row, col, Inset, bounds)
			if rect.Empty() {
				g.cells[row][col] = gocv.NewMat()
				continue
			}
			view := img.Region(rect)
			g.cells[row][col] = view.Clone()
			view.Close()
		}
	}
	return g
}
