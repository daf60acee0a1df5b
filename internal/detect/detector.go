// Package detect decides, for each extracted cell, whether a tile sits on
// it: color and contrast heuristics parameterized by the board's visual
// mode and by the cell's premium-square type. Letters are not assigned
// here; that is the classifier's job.
//
// The thresholds are empirically tuned against real screenshots of both
// board themes. Use boardscan-inspect's -survey mode to gather fresh HSV
// samples when a client update shifts the palette.
package detect

import (
	"image"

	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/premium"
	"gocv.io/x/gocv"
)

// centerFraction is the central region sampled for brightness/contrast/HSV.
const centerFraction = 0.6

// Global rejection floor, both modes.
const (
	minBrightness = 80.0
	minContrast   = 8.0
)

// Detect classifies every cell in the grid as occupied or empty, writing
// Occupied and a diagnostic Gate into each CellResult and reading the
// Premium tag already set by cellgrid.New. It does not assign letters;
// that is Stage 4's job.
func Detect(cells cellArray, mode geometry.Mode, grid *cellgrid.Grid) {
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			cell := cells.At(r, c)
			if cell.Empty() {
				grid[r][c].Occupied = false
				grid[r][c].Gate = cellgrid.GateGlobalReject
				continue
			}
			occupied, gate := isTile(cell, mode, grid[r][c].Premium)
			grid[r][c].Occupied = occupied
			grid[r][c].Gate = gate
		}
	}
}

// cellArray is the minimal view detect needs over the extractor's Grid,
// declared as an interface so detect doesn't import extract (which would
// create extract -> boardimage -> detect -> extract-style churn; detect
// only ever needs "the Mat at (r,c)").
type cellArray interface {
	At(row, col int) gocv.Mat
}

// centerRegion returns the central 60% sub-rectangle of a cell Mat.
func centerRegion(cell gocv.Mat) gocv.Mat {
	w, h := cell.Cols(), cell.Rows()
	if w == 0 || h == 0 {
		return gocv.NewMat()
	}
	pad := (1 - centerFraction) / 2
	x0 := int(float64(w) * pad)
	y0 := int(float64(h) * pad)
	x1 := w - x0
	y1 := h - y0
	rect := image.Rect(x0, y0, x1, y1)
	if rect.Empty() {
		return gocv.NewMat()
	}
	return cell.Region(rect)
}

// stats holds the grayscale brightness/contrast and mean HSV of a region.
type stats struct {
	brightness, contrast float64
	h, s, v              float64
}

func measure(region gocv.Mat) stats {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(gray, &meanMat, &stdMat)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)
	chans := gocv.Split(hsv)
	defer func() {
		for _, ch := range chans {
			ch.Close()
		}
	}()

	var hm, sm, vm float64
	if len(chans) == 3 {
		hm = channelMean(chans[0])
		sm = channelMean(chans[1])
		vm = channelMean(chans[2])
	}

	return stats{
		brightness: meanMat.GetDoubleAt(0, 0),
		contrast:   stdMat.GetDoubleAt(0, 0),
		h:          hm, s: sm, v: vm,
	}
}

func channelMean(m gocv.Mat) float64 {
	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(m, &meanMat, &stdMat)
	return meanMat.GetDoubleAt(0, 0)
}

// isTile applies the mode-specific gates to one cell and returns whether
// it is occupied, plus which gate decided it (for debug tooling).
func isTile(cell gocv.Mat, mode geometry.Mode, tag premium.Tag) (bool, cellgrid.Gate) {
	center := centerRegion(cell)
	defer center.Close()
	if center.Empty() {
		return false, cellgrid.GateGlobalReject
	}

	st := measure(center)
	if st.brightness < minBrightness || st.contrast < minContrast {
		return false, cellgrid.GateGlobalReject
	}

	if mode == geometry.Dark {
		return isTileDark(st)
	}
	return isTileLight(st, tag)
}

func isTileDark(st stats) (bool, cellgrid.Gate) {
	isBeige := st.h >= 8 && st.h <= 40 && st.s >= 15 && st.s <= 140 && st.v > 140
	isCream := st.s < 30 && st.v > 180
	isGold := st.h >= 15 && st.h <= 45 && st.s > 100 && st.v > 160
	if (isBeige || isCream || isGold) && st.contrast > 15 {
		switch {
		case isBeige:
			return true, cellgrid.GateBeige
		case isCream:
			return true, cellgrid.GateCream
		default:
			return true, cellgrid.GateGold
		}
	}
	// Recently-played tiles: low-saturation blue/purple tint, needs a
	// higher contrast bar since the tint is subtle against the felt.
	// H is OpenCV's 0-179 scale; blue/purple sits around 100-150.
	isRecentlyPlayed := st.h >= 100 && st.h <= 150 && st.s < 80
	if isRecentlyPlayed && st.contrast > 40 {
		return true, cellgrid.GateRecentlyPlayed
	}
	return false, cellgrid.GateNone
}

func isTileLight(st stats, tag premium.Tag) (bool, cellgrid.Gate) {
	// DW/TW squares are pink/red in light mode; a cell whose background
	// still reads that color at the center clearly has no tile on it.
	// H is OpenCV's 0-179 scale; pink/red wraps around 0, sitting above
	// ~150 or below ~10.
	isPink := (st.h >= 150 || st.h <= 10) && st.s > 40 && st.v > 180
	if isPink {
		return false, cellgrid.GatePinkReject
	}

	isBeige := st.h >= 8 && st.h <= 45 && st.s >= 15 && st.s <= 100 && st.v > 140
	isGold := st.h >= 8 && st.h <= 45 && st.s > 60 && st.v > 160
	if (isBeige || isGold) && st.contrast > 15 {
		if isGold {
			return true, cellgrid.GateGold
		}
		return true, cellgrid.GateBeige
	}

	isRecentlyPlayed := st.h >= 78 && st.h <= 150 && st.s > 30 && st.v > 80
	isTooltipBanner := st.s < 70 && st.v > 210
	if isRecentlyPlayed && !isTooltipBanner && st.contrast > 30 {
		if tag == premium.DL || tag == premium.TL {
			// Empty DL/TL squares are brighter than any played tile;
			// 163 sits in the empirical gap between the two populations
			// and may need re-tuning for new client versions.
			if st.v >= 163 {
				return false, cellgrid.GateDLTLBrightReject
			}
		}
		return true, cellgrid.GateRecentlyPlayed
	}
	if isTooltipBanner {
		return false, cellgrid.GateTooltipReject
	}
	return false, cellgrid.GateNone
}
