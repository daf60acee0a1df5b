package localize

import (
	"image"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/premium"
)

// bgColor is a coarse background-color bucket sampled at a premium-square
// center or edge, used only for alignment scoring.
// It is deliberately coarser than the detector's tile-vs-background gates
// in internal/detect, which classify an actual tile; this only answers
// "does this patch of felt/board look like the color this square should
// be if the grid is aligned here".
type bgColor int

const (
	bgUnknown bgColor = iota
	bgWhite
	bgRed
	bgPink
	bgBlue
	bgLightBlue
	bgGreen
)

// cornerWeight is the scoring weight for the four TW corners, the most
// reliable landmarks since they are rarely covered by a tile.
const cornerWeight = 10.0

// blockRadiusFrac is the sampling block radius as a fraction of cell
// size, used by the coarse/fine/dark-precision center scorer.
const blockRadiusFrac = 0.15

// edgeInsetFrac is how far inward from a cell's boundary the light-mode
// edge-spillover scorer samples.
const edgeInsetFrac = 0.12

// classifyBG buckets a sampled HSV triple into a background color class,
// or bgUnknown if it matches none of the expected premium-square palette.
// H is OpenCV's 0-179 scale, S/V are 0-255.
func classifyBG(h, s, v float64) bgColor {
	switch {
	case s < 30 && v > 200:
		return bgWhite
	case (h < 8 || h > 170) && s > 90 && v > 90:
		return bgRed
	case h >= 150 && h <= 170 && s >= 40 && s <= 140 && v > 140:
		return bgPink
	case h >= 100 && h <= 130 && s > 90 && v > 70:
		return bgBlue
	case h >= 90 && h < 100 && s >= 30 && s <= 110 && v > 140:
		return bgLightBlue
	case h >= 55 && h <= 95 && s >= 35 && s <= 190 && v >= 30 && v <= 160:
		return bgGreen
	default:
		return bgUnknown
	}
}

// expectedBG maps a premium tag to the background color it should show
// when the board isn't covered by a tile, mode-specific since dark boards
// show green felt where light boards show white/cream.
func expectedBG(tag premium.Tag, mode geometry.Mode) bgColor {
	switch tag {
	case premium.TW, premium.Center:
		return bgRed
	case premium.DW:
		return bgPink
	case premium.TL:
		return bgBlue
	case premium.DL:
		return bgLightBlue
	default:
		if mode == geometry.Dark {
			return bgGreen
		}
		return bgWhite
	}
}

// looksLikeTile reports whether a sampled HSV point looks like it has a
// tile sitting on it rather than bare board felt. Phase C rejects such
// cells from scoring: a covered square carries no alignment information.
func looksLikeTile(h, s, v float64, mode geometry.Mode) bool {
	if mode == geometry.Dark {
		isBeige := h >= 8 && h <= 40 && s >= 15 && s <= 140 && v > 140
		isCream := s < 30 && v > 180
		isGold := h >= 15 && h <= 45 && s > 100 && v > 160
		return isBeige || isCream || isGold
	}
	isBeigeGold := h >= 8 && h <= 45 && s >= 15 && v > 140
	isRecentlyPlayed := h >= 78 && h <= 150 && s > 30 && v > 80
	return isBeigeGold || isRecentlyPlayed
}

// premiumCenterScore sums per-cell alignment votes: for every premium
// cell whose sampled center doesn't look like a tile, reward the expected
// background color and penalize anything else, weighting TW corners 10x.
func premiumCenterScore(img *boardimage.Image, region geometry.Region, mode geometry.Mode) float64 {
	score := 0.0
	radius := int(region.CellSize * blockRadiusFrac)
	if radius < 1 {
		radius = 1
	}
	for r := 0; r < geometry.Cells; r++ {
		for c := 0; c < geometry.Cells; c++ {
			tag := premium.At(r, c)
			cx, cy := region.CellCenter(r, c)
			h, s, v := img.HSVAt(cx, cy, radius)
			if looksLikeTile(h, s, v, mode) {
				continue
			}
			weight := 1.0
			if premium.IsCorner(r, c) {
				weight = cornerWeight
			}
			if classifyBG(h, s, v) == expectedBG(tag, mode) {
				score += weight
			} else {
				score -= weight
			}
		}
	}
	return score
}

// edgeSpilloverScore samples four points near each cell's edges (12%
// inward from the cell boundary) and penalizes any non-background color
// bleeding across the boundary. It is far more sensitive to 1-3px
// misalignment than center sampling because a misaligned grid line runs
// straight through an adjacent cell's true color, whereas the cell center
// stays correct until the misalignment is nearly half a cell.
func edgeSpilloverScore(img *boardimage.Image, region geometry.Region, mode geometry.Mode) float64 {
	score := 0.0
	radius := int(region.CellSize * blockRadiusFrac * 0.5)
	if radius < 1 {
		radius = 1
	}
	inset := int(region.CellSize * edgeInsetFrac)
	for r := 0; r < geometry.Cells; r++ {
		for c := 0; c < geometry.Cells; c++ {
			tag := premium.At(r, c)
			rect := region.CellRect(r, c)
			expected := expectedBG(tag, mode)
			weight := 1.0
			if premium.IsCorner(r, c) {
				weight = cornerWeight
			}
			for _, pt := range edgeSamplePoints(rect, inset) {
				h, s, v := img.HSVAt(pt.X, pt.Y, radius)
				if looksLikeTile(h, s, v, mode) {
					continue
				}
				if classifyBG(h, s, v) == expected {
					score += weight
				} else {
					score -= weight
				}
			}
		}
	}
	return score
}

// edgeSamplePoints returns the four points inset pixels in from the
// midpoints of rect's four edges.
func edgeSamplePoints(rect image.Rectangle, inset int) []image.Point {
	midX := (rect.Min.X + rect.Max.X) / 2
	midY := (rect.Min.Y + rect.Max.Y) / 2
	return []image.Point{
		{midX, rect.Min.Y + inset}, // top
		{midX, rect.Max.Y - inset}, // bottom
		{rect.Min.X + inset, midY}, // left
		{rect.Max.X - inset, midY}, // right
	}
}
