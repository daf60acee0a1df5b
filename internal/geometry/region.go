// Package geometry holds the BoardRegion value and the pure geometric math
// the localizer and cell extractor share: grid-line positions, per-cell
// rectangles, and bounds clamping.
package geometry

import "image"

// Mode is the board's visual theme, decided once in the localizer's Phase B
// and threaded through every subsequent color test.
type Mode int

const (
	Dark Mode = iota
	Light
)

func (m Mode) String() string {
	if m == Light {
		return "light"
	}
	return "dark"
}

// Cells is the board dimension (15x15), mirroring premium.Size without an
// import cycle back to premium.
const Cells = 15

// minCellSize rejects implausibly small detections.
const minCellSize = 100.0

// Region is the detected axis-aligned board rectangle: origin, cell size,
// and visual mode. Invariants (enforced by Clamp): width == height,
// 15*CellSize within 2px of Width, rectangle fully inside the image.
type Region struct {
	X, Y          int
	Width, Height int
	CellSize      float64
	Mode          Mode
	Found         bool
}

// Valid reports whether the region is a well-formed board detection
// against an image of the given size: a square, fully inside the image,
// large enough to be plausible, and consistent with a 15x15 grid.
func (r Region) Valid(imgW, imgH int) bool {
	if r.Width != r.Height {
		return false
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > imgW || r.Y+r.Height > imgH {
		return false
	}
	if r.CellSize < minCellSize {
		return false
	}
	expected := r.CellSize * Cells
	diff := expected - float64(r.Width)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 2.0
}

// Clamp adjusts a candidate region to lie fully inside an imgW x imgH
// image, shrinking it if necessary, and recomputes CellSize from the
// clamped width. Used after every search phase so intermediate candidates
// never escape the image even mid-sweep.
func Clamp(x, y, size, imgW, imgH int) Region {
	if size < int(minCellSize)*Cells {
		size = int(minCellSize) * Cells
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+size > imgW {
		x = imgW - size
		if x < 0 {
			x = 0
		}
	}
	if y+size > imgH {
		y = imgH - size
		if y < 0 {
			y = 0
		}
	}
	if size > imgW-x {
		size = imgW - x
	}
	if size > imgH-y {
		size = imgH - y
	}
	if size < 0 {
		size = 0
	}
	return Region{
		X: x, Y: y,
		Width: size, Height: size,
		CellSize: float64(size) / Cells,
	}
}

// CellRect returns the full (un-inset) pixel rectangle of cell (row, col).
func (r Region) CellRect(row, col int) image.Rectangle {
	cw := float64(r.Width) / Cells
	ch := float64(r.Height) / Cells
	x0 := r.X + int(float64(col)*cw)
	y0 := r.Y + int(float64(row)*ch)
	x1 := r.X + int(float64(col+1)*cw)
	y1 := r.Y + int(float64(row+1)*ch)
	return image.Rect(x0, y0, x1, y1)
}

// CellCenter returns the pixel center of cell (row, col), used by the
// coarse/fine/precision premium-center scorers.
func (r Region) CellCenter(row, col int) (cx, cy int) {
	cw := r.CellSize
	ch := r.CellSize
	cx = r.X + int((float64(col)+0.5)*cw)
	cy = r.Y + int((float64(row)+0.5)*ch)
	return
}

// GridLineX returns the x pixel coordinate of the vertical grid line at
// index i (0..15), i.e. the boundary between column i-1 and column i.
func (r Region) GridLineX(i int) int {
	return r.X + int(float64(i)*r.CellSize)
}

// GridLineY returns the y pixel coordinate of the horizontal grid line at
// index i (0..15).
func (r Region) GridLineY(i int) int {
	return r.Y + int(float64(i)*r.CellSize)
}

// InsetCellRect returns the inset sub-rectangle of cell (row, col),
// clamped to bounds; the extractor insets 8% per side to exclude grid
// lines and anti-aliased cell boundaries.
func (r Region) InsetCellRect(row, col int, inset float64, bounds image.Rectangle) image.Rectangle {
	cw := float64(r.Width) / Cells
	ch := float64(r.Height) / Cells
	x0 := float64(r.X) + (float64(col)+inset)*cw
	y0 := float64(r.Y) + (float64(row)+inset)*ch
	x1 := float64(r.X) + (float64(col)+1-inset)*cw
	y1 := float64(r.Y) + (float64(row)+1-inset)*ch
	rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
	return rect.Intersect(bounds)
}
