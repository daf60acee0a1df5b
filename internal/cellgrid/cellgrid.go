// Package cellgrid holds the per-cell result type shared by the detector,
// classifier, and serializer stages, and the 15x15 grid that carries it
// through the pipeline. Keeping this as its own package (rather than
// folding it into detect or classify) avoids an import cycle: classify
// needs to read what detect wrote, and the serializer needs to read what
// classify wrote.
package cellgrid

import "github.com/scrabblevision/boardscan/internal/premium"

// Candidate is one (letter, score) entry from the top-5 template-match
// shortlist the classifier keeps for the distribution refinement pass.
type Candidate struct {
	Letter byte // 'A'..'Z'
	Score  float64
}

// Gate records which detector heuristic accepted or rejected a cell,
// surfaced through the debug grid dump and boardscan-inspect. Purely
// diagnostic: it never feeds back into the classification outcome.
type Gate string

const (
	GateNone             Gate = ""
	GateGlobalReject     Gate = "global_reject" // brightness/contrast floor
	GateBeige            Gate = "beige"
	GateCream            Gate = "cream"
	GateGold             Gate = "gold"
	GateRecentlyPlayed   Gate = "recently_played"
	GatePinkReject       Gate = "pink_reject"
	GateTooltipReject    Gate = "tooltip_reject"
	GateDLTLBrightReject Gate = "dl_tl_bright_reject"
)

// CellResult is the per-cell outcome threaded through Stages 3 and 4.
//
// Letter is 0 for an empty cell, 'A'-'Z' for a regular tile, or 'a'-'z' for
// a blank tile displaying that letter ('?' for an occupied cell whose
// letter could not be identified above the acceptance threshold).
type CellResult struct {
	Occupied   bool
	Letter     byte
	Blank      bool
	Confidence float64
	PointValue int
	Candidates []Candidate // top-5, most confident first

	Premium premium.Tag
	Gate    Gate // why the detector decided what it decided
}

// IsUnknown reports whether the cell is occupied but unidentified.
func (c CellResult) IsUnknown() bool {
	return c.Occupied && c.Letter == '?'
}

// Grid is the 15x15 array of CellResult for one board.
type Grid [premium.Size][premium.Size]CellResult

// New returns a Grid with every cell tagged by the premium layout and
// otherwise zero-valued (unoccupied).
func New() *Grid {
	g := &Grid{}
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			g[r][c].Premium = premium.At(r, c)
		}
	}
	return g
}

// OccupiedCount returns the number of cells marked occupied.
func (g *Grid) OccupiedCount() int {
	n := 0
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			if g[r][c].Occupied {
				n++
			}
		}
	}
	return n
}

// UnknownCount returns the number of occupied cells whose letter is '?'.
func (g *Grid) UnknownCount() int {
	n := 0
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			if g[r][c].IsUnknown() {
				n++
			}
		}
	}
	return n
}

// LetterCounts tallies non-blank occurrences of each letter 'A'..'Z',
// indexed by letter-'A'.
func (g *Grid) LetterCounts() [26]int {
	var counts [26]int
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			cell := g[r][c]
			if cell.Occupied && !cell.Blank && cell.Letter >= 'A' && cell.Letter <= 'Z' {
				counts[cell.Letter-'A']++
			}
		}
	}
	return counts
}

// BlankCount returns the number of cells marked as blank tiles.
func (g *Grid) BlankCount() int {
	n := 0
	for r := 0; r < premium.Size; r++ {
		for c := 0; c < premium.Size; c++ {
			if g[r][c].Occupied && g[r][c].Blank {
				n++
			}
		}
	}
	return n
}
