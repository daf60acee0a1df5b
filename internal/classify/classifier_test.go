package classify

import (
	"strings"
	"testing"

	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/cgp"
	"gocv.io/x/gocv"
)

// grayCell builds a normalized 128x128 grayscale cell: a uniform fill,
// with an optional high-contrast checker pattern in the bottom-right
// quadrant standing in for a point-value subscript.
func grayCell(fill byte, subscript bool) gocv.Mat {
	buf := make([]byte, 128*128)
	for i := range buf {
		buf[i] = fill
	}
	if subscript {
		for y := 64; y < 128; y++ {
			for x := 64; x < 128; x++ {
				if (x+y)%2 == 0 {
					buf[y*128+x] = 0
				} else {
					buf[y*128+x] = 255
				}
			}
		}
	}
	m, err := gocv.NewMatFromBytes(128, 128, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		panic(err)
	}
	return m
}

func TestDetectBlank_MissingSubscriptLowercasesLetter(t *testing.T) {
	cell := grayCell(200, false)
	defer cell.Close()

	result := cellgrid.CellResult{Occupied: true, Letter: 'E', Confidence: 0.8, PointValue: 1}
	detectBlank(cell, &result)

	if !result.Blank {
		t.Fatal("a flat bottom-right quadrant (no subscript) should mark the cell blank")
	}
	if result.Letter != 'e' {
		t.Errorf("blank letter = %q, want lowercase 'e'", result.Letter)
	}
	if result.PointValue != 0 {
		t.Errorf("blank point value = %d, want 0", result.PointValue)
	}
}

func TestDetectBlank_SubscriptKeepsLetterUppercase(t *testing.T) {
	cell := grayCell(200, true)
	defer cell.Close()

	result := cellgrid.CellResult{Occupied: true, Letter: 'E', Confidence: 0.8, PointValue: 1}
	detectBlank(cell, &result)

	if result.Blank {
		t.Fatal("a high-contrast bottom-right quadrant (subscript present) must not mark the cell blank")
	}
	if result.Letter != 'E' {
		t.Errorf("letter = %q, want 'E' unchanged", result.Letter)
	}
}

func TestDetectBlank_BlankSerializesLowercaseInCGP(t *testing.T) {
	// A blank tile that Refine never touches (its letter is well within
	// budget) must still reach the CGP as a lowercase cell, purely on the
	// strength of detectBlank's lowercasing.
	cell := grayCell(200, false)
	defer cell.Close()

	result := cellgrid.CellResult{Occupied: true, Letter: 'Q', Confidence: 0.9, PointValue: 10}
	detectBlank(cell, &result)

	grid := cellgrid.New()
	grid[7][7].Occupied = true
	grid[7][7].Letter = result.Letter
	grid[7][7].Blank = result.Blank
	Refine(grid)

	board := cgp.SerializeBoard(grid)
	rows := strings.Split(board, "/")
	if rows[7] != "7q7" {
		t.Errorf("center row = %q, want \"7q7\" (blank q at center)", rows[7])
	}

	decoded, err := cgp.ParseBoard(board)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if decoded[7][7] != 'q' {
		t.Errorf("round-tripped center cell = %q, want 'q'", decoded[7][7])
	}
}

func TestClassify_NilAtlasEmitsUnknownWithoutRefinement(t *testing.T) {
	grid := cellgrid.New()
	grid[0][0].Occupied = true
	grid[0][1].Occupied = true

	Classify(nilCells{}, nil, grid)

	if grid[0][0].Letter != '?' {
		t.Errorf("with no atlas every occupied cell should read '?', got %q", grid[0][0].Letter)
	}
	if grid[0][1].Letter != '?' {
		t.Errorf("with no atlas every occupied cell should read '?', got %q", grid[0][1].Letter)
	}
}

type nilCells struct{}

func (nilCells) At(row, col int) gocv.Mat { return gocv.NewMat() }

func TestBaseLetter(t *testing.T) {
	cases := []struct {
		in   byte
		want byte
	}{
		{0, 0},
		{'A', 'A'},
		{'z', 'Z'},
		{'q', 'Q'},
		{'?', 0},
	}
	for _, c := range cases {
		cell := cellgrid.CellResult{Letter: c.in}
		if got := baseLetter(cell); got != c.want {
			t.Errorf("baseLetter(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSetLetter_PreservesBlankCase(t *testing.T) {
	cell := cellgrid.CellResult{Letter: 'q', Blank: true}
	setLetter(&cell, 'H')
	if cell.Letter != 'h' {
		t.Errorf("setLetter on a blank should emit lowercase, got %q", cell.Letter)
	}

	cell2 := cellgrid.CellResult{Letter: 'Q', Blank: false}
	setLetter(&cell2, 'H')
	if cell2.Letter != 'H' {
		t.Errorf("setLetter on a non-blank should emit uppercase, got %q", cell2.Letter)
	}
}

func TestRefine_PerLetterCapReassignsExcess(t *testing.T) {
	grid := cellgrid.New()
	// Q has a base count of 1 and MaxOnBoard 2; put 3 confident Q's on the
	// board, the excess one should be reassigned to its next candidate.
	coords := [][2]int{{0, 0}, {0, 1}, {0, 2}}
	for i, rc := range coords {
		cell := &grid[rc[0]][rc[1]]
		cell.Occupied = true
		cell.Letter = 'Q'
		cell.Confidence = 0.9 - float64(i)*0.1
		cell.Candidates = []cellgrid.Candidate{
			{Letter: 'Q', Score: cell.Confidence},
			{Letter: 'O', Score: 0.5},
		}
	}
	// The third (least confident) Q should fall back to O.
	Refine(grid)

	qCount := 0
	oCount := 0
	for r := range grid {
		for c := range grid[r] {
			switch grid[r][c].Letter {
			case 'Q':
				qCount++
			case 'O':
				oCount++
			}
		}
	}
	if qCount > 2 {
		t.Errorf("Q count after refinement = %d, want <= MaxOnBoard(2)", qCount)
	}
	if oCount == 0 {
		t.Error("expected the excess Q to be reassigned to its alternative candidate O")
	}
}

func TestRefine_ResolvesUnknownWithUnderRepresentedCandidate(t *testing.T) {
	grid := cellgrid.New()
	// A '?' cell whose best candidate fell below the acceptance threshold
	// but clears the reassignment floor: E has plenty of budget, so the
	// cell should resolve to E.
	cell := &grid[3][3]
	cell.Occupied = true
	cell.Letter = '?'
	cell.Candidates = []cellgrid.Candidate{
		{Letter: 'E', Score: 0.12},
		{Letter: 'F', Score: 0.08},
	}
	Refine(grid)

	if grid[3][3].Letter != 'E' {
		t.Errorf("unknown cell should resolve to its best under-budget candidate, got %q", grid[3][3].Letter)
	}
	if grid[3][3].Confidence != 0.12 {
		t.Errorf("resolved cell confidence = %v, want the candidate score", grid[3][3].Confidence)
	}
}

func TestRefine_UnknownWithHopelessScoresStaysUnknown(t *testing.T) {
	grid := cellgrid.New()
	cell := &grid[4][4]
	cell.Occupied = true
	cell.Letter = '?'
	cell.Candidates = []cellgrid.Candidate{
		{Letter: 'E', Score: 0.03},
	}
	Refine(grid)

	if grid[4][4].Letter != '?' {
		t.Errorf("a cell with no candidate above the floor must stay '?', got %q", grid[4][4].Letter)
	}
}

func TestRefine_GlobalBlankBudgetCapsAtTwo(t *testing.T) {
	grid := cellgrid.New()
	// Z has base count 1; place 4 confident Z's (3 over budget) to force
	// the blank-budget pass to decide which become blanks vs reassigned.
	confidences := []float64{0.95, 0.90, 0.85, 0.80}
	for i, conf := range confidences {
		cell := &grid[1][i]
		cell.Occupied = true
		cell.Letter = 'Z'
		cell.Confidence = conf
		cell.Candidates = []cellgrid.Candidate{
			{Letter: 'Z', Score: conf},
			{Letter: 'S', Score: 0.4},
		}
	}
	Refine(grid)

	blanks := 0
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c].Blank {
				blanks++
			}
		}
	}
	if blanks > 2 {
		t.Errorf("global blank count = %d, want <= 2", blanks)
	}
}
