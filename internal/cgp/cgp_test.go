package cgp

import (
	"strings"
	"testing"

	"github.com/scrabblevision/boardscan/internal/cellgrid"
)

func TestSerialize_EmptyBoard(t *testing.T) {
	grid := cellgrid.New()
	s := Serialize(grid)
	if !strings.HasSuffix(s, placeholderSuffix) {
		t.Fatalf("Serialize should append the placeholder suffix, got %q", s)
	}
	board := strings.TrimSuffix(s, placeholderSuffix)
	rows := strings.Split(board, "/")
	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row != "15" {
			t.Errorf("empty row should serialize to \"15\", got %q", row)
		}
	}
}

func TestSerializeParse_RoundTrip(t *testing.T) {
	grid := cellgrid.New()
	grid[0][0].Occupied = true
	grid[0][0].Letter = 'C'
	grid[0][1].Occupied = true
	grid[0][1].Letter = 'A'
	grid[0][2].Occupied = true
	grid[0][2].Letter = 'T'
	grid[7][7].Occupied = true
	grid[7][7].Letter = 'q' // blank standing in for Q
	grid[7][7].Blank = true
	grid[14][14].Occupied = true
	grid[14][14].Letter = 'Z'

	board := SerializeBoard(grid)
	decoded, err := ParseBoard(board)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}

	want := [15][15]byte{}
	want[0][0] = 'C'
	want[0][1] = 'A'
	want[0][2] = 'T'
	want[7][7] = 'q'
	want[14][14] = 'Z'

	for r := 0; r < 15; r++ {
		for c := 0; c < 15; c++ {
			if decoded[r][c] != want[r][c] {
				t.Errorf("cell (%d,%d) = %q, want %q", r, c, decoded[r][c], want[r][c])
			}
		}
	}
}

func TestParseBoard_RejectsWrongRowCount(t *testing.T) {
	_, err := ParseBoard("15/15/15")
	if err == nil {
		t.Fatal("expected an error for too few rows")
	}
}

func TestParseBoard_RejectsShortRow(t *testing.T) {
	row14 := strings.Repeat("14/", 14) + "14" // each row decodes to 14 cells, not 15
	_, err := ParseBoard(row14)
	if err == nil {
		t.Fatal("expected an error when a row doesn't decode to exactly 15 cells")
	}
}
