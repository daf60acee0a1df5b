// Package cgp serializes a classified board into a Crossword Game
// Position string and parses one back into a letter grid.
package cgp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/premium"
)

// DecodeErrorCGP is the sentinel CGP returned when the input image could
// not be decoded at all; no pipeline stage runs in that case.
const DecodeErrorCGP = "[error: could not decode image]"

// placeholderSuffix is appended verbatim after the board, since this
// pipeline has no rack/score/lexicon input.
const placeholderSuffix = " / 0/0 0 lex NWL23;"

// Serialize produces the full CGP string for a classified grid: the board
// layout followed by the fixed rack/score/lexicon placeholder.
func Serialize(grid *cellgrid.Grid) string {
	return SerializeBoard(grid) + placeholderSuffix
}

// SerializeBoard produces just the board portion: 15 row strings joined by
// '/', each row writing occupied cells literally (lowercase for blanks)
// and collapsing runs of empty cells to their decimal length.
func SerializeBoard(grid *cellgrid.Grid) string {
	rows := make([]string, premium.Size)
	for r := 0; r < premium.Size; r++ {
		rows[r] = serializeRow(grid[r][:])
	}
	return strings.Join(rows, "/")
}

func serializeRow(row []cellgrid.CellResult) string {
	var b strings.Builder
	run := 0
	flush := func() {
		if run > 0 {
			b.WriteString(strconv.Itoa(run))
			run = 0
		}
	}
	for _, cell := range row {
		if !cell.Occupied || cell.Letter == 0 {
			run++
			continue
		}
		flush()
		b.WriteByte(cell.Letter)
	}
	flush()
	return b.String()
}

// ParseBoard decodes a CGP board section (15 rows joined by '/') into a
// 15x15 letter grid: 0 for empty, 'A'-'Z' for a regular tile, 'a'-'z' for
// a blank. Used by the round-trip tests to verify that serializing and
// re-parsing reproduces the same grid.
func ParseBoard(board string) ([premium.Size][premium.Size]byte, error) {
	var grid [premium.Size][premium.Size]byte
	rows := strings.Split(board, "/")
	if len(rows) != premium.Size {
		return grid, fmt.Errorf("cgp: expected %d rows, got %d", premium.Size, len(rows))
	}
	for r, row := range rows {
		cells, err := parseRow(row)
		if err != nil {
			return grid, fmt.Errorf("cgp: row %d: %w", r, err)
		}
		copy(grid[r][:], cells)
	}
	return grid, nil
}

func parseRow(row string) ([]byte, error) {
	cells := make([]byte, 0, premium.Size)
	i := 0
	for i < len(row) {
		ch := row[i]
		switch {
		case ch >= '1' && ch <= '9':
			j := i
			for j < len(row) && row[j] >= '0' && row[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(row[i:j])
			if err != nil {
				return nil, fmt.Errorf("invalid empty run %q: %w", row[i:j], err)
			}
			for k := 0; k < n; k++ {
				cells = append(cells, 0)
			}
			i = j
		case (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z'):
			cells = append(cells, ch)
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", ch, i)
		}
	}
	if len(cells) != premium.Size {
		return nil, fmt.Errorf("row decodes to %d cells, want %d: %q", len(cells), premium.Size, row)
	}
	return cells, nil
}
