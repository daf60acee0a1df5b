package classify

import (
	"sort"

	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/tiledist"
)

// maxPasses bounds the distribution refinement loop.
const maxPasses = 10

// minAltScore is the minimum alternative-candidate score a reassignment
// will accept.
const minAltScore = 0.05

type coord struct{ row, col int }

// baseLetter returns a cell's letter identity independent of blank case,
// or 0 if the cell has no concrete letter.
func baseLetter(cell cellgrid.CellResult) byte {
	l := cell.Letter
	if l >= 'a' && l <= 'z' {
		return l - 'a' + 'A'
	}
	if l >= 'A' && l <= 'Z' {
		return l
	}
	return 0
}

// setLetter assigns letter to a cell, preserving its current blank flag by
// emitting the matching case: a reassignment changes which letter a blank
// stands in for, never whether the cell is a blank.
func setLetter(cell *cellgrid.CellResult, letter byte) {
	if cell.Blank {
		cell.Letter = letter - 'A' + 'a'
	} else {
		cell.Letter = letter
	}
}

// Refine iterates until a full pass makes no change, applying the
// per-letter cap first and the global blank budget second, so the final
// grid never claims more of any letter than the physical tile set allows.
func Refine(grid *cellgrid.Grid) {
	for pass := 0; pass < maxPasses; pass++ {
		changedCap := applyPerLetterCap(grid)
		changedBudget := applyGlobalBlankBudget(grid)
		changedUnknown := resolveUnknowns(grid)
		if !changedCap && !changedBudget && !changedUnknown {
			return
		}
	}
}

// resolveUnknowns gives occupied '?' cells a second chance: a cell whose
// top template score fell short of the acceptance threshold still gets a
// concrete letter when its best candidate clears minAltScore and that
// letter's count is below its base tile count. Letters already at or over
// their base count don't qualify, so this never creates new budget
// violations for the cap pass to undo.
func resolveUnknowns(grid *cellgrid.Grid) bool {
	counts := grid.LetterCounts()
	changed := false
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			if !cell.IsUnknown() {
				continue
			}
			for _, cand := range cell.Candidates {
				if cand.Score < minAltScore {
					break // candidates are sorted, nothing further qualifies
				}
				if counts[cand.Letter-'A'] >= tiledist.CountOf(cand.Letter) {
					continue
				}
				cell.Letter = cand.Letter
				cell.Confidence = cand.Score
				cell.PointValue = tiledist.PointValueOf(cand.Letter)
				counts[cand.Letter-'A']++
				changed = true
				break
			}
		}
	}
	return changed
}

// groupByLetter returns, for each letter with at least one assigned cell,
// the coordinates of its cells sorted by ascending confidence (least
// confident first), which is the order both passes evict from.
func groupByLetter(grid *cellgrid.Grid) map[byte][]coord {
	groups := make(map[byte][]coord, 26)
	for r := range grid {
		for c := range grid[r] {
			cell := grid[r][c]
			if !cell.Occupied {
				continue
			}
			letter := baseLetter(cell)
			if letter == 0 {
				continue
			}
			groups[letter] = append(groups[letter], coord{r, c})
		}
	}
	for letter := range groups {
		cells := groups[letter]
		sort.SliceStable(cells, func(i, j int) bool {
			return grid[cells[i].row][cells[i].col].Confidence < grid[cells[j].row][cells[j].col].Confidence
		})
		groups[letter] = cells
	}
	return groups
}

// applyPerLetterCap reassigns the lowest-confidence excess cells of any
// letter whose count exceeds tiledist.MaxOnBoard to the best available
// alternative candidate.
func applyPerLetterCap(grid *cellgrid.Grid) bool {
	changed := false
	groups := groupByLetter(grid)
	// Walk letters in A-Z order, not map order: the pipeline must emit the
	// same CGP for the same bytes every run, and reassignments consume
	// budget from letters processed later.
	for letter := byte('A'); letter <= 'Z'; letter++ {
		cells := groups[letter]
		max := tiledist.MaxOnBoard(letter)
		excess := len(cells) - max
		if excess <= 0 {
			continue
		}
		for i := 0; i < excess; i++ {
			at := cells[i]
			cell := &grid[at.row][at.col]
			if reassignToAlternative(cell, groups, func(j byte) bool {
				return len(groups[j]) < tiledist.MaxOnBoard(j)
			}) {
				changed = true
				groups[letter] = cells[i+1:]
			}
		}
	}
	return changed
}

// applyGlobalBlankBudget finds, per letter, the cells beyond its base
// tiledist.CountOf (i.e. cells only explainable by a blank standing in),
// keeps the globally most-confident up to tiledist.Blanks of them as
// confirmed blanks, and reassigns the rest to an under-filled letter when
// possible.
func applyGlobalBlankBudget(grid *cellgrid.Grid) bool {
	groups := groupByLetter(grid)

	type overCell struct {
		coord
		letter byte
	}
	var over []overCell
	for letter := byte('A'); letter <= 'Z'; letter++ {
		cells := groups[letter]
		base := tiledist.CountOf(letter)
		if len(cells) <= base {
			continue
		}
		// cells is sorted ascending by confidence; the excess beyond base
		// is whatever sits above the base-count most-confident cells, i.e.
		// everything except the top `base` most-confident entries.
		excessCount := len(cells) - base
		for i := 0; i < excessCount; i++ {
			over = append(over, overCell{cells[i], letter})
		}
	}
	if len(over) == 0 {
		return false
	}

	sort.SliceStable(over, func(i, j int) bool {
		return grid[over[i].row][over[i].col].Confidence > grid[over[j].row][over[j].col].Confidence
	})

	changed := false
	for i, oc := range over {
		cell := &grid[oc.row][oc.col]
		if i < tiledist.Blanks {
			if !cell.Blank {
				cell.Blank = true
				cell.Letter = cell.Letter - 'A' + 'a'
				changed = true
			}
			continue
		}
		if reassignToAlternative(cell, groups, func(j byte) bool {
			return len(groups[j]) < tiledist.CountOf(j)
		}) {
			changed = true
			continue
		}
		if reassignToAlternative(cell, groups, func(j byte) bool {
			return len(groups[j]) < tiledist.MaxOnBoard(j)
		}) {
			changed = true
		}
	}
	return changed
}

// reassignToAlternative moves cell to the highest-scoring candidate letter
// that satisfies accept and still clears the minimum alternative score,
// mutating groups' bookkeeping for the moved-to letter. Returns whether a
// reassignment happened.
func reassignToAlternative(cell *cellgrid.CellResult, groups map[byte][]coord, accept func(byte) bool) bool {
	for _, cand := range cell.Candidates {
		if cand.Letter == baseLetter(*cell) {
			continue
		}
		if cand.Score < minAltScore {
			continue
		}
		if !accept(cand.Letter) {
			continue
		}
		setLetter(cell, cand.Letter)
		groups[cand.Letter] = append(groups[cand.Letter], coord{})
		return true
	}
	return false
}
