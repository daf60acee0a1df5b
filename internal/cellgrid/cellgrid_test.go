package cellgrid

import "testing"

func TestNew_TagsEveryCellWithItsPremium(t *testing.T) {
	g := New()
	if g[7][7].Premium.Name() != "center" {
		t.Errorf("center cell premium = %s, want center", g[7][7].Premium.Name())
	}
	if g[0][0].Premium.Name() != "TW" {
		t.Errorf("corner cell premium = %s, want TW", g[0][0].Premium.Name())
	}
}

func TestOccupiedAndUnknownCounts(t *testing.T) {
	g := New()
	g[0][0].Occupied = true
	g[0][0].Letter = 'A'
	g[0][1].Occupied = true
	g[0][1].Letter = '?'
	g[0][2].Occupied = false

	if got := g.OccupiedCount(); got != 2 {
		t.Errorf("OccupiedCount = %d, want 2", got)
	}
	if got := g.UnknownCount(); got != 1 {
		t.Errorf("UnknownCount = %d, want 1", got)
	}
}

func TestIsUnknown(t *testing.T) {
	occupiedUnknown := CellResult{Occupied: true, Letter: '?'}
	if !occupiedUnknown.IsUnknown() {
		t.Error("occupied '?' cell should be unknown")
	}
	occupiedLetter := CellResult{Occupied: true, Letter: 'A'}
	if occupiedLetter.IsUnknown() {
		t.Error("occupied lettered cell should not be unknown")
	}
	empty := CellResult{Occupied: false}
	if empty.IsUnknown() {
		t.Error("an unoccupied cell is never unknown")
	}
}

func TestLetterCounts_IgnoresBlanksAndEmpty(t *testing.T) {
	g := New()
	g[0][0].Occupied = true
	g[0][0].Letter = 'A'
	g[0][1].Occupied = true
	g[0][1].Letter = 'A'
	g[0][2].Occupied = true
	g[0][2].Letter = 'a' // blank standing in for A, must not count toward A
	g[0][2].Blank = true

	counts := g.LetterCounts()
	if counts['A'-'A'] != 2 {
		t.Errorf("LetterCounts()['A'] = %d, want 2 (blank excluded)", counts['A'-'A'])
	}
}

func TestBlankCount(t *testing.T) {
	g := New()
	g[0][0].Occupied = true
	g[0][0].Blank = true
	g[0][1].Occupied = true
	g[0][1].Blank = false
	g[0][2].Occupied = false
	g[0][2].Blank = true // unoccupied cells never count, even if flagged

	if got := g.BlankCount(); got != 1 {
		t.Errorf("BlankCount = %d, want 1", got)
	}
}
