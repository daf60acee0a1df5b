package tiledist

import "testing"

func TestCountOf_KnownLetters(t *testing.T) {
	cases := map[byte]int{'A': 9, 'E': 12, 'Q': 1, 'Z': 1, 'J': 1}
	for letter, want := range cases {
		if got := CountOf(letter); got != want {
			t.Errorf("CountOf(%q) = %d, want %d", letter, got, want)
		}
	}
}

func TestCountOf_OutOfRangeIsZero(t *testing.T) {
	if CountOf('?') != 0 {
		t.Error("CountOf of a non-letter should be 0")
	}
	if CountOf('a') != 0 {
		t.Error("CountOf only accepts uppercase")
	}
}

func TestPointValueOf_KnownLetters(t *testing.T) {
	cases := map[byte]int{'A': 1, 'Q': 10, 'Z': 10, 'D': 2, 'K': 5}
	for letter, want := range cases {
		if got := PointValueOf(letter); got != want {
			t.Errorf("PointValueOf(%q) = %d, want %d", letter, got, want)
		}
	}
}

func TestMaxOnBoard_IsCountPlusOne(t *testing.T) {
	for l := byte('A'); l <= 'Z'; l++ {
		if got, want := MaxOnBoard(l), CountOf(l)+1; got != want {
			t.Errorf("MaxOnBoard(%q) = %d, want %d", l, got, want)
		}
	}
}

func TestTotalTileCount_Is98PlusBlanks(t *testing.T) {
	total := 0
	for l := byte('A'); l <= 'Z'; l++ {
		total += CountOf(l)
	}
	if total != 98 {
		t.Errorf("sum of all letter counts = %d, want 98", total)
	}
	if Blanks != 2 {
		t.Errorf("Blanks = %d, want 2", Blanks)
	}
}
