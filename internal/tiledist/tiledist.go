// Package tiledist holds the standard English Scrabble tile set: how many
// of each letter exist, how many blanks, and each letter's point value.
// Shared by the template atlas (point-value subscripts) and the
// classifier's distribution-aware refinement pass (budget caps).
package tiledist

// Blanks is the number of blank tiles in the standard English set.
const Blanks = 2

// Count is the standard English Scrabble tile count per letter, indexed by
// letter - 'A'.
var Count = [26]int{
	9, 2, 2, 4, 12, 2, 3, 2, 9, 1, 1, 4, 2, // A-M
	6, 8, 2, 1, 6, 4, 6, 4, 2, 2, 1, 2, 1, // N-Z
}

// PointValue is the Scrabble score value per letter, indexed by letter - 'A'.
var PointValue = [26]int{
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3, // A-M
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10, // N-Z
}

// CountOf returns the standard count for an uppercase letter 'A'-'Z'.
func CountOf(letter byte) int {
	if letter < 'A' || letter > 'Z' {
		return 0
	}
	return Count[letter-'A']
}

// PointValueOf returns the point value for an uppercase letter 'A'-'Z'.
func PointValueOf(letter byte) int {
	if letter < 'A' || letter > 'Z' {
		return 0
	}
	return PointValue[letter-'A']
}

// MaxOnBoard is the maximum legal count of letter ℓ on a single board: its
// base count plus one, since a single blank may stand in for it.
func MaxOnBoard(letter byte) int {
	return CountOf(letter) + 1
}
