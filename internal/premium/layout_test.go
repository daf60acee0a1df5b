package premium

import "testing"

func TestAt_CenterIsCenterTag(t *testing.T) {
	if At(7, 7) != Center {
		t.Errorf("center square should be tagged Center, got %v", At(7, 7))
	}
}

func TestAt_CornersAreTripleWord(t *testing.T) {
	corners := [][2]int{{0, 0}, {0, 14}, {14, 0}, {14, 14}}
	for _, c := range corners {
		if At(c[0], c[1]) != TW {
			t.Errorf("corner (%d,%d) should be TW, got %v", c[0], c[1], At(c[0], c[1]))
		}
		if !IsCorner(c[0], c[1]) {
			t.Errorf("IsCorner(%d,%d) should be true", c[0], c[1])
		}
	}
}

func TestAt_OutOfRangeIsNormal(t *testing.T) {
	if At(-1, 0) != Normal {
		t.Error("negative row should return Normal")
	}
	if At(0, 15) != Normal {
		t.Error("out-of-range col should return Normal")
	}
}

func TestLayout_RotationSymmetric(t *testing.T) {
	// The canonical layout is symmetric under 90-degree rotation: rotating
	// (r, c) by 90 degrees around the board center maps to (c, Size-1-r).
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			rotated := Layout[c][Size-1-r]
			if Layout[r][c] != rotated {
				t.Fatalf("layout not rotation-symmetric at (%d,%d)=%v vs rotated (%d,%d)=%v",
					r, c, Layout[r][c], c, Size-1-r, rotated)
			}
		}
	}
}

func TestIsCorner_NonCornerIsFalse(t *testing.T) {
	if IsCorner(7, 7) {
		t.Error("center is not a corner")
	}
	if IsCorner(0, 7) {
		t.Error("edge midpoint is not a corner")
	}
}
