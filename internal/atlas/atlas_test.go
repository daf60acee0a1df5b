package atlas

import "testing"

func TestLocateFont_FallsBackToEmbeddedFace(t *testing.T) {
	font, err := LocateFont([]string{"/no/such/path.ttf"}, true)
	if err != nil {
		t.Fatalf("LocateFont with fallback allowed should not error: %v", err)
	}
	if font == nil {
		t.Fatal("expected the embedded fallback font, got nil")
	}
}

func TestLocateFont_NoFallbackFailsWhenPathMisses(t *testing.T) {
	_, err := LocateFont([]string{"/no/such/path.ttf"}, false)
	if err == nil {
		t.Fatal("expected an error when nothing on the path exists and fallback is disabled")
	}
}

func TestBuild_NilFontErrors(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatal("Build(nil) should error")
	}
}

func TestBuild_ProducesAllTwentySixTemplates(t *testing.T) {
	font, err := LocateFont([]string{"/no/such/path.ttf"}, true)
	if err != nil {
		t.Fatalf("LocateFont: %v", err)
	}
	a, err := Build(font)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if !a.Ready() {
		t.Fatal("a successfully built atlas should report Ready")
	}
	for l := byte('A'); l <= 'Z'; l++ {
		tmpl := a.Template(l)
		if tmpl.Empty() {
			t.Errorf("template for %q should not be empty", l)
		}
		if tmpl.Cols() != TileSize || tmpl.Rows() != TileSize {
			t.Errorf("template for %q size = %dx%d, want %dx%d", l, tmpl.Cols(), tmpl.Rows(), TileSize, TileSize)
		}
	}
}

func TestTemplate_RejectsNonLetter(t *testing.T) {
	font, err := LocateFont([]string{"/no/such/path.ttf"}, true)
	if err != nil {
		t.Fatalf("LocateFont: %v", err)
	}
	a, err := Build(font)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if !a.Template('?').Empty() {
		t.Error("Template of a non A-Z byte should return an empty Mat")
	}
}
