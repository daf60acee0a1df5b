// Package atlas builds the 26-glyph template atlas the classifier
// matches cell crops against: one pre-rendered tile image per letter,
// main glyph plus point-value subscript, built once per process.
package atlas

import (
	"fmt"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
)

// defaultSearchPath lists system locations for a bold monospace TTF,
// tried in order before falling back to the embedded gobold face. None of
// these paths need to exist for the pipeline to work, since the embedded
// fallback is always available, but an operator can drop a preferred face
// in to override it.
var defaultSearchPath = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
	"/Library/Fonts/Courier New Bold.ttf",
	"/System/Library/Fonts/Supplemental/Courier New Bold.ttf",
	"C:\\Windows\\Fonts\\courbd.ttf",
}

// LocateFont searches searchPath (nil means defaultSearchPath) for a
// parseable TTF and returns the first hit. If allowEmbeddedFallback is
// true and nothing on the path parses, it returns the bundled gobold face
// instead of failing. Passing allowEmbeddedFallback=false lets tests
// exercise the missing-font degrade path deterministically.
func LocateFont(searchPath []string, allowEmbeddedFallback bool) (*truetype.Font, error) {
	if searchPath == nil {
		searchPath = defaultSearchPath
	}
	for _, path := range searchPath {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		font, err := freetype.ParseFont(data)
		if err != nil {
			continue
		}
		return font, nil
	}
	if allowEmbeddedFallback {
		font, err := freetype.ParseFont(gobold.TTF)
		if err != nil {
			return nil, fmt.Errorf("atlas: parsing embedded fallback font: %w", err)
		}
		return font, nil
	}
	return nil, fmt.Errorf("atlas: no font found on search path and embedded fallback disabled")
}
