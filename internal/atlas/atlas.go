package atlas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/scrabblevision/boardscan/internal/tiledist"
	"gocv.io/x/gocv"
	"golang.org/x/image/math/fixed"
)

// TileSize is the fixed pixel size every template and every cell crop is
// normalized to before matching.
const TileSize = 128

const (
	mainGlyphFraction = 0.58 // of TileSize
	mainBandFraction  = 0.80 // glyph centered within the upper 80% band
	subFraction       = 0.16 // subscript size, of TileSize
	subBaselineFrac   = 0.93 // subscript baseline, fraction of TileSize
	subRightFrac      = 0.92 // subscript right edge, fraction of TileSize
)

// Atlas holds the 26 A-Z grayscale templates, each TileSize x TileSize,
// built once and read-only thereafter. Safe for concurrent use by many
// pipeline calls.
type Atlas struct {
	templates [26]gocv.Mat
	ready     bool
}

var (
	process     Atlas
	processOnce sync.Once
	processErr  error
)

// Process returns the process-wide singleton atlas, building it on first
// use with the default font search path. This is the guarded first-use
// construction strategy; a long-lived service should instead call Build
// explicitly during startup so the first request doesn't pay for it.
func Process() (*Atlas, error) {
	processOnce.Do(func() {
		font, err := LocateFont(nil, true)
		if err != nil {
			processErr = err
			return
		}
		a, err := Build(font)
		if err != nil {
			processErr = err
			return
		}
		process = *a
	})
	return &process, processErr
}

// Build renders all 26 templates from the given font. Returns an error if
// font is nil or a template fails to render; callers that can't locate a
// font at all should skip
// calling Build and pass a nil *Atlas to Classify, which treats that as
// "emit '?' for every occupied cell" instead of failing the whole run.
func Build(font *truetype.Font) (*Atlas, error) {
	if font == nil {
		return nil, fmt.Errorf("atlas: nil font")
	}
	a := &Atlas{}
	for i := 0; i < 26; i++ {
		letter := byte('A' + i)
		img, err := renderTemplate(font, letter)
		if err != nil {
			for j := 0; j < i; j++ {
				a.templates[j].Close()
			}
			return nil, fmt.Errorf("atlas: rendering template %c: %w", letter, err)
		}
		a.templates[i] = img
	}
	a.ready = true
	return a, nil
}

// Close releases every template Mat. Only meaningful for an Atlas built
// via Build directly (not Process's process-wide singleton, which lives
// for the program's lifetime).
func (a *Atlas) Close() {
	for i := range a.templates {
		if !a.templates[i].Empty() {
			a.templates[i].Close()
		}
	}
}

// Template returns the TileSize x TileSize grayscale template for an
// uppercase letter 'A'-'Z'.
func (a *Atlas) Template(letter byte) gocv.Mat {
	if letter < 'A' || letter > 'Z' {
		return gocv.NewMat()
	}
	return a.templates[letter-'A']
}

// Ready reports whether the atlas was successfully built.
func (a *Atlas) Ready() bool { return a.ready }

// renderTemplate draws one glyph tile: the main letter centered in the
// upper 80% band at ~58% tile size, plus the point-value subscript
// bottom-right, then a 3x3 Gaussian blur to approximate on-screen
// anti-aliasing.
func renderTemplate(font *truetype.Font, letter byte) (gocv.Mat, error) {
	canvas := image.NewGray(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if err := drawGlyph(canvas, font, string(letter), mainGlyphFraction*TileSize,
		TileSize/2, int(mainBandFraction*TileSize*0.72)); err != nil {
		return gocv.Mat{}, err
	}

	sub := strconv.Itoa(tiledist.PointValueOf(letter))
	subSize := subFraction * TileSize
	subRight := int(subRightFrac * TileSize)
	subBaseline := int(subBaselineFrac * TileSize)
	if err := drawGlyphRightAligned(canvas, font, sub, subSize, subRight, subBaseline); err != nil {
		return gocv.Mat{}, err
	}

	mat, err := gocv.NewMatFromBytes(TileSize, TileSize, gocv.MatTypeCV8UC1, canvas.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("wrapping rendered glyph: %w", err)
	}
	blurred := gocv.NewMat()
	gocv.GaussianBlur(mat, &blurred, image.Pt(3, 3), 0, 0, gocv.BorderDefault)
	mat.Close()
	return blurred, nil
}

func newContext(dst draw.Image, font *truetype.Font, size float64) *freetype.Context {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(font)
	ctx.SetFontSize(size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(color.Black))
	ctx.SetHinting(freetype.NoHinting)
	return ctx
}

// drawGlyph draws text roughly centered horizontally at centerX with its
// baseline at baselineY. freetype draws from a baseline rather than a
// bounding-box center, so vertical placement is up to the caller's choice
// of baselineY.
func drawGlyph(dst draw.Image, font *truetype.Font, text string, size float64, centerX, baselineY int) error {
	ctx := newContext(dst, font, size)
	width := ctx.PointToFixed(size) * fixed.Int26_6(len(text)) * 3 / 5 // rough monospace advance
	x := fixed.Int26_6(centerX<<6) - width/2
	pt := fixed.Point26_6{X: x, Y: fixed.Int26_6(baselineY << 6)}
	_, err := ctx.DrawString(text, pt)
	return err
}

// drawGlyphRightAligned draws text with its right edge at rightX and
// baseline at baselineY.
func drawGlyphRightAligned(dst draw.Image, font *truetype.Font, text string, size float64, rightX, baselineY int) error {
	ctx := newContext(dst, font, size)
	width := ctx.PointToFixed(size) * fixed.Int26_6(len(text)) * 3 / 5
	x := fixed.Int26_6(rightX<<6) - width
	pt := fixed.Point26_6{X: x, Y: fixed.Int26_6(baselineY << 6)}
	_, err := ctx.DrawString(text, pt)
	return err
}
