package localize

import (
	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/premium"
)

// Sample is one premium-cell's raw HSV reading from Phase C's scoring
// walk, exposed for the -survey diagnostic dump: it lets an operator
// retune the mode-specific HSV gates against real screenshots without
// recompiling, by inspecting the samples Phase C actually gathers rather
// than only its pass/fail verdict.
type Sample struct {
	Row, Col      int
	Tag           premium.Tag
	H, S, V       float64
	LooksLikeTile bool
	BG            string
	Expected      string
}

// Survey re-walks the premium-layout grid against region exactly as
// premiumCenterScore does, but returns every per-cell sample instead of a
// single aggregate score. It does not affect localization; it is read-only
// diagnostic tooling.
func Survey(img *boardimage.Image, region geometry.Region, mode geometry.Mode) []Sample {
	radius := int(region.CellSize * blockRadiusFrac)
	if radius < 1 {
		radius = 1
	}
	samples := make([]Sample, 0, premium.Size*premium.Size)
	for r := 0; r < geometry.Cells; r++ {
		for c := 0; c < geometry.Cells; c++ {
			tag := premium.At(r, c)
			cx, cy := region.CellCenter(r, c)
			h, s, v := img.HSVAt(cx, cy, radius)
			tile := looksLikeTile(h, s, v, mode)
			samples = append(samples, Sample{
				Row: r, Col: c, Tag: tag,
				H: h, S: s, V: v,
				LooksLikeTile: tile,
				BG:            bgName(classifyBG(h, s, v)),
				Expected:      bgName(expectedBG(tag, mode)),
			})
		}
	}
	return samples
}

func bgName(c bgColor) string {
	switch c {
	case bgWhite:
		return "white"
	case bgRed:
		return "red"
	case bgPink:
		return "pink"
	case bgBlue:
		return "blue"
	case bgLightBlue:
		return "light-blue"
	case bgGreen:
		return "green"
	default:
		return "unknown"
	}
}
