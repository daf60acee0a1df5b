// Command boardscan-inspect dumps the full per-cell diagnostic pipeline
// for a single screenshot, unbuffered, as opposed to the batch
// cmd/boardscan driver. A -survey flag dumps the raw per-premium-cell HSV
// samples the localizer's coarse search gathers, for retuning the color
// gates against new client versions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/scrabblevision/boardscan/internal/atlas"
	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/cgp"
	"github.com/scrabblevision/boardscan/internal/classify"
	"github.com/scrabblevision/boardscan/internal/detect"
	"github.com/scrabblevision/boardscan/internal/extract"
	"github.com/scrabblevision/boardscan/internal/imgcodec"
	"github.com/scrabblevision/boardscan/internal/localize"
	"github.com/scrabblevision/boardscan/internal/overlay"
	"github.com/scrabblevision/boardscan/internal/pipelog"
)

func main() {
	var (
		survey     bool
		overlayOut string
	)
	flag.BoolVar(&survey, "survey", false, "Dump raw per-premium-cell HSV samples from Phase C instead of running the full pipeline")
	flag.StringVar(&overlayOut, "overlay", "", "Write the detected-region overlay PNG to this path")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: boardscan-inspect [flags] <image>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("reading %s: %v", args[0], err)
	}

	decoded, format, err := imgcodec.Decode(data)
	if err != nil {
		log.Fatalf("decoding %s: %v", args[0], err)
	}
	fmt.Printf("format: %s\n", format)

	bi, err := boardimage.FromImage(decoded)
	if err != nil {
		log.Fatalf("building board image: %v", err)
	}
	defer bi.Close()
	fmt.Printf("size: %dx%d\n", bi.Width(), bi.Height())

	sink := pipelog.New()
	region := localize.Localize(bi, sink)
	fmt.Printf("region: x=%d y=%d w=%d h=%d cellSize=%.2f mode=%s\n",
		region.X, region.Y, region.Width, region.Height, region.CellSize, region.Mode)

	if overlayOut != "" {
		img, err := overlay.Draw(bi, region)
		if err != nil {
			log.Fatalf("rendering overlay: %v", err)
		}
		png, err := imgcodec.EncodePNG(img)
		if err != nil {
			log.Fatalf("encoding overlay: %v", err)
		}
		if err := os.WriteFile(overlayOut, png, 0o644); err != nil {
			log.Fatalf("writing overlay: %v", err)
		}
	}

	if survey {
		for _, s := range localize.Survey(bi, region, region.Mode) {
			fmt.Printf("(%2d,%2d) tag=%-6s H=%6.1f S=%6.1f V=%6.1f tile=%-5v bg=%-10s expected=%s\n",
				s.Row, s.Col, s.Tag.Name(), s.H, s.S, s.V, s.LooksLikeTile, s.BG, s.Expected)
		}
		fmt.Println(sink.String())
		return
	}

	at, err := atlas.Process()
	if err != nil {
		log.Printf("template atlas unavailable, letters will read as '?': %v", err)
		at = nil
	}

	cells := extract.Extract(bi, region)
	defer cells.Close()

	grid := cellgrid.New()
	detect.Detect(cells, region.Mode, grid)
	classify.Classify(cells, at, grid)

	fmt.Printf("occupied: %d/225  unknown: %d  blanks: %d\n",
		grid.OccupiedCount(), grid.UnknownCount(), grid.BlankCount())

	for r := 0; r < len(grid); r++ {
		for c := 0; c < len(grid[r]); c++ {
			cell := grid[r][c]
			if !cell.Occupied {
				continue
			}
			fmt.Printf("(%2d,%2d) letter=%q conf=%.3f blank=%v pts=%d gate=%s top5=%v\n",
				r, c, cell.Letter, cell.Confidence, cell.Blank, cell.PointValue, cell.Gate, cell.Candidates)
		}
	}

	fmt.Printf("cgp: %s\n", cgp.Serialize(grid))
	fmt.Println(sink.String())
}
