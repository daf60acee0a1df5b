// Command boardscan processes one or more Scrabble board screenshots
// into CGP strings: a flag-driven batch CLI that prints one summary line
// per input and, in -debug mode, also writes the overlay PNG, a JSON
// per-cell diagnostic grid, and the pipeline log.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/scrabblevision/boardscan/internal/pipeline"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		debug       bool
		outDir      string
		verbose     bool
		showVersion bool
		cpuProfile  string
		fontPath    string
	)

	flag.BoolVar(&debug, "debug", false, "Also write the overlay PNG and a JSON cell-grid dump next to each input")
	flag.StringVar(&outDir, "out", "", "Directory for -debug artifacts (default: alongside each input)")
	flag.BoolVar(&verbose, "verbose", false, "Mirror the pipeline log to stderr as it runs")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.StringVar(&fontPath, "font", "", "Override the template-atlas font path (default: search path, see internal/atlas)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: boardscan [flags] <image...>\n\n")
		fmt.Fprintf(os.Stderr, "Process one or more board screenshots into CGP strings.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("boardscan %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := pipeline.Config{Verbose: verbose}
	if fontPath != "" {
		cfg.FontSearchPath = []string{fontPath}
	}

	failures := 0
	for _, path := range paths {
		if err := processOne(path, outDir, debug, cfg); err != nil {
			log.Printf("%s: %v", path, err)
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func processOne(path, outDir string, debug bool, cfg pipeline.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	var progress pipeline.Progress
	if cfg.Verbose {
		progress = func(status, _ string, _ []byte) {
			log.Printf("%s: %s", path, status)
		}
	}

	result := pipeline.ProcessBoardImageWithConfig(data, cfg, progress)
	fmt.Printf("%s\t%s\n", path, result.CGP)

	if !debug {
		return nil
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if len(result.OverlayPNG) > 0 {
		overlayPath := filepath.Join(dir, base+".overlay.png")
		if err := os.WriteFile(overlayPath, result.OverlayPNG, 0o644); err != nil {
			return fmt.Errorf("writing overlay: %w", err)
		}
	}

	gridPath := filepath.Join(dir, base+".grid.json")
	gridJSON, err := json.MarshalIndent(gridDump(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling grid: %w", err)
	}
	if err := os.WriteFile(gridPath, gridJSON, 0o644); err != nil {
		return fmt.Errorf("writing grid dump: %w", err)
	}

	logPath := filepath.Join(dir, base+".log.txt")
	if err := os.WriteFile(logPath, []byte(result.Log), 0o644); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return nil
}

// cellDump is the JSON shape for one cell in the -debug grid dump.
type cellDump struct {
	Row, Col   int
	Occupied   bool
	Letter     string
	Blank      bool
	Confidence float64
	PointValue int
	Premium    string
	Gate       string
	Candidates []candidateDump `json:",omitempty"`
}

type candidateDump struct {
	Letter string
	Score  float64
}

func gridDump(result pipeline.DebugResult) []cellDump {
	if result.Grid == nil {
		return nil
	}
	cells := make([]cellDump, 0, 225)
	for r := range result.Grid {
		for c := range result.Grid[r] {
			cell := result.Grid[r][c]
			letter := ""
			if cell.Letter != 0 {
				letter = string(cell.Letter)
			}
			cands := make([]candidateDump, 0, len(cell.Candidates))
			for _, cand := range cell.Candidates {
				cands = append(cands, candidateDump{Letter: string(cand.Letter), Score: cand.Score})
			}
			cells = append(cells, cellDump{
				Row: r, Col: c,
				Occupied:   cell.Occupied,
				Letter:     letter,
				Blank:      cell.Blank,
				Confidence: cell.Confidence,
				PointValue: cell.PointValue,
				Premium:    cell.Premium.Name(),
				Gate:       string(cell.Gate),
				Candidates: cands,
			})
		}
	}
	return cells
}
