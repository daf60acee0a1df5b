// Package pipeline wires the five stages into the two entry points:
// ProcessBoardImage and ProcessBoardImageDebug. It owns the per-call
// resource lifecycle (decoded image, cell crops) and the single widened
// re-localization retry when classification comes back mostly unknown.
package pipeline

import (
	"github.com/scrabblevision/boardscan/internal/atlas"
	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/cellgrid"
	"github.com/scrabblevision/boardscan/internal/cgp"
	"github.com/scrabblevision/boardscan/internal/classify"
	"github.com/scrabblevision/boardscan/internal/detect"
	"github.com/scrabblevision/boardscan/internal/extract"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/imgcodec"
	"github.com/scrabblevision/boardscan/internal/localize"
	"github.com/scrabblevision/boardscan/internal/overlay"
	"github.com/scrabblevision/boardscan/internal/pipelog"
)

// retryOccupiedFloor and retryUnknownFrac gate the feedback retry: at
// least 3 tiles identified, and more than half of them unidentified.
const (
	retryOccupiedFloor = 3
	retryUnknownFrac   = 0.5
)

// Config holds process-wide tunables. Zero values mean "use the
// default"; the Verbose flag mirrors the pipeline log to stderr as it
// accumulates.
type Config struct {
	// FontSearchPath overrides the template atlas's font search path; nil
	// means the atlas package's own default path.
	FontSearchPath []string
	Verbose        bool
}

// Progress is the stage-boundary callback: a short status string, the
// accumulated log text so far, and the current overlay PNG bytes
// (possibly based on a still-provisional region). Implementations
// must be tolerant of empty overlay bytes and must not retain png beyond
// the call, since the caller may reuse the backing buffer.
type Progress func(status, log string, overlayPNG []byte)

// DebugResult is ProcessBoardImageDebug's return value.
type DebugResult struct {
	CGP        string
	OverlayPNG []byte
	Grid       *cellgrid.Grid
	Region     geometry.Region
	Log        string
}

// ProcessBoardImage is the simple entry point: CGP string only.
func ProcessBoardImage(data []byte) string {
	return ProcessBoardImageDebug(data, nil).CGP
}

// ProcessBoardImageDebug runs the full pipeline with an optional progress
// callback and returns the CGP plus every debug artifact.
func ProcessBoardImageDebug(data []byte, progress Progress) DebugResult {
	return ProcessBoardImageWithConfig(data, Config{}, progress)
}

// ProcessBoardImageWithConfig is ProcessBoardImageDebug with an explicit
// Config, used by cmd/boardscan's flag-driven CLI.
func ProcessBoardImageWithConfig(data []byte, cfg Config, progress Progress) DebugResult {
	sink := pipelog.New()
	sink.Verbose = cfg.Verbose

	decoded, format, err := imgcodec.Decode(data)
	if err != nil {
		sink.Printf("pipeline", "Failed to decode image: %v", err)
		return DebugResult{CGP: cgp.DecodeErrorCGP, Log: sink.String()}
	}
	sink.Printf("pipeline", "decoded %s image, %dx%d", format, decoded.Bounds().Dx(), decoded.Bounds().Dy())

	bi, err := boardimage.FromImage(decoded)
	if err != nil {
		sink.Printf("pipeline", "Failed to build board image: %v", err)
		return DebugResult{CGP: cgp.DecodeErrorCGP, Log: sink.String()}
	}
	defer bi.Close()

	at, err := atlasFor(cfg)
	if err != nil {
		sink.Printf("pipeline", "template atlas unavailable, letters will read as '?': %v", err)
		at = nil
	}

	region := localize.Localize(bi, sink)
	emitProgress(progress, "board detected", sink, bi, region)

	cells := extract.Extract(bi, region)
	emitProgress(progress, "cells extracted", sink, bi, region)

	grid := cellgrid.New()
	detect.Detect(cells, region.Mode, grid)
	sink.Printf("detect", "occupied=%d/225", grid.OccupiedCount())

	classify.Classify(cells, at, grid)
	cells.Close()
	sink.Printf("classify", "unknown=%d letters=%d blanks=%d", grid.UnknownCount(), grid.OccupiedCount()-grid.UnknownCount(), grid.BlankCount())
	emitProgress(progress, "classified", sink, bi, region)

	if shouldRetry(grid) {
		sink.Printf("pipeline", "stage5: occupied=%d unknown=%d, retrying localization", grid.OccupiedCount(), grid.UnknownCount())
		region = localize.Retry(bi, region, sink)
		grid = runCellsAndClassify(bi, region, at, sink)
		emitProgress(progress, "retried", sink, bi, region)
	}

	cgpStr := cgp.Serialize(grid)
	sink.Printf("pipeline", "cgp: %s", cgpStr)

	overlayPNG := renderOverlay(bi, region, sink)
	return DebugResult{
		CGP:        cgpStr,
		OverlayPNG: overlayPNG,
		Grid:       grid,
		Region:     region,
		Log:        sink.String(),
	}
}

// atlasFor resolves the template atlas for this call: the process-wide
// singleton unless the caller overrode the font search path, in which case
// a fresh one-off Atlas is built instead (the singleton's lazy-init guard
// only ever honors the first caller's path).
func atlasFor(cfg Config) (*atlas.Atlas, error) {
	if cfg.FontSearchPath == nil {
		return atlas.Process()
	}
	font, err := atlas.LocateFont(cfg.FontSearchPath, true)
	if err != nil {
		return nil, err
	}
	return atlas.Build(font)
}

// runCellsAndClassify runs Stages 2-4 (extract, detect, classify) for one
// region and returns the resulting grid; used by the retry path, where the
// intermediate progress callbacks don't fire again. The extractor's
// per-call cell crops are closed before returning, since they don't
// outlive one extract-detect-classify cycle.
func runCellsAndClassify(bi *boardimage.Image, region geometry.Region, at *atlas.Atlas, sink *pipelog.Sink) *cellgrid.Grid {
	cells := extract.Extract(bi, region)
	defer cells.Close()

	grid := cellgrid.New()
	detect.Detect(cells, region.Mode, grid)
	sink.Printf("detect", "occupied=%d/225", grid.OccupiedCount())

	classify.Classify(cells, at, grid)
	sink.Printf("classify", "unknown=%d letters=%d blanks=%d", grid.UnknownCount(), grid.OccupiedCount()-grid.UnknownCount(), grid.BlankCount())
	return grid
}

// shouldRetry is the feedback gate: enough tiles found, too few named.
func shouldRetry(grid *cellgrid.Grid) bool {
	occupied := grid.OccupiedCount()
	if occupied < retryOccupiedFloor {
		return false
	}
	unknown := grid.UnknownCount()
	return float64(unknown)/float64(occupied) > retryUnknownFrac
}

// emitProgress calls progress (if non-nil) with the accumulated log and a
// fresh overlay render; tolerant of a nil progress callback entirely.
func emitProgress(progress Progress, status string, sink *pipelog.Sink, bi *boardimage.Image, region geometry.Region) {
	if progress == nil {
		return
	}
	png := renderOverlay(bi, region, sink)
	progress(status, sink.String(), png)
}

// renderOverlay draws the current best region onto the source image and
// PNG-encodes it; failures degrade to empty bytes plus a log line rather
// than propagating.
func renderOverlay(bi *boardimage.Image, region geometry.Region, sink *pipelog.Sink) []byte {
	img, err := overlay.Draw(bi, region)
	if err != nil {
		sink.Printf("pipeline", "overlay render failed: %v", err)
		return nil
	}
	png, err := imgcodec.EncodePNG(img)
	if err != nil {
		sink.Printf("pipeline", "overlay encode failed: %v", err)
		return nil
	}
	return png
}
