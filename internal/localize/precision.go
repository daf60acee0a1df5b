package localize

import (
	"runtime"
	"sync"

	"github.com/scrabblevision/boardscan/internal/boardimage"
	"github.com/scrabblevision/boardscan/internal/geometry"
	"github.com/scrabblevision/boardscan/internal/pipelog"
	"golang.org/x/sync/errgroup"
)

// precisionSizeRadius bounds the Phase E 1px-resolution sweep: size is
// swept ±5px, position ±half a cell.
const precisionSizeRadius = 5

// precisionResult is one worker's local best, folded into a global best
// at the join point.
type precisionResult struct {
	region geometry.Region
	score  float64
}

// precisionSweep implements Phase E: a 1px-resolution sweep around the
// fine estimate, parallelized across available cores by partitioning the
// size dimension. Each worker searches a disjoint slice of candidate sizes
// and returns its own local best; workers share img and its derived views
// read-only and own nothing but their own accumulator, so no locking is
// needed beyond folding the final results.
func precisionSweep(img *boardimage.Image, fine geometry.Region, mode geometry.Mode, log *pipelog.Sink) geometry.Region {
	size := int(fine.CellSize * geometry.Cells)
	posRadius := int(fine.CellSize / 2)
	if posRadius < 1 {
		posRadius = 1
	}

	minSize := size - precisionSizeRadius
	maxSize := size + precisionSizeRadius
	sizes := make([]int, 0, maxSize-minSize+1)
	for s := minSize; s <= maxSize; s++ {
		if s > 0 {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 {
		return fine
	}

	score := scorerFor(mode)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(sizes) {
		workers = len(sizes)
	}

	var mu sync.Mutex
	var best precisionResult
	best.score = negInf

	g := new(errgroup.Group)
	chunk := (len(sizes) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(sizes) {
			break
		}
		end := start + chunk
		if end > len(sizes) {
			end = len(sizes)
		}
		slice := sizes[start:end]

		g.Go(func() error {
			local := precisionResult{score: negInf}
			for _, sz := range slice {
				for dx := -posRadius; dx <= posRadius; dx++ {
					for dy := -posRadius; dy <= posRadius; dy++ {
						cand := clampCandidate(fine.X+dx, fine.Y+dy, sz, img.Width(), img.Height())
						if cand.Width == 0 {
							continue
						}
						s := score(img, cand, mode)
						if s > local.score {
							local = precisionResult{region: cand, score: s}
						}
					}
				}
			}
			mu.Lock()
			if local.score > best.score {
				best = local
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if best.region.Width == 0 {
		return fine
	}
	log.Printf(logTag, "phaseE: precision region x=%d y=%d size=%.1f score=%.1f (%d workers, %d sizes)",
		best.region.X, best.region.Y, best.region.CellSize*geometry.Cells, best.score, workers, len(sizes))
	return best.region
}

// scorerFor selects Phase E's mode-specific scorer: the premium-center
// scorer for dark boards, the edge-spillover scorer for light boards,
// which is far more sensitive to the 1-3px misalignments this phase
// hunts for.
func scorerFor(mode geometry.Mode) scorer {
	if mode == geometry.Light {
		return edgeSpilloverScore
	}
	return premiumCenterScore
}

const negInf = -1e18
