// Package pipelog holds the pipeline's human-readable log sink: an
// in-memory, bracket-tagged ("[localize] ...") text log threaded through
// every stage and handed back verbatim as the progress callback's
// accumulated-log argument and in DebugResult.
package pipelog

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Sink accumulates tagged log lines for one pipeline call. It is not a
// process-wide logger: a fresh Sink is created per call and its contents
// are discarded once the call returns (unless the caller keeps the
// DebugResult that embeds its String()).
type Sink struct {
	mu      sync.Mutex
	b       strings.Builder
	Verbose bool // also mirror lines to the standard log package
}

// New returns an empty Sink.
func New() *Sink { return &Sink{} }

// Printf appends one "[tag] message" line, formatting message like fmt.Sprintf.
// Safe for concurrent use.
func (s *Sink) Printf(tag, format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...))
	s.mu.Lock()
	s.b.WriteString(line)
	s.b.WriteByte('\n')
	s.mu.Unlock()
	if s.Verbose {
		log.Print(line)
	}
}

// String returns the accumulated log text so far. Safe to call mid-pipeline
// (e.g. from a progress callback) as well as after the call completes.
func (s *Sink) String() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
