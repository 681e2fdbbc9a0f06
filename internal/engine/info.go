package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sciezk/Demolito/internal/board"
)

// Info aggregates the best line reported by concurrent search workers:
// principal variation, depth, score and node count. Update and Print are
// mutually exclusive, so a reader never observes a half-written line.
//
// Info does not rank competing results; deciding whose update wins (for
// example deepest-depth-first) is the callers' policy. Update blocks
// briefly under contention and must not be called where blocking is
// unacceptable.
type Info struct {
	mu      sync.Mutex
	pv      []board.Move
	depth   int
	score   int
	nodes   uint64
	updated bool
}

// Clear resets the aggregator for a new search.
func (in *Info) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.pv = nil
	in.depth = 0
	in.score = 0
	in.nodes = 0
	in.updated = false
}

// Update atomically replaces all reported fields and marks the holder as
// having fresh data. The principal variation is copied.
func (in *Info) Update(depth, score int, nodes uint64, pv []board.Move) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.depth = depth
	in.score = score
	in.nodes = nodes
	in.pv = append(in.pv[:0], pv...)
	in.updated = true
}

// Updated reports whether there is fresh data since the last Print.
func (in *Info) Updated() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.updated
}

// Print emits the current contents as a UCI info line and clears the
// fresh-data marker.
func (in *Info) Print(w io.Writer) {
	in.mu.Lock()
	defer in.mu.Unlock()

	parts := []string{fmt.Sprintf("depth %d", in.depth)}

	if in.score > MateScore-MaxPly {
		parts = append(parts, fmt.Sprintf("score mate %d", (MateScore-in.score+1)/2))
	} else if in.score < -MateScore+MaxPly {
		parts = append(parts, fmt.Sprintf("score mate %d", -(MateScore+in.score+1)/2))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", in.score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", in.nodes))

	if len(in.pv) > 0 {
		moves := make([]string, len(in.pv))
		for i, m := range in.pv {
			moves[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(moves, " "))
	}

	fmt.Fprintf(w, "info %s\n", strings.Join(parts, " "))
	in.updated = false
}
