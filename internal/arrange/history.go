// Package arrange applies computed layouts to live windows and keeps a
// bounded undo history of the window state each organize replaced.
package arrange

import (
	"sync"
	"time"

	"github.com/1broseidon/wintidy/internal/platform"
)

// Snapshot records one window's geometry and show state immediately before an
// organize repositioned it.
type Snapshot struct {
	ID    platform.WindowID
	Rect  platform.Rect
	State platform.ShowState
}

// Generation is the set of snapshots captured by a single organize operation.
// One organize pushes at most one generation.
type Generation struct {
	Layout    string
	Taken     time.Time
	Snapshots []Snapshot
}

// History is a fixed-capacity stack of generations. Pushing past capacity
// evicts the oldest generation.
type History struct {
	mu   sync.Mutex
	gens []Generation
	cap  int
}

// NewHistory returns a history bounded to depth generations. Depth below 1 is
// clamped to 1.
func NewHistory(depth int) *History {
	if depth < 1 {
		depth = 1
	}
	return &History{cap: depth}
}

// Push appends a generation, evicting the oldest when the history is full.
// Empty generations are ignored.
func (h *History) Push(gen Generation) {
	if len(gen.Snapshots) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.gens) == h.cap {
		copy(h.gens, h.gens[1:])
		h.gens = h.gens[:h.cap-1]
	}
	h.gens = append(h.gens, gen)
}

// Pop removes and returns the most recent generation.
func (h *History) Pop() (Generation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.gens) == 0 {
		return Generation{}, false
	}
	gen := h.gens[len(h.gens)-1]
	h.gens = h.gens[:len(h.gens)-1]
	return gen, true
}

// Len reports the number of stored generations.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.gens)
}

// Cap reports the history's capacity.
func (h *History) Cap() int {
	return h.cap
}

// Resize changes the capacity, evicting oldest generations if the new
// capacity is smaller than the current length.
func (h *History) Resize(depth int) {
	if depth < 1 {
		depth = 1
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cap = depth
	if len(h.gens) > depth {
		excess := len(h.gens) - depth
		copy(h.gens, h.gens[excess:])
		h.gens = h.gens[:depth]
	}
}
