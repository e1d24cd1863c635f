package arrange

import (
	"log"
	"time"

	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/platform"
)

// BatchResult summarizes one BatchApply pass. A partial failure is not an
// error; callers inspect the counts.
type BatchResult struct {
	SuccessCount  int
	TotalCount    int
	FailedHandles []platform.WindowID
}

// Controller moves windows and records pre-move snapshots in the history.
type Controller struct {
	backend platform.Backend
	history *History
}

func NewController(backend platform.Backend, history *History) *Controller {
	return &Controller{backend: backend, history: history}
}

// History exposes the undo history for inspection.
func (c *Controller) History() *History {
	return c.history
}

// ApplyOne moves a single window without touching the history. It reports
// whether the move took effect.
func (c *Controller) ApplyOne(id platform.WindowID, bounds platform.Rect) bool {
	if !c.backend.IsValid(id) {
		return false
	}
	if err := c.backend.MoveResize(id, bounds); err != nil {
		log.Printf("arrange: move window 0x%x: %v", id, err)
		return false
	}
	return true
}

// BatchApply snapshots and repositions every window in positions. Windows
// that vanish or refuse to move are counted as failures; a failed window's
// snapshot is recorded anyway when it was already mutated (un-minimized), so
// undo reverses everything this call touched. The generation is pushed only
// if it holds at least one snapshot.
func (c *Controller) BatchApply(layoutName string, positions layout.PositionMap) BatchResult {
	res := BatchResult{TotalCount: len(positions)}
	gen := Generation{
		Layout:    layoutName,
		Taken:     time.Now(),
		Snapshots: make([]Snapshot, 0, len(positions)),
	}

	for id, bounds := range positions {
		snap, ok := c.snapshot(id)
		if !ok {
			res.FailedHandles = append(res.FailedHandles, id)
			continue
		}

		// A minimized window will not reposition; restore it first.
		unminimized := false
		if snap.State == platform.ShowStateMinimized {
			if err := c.backend.SetShowState(id, platform.ShowStateNormal); err != nil {
				log.Printf("arrange: restore window 0x%x: %v", id, err)
				res.FailedHandles = append(res.FailedHandles, id)
				continue
			}
			unminimized = true
		}

		if !c.ApplyOne(id, bounds) {
			res.FailedHandles = append(res.FailedHandles, id)
			// The window was already un-minimized, so the snapshot must
			// stay in the generation for undo to reverse that.
			if unminimized {
				gen.Snapshots = append(gen.Snapshots, snap)
			}
			continue
		}

		gen.Snapshots = append(gen.Snapshots, snap)
		res.SuccessCount++
	}

	c.history.Push(gen)
	return res
}

// Undo pops the newest generation and restores each window it recorded: show
// state first, then geometry for windows that end up in the normal state.
// It reports whether any window was restored; an empty history is a no-op,
// not an error.
func (c *Controller) Undo() (bool, error) {
	gen, ok := c.history.Pop()
	if !ok {
		return false, nil
	}

	restored := 0
	for _, snap := range gen.Snapshots {
		if !c.backend.IsValid(snap.ID) {
			continue
		}
		if err := c.backend.SetShowState(snap.ID, snap.State); err != nil {
			log.Printf("arrange: undo show state for window 0x%x: %v", snap.ID, err)
			continue
		}
		if snap.State == platform.ShowStateNormal {
			if err := c.backend.MoveResize(snap.ID, snap.Rect); err != nil {
				log.Printf("arrange: undo geometry for window 0x%x: %v", snap.ID, err)
				continue
			}
		}
		restored++
	}

	return restored > 0, nil
}

func (c *Controller) snapshot(id platform.WindowID) (Snapshot, bool) {
	if !c.backend.IsValid(id) {
		return Snapshot{}, false
	}
	rect, ok := c.backend.WindowRect(id)
	if !ok {
		return Snapshot{}, false
	}
	state, err := c.backend.GetShowState(id)
	if err != nil {
		log.Printf("arrange: read show state for window 0x%x: %v", id, err)
		return Snapshot{}, false
	}
	return Snapshot{ID: id, Rect: rect, State: state}, true
}
