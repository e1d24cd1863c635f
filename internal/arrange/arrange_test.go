package arrange

import (
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/platform"
)

// fakeBackend is an in-memory platform.Backend for exercising the controller
// and manager without an X server.
type fakeBackend struct {
	display platform.Display
	windows map[platform.WindowID]*fakeWindow
	moves   int
}

type fakeWindow struct {
	win      platform.Window
	state    platform.ShowState
	moveErr  error
	stateErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		display: platform.Display{
			ID:     1,
			Name:   "fake-0",
			Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		},
		windows: make(map[platform.WindowID]*fakeWindow),
	}
}

func (b *fakeBackend) add(id platform.WindowID, rect platform.Rect, state platform.ShowState) {
	b.windows[id] = &fakeWindow{
		win: platform.Window{
			ID:          id,
			Title:       fmt.Sprintf("window-%d", id),
			ProcessName: "xterm",
			Bounds:      rect,
			Visible:     true,
			Resizable:   true,
			Minimized:   state == platform.ShowStateMinimized,
		},
		state: state,
	}
}

func (b *fakeBackend) ActiveDisplay() (platform.Display, error) { return b.display, nil }

func (b *fakeBackend) ListWindows() ([]platform.Window, error) {
	var out []platform.Window
	for _, fw := range b.windows {
		w := fw.win
		w.Minimized = fw.state == platform.ShowStateMinimized
		out = append(out, w)
	}
	return out, nil
}

func (b *fakeBackend) IsValid(id platform.WindowID) bool {
	_, ok := b.windows[id]
	return ok
}

func (b *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, bool) {
	fw, ok := b.windows[id]
	if !ok {
		return platform.Rect{}, false
	}
	return fw.win.Bounds, true
}

func (b *fakeBackend) GetShowState(id platform.WindowID) (platform.ShowState, error) {
	fw, ok := b.windows[id]
	if !ok {
		return 0, errors.New("no such window")
	}
	return fw.state, nil
}

func (b *fakeBackend) SetShowState(id platform.WindowID, state platform.ShowState) error {
	fw, ok := b.windows[id]
	if !ok {
		return errors.New("no such window")
	}
	if fw.stateErr != nil {
		return fw.stateErr
	}
	fw.state = state
	return nil
}

func (b *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	fw, ok := b.windows[id]
	if !ok {
		return errors.New("no such window")
	}
	if fw.moveErr != nil {
		return fw.moveErr
	}
	fw.win.Bounds = bounds
	b.moves++
	return nil
}

func TestBatchApplyRecordsGeneration(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	b.add(2, platform.Rect{X: 50, Y: 50, Width: 300, Height: 200}, platform.ShowStateNormal)

	c := NewController(b, NewHistory(10))
	res := c.BatchApply(layout.Grid, layout.PositionMap{
		1: {X: 0, Y: 0, Width: 900, Height: 1000},
		2: {X: 960, Y: 0, Width: 900, Height: 1000},
	})

	if res.SuccessCount != 2 || res.TotalCount != 2 {
		t.Fatalf("got %d/%d, want 2/2", res.SuccessCount, res.TotalCount)
	}
	if c.History().Len() != 1 {
		t.Fatalf("history length = %d, want 1", c.History().Len())
	}
	if got := b.windows[1].win.Bounds; got.X != 0 || got.Width != 900 {
		t.Errorf("window 1 not moved: %+v", got)
	}
}

func TestBatchApplySkipsVanishedWindows(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)

	c := NewController(b, NewHistory(10))
	res := c.BatchApply(layout.Grid, layout.PositionMap{
		1: {X: 0, Y: 0, Width: 900, Height: 1000},
		9: {X: 960, Y: 0, Width: 900, Height: 1000}, // never existed
	})

	if res.SuccessCount != 1 || res.TotalCount != 2 {
		t.Fatalf("got %d/%d, want 1/2", res.SuccessCount, res.TotalCount)
	}
	if len(res.FailedHandles) != 1 || res.FailedHandles[0] != 9 {
		t.Fatalf("failed handles = %v, want [9]", res.FailedHandles)
	}

	gen, ok := c.History().Pop()
	if !ok {
		t.Fatal("expected a generation")
	}
	if len(gen.Snapshots) != 1 || gen.Snapshots[0].ID != 1 {
		t.Fatalf("generation should only hold window 1: %+v", gen.Snapshots)
	}
}

func TestBatchApplyRestoresMinimizedBeforeMoving(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateMinimized)

	c := NewController(b, NewHistory(10))
	res := c.BatchApply(layout.Cascade, layout.PositionMap{
		1: {X: 100, Y: 100, Width: 800, Height: 600},
	})

	if res.SuccessCount != 1 {
		t.Fatalf("got %d successes, want 1", res.SuccessCount)
	}
	if b.windows[1].state != platform.ShowStateNormal {
		t.Errorf("window should be restored to normal, got %v", b.windows[1].state)
	}

	// The snapshot keeps the pre-move minimized state for undo.
	gen, _ := c.History().Pop()
	if gen.Snapshots[0].State != platform.ShowStateMinimized {
		t.Errorf("snapshot state = %v, want minimized", gen.Snapshots[0].State)
	}
}

func TestBatchApplyAllFailuresPushesNothing(t *testing.T) {
	b := newFakeBackend()
	c := NewController(b, NewHistory(10))

	res := c.BatchApply(layout.Grid, layout.PositionMap{
		7: {X: 0, Y: 0, Width: 100, Height: 100},
	})
	if res.SuccessCount != 0 {
		t.Fatalf("got %d successes, want 0", res.SuccessCount)
	}
	if c.History().Len() != 0 {
		t.Errorf("empty generation should not be recorded")
	}
}

func TestUndoRestoresGeometryAndState(t *testing.T) {
	b := newFakeBackend()
	orig := platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}
	b.add(1, orig, platform.ShowStateNormal)
	b.add(2, platform.Rect{X: 40, Y: 40, Width: 300, Height: 200}, platform.ShowStateMinimized)

	c := NewController(b, NewHistory(10))
	c.BatchApply(layout.Grid, layout.PositionMap{
		1: {X: 0, Y: 0, Width: 900, Height: 1000},
		2: {X: 960, Y: 0, Width: 900, Height: 1000},
	})

	ok, err := c.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if got := b.windows[1].win.Bounds; got != orig {
		t.Errorf("window 1 bounds = %+v, want %+v", got, orig)
	}
	if b.windows[2].state != platform.ShowStateMinimized {
		t.Errorf("window 2 should be re-minimized, got %v", b.windows[2].state)
	}
	// A re-minimized window keeps whatever geometry it had; only normal
	// windows get their rect restored.
	if c.History().Len() != 0 {
		t.Errorf("undo should consume the generation")
	}
}

func TestUndoSkipsStaleHandles(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	b.add(2, platform.Rect{X: 40, Y: 40, Width: 300, Height: 200}, platform.ShowStateNormal)

	c := NewController(b, NewHistory(10))
	c.BatchApply(layout.Grid, layout.PositionMap{
		1: {X: 0, Y: 0, Width: 900, Height: 1000},
		2: {X: 960, Y: 0, Width: 900, Height: 1000},
	})

	delete(b.windows, 2) // closed after organize

	ok, err := c.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v; surviving window should still restore", ok, err)
	}
	if got := b.windows[1].win.Bounds.X; got != 5 {
		t.Errorf("window 1 X = %d, want 5", got)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	c := NewController(newFakeBackend(), NewHistory(10))
	if ok, err := c.Undo(); ok || err != nil {
		t.Fatalf("Undo() on empty history = %v, %v; want false with no error", ok, err)
	}
}

func TestBatchApplyKeepsSnapshotAfterFailedMoveOfRestoredWindow(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 40, Y: 40, Width: 300, Height: 200}, platform.ShowStateMinimized)
	b.windows[1].moveErr = errors.New("move rejected")

	c := NewController(b, NewHistory(10))
	res := c.BatchApply(layout.Grid, layout.PositionMap{
		1: {X: 0, Y: 0, Width: 900, Height: 1000},
	})

	if res.SuccessCount != 0 || len(res.FailedHandles) != 1 {
		t.Fatalf("got %d successes, %d failures; want 0 and 1", res.SuccessCount, len(res.FailedHandles))
	}
	// The window was un-minimized before the move failed, so the generation
	// must survive for undo to reverse that.
	if c.History().Len() != 1 {
		t.Fatalf("history length = %d, want 1", c.History().Len())
	}

	ok, err := c.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if b.windows[1].state != platform.ShowStateMinimized {
		t.Errorf("window should be re-minimized, got %v", b.windows[1].state)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(Generation{
			Layout:    "grid",
			Snapshots: []Snapshot{{ID: platform.WindowID(i)}},
		})
	}
	if h.Len() != 3 {
		t.Fatalf("length = %d, want 3", h.Len())
	}
	// Newest first: 5, 4, 3. Generations 1 and 2 evicted.
	for _, want := range []platform.WindowID{5, 4, 3} {
		gen, ok := h.Pop()
		if !ok || gen.Snapshots[0].ID != want {
			t.Fatalf("Pop() = %+v, %v; want snapshot for window %d", gen, ok, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("history should be empty")
	}
}

func TestHistoryResizeEvicts(t *testing.T) {
	h := NewHistory(5)
	for i := 1; i <= 5; i++ {
		h.Push(Generation{Snapshots: []Snapshot{{ID: platform.WindowID(i)}}})
	}
	h.Resize(2)
	if h.Len() != 2 {
		t.Fatalf("length = %d, want 2", h.Len())
	}
	gen, _ := h.Pop()
	if gen.Snapshots[0].ID != 5 {
		t.Errorf("newest generation should survive resize, got window %d", gen.Snapshots[0].ID)
	}
}

func testManager(b *fakeBackend) *Manager {
	return NewManager(b, config.DefaultConfig())
}

func TestManagerOrganizeEmptySet(t *testing.T) {
	b := newFakeBackend()
	m := testManager(b)

	res, err := m.Organize(Request{Layout: layout.Grid})
	if err != nil {
		t.Fatalf("empty window set must not error: %v", err)
	}
	if res.Success {
		t.Error("result should report Success=false")
	}
	if b.moves != 0 {
		t.Errorf("no windows should move, got %d moves", b.moves)
	}
}

func TestManagerOrganizeUnknownLayout(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	m := testManager(b)

	_, err := m.Organize(Request{Layout: "mosaic"})
	var verr *layout.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if b.moves != 0 {
		t.Errorf("validation failure must precede any move, got %d moves", b.moves)
	}
}

func TestManagerOrganizeDefaultLayout(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	m := testManager(b)

	res, err := m.Organize(Request{})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if res.Layout != layout.Cascade {
		t.Errorf("layout = %q, want configured default cascade", res.Layout)
	}
	if !res.Success || res.SuccessCount != 1 {
		t.Errorf("result = %+v, want one success", res)
	}
}

func TestManagerOrganizeTargetNarrowing(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	b.add(2, platform.Rect{X: 40, Y: 40, Width: 300, Height: 200}, platform.ShowStateNormal)
	b.windows[2].win.Title = "Mail"
	m := testManager(b)

	res, err := m.Organize(Request{Layout: layout.Grid, Target: "mail"})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if res.TotalCount != 1 {
		t.Errorf("total = %d, want 1 (only the Mail window)", res.TotalCount)
	}

	res, err = m.Organize(Request{Layout: layout.Grid, Exclude: "mail"})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if res.TotalCount != 1 {
		t.Errorf("total = %d, want 1 (Mail excluded)", res.TotalCount)
	}
}

func TestManagerUndoRoundTrip(t *testing.T) {
	b := newFakeBackend()
	orig := platform.Rect{X: 7, Y: 9, Width: 400, Height: 300}
	b.add(1, orig, platform.ShowStateNormal)
	m := testManager(b)

	if _, err := m.Organize(Request{Layout: layout.Stack}); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if b.windows[1].win.Bounds == orig {
		t.Fatal("organize should have moved the window")
	}

	ok, err := m.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if b.windows[1].win.Bounds != orig {
		t.Errorf("bounds = %+v, want %+v", b.windows[1].win.Bounds, orig)
	}
}

func TestManagerUndoRestoresOnlyLatestGeneration(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 7, Y: 9, Width: 400, Height: 300}, platform.ShowStateNormal)
	b.add(2, platform.Rect{X: 600, Y: 20, Width: 500, Height: 400}, platform.ShowStateNormal)
	m := testManager(b)

	if _, err := m.Organize(Request{Layout: layout.Grid}); err != nil {
		t.Fatalf("Organize(grid): %v", err)
	}
	afterGrid := map[platform.WindowID]platform.Rect{
		1: b.windows[1].win.Bounds,
		2: b.windows[2].win.Bounds,
	}

	if _, err := m.Organize(Request{Layout: layout.Cascade}); err != nil {
		t.Fatalf("Organize(cascade): %v", err)
	}

	ok, err := m.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	for id, want := range afterGrid {
		if got := b.windows[id].win.Bounds; got != want {
			t.Errorf("window %d = %+v, want grid-time %+v", id, got, want)
		}
	}
}

func TestManagerUpdateConfigResizesHistory(t *testing.T) {
	b := newFakeBackend()
	b.add(1, platform.Rect{X: 5, Y: 5, Width: 300, Height: 200}, platform.ShowStateNormal)
	m := testManager(b)

	for i := 0; i < 4; i++ {
		if _, err := m.Organize(Request{Layout: layout.Cascade}); err != nil {
			t.Fatalf("Organize: %v", err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.MaxUndoDepth = 2
	m.UpdateConfig(cfg)

	st, err := m.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.UndoDepth != 2 || st.UndoAvailable != 2 {
		t.Errorf("status = %+v, want depth 2 with 2 available", st)
	}
}
