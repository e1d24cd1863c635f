package arrange

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/platform"
	"github.com/1broseidon/wintidy/internal/windows"
)

// Request describes one organize operation.
type Request struct {
	// Layout is the layout name; empty means the configured default.
	Layout string
	// Target narrows the window set to titles or process names containing
	// this substring (case-insensitive). Empty matches everything.
	Target string
	// Exclude removes windows whose title or process name contains this
	// substring (case-insensitive).
	Exclude string
	// Options override the configured layout defaults where set.
	Options *layout.Options
}

// Result reports the outcome of an organize operation.
type Result struct {
	Success       bool                `json:"success"`
	Layout        string              `json:"layout"`
	SuccessCount  int                 `json:"success_count"`
	TotalCount    int                 `json:"total_count"`
	FailedHandles []platform.WindowID `json:"failed_handles,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// Status is a point-in-time view of the manager for the status command.
type Status struct {
	DefaultLayout string `json:"default_layout"`
	UndoDepth     int    `json:"undo_depth"`
	UndoAvailable int    `json:"undo_available"`
	WindowCount   int    `json:"window_count"`
}

// Manager ties window discovery, layout computation, and application
// together. All operations are serialized through one mutex so concurrent
// requests cannot interleave snapshots and moves.
type Manager struct {
	mu         sync.Mutex
	backend    platform.Backend
	source     *windows.Source
	controller *Controller
	cfg        *config.Config
}

func NewManager(backend platform.Backend, cfg *config.Config) *Manager {
	return &Manager{
		backend:    backend,
		source:     windows.NewSource(backend, cfg.FilterOptions()),
		controller: NewController(backend, NewHistory(cfg.EffectiveMaxUndoDepth())),
		cfg:        cfg,
	}
}

// Organize discovers manageable windows, computes the requested layout, and
// applies it. Validation failures surface as errors before any window moves.
// An empty window set is not an error; the result reports Success=false.
func (m *Manager) Organize(req Request) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := req.Layout
	if name == "" {
		name = m.cfg.DefaultLayout
	}

	opts, err := m.cfg.LayoutOptions()
	if err != nil {
		return Result{}, err
	}
	if req.Options != nil {
		opts = mergeOptions(opts, *req.Options)
	}
	if err := layout.Validate(name, opts); err != nil {
		return Result{}, err
	}

	display, err := m.backend.ActiveDisplay()
	if err != nil {
		return Result{}, fmt.Errorf("failed to determine active display: %w", err)
	}

	wins, err := m.source.ManageableWindows()
	if err != nil {
		return Result{}, fmt.Errorf("failed to enumerate windows: %w", err)
	}
	wins = narrow(wins, req.Target, req.Exclude)

	if len(wins) == 0 {
		return Result{
			Success: false,
			Layout:  name,
			Message: "no manageable windows found",
		}, nil
	}

	positions, err := layout.Compute(name, wins, display.Bounds, opts)
	if err != nil {
		return Result{}, err
	}

	res := m.controller.BatchApply(name, positions)
	log.Printf("organize: %s layout applied to %d/%d windows on %s",
		name, res.SuccessCount, res.TotalCount, display.Name)

	return Result{
		Success:       res.SuccessCount > 0,
		Layout:        name,
		SuccessCount:  res.SuccessCount,
		TotalCount:    res.TotalCount,
		FailedHandles: res.FailedHandles,
	}, nil
}

// Undo restores the most recent organize generation. It reports false when
// there is nothing to undo.
func (m *Manager) Undo() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller.Undo()
}

// ManageableWindows returns the current filtered window set.
func (m *Manager) ManageableWindows() ([]platform.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source.ManageableWindows()
}

// AllWindows returns every top-level window, before filtering.
func (m *Manager) AllWindows() ([]platform.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source.Enumerate()
}

// Status reports the manager's current state.
func (m *Manager) Status() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wins, err := m.source.ManageableWindows()
	if err != nil {
		return Status{}, err
	}
	hist := m.controller.History()
	return Status{
		DefaultLayout: m.cfg.DefaultLayout,
		UndoDepth:     hist.Cap(),
		UndoAvailable: hist.Len(),
		WindowCount:   len(wins),
	}, nil
}

// UpdateConfig swaps in a new configuration, resizing the history and
// refreshing the window filters. The undo history itself is preserved up to
// the new depth.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg = cfg
	m.source.UpdateOptions(cfg.FilterOptions())
	m.controller.History().Resize(cfg.EffectiveMaxUndoDepth())
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func narrow(wins []platform.Window, target, exclude string) []platform.Window {
	if target == "" && exclude == "" {
		return wins
	}
	out := wins[:0:0]
	for _, w := range wins {
		if target != "" && !matchesSubstring(w, target) {
			continue
		}
		if exclude != "" && matchesSubstring(w, exclude) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func matchesSubstring(w platform.Window, s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(strings.ToLower(w.Title), s) ||
		strings.Contains(strings.ToLower(w.ProcessName), s)
}

// mergeOptions layers explicit request options over the configured defaults.
func mergeOptions(base, over layout.Options) layout.Options {
	if over.Columns != nil {
		base.Columns = over.Columns
	}
	if over.Padding != nil {
		base.Padding = over.Padding
	}
	if over.OffsetX != nil {
		base.OffsetX = over.OffsetX
	}
	if over.OffsetY != nil {
		base.OffsetY = over.OffsetY
	}
	if over.StackPosition != "" {
		base.StackPosition = over.StackPosition
	}
	if over.WindowWidth != nil {
		base.WindowWidth = over.WindowWidth
	}
	if over.WindowHeight != nil {
		base.WindowHeight = over.WindowHeight
	}
	return base
}
