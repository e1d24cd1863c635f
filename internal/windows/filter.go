package windows

import (
	"strings"
	"sync"

	"github.com/1broseidon/wintidy/internal/platform"
)

// Default minimum window size. Anything smaller is almost certainly a
// tooltip, popup, or other UI fragment rather than an application window.
const (
	DefaultMinWidth  = 100
	DefaultMinHeight = 100
)

// systemClasses is a fixed denylist of WM_CLASS values for shell components
// that must never be rearranged, regardless of user configuration.
var systemClasses = map[string]bool{
	"polybar":      true,
	"plank":        true,
	"conky":        true,
	"xfce4-panel":  true,
	"xfdesktop":    true,
	"plasmashell":  true,
	"gnome-shell":  true,
	"lxpanel":      true,
	"tint2":        true,
	"cairo-dock":   true,
	"mate-panel":   true,
	"screenkey":    true,
	"xscreensaver": true,
}

// FilterOptions controls which enumerated windows count as manageable.
type FilterOptions struct {
	// MinWidth/MinHeight reject windows smaller than this floor.
	MinWidth  int
	MinHeight int
	// ExcludedProcesses is matched case-insensitively and exactly against the
	// owning executable name.
	ExcludedProcesses []string
	// IncludeMinimized keeps minimized windows in the manageable set.
	IncludeMinimized bool
	// IgnoreFixedSize drops windows that cannot be resized.
	IgnoreFixedSize bool
}

// DefaultFilterOptions mirrors the defaults applied when no configuration
// overrides them.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MinWidth:        DefaultMinWidth,
		MinHeight:       DefaultMinHeight,
		IgnoreFixedSize: true,
	}
}

// IsManageable reports whether a single window record passes every filter
// predicate. It is pure: it only inspects the record and options.
func IsManageable(w platform.Window, opts FilterOptions) bool {
	if !w.Visible {
		return false
	}

	if systemClasses[strings.ToLower(w.Class)] {
		return false
	}

	for _, excluded := range opts.ExcludedProcesses {
		if strings.EqualFold(w.ProcessName, excluded) {
			return false
		}
	}

	if opts.IgnoreFixedSize && !w.Resizable {
		return false
	}

	if !opts.IncludeMinimized && w.Minimized {
		return false
	}

	minW := opts.MinWidth
	if minW <= 0 {
		minW = DefaultMinWidth
	}
	minH := opts.MinHeight
	if minH <= 0 {
		minH = DefaultMinHeight
	}
	if w.Bounds.Width < minW || w.Bounds.Height < minH {
		return false
	}

	return true
}

// Manageable filters an enumerated window set down to the manageable ones.
// Input order is preserved; the platform's enumeration order is the only
// ordering the core imposes.
func Manageable(records []platform.Window, opts FilterOptions) []platform.Window {
	manageable := make([]platform.Window, 0, len(records))
	for _, w := range records {
		if IsManageable(w, opts) {
			manageable = append(manageable, w)
		}
	}
	return manageable
}

// Source couples a platform backend with filter options, producing fresh
// manageable window sets on demand.
type Source struct {
	mu      sync.RWMutex
	backend platform.Backend
	opts    FilterOptions
}

// NewSource creates a window source over the given backend.
func NewSource(backend platform.Backend, opts FilterOptions) *Source {
	return &Source{backend: backend, opts: opts}
}

// Enumerate returns all windows the platform reports, unfiltered.
func (s *Source) Enumerate() ([]platform.Window, error) {
	return s.backend.ListWindows()
}

// ManageableWindows enumerates and filters in one step.
func (s *Source) ManageableWindows() ([]platform.Window, error) {
	records, err := s.backend.ListWindows()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	opts := s.opts
	s.mu.RUnlock()
	return Manageable(records, opts), nil
}

// UpdateOptions replaces the filter options (used on config reload).
func (s *Source) UpdateOptions(opts FilterOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}
