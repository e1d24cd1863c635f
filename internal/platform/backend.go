package platform

// WindowID is a platform-neutral window identifier. It is an opaque token
// issued by the window system; it carries no ownership and may go stale at
// any time, so validity must be re-checked at each use.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ShowState describes a window's display state.
type ShowState int

const (
	ShowStateNormal ShowState = iota
	ShowStateMinimized
	ShowStateMaximized
)

func (s ShowState) String() string {
	switch s {
	case ShowStateMinimized:
		return "minimized"
	case ShowStateMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// Display describes a physical display's usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window contains metadata and geometry for a top-level window, captured
// fresh at enumeration time and never mutated in place.
type Window struct {
	ID          WindowID
	PID         int
	Class       string
	ProcessName string
	Title       string
	Bounds      Rect
	Visible     bool
	Resizable   bool
	Minimized   bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	ActiveDisplay() (Display, error)
	ListWindows() ([]Window, error)
	IsValid(windowID WindowID) bool
	WindowRect(windowID WindowID) (Rect, bool)
	GetShowState(windowID WindowID) (ShowState, error)
	SetShowState(windowID WindowID, state ShowState) error
	MoveResize(windowID WindowID, bounds Rect) error
}
