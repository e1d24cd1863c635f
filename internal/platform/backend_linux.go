//go:build linux

package platform

import (
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/wintidy/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ActiveDisplay returns the work area of the currently active monitor.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}

	return Display{
		ID:   active.ID,
		Name: active.Name,
		Bounds: Rect{
			X:      active.X,
			Y:      active.Y,
			Width:  active.Width,
			Height: active.Height,
		},
	}, nil
}

// ListWindows enumerates titled, normal application windows on the current
// virtual desktop, in the window manager's client-list order. Every record is
// built fresh from the X server's state at call time; nothing is cached
// across calls.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListGet(conn.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to list client windows: %w", err)
	}

	currentDesktop, desktopErr := conn.GetCurrentDesktop()
	hasCurrentDesktop := desktopErr == nil

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}

		if hasCurrentDesktop {
			if desktop, err := conn.GetWindowDesktop(windowID); err == nil && desktop >= 0 && desktop != currentDesktop {
				continue
			}
		}

		title := b.windowTitle(windowID)
		if title == "" {
			continue
		}

		rect, ok := b.windowRect(windowID)
		if !ok {
			continue
		}

		state, err := conn.GetShowState(windowID)
		if err != nil {
			state = x11.StateNormal
		}

		pid := 0
		if p, err := ewmh.WmPidGet(conn.XUtil, windowID); err == nil {
			pid = int(p)
		}
		class := b.windowClass(windowID)

		windows = append(windows, Window{
			ID:          WindowID(windowID),
			PID:         pid,
			Class:       class,
			ProcessName: processName(pid, class),
			Title:       title,
			Bounds:      rect,
			Visible:     true,
			Resizable:   b.isResizable(windowID),
			Minimized:   state == x11.StateMinimized,
		})
	}

	return windows, nil
}

// IsValid reports whether the window handle still refers to a live window.
func (b *LinuxBackend) IsValid(windowID WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(windowID))
}

// WindowRect returns the current geometry of a window in root coordinates.
func (b *LinuxBackend) WindowRect(windowID WindowID) (Rect, bool) {
	if _, err := b.connection(); err != nil {
		return Rect{}, false
	}
	return b.windowRect(xproto.Window(windowID))
}

// GetShowState returns the window's current show state.
func (b *LinuxBackend) GetShowState(windowID WindowID) (ShowState, error) {
	conn, err := b.connection()
	if err != nil {
		return ShowStateNormal, err
	}

	state, err := conn.GetShowState(xproto.Window(windowID))
	if err != nil {
		return ShowStateNormal, err
	}
	return showStateFromX11(state), nil
}

// SetShowState transitions the window into the requested show state.
func (b *LinuxBackend) SetShowState(windowID WindowID, state ShowState) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetShowState(xproto.Window(windowID), showStateToX11(state))
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func (b *LinuxBackend) windowRect(windowID xproto.Window) (Rect, bool) {
	conn := b.conn
	geom, err := xproto.GetGeometry(conn.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, false
	}

	translate, err := xproto.TranslateCoordinates(
		conn.XUtil.Conn(),
		windowID,
		conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, false
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func (b *LinuxBackend) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(b.conn.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (b *LinuxBackend) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	return ""
}

// isResizable checks WM_NORMAL_HINTS: a window whose min and max size are
// both set and equal cannot be resized.
func (b *LinuxBackend) isResizable(windowID xproto.Window) bool {
	hints, err := icccm.WmNormalHintsGet(b.conn.XUtil, windowID)
	if err != nil {
		return true
	}

	hasMin := hints.Flags&icccm.SizeHintPMinSize != 0
	hasMax := hints.Flags&icccm.SizeHintPMaxSize != 0
	if hasMin && hasMax &&
		hints.MinWidth == hints.MaxWidth &&
		hints.MinHeight == hints.MaxHeight {
		return false
	}
	return true
}

// processName resolves a PID to its executable name via /proc, falling back
// to the lowercased WM_CLASS when the process can't be read.
func processName(pid int, class string) string {
	if pid > 0 {
		if comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
			if name := strings.TrimSpace(string(comm)); name != "" {
				return name
			}
		}
	}
	return strings.ToLower(class)
}

func showStateFromX11(state x11.ShowState) ShowState {
	switch state {
	case x11.StateMinimized:
		return ShowStateMinimized
	case x11.StateMaximized:
		return ShowStateMaximized
	default:
		return ShowStateNormal
	}
}

func showStateToX11(state ShowState) x11.ShowState {
	switch state {
	case ShowStateMinimized:
		return x11.StateMinimized
	case ShowStateMaximized:
		return x11.StateMaximized
	default:
		return x11.StateNormal
	}
}
