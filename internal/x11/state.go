package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// _NET_WM_STATE client message actions per EWMH.
const (
	ewmhStateRemove = 0
	ewmhStateAdd    = 1
)

// ShowState mirrors the WM-level display state of a window.
type ShowState int

const (
	StateNormal ShowState = iota
	StateMinimized
	StateMaximized
)

// GetShowState derives a window's show state from its _NET_WM_STATE atoms.
// A window counts as maximized only when both the horizontal and vertical
// maximized atoms are present.
func (c *Connection) GetShowState(windowID xproto.Window) (ShowState, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return StateNormal, fmt.Errorf("failed to read window state: %w", err)
	}

	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN":
			return StateMinimized, nil
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			hasMaxH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			hasMaxV = true
		}
	}

	if hasMaxH && hasMaxV {
		return StateMaximized, nil
	}
	return StateNormal, nil
}

// SetShowState transitions a window into the requested show state.
func (c *Connection) SetShowState(windowID xproto.Window, state ShowState) error {
	switch state {
	case StateMinimized:
		return c.iconifyWindow(windowID)
	case StateMaximized:
		return ewmh.WmStateReqExtra(c.XUtil, windowID, ewmhStateAdd,
			"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT", 2)
	default:
		// Deiconify by mapping, then strip any maximized state.
		xwindow.New(c.XUtil, windowID).Map()
		return c.unmaximizeWindow(windowID)
	}
}

// iconifyWindow minimizes a window via a WM_CHANGE_STATE client message.
func (c *Connection) iconifyWindow(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEvent(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
