package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/wintidy/internal/arrange"
	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Organizer is the subset of the manager the hotkey handler drives.
type Organizer interface {
	Organize(req arrange.Request) (arrange.Result, error)
	Undo() (bool, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu        *xgbutil.XUtil
	root      xproto.Window
	organizer Organizer

	mu    sync.Mutex
	bound int
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, organizer Organizer) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:        xu,
		root:      root,
		organizer: organizer,
	}
}

// RegisterAll binds every configured hotkey. Empty sequences are skipped.
func (h *Handler) RegisterAll(hk config.HotkeyConfig) error {
	bindings := []struct {
		sequence string
		name     string
		action   func()
	}{
		{hk.Organize, "organize", func() { h.organize("") }},
		{hk.Cascade, "cascade", func() { h.organize(layout.Cascade) }},
		{hk.Grid, "grid", func() { h.organize(layout.Grid) }},
		{hk.Stack, "stack", func() { h.organize(layout.Stack) }},
		{hk.Undo, "undo", h.undo},
	}

	for _, b := range bindings {
		if b.sequence == "" {
			continue
		}
		if err := h.RegisterFunc(b.sequence, b.action); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.name, b.sequence, err)
		}
		log.Printf("hotkeys: bound %s to %s", b.sequence, b.name)
	}

	return nil
}

// UnregisterAll detaches every binding on the root window, allowing the
// handler to be rebound after a config reload.
func (h *Handler) UnregisterAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bound > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = 0
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.bound++
	h.mu.Unlock()
	return nil
}

func (h *Handler) organize(layoutName string) {
	res, err := h.organizer.Organize(arrange.Request{Layout: layoutName})
	if err != nil {
		log.Printf("hotkeys: organize failed: %v", err)
		return
	}
	if !res.Success {
		log.Printf("hotkeys: organize: %s", res.Message)
	}
}

func (h *Handler) undo() {
	if _, err := h.organizer.Undo(); err != nil {
		log.Printf("hotkeys: undo failed: %v", err)
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
