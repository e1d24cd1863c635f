package windows

import (
	"errors"
	"testing"

	"github.com/1broseidon/wintidy/internal/platform"
)

func baseWindow() platform.Window {
	return platform.Window{
		ID:          1,
		Title:       "Editor",
		Class:       "code",
		ProcessName: "code",
		Bounds:      platform.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		Visible:     true,
		Resizable:   true,
	}
}

func TestIsManageableDefaults(t *testing.T) {
	opts := DefaultFilterOptions()

	cases := []struct {
		name   string
		mutate func(*platform.Window)
		want   bool
	}{
		{"typical window", func(w *platform.Window) {}, true},
		{"invisible", func(w *platform.Window) { w.Visible = false }, false},
		{"minimized", func(w *platform.Window) { w.Minimized = true }, false},
		{"fixed size", func(w *platform.Window) { w.Resizable = false }, false},
		{"too narrow", func(w *platform.Window) { w.Bounds.Width = 99 }, false},
		{"too short", func(w *platform.Window) { w.Bounds.Height = 99 }, false},
		{"at size floor", func(w *platform.Window) { w.Bounds = platform.Rect{Width: 100, Height: 100} }, true},
		{"system panel", func(w *platform.Window) { w.Class = "polybar" }, false},
		{"system panel case", func(w *platform.Window) { w.Class = "Plasmashell" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := baseWindow()
			tc.mutate(&w)
			if got := IsManageable(w, opts); got != tc.want {
				t.Errorf("IsManageable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsManageableProcessExclusion(t *testing.T) {
	opts := DefaultFilterOptions()
	opts.ExcludedProcesses = []string{"Firefox", "slack"}

	w := baseWindow()
	w.ProcessName = "firefox"
	if IsManageable(w, opts) {
		t.Error("exclusion should match case-insensitively")
	}

	// Exact match only: a substring is not enough.
	w.ProcessName = "firefox-bin"
	if !IsManageable(w, opts) {
		t.Error("exclusion must not match substrings")
	}
}

func TestIsManageableIncludeMinimized(t *testing.T) {
	opts := DefaultFilterOptions()
	opts.IncludeMinimized = true

	w := baseWindow()
	w.Minimized = true
	if !IsManageable(w, opts) {
		t.Error("minimized window should pass when IncludeMinimized is set")
	}
}

func TestIsManageableKeepFixedSize(t *testing.T) {
	opts := DefaultFilterOptions()
	opts.IgnoreFixedSize = false

	w := baseWindow()
	w.Resizable = false
	if !IsManageable(w, opts) {
		t.Error("fixed-size window should pass when IgnoreFixedSize is off")
	}
}

func TestIsManageableZeroMinSizeUsesDefaults(t *testing.T) {
	opts := FilterOptions{} // zero floors fall back to 100x100

	w := baseWindow()
	w.Bounds = platform.Rect{Width: 50, Height: 50}
	if IsManageable(w, opts) {
		t.Error("zero min size should default to 100x100, rejecting 50x50")
	}
}

func TestManageablePreservesOrder(t *testing.T) {
	w1 := baseWindow()
	w2 := baseWindow()
	w2.ID = 2
	w2.Visible = false
	w3 := baseWindow()
	w3.ID = 3

	got := Manageable([]platform.Window{w1, w2, w3}, DefaultFilterOptions())
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("Manageable = %+v, want windows 1 and 3 in order", got)
	}
}

type stubBackend struct {
	wins    []platform.Window
	listErr error
}

func (b *stubBackend) ActiveDisplay() (platform.Display, error) { return platform.Display{}, nil }
func (b *stubBackend) ListWindows() ([]platform.Window, error)  { return b.wins, b.listErr }
func (b *stubBackend) IsValid(platform.WindowID) bool           { return true }
func (b *stubBackend) WindowRect(platform.WindowID) (platform.Rect, bool) {
	return platform.Rect{}, false
}
func (b *stubBackend) GetShowState(platform.WindowID) (platform.ShowState, error) {
	return platform.ShowStateNormal, nil
}
func (b *stubBackend) SetShowState(platform.WindowID, platform.ShowState) error { return nil }
func (b *stubBackend) MoveResize(platform.WindowID, platform.Rect) error        { return nil }

func TestSourceManageableWindows(t *testing.T) {
	hidden := baseWindow()
	hidden.ID = 2
	hidden.Visible = false

	src := NewSource(&stubBackend{wins: []platform.Window{baseWindow(), hidden}}, DefaultFilterOptions())

	got, err := src.ManageableWindows()
	if err != nil {
		t.Fatalf("ManageableWindows: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("got %+v, want only window 1", got)
	}
}

func TestSourcePropagatesEnumerationError(t *testing.T) {
	wantErr := errors.New("connection lost")
	src := NewSource(&stubBackend{listErr: wantErr}, DefaultFilterOptions())

	if _, err := src.ManageableWindows(); !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
}

func TestSourceUpdateOptions(t *testing.T) {
	small := baseWindow()
	small.Bounds = platform.Rect{Width: 120, Height: 120}

	src := NewSource(&stubBackend{wins: []platform.Window{small}}, DefaultFilterOptions())

	got, _ := src.ManageableWindows()
	if len(got) != 1 {
		t.Fatal("120x120 window should pass the default floor")
	}

	opts := DefaultFilterOptions()
	opts.MinWidth = 200
	opts.MinHeight = 200
	src.UpdateOptions(opts)

	got, _ = src.ManageableWindows()
	if len(got) != 0 {
		t.Fatal("raised floor should reject the 120x120 window")
	}
}
