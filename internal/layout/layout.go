// Package layout computes target window geometry for the built-in
// arrangement strategies. All computation is pure: a window set, a screen
// region, and options go in, a position map comes out. Nothing here touches
// the window system.
package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/wintidy/internal/platform"
)

// Layout names understood by Compute.
const (
	Cascade = "cascade"
	Grid    = "grid"
	Stack   = "stack"
)

// Defaults applied when options leave a knob unset.
const (
	DefaultPadding     = 10
	DefaultOffsetX     = 30
	DefaultOffsetY     = 30
	DefaultStackMargin = 50

	// Cascade windows take this share of the screen.
	cascadeRatio = 0.7
	// Stack windows default to this percentage of the screen dimension.
	defaultStackPercent = 80

	// Grid cells aim for at least this size; they shrink below it only when
	// the screen cannot fit the requested column count at full size.
	MinCellWidth  = 200
	MinCellHeight = 150
)

// Stack positions.
const (
	StackCenter = "center"
	StackLeft   = "left"
	StackRight  = "right"
	StackTop    = "top"
	StackBottom = "bottom"
)

// PositionMap maps a window handle to its target geometry. Keys are exactly
// the input window set.
type PositionMap map[platform.WindowID]platform.Rect

// ValidationError reports malformed layout options. It always surfaces
// before any window is touched.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Dimension is a window size given either in absolute pixels or as a
// percentage of the corresponding screen dimension.
type Dimension struct {
	Value   int
	Percent bool
}

// ParseDimension parses "800" as pixels and "50%" as a percentage.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSuffix(s, "%")
	}

	value, err := strconv.Atoi(s)
	if err != nil {
		return Dimension{}, validationErrorf("unparsable dimension %q (want a pixel count like 800 or a percentage like 50%%)", s)
	}
	if value <= 0 {
		return Dimension{}, validationErrorf("dimension must be positive, got %d", value)
	}

	return Dimension{Value: value, Percent: percent}, nil
}

// Resolve converts the dimension to pixels against a screen dimension.
func (d Dimension) Resolve(screen int) int {
	if d.Percent {
		return screen * d.Value / 100
	}
	return d.Value
}

// Options is the per-layout configuration bag. Nil pointer fields mean
// "use the default".
type Options struct {
	// Grid.
	Columns *int
	Padding *int

	// Cascade.
	OffsetX *int
	OffsetY *int

	// Stack.
	StackPosition string
	WindowWidth   *Dimension
	WindowHeight  *Dimension
}

// Names returns the available layout names, sorted.
func Names() []string {
	names := []string{Cascade, Grid, Stack}
	sort.Strings(names)
	return names
}

// Validate checks the layout name and its options. Any failure here aborts
// the whole operation before a single window moves.
func Validate(name string, opts Options) error {
	switch name {
	case Grid, Cascade, Stack:
	default:
		return validationErrorf("unknown layout: %q", name)
	}

	if opts.Columns != nil && *opts.Columns < 1 {
		return validationErrorf("grid columns must be at least 1, got %d", *opts.Columns)
	}
	if opts.Padding != nil && *opts.Padding <= 0 {
		return validationErrorf("grid padding must be positive, got %d", *opts.Padding)
	}
	if opts.OffsetX != nil && *opts.OffsetX <= 0 {
		return validationErrorf("cascade offset_x must be positive, got %d", *opts.OffsetX)
	}
	if opts.OffsetY != nil && *opts.OffsetY <= 0 {
		return validationErrorf("cascade offset_y must be positive, got %d", *opts.OffsetY)
	}

	switch opts.StackPosition {
	case "", StackCenter, StackLeft, StackRight, StackTop, StackBottom:
	default:
		return validationErrorf("unknown stack position: %q", opts.StackPosition)
	}

	if opts.WindowWidth != nil && opts.WindowWidth.Value <= 0 {
		return validationErrorf("window width must be positive, got %d", opts.WindowWidth.Value)
	}
	if opts.WindowHeight != nil && opts.WindowHeight.Value <= 0 {
		return validationErrorf("window height must be positive, got %d", opts.WindowHeight.Value)
	}

	return nil
}

// Compute dispatches to the named strategy and returns a target rect per
// window. An empty window set yields an empty map, not an error.
func Compute(name string, wins []platform.Window, region platform.Rect, opts Options) (PositionMap, error) {
	if err := Validate(name, opts); err != nil {
		return nil, err
	}
	if region.Width < 1 || region.Height < 1 {
		return nil, validationErrorf("screen region has no usable space: %dx%d", region.Width, region.Height)
	}

	positions := make(PositionMap, len(wins))
	if len(wins) == 0 {
		return positions, nil
	}

	switch name {
	case Grid:
		computeGrid(positions, wins, region, opts)
	case Cascade:
		computeCascade(positions, wins, region, opts)
	case Stack:
		computeStack(positions, wins, region, opts)
	}

	return positions, nil
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
