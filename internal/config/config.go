package config

import (
	"fmt"

	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/windows"
)

// DefaultMaxUndoDepth bounds the organize history when the config does not
// override it.
const DefaultMaxUndoDepth = 10

// ValidationError reports an invalid configuration value with its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GridConfig holds grid layout defaults.
type GridConfig struct {
	// Columns of 0 means auto-compute from window count and aspect ratio.
	Columns int `yaml:"columns"`
	Padding int `yaml:"padding"`
}

// CascadeConfig holds cascade layout defaults.
type CascadeConfig struct {
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`
}

// StackConfig holds stack layout defaults. Width and height accept a pixel
// count ("800") or a percentage of the screen dimension ("50%").
type StackConfig struct {
	Position     string `yaml:"position"`
	WindowWidth  string `yaml:"window_width,omitempty"`
	WindowHeight string `yaml:"window_height,omitempty"`
}

// FilterConfig controls which windows count as manageable.
type FilterConfig struct {
	MinWidth          int      `yaml:"min_width"`
	MinHeight         int      `yaml:"min_height"`
	IgnoreFixedSize   *bool    `yaml:"ignore_fixed_size"`
	IgnoreMinimized   *bool    `yaml:"ignore_minimized"`
	ExcludedProcesses []string `yaml:"excluded_processes"`
}

// HotkeyConfig maps daemon actions to X11 key sequences. Empty string
// disables a binding.
type HotkeyConfig struct {
	Organize string `yaml:"organize"`
	Cascade  string `yaml:"cascade"`
	Grid     string `yaml:"grid"`
	Stack    string `yaml:"stack"`
	Undo     string `yaml:"undo"`
}

// Config holds the application configuration.
type Config struct {
	DefaultLayout string        `yaml:"default_layout"`
	MaxUndoDepth  int           `yaml:"max_undo_depth"`
	Grid          GridConfig    `yaml:"grid"`
	Cascade       CascadeConfig `yaml:"cascade"`
	Stack         StackConfig   `yaml:"stack"`
	Filters       FilterConfig  `yaml:"filters"`
	Hotkeys       HotkeyConfig  `yaml:"hotkeys"`
	LogLevel      string        `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultLayout: layout.Cascade,
		MaxUndoDepth:  DefaultMaxUndoDepth,
		Grid: GridConfig{
			Columns: 0, // auto
			Padding: layout.DefaultPadding,
		},
		Cascade: CascadeConfig{
			OffsetX: layout.DefaultOffsetX,
			OffsetY: layout.DefaultOffsetY,
		},
		Stack: StackConfig{
			Position: layout.StackCenter,
		},
		Filters: FilterConfig{
			MinWidth:  windows.DefaultMinWidth,
			MinHeight: windows.DefaultMinHeight,
			ExcludedProcesses: []string{
				"wintidy",
			},
		},
		Hotkeys: HotkeyConfig{
			Organize: "Control-Mod1-o",
			Cascade:  "Control-Mod1-c",
			Grid:     "Control-Mod1-g",
			Stack:    "Control-Mod1-s",
			Undo:     "Control-Mod1-u",
		},
		LogLevel: "info",
	}
}

// EffectiveMaxUndoDepth returns the undo depth with the default applied.
func (c *Config) EffectiveMaxUndoDepth() int {
	if c == nil || c.MaxUndoDepth < 1 {
		return DefaultMaxUndoDepth
	}
	return c.MaxUndoDepth
}

// LayoutOptions converts the per-layout defaults into engine options.
// Zero-valued knobs are left unset so the engine applies its own defaults.
func (c *Config) LayoutOptions() (layout.Options, error) {
	var opts layout.Options

	if c.Grid.Columns > 0 {
		cols := c.Grid.Columns
		opts.Columns = &cols
	}
	if c.Grid.Padding > 0 {
		pad := c.Grid.Padding
		opts.Padding = &pad
	}
	if c.Cascade.OffsetX > 0 {
		off := c.Cascade.OffsetX
		opts.OffsetX = &off
	}
	if c.Cascade.OffsetY > 0 {
		off := c.Cascade.OffsetY
		opts.OffsetY = &off
	}

	opts.StackPosition = c.Stack.Position

	if c.Stack.WindowWidth != "" {
		dim, err := layout.ParseDimension(c.Stack.WindowWidth)
		if err != nil {
			return layout.Options{}, &ValidationError{Path: "stack.window_width", Err: err}
		}
		opts.WindowWidth = &dim
	}
	if c.Stack.WindowHeight != "" {
		dim, err := layout.ParseDimension(c.Stack.WindowHeight)
		if err != nil {
			return layout.Options{}, &ValidationError{Path: "stack.window_height", Err: err}
		}
		opts.WindowHeight = &dim
	}

	return opts, nil
}

// FilterOptions converts the filter configuration into window filter options.
func (c *Config) FilterOptions() windows.FilterOptions {
	opts := windows.FilterOptions{
		MinWidth:          c.Filters.MinWidth,
		MinHeight:         c.Filters.MinHeight,
		ExcludedProcesses: append([]string(nil), c.Filters.ExcludedProcesses...),
		IgnoreFixedSize:   true,
	}
	if c.Filters.IgnoreFixedSize != nil {
		opts.IgnoreFixedSize = *c.Filters.IgnoreFixedSize
	}
	if c.Filters.IgnoreMinimized != nil {
		opts.IncludeMinimized = !*c.Filters.IgnoreMinimized
	}
	return opts
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if err := layout.Validate(c.DefaultLayout, layout.Options{}); err != nil {
		return &ValidationError{Path: "default_layout", Err: err}
	}
	if c.MaxUndoDepth < 1 {
		return &ValidationError{Path: "max_undo_depth", Err: fmt.Errorf("max_undo_depth must be >= 1")}
	}
	if c.Grid.Columns < 0 {
		return &ValidationError{Path: "grid.columns", Err: fmt.Errorf("columns must be >= 0 (0 = auto)")}
	}
	if c.Grid.Padding <= 0 {
		return &ValidationError{Path: "grid.padding", Err: fmt.Errorf("padding must be positive")}
	}
	if c.Cascade.OffsetX <= 0 {
		return &ValidationError{Path: "cascade.offset_x", Err: fmt.Errorf("offset_x must be positive")}
	}
	if c.Cascade.OffsetY <= 0 {
		return &ValidationError{Path: "cascade.offset_y", Err: fmt.Errorf("offset_y must be positive")}
	}

	switch c.Stack.Position {
	case layout.StackCenter, layout.StackLeft, layout.StackRight, layout.StackTop, layout.StackBottom:
	default:
		return &ValidationError{Path: "stack.position", Err: fmt.Errorf("position must be one of: center, left, right, top, bottom")}
	}
	if c.Stack.WindowWidth != "" {
		if _, err := layout.ParseDimension(c.Stack.WindowWidth); err != nil {
			return &ValidationError{Path: "stack.window_width", Err: err}
		}
	}
	if c.Stack.WindowHeight != "" {
		if _, err := layout.ParseDimension(c.Stack.WindowHeight); err != nil {
			return &ValidationError{Path: "stack.window_height", Err: err}
		}
	}

	if c.Filters.MinWidth <= 0 {
		return &ValidationError{Path: "filters.min_width", Err: fmt.Errorf("min_width must be positive")}
	}
	if c.Filters.MinHeight <= 0 {
		return &ValidationError{Path: "filters.min_height", Err: fmt.Errorf("min_height must be positive")}
	}
	for i, proc := range c.Filters.ExcludedProcesses {
		if proc == "" {
			return &ValidationError{Path: fmt.Sprintf("filters.excluded_processes[%d]", i), Err: fmt.Errorf("process name must not be empty")}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	return nil
}
