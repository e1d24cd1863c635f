package layout

import (
	"github.com/1broseidon/wintidy/internal/platform"
)

// computeStack computes one rect and applies it to every window, piling them
// on top of each other at the chosen anchor.
func computeStack(positions PositionMap, wins []platform.Window, region platform.Rect, opts Options) {
	width := defaultStackPercent * region.Width / 100
	if opts.WindowWidth != nil {
		width = opts.WindowWidth.Resolve(region.Width)
	}
	height := defaultStackPercent * region.Height / 100
	if opts.WindowHeight != nil {
		height = opts.WindowHeight.Resolve(region.Height)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	var x, y int
	switch opts.StackPosition {
	case StackLeft:
		x = region.X + DefaultStackMargin
		y = region.Y + DefaultStackMargin
	case StackRight:
		x = region.X + region.Width - width - DefaultStackMargin
		y = region.Y + DefaultStackMargin
	case StackTop:
		x = region.X + (region.Width-width)/2
		y = region.Y + DefaultStackMargin
	case StackBottom:
		x = region.X + (region.Width-width)/2
		y = region.Y + region.Height - height - DefaultStackMargin
	default: // center
		x = region.X + (region.Width-width)/2
		y = region.Y + (region.Height-height)/2
	}

	rect := platform.Rect{X: x, Y: y, Width: width, Height: height}
	for _, w := range wins {
		positions[w.ID] = rect
	}
}
