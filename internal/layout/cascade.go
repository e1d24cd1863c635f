package layout

import (
	"github.com/1broseidon/wintidy/internal/platform"
)

// computeCascade staggers equally-sized windows diagonally from the screen
// origin. The cascade wraps after maxCascadeCount steps, which bounds the
// drift so no window's origin plus size can leave the screen.
func computeCascade(positions PositionMap, wins []platform.Window, region platform.Rect, opts Options) {
	offsetX := intOr(opts.OffsetX, DefaultOffsetX)
	offsetY := intOr(opts.OffsetY, DefaultOffsetY)

	windowWidth := int(float64(region.Width) * cascadeRatio)
	windowHeight := int(float64(region.Height) * cascadeRatio)
	if windowWidth < 1 {
		windowWidth = 1
	}
	if windowHeight < 1 {
		windowHeight = 1
	}

	maxCascadeCount := minInt(
		(region.Width-windowWidth)/offsetX,
		(region.Height-windowHeight)/offsetY,
	)
	if maxCascadeCount < 1 {
		maxCascadeCount = 1
	}

	for i, w := range wins {
		index := i % maxCascadeCount

		positions[w.ID] = platform.Rect{
			X:      region.X + index*offsetX,
			Y:      region.Y + index*offsetY,
			Width:  windowWidth,
			Height: windowHeight,
		}
	}
}

// CascadeSteps returns the wrap length used by the cascade layout for the
// given region and offsets. Exposed so callers can reason about drift bounds.
func CascadeSteps(region platform.Rect, opts Options) int {
	offsetX := intOr(opts.OffsetX, DefaultOffsetX)
	offsetY := intOr(opts.OffsetY, DefaultOffsetY)

	windowWidth := int(float64(region.Width) * cascadeRatio)
	windowHeight := int(float64(region.Height) * cascadeRatio)

	steps := minInt(
		(region.Width-windowWidth)/offsetX,
		(region.Height-windowHeight)/offsetY,
	)
	if steps < 1 {
		steps = 1
	}
	return steps
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
