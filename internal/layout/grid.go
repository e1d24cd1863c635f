package layout

import (
	"math"

	"github.com/1broseidon/wintidy/internal/platform"
)

// autoColumns picks a column count proportional to the screen's aspect ratio,
// clamped so every cell can still reach the minimum width and no column is
// left empty.
func autoColumns(numWindows int, region platform.Rect, padding int) int {
	aspect := float64(region.Width) / float64(region.Height)
	cols := int(math.Round(math.Sqrt(float64(numWindows) * aspect)))

	if maxCols := region.Width / (MinCellWidth + padding); cols > maxCols {
		cols = maxCols
	}
	if cols > numWindows {
		cols = numWindows
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// computeGrid arranges windows row-major in a cols × rows grid with uniform
// padding between cells and along the screen edges.
func computeGrid(positions PositionMap, wins []platform.Window, region platform.Rect, opts Options) {
	numWindows := len(wins)
	padding := intOr(opts.Padding, DefaultPadding)

	var cols int
	if opts.Columns != nil {
		cols = *opts.Columns
	} else {
		cols = autoColumns(numWindows, region, padding)
	}
	rows := (numWindows + cols - 1) / cols

	availWidth := region.Width - padding*(cols+1)
	availHeight := region.Height - padding*(rows+1)

	cellWidth := availWidth / cols
	cellHeight := availHeight / rows

	// autoColumns already caps the column count so cells reach MinCellWidth.
	// Explicit columns or many rows can still push cells below the preferred
	// minimums; degrade to whatever fits rather than failing.
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	for i, w := range wins {
		row := i / cols
		col := i % cols

		positions[w.ID] = platform.Rect{
			X:      region.X + padding + col*(cellWidth+padding),
			Y:      region.Y + padding + row*(cellHeight+padding),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
}
