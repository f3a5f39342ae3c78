package state

import "github.com/glabrego/gallery-cli/internal/layout"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is the number of grid rows pgup/pgdown move for a body of the
// given height.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	chromeLines := 4
	if hasStatus {
		chromeLines += 1
	}
	step := height - chromeLines
	if step < 3 {
		step = 3
	}
	return step
}

// ClampScroll keeps the scroll offset within [0, totalRows-height].
func ClampScroll(top, height, totalRows int) int {
	maxTop := totalRows - height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

// Reveal returns the smallest scroll change that brings rows
// [row, row+size) into a window of height rows starting at top. Items taller
// than the window are aligned to their first row.
func Reveal(top, height, row, size int) int {
	if height <= 0 {
		return row
	}
	if row < top || size >= height {
		return row
	}
	if end := row + size; end > top+height {
		return end - height
	}
	return top
}

// Move returns the cell reached from cursor by moving dx columns or dy items
// within the current column. The cursor stays put at the grid edges.
func Move(g layout.Grid, cursor, dx, dy int) int {
	if len(g.Cells) == 0 {
		return 0
	}
	cursor = ClampCursor(cursor, len(g.Cells))
	cell := g.Cells[cursor]

	if dy != 0 {
		col := g.Columns[cell.Column]
		pos := indexOf(col, cursor)
		next := pos + dy
		if next < 0 || next >= len(col) {
			return cursor
		}
		return col[next]
	}
	if dx == 0 {
		return cursor
	}
	target := cell.Column + dx
	for target >= 0 && target < len(g.Columns) && len(g.Columns[target]) == 0 {
		target += dx
	}
	if target < 0 || target >= len(g.Columns) {
		return cursor
	}
	return nearestInColumn(g, target, cell.Row+cell.Height/2)
}

// MoveRows jumps within the cursor's column to the item nearest rows grid
// rows away.
func MoveRows(g layout.Grid, cursor, rows int) int {
	if len(g.Cells) == 0 {
		return 0
	}
	cursor = ClampCursor(cursor, len(g.Cells))
	cell := g.Cells[cursor]
	return nearestInColumn(g, cell.Column, cell.Row+cell.Height/2+rows)
}

// Last is the cell with the greatest bottom edge, the one nearest the end of
// the feed visually.
func Last(g layout.Grid) int {
	best := 0
	for i, c := range g.Cells {
		if c.Row+c.Height >= g.Cells[best].Row+g.Cells[best].Height {
			best = i
		}
	}
	return best
}

// CellAt returns the item whose card covers the given column and grid row.
func CellAt(g layout.Grid, column, row int) (int, bool) {
	if column < 0 || column >= len(g.Columns) {
		return 0, false
	}
	for _, idx := range g.Columns[column] {
		c := g.Cells[idx]
		if row >= c.Row && row < c.Row+c.Height {
			return idx, true
		}
	}
	return 0, false
}

func nearestInColumn(g layout.Grid, column, mid int) int {
	col := g.Columns[column]
	best := col[0]
	bestDist := -1
	for _, idx := range col {
		c := g.Cells[idx]
		d := c.Row + c.Height/2 - mid
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best
}

func indexOf(items []int, v int) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return -1
}
