// Package layout arranges gallery cards into balanced columns.
package layout

// Cell is one placed item. Row and Height are in terminal rows.
type Cell struct {
	Index  int
	Column int
	Row    int
	Height int
}

type Grid struct {
	Columns     [][]int
	Cells       []Cell
	ColumnWidth int
	Gutter      int
	TotalRows   int
}

type Masonry struct {
	Columns int
	Gutter  int
}

// ColumnWidth returns the width of one column when width cells are shared by
// m.Columns columns separated by the gutter.
func (m Masonry) ColumnWidth(width int) int {
	cols := m.columns()
	gutter := max(0, m.Gutter)
	w := (width - gutter*(cols-1)) / cols
	if w < 1 {
		return 1
	}
	return w
}

// Arrange places items in input order, each into the currently shortest
// column; ties go to the leftmost column. Heights below 1 count as 1.
func (m Masonry) Arrange(heights []int, width int) Grid {
	cols := m.columns()
	gutter := max(0, m.Gutter)
	g := Grid{
		Columns:     make([][]int, cols),
		Cells:       make([]Cell, len(heights)),
		ColumnWidth: m.ColumnWidth(width),
		Gutter:      gutter,
	}
	colHeights := make([]int, cols)
	for i, h := range heights {
		if h < 1 {
			h = 1
		}
		col := shortest(colHeights)
		row := colHeights[col]
		if row > 0 {
			row += gutterRows(gutter)
		}
		g.Columns[col] = append(g.Columns[col], i)
		g.Cells[i] = Cell{Index: i, Column: col, Row: row, Height: h}
		colHeights[col] = row + h
	}
	for _, h := range colHeights {
		if h > g.TotalRows {
			g.TotalRows = h
		}
	}
	return g
}

// CardHeight converts an aspect ratio (height/width) into terminal rows for
// a card that is width cells wide. Terminal cells are about twice as tall as
// they are wide. extra rows are added for captions.
func CardHeight(aspect float64, width, extra int) int {
	if aspect <= 0 {
		aspect = 1
	}
	rows := int(aspect*float64(width)/2 + 0.5)
	if rows < 3 {
		rows = 3
	}
	return rows + max(0, extra)
}

func (m Masonry) columns() int {
	if m.Columns < 1 {
		return 1
	}
	return m.Columns
}

// gutterRows keeps vertical spacing proportional to the horizontal gutter.
func gutterRows(gutter int) int {
	if gutter <= 0 {
		return 0
	}
	return max(1, gutter/2)
}

func shortest(heights []int) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}
