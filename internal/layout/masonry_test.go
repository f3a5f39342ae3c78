package layout

import (
	"reflect"
	"testing"
)

func TestMasonry_BalancesColumns(t *testing.T) {
	m := Masonry{Columns: 3, Gutter: 2}
	g := m.Arrange([]int{10, 4, 4, 3, 5}, 62)

	want := [][]int{{0}, {1, 3}, {2, 4}}
	if !reflect.DeepEqual(g.Columns, want) {
		t.Fatalf("unexpected columns: got %v want %v", g.Columns, want)
	}
	if g.ColumnWidth != 19 {
		t.Fatalf("unexpected column width: %d", g.ColumnWidth)
	}
	if g.Cells[3].Row != 5 || g.Cells[4].Row != 5 {
		t.Fatalf("expected second row to start after gutter, got %+v %+v", g.Cells[3], g.Cells[4])
	}
	if g.TotalRows != 10 {
		t.Fatalf("unexpected total rows: %d", g.TotalRows)
	}
}

func TestMasonry_SingleColumnFallback(t *testing.T) {
	m := Masonry{Columns: 0}
	g := m.Arrange([]int{2, 0, 3}, 40)
	if len(g.Columns) != 1 || len(g.Columns[0]) != 3 {
		t.Fatalf("expected one column with all items, got %v", g.Columns)
	}
	if g.Cells[1].Height != 1 {
		t.Fatalf("expected minimum height 1, got %d", g.Cells[1].Height)
	}
	if g.TotalRows != 6 {
		t.Fatalf("unexpected total rows: %d", g.TotalRows)
	}
}

func TestMasonry_Empty(t *testing.T) {
	g := Masonry{Columns: 3}.Arrange(nil, 90)
	if g.TotalRows != 0 || len(g.Cells) != 0 {
		t.Fatalf("expected empty grid, got %+v", g)
	}
}

func TestCardHeight(t *testing.T) {
	if got := CardHeight(1.5, 20, 0); got != 15 {
		t.Fatalf("CardHeight(1.5, 20) = %d, want 15", got)
	}
	if got := CardHeight(0.1, 20, 2); got != 5 {
		t.Fatalf("expected minimum 3 rows plus caption, got %d", got)
	}
	if got := CardHeight(0, 10, 0); got != 5 {
		t.Fatalf("expected square fallback, got %d", got)
	}
}
