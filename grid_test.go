package vidtex

import "testing"

func TestNewGridIsBlank(t *testing.T) {
	g := NewGrid()

	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := g.Get(r, c)
			if cell.Character != ' ' {
				t.Fatalf("cell (%d,%d) = %q, want space", r, c, cell.Character)
			}
			if cell.Attr != (Attr{}) {
				t.Fatalf("cell (%d,%d) has non-zero attr %+v", r, c, cell.Attr)
			}
		}
	}
}

func TestGridPutGet(t *testing.T) {
	g := NewGrid()
	g.Put(5, 10, Cell{Character: 'X', Attr: Attr{ColorPair: 3}})

	got := g.Get(5, 10)
	if got.Character != 'X' || got.Attr.ColorPair != 3 {
		t.Errorf("Get(5,10) = %+v, want character X, color pair 3", got)
	}

	// Neighboring cells untouched.
	if g.Get(5, 9).Character != ' ' || g.Get(5, 11).Character != ' ' {
		t.Error("Put wrote outside its target cell")
	}
}

func TestGridClearResetsEveryCell(t *testing.T) {
	g := NewGrid()
	g.Put(0, 0, Cell{Character: 'A'})
	g.Put(23, 39, Cell{Character: 'Z'})

	g.Clear()

	if g.Get(0, 0).Character != ' ' || g.Get(23, 39).Character != ' ' {
		t.Error("Clear did not blank every cell")
	}
}

func TestGridEachVisitsRowMajor(t *testing.T) {
	g := NewGrid()
	var visited []Position
	g.Each(func(row, col int, cell *Cell) {
		visited = append(visited, Position{Row: row, Col: col})
	})

	if len(visited) != Rows*Cols {
		t.Fatalf("Each visited %d cells, want %d", len(visited), Rows*Cols)
	}
	if visited[0] != (Position{0, 0}) || visited[1] != (Position{0, 1}) {
		t.Errorf("Each is not row-major: first two = %v", visited[:2])
	}
	if visited[len(visited)-1] != (Position{Rows - 1, Cols - 1}) {
		t.Errorf("Each last = %v, want (%d,%d)", visited[len(visited)-1], Rows-1, Cols-1)
	}
}
