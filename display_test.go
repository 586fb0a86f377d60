package vidtex

import "testing"

// spyBackend records every call for assertions, in place of a real
// terminal rendering back-end.
type spyBackend struct {
	puts        []spyPut
	cursorRow   int
	cursorCol   int
	cursorMoves int
	visible     bool
}

type spyPut struct {
	row, col  int
	codepoint rune
	attr      Attr
}

func (s *spyBackend) Put(row, col int, codepoint rune, attr Attr) {
	s.puts = append(s.puts, spyPut{row, col, codepoint, attr})
}

func (s *spyBackend) MoveCursor(row, col int) {
	s.cursorRow, s.cursorCol = row, col
	s.cursorMoves++
}

func (s *spyBackend) SetCursorVisible(visible bool) { s.visible = visible }

func (s *spyBackend) last() spyPut { return s.puts[len(s.puts)-1] }

func TestDisplayPutDrawsAndStoresInGrid(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)

	d.Put(2, 3, 'X', Attr{ColorPair: 7})

	if grid.Get(2, 3).Character != 'X' {
		t.Error("Put did not store character in grid")
	}
	if backend.last().codepoint != 'X' {
		t.Error("Put did not draw to backend")
	}
}

func TestDisplayConcealedMaskedUntilRevealed(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)

	d.Put(0, 0, 'S', Attr{HasConcealed: true})
	if backend.last().codepoint != ' ' {
		t.Errorf("concealed cell drew %q before reveal, want space", backend.last().codepoint)
	}

	d.SetRevealedState(true)
	d.Redraw(0, 0)
	if backend.last().codepoint != 'S' {
		t.Errorf("concealed cell drew %q after reveal, want 'S'", backend.last().codepoint)
	}
}

func TestDisplayFlashMaskedWhenFlashStateOff(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)

	d.Put(0, 0, 'F', Attr{HasFlash: true})
	if backend.last().codepoint != ' ' {
		t.Errorf("flashing cell drew %q with flash state off, want space", backend.last().codepoint)
	}

	d.SetFlashState(true)
	d.Redraw(0, 0)
	if backend.last().codepoint != 'F' {
		t.Errorf("flashing cell drew %q with flash state on, want 'F'", backend.last().codepoint)
	}
}

func TestDisplayToggleFlashStateIsIdempotentAfterTwoFlips(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)

	start := d.screenFlashState
	d.ToggleFlashState()
	d.ToggleFlashState()
	if d.screenFlashState != start {
		t.Error("two toggles should return to the original flash state")
	}
}

func TestDisplayMonoForcesColorPairZero(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)
	d.SetMono(true)

	d.Put(0, 0, 'A', Attr{ColorPair: 5})

	if backend.last().attr.ColorPair != 0 {
		t.Errorf("mono mode attr.ColorPair = %d, want 0", backend.last().attr.ColorPair)
	}
	// The grid's stored attribute is untouched by the render-time override.
	if grid.Get(0, 0).Attr.ColorPair != 5 {
		t.Error("mono override must not mutate the stored grid attribute")
	}
}

func TestDisplayBoldOverride(t *testing.T) {
	grid := NewGrid()
	backend := &spyBackend{}
	d := NewDisplay(grid, backend)
	d.SetBoldOverride(true)

	d.Put(0, 0, 'A', Attr{})

	if !backend.last().attr.Bold {
		t.Error("bold override did not force Bold on the rendered attr")
	}
}

func TestNewDisplayNilBackendDefaultsToNoop(t *testing.T) {
	d := NewDisplay(NewGrid(), nil)
	// Must not panic.
	d.Put(0, 0, 'A', Attr{})
	d.MoveCursor(1, 1)
	d.SetCursorVisible(true)
}
