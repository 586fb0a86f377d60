package vidtex

// Backend is the external terminal rendering collaborator: a character
// cell display capable of color pairs and bold. Display adapts the
// decoder's calls to it. Defaults to NoopBackend.
type Backend interface {
	// Put draws codepoint at (row, col) using the given attribute.
	Put(row, col int, codepoint rune, attr Attr)
	// MoveCursor positions the visible cursor.
	MoveCursor(row, col int)
	// SetCursorVisible shows or hides the cursor (DC1/DC4).
	SetCursorVisible(visible bool)
}

// NoopBackend discards all drawing calls. Useful for tests and for
// decoding without a live display (e.g. replaying a saved frame buffer).
type NoopBackend struct{}

func (NoopBackend) Put(row, col int, codepoint rune, attr Attr) {}
func (NoopBackend) MoveCursor(row, col int)                     {}
func (NoopBackend) SetCursorVisible(visible bool)                {}

var _ Backend = NoopBackend{}

// Display wraps a Grid and a Backend. Writing a cell always updates the
// grid; it also draws to the backend, masking the character to SPACE
// when the cell is concealed and not revealed, or flashing and currently
// in the blanked half of the blink.
type Display struct {
	grid               *Grid
	backend            Backend
	mono               bool
	boldOverride       bool
	screenFlashState   bool
	screenRevealedState bool
}

// NewDisplay wraps grid with backend. A nil backend defaults to NoopBackend.
func NewDisplay(grid *Grid, backend Backend) *Display {
	if backend == nil {
		backend = NoopBackend{}
	}
	return &Display{grid: grid, backend: backend}
}

// SetMono forces every color pair to 0 (white on black) regardless of the
// decoder's computed pair, for the --mono CLI flag.
func (d *Display) SetMono(mono bool) { d.mono = mono }

// SetBoldOverride forces every cell bold, for the --bold CLI flag.
func (d *Display) SetBoldOverride(bold bool) { d.boldOverride = bold }

// Put stores cell in the grid at (row, col) and draws it. A concealed
// cell shows SPACE unless revealed, a flashing cell shows SPACE unless
// the flash state is "on".
func (d *Display) Put(row, col int, codepoint rune, attr Attr) {
	d.grid.Put(row, col, Cell{Character: codepoint, Attr: attr})
	d.draw(row, col, codepoint, attr)
}

// Redraw re-renders the stored cell at (row, col) without changing it —
// used by ToggleFlash/ToggleReveal to re-apply the masking rule after a
// screen-wide state flip.
func (d *Display) Redraw(row, col int) {
	cell := d.grid.Get(row, col)
	d.draw(row, col, cell.Character, cell.Attr)
}

func (d *Display) draw(row, col int, codepoint rune, attr Attr) {
	display := codepoint

	if attr.HasConcealed && !d.screenRevealedState {
		display = ' '
	}
	if attr.HasFlash && !d.screenFlashState {
		display = ' '
	}

	outAttr := attr
	if d.mono {
		outAttr.ColorPair = 0
	}
	if d.boldOverride {
		outAttr.Bold = true
	}

	d.backend.Put(row, col, display, outAttr)
}

// MoveCursor forwards to the backend.
func (d *Display) MoveCursor(row, col int) { d.backend.MoveCursor(row, col) }

// SetCursorVisible forwards to the backend.
func (d *Display) SetCursorVisible(visible bool) { d.backend.SetCursorVisible(visible) }

// SetFlashState sets the screen-wide flash-visible state used by draw's
// masking rule.
func (d *Display) SetFlashState(on bool) {
	d.screenFlashState = on
}

// ToggleFlashState inverts the screen-wide flash-visible state and
// returns the new value.
func (d *Display) ToggleFlashState() bool {
	d.screenFlashState = !d.screenFlashState
	return d.screenFlashState
}

// SetRevealedState sets the screen-wide conceal-reveal state used by
// draw's masking rule.
func (d *Display) SetRevealedState(on bool) {
	d.screenRevealedState = on
}

// ToggleRevealedState inverts the screen-wide conceal-reveal state and
// returns the new value.
func (d *Display) ToggleRevealedState() bool {
	d.screenRevealedState = !d.screenRevealedState
	return d.screenRevealedState
}
