package vidtex

import (
	"io"
	"sync"
)

// FrameBufferCap bounds the raw byte capture used by SaveFrame. Bytes
// beyond the cap are still decoded; only the capture for save-to-disk is
// truncated.
const FrameBufferCap = 2000

// Option configures a PresentationDecoder during construction.
type Option func(*PresentationDecoder)

// WithCharMap selects the font table. Defaults to CharMapBedstead.
func WithCharMap(m CharMap) Option {
	return func(d *PresentationDecoder) { d.charMap = m }
}

// WithCursorOn sets the initial cursor-visibility preference.
func WithCursorOn(on bool) Option {
	return func(d *PresentationDecoder) { d.flags.IsCursorOn = on }
}

// PresentationDecoder is the main teletext state machine: it owns current
// attribute flags, the set-after queue, held-mosaic memory, double-height
// tracking, and frame buffer capture, and drives a Display.
type PresentationDecoder struct {
	mu sync.RWMutex

	charMap CharMap
	grid    *Grid
	display *Display

	flags      Flags
	afterFlags AfterFlags

	row, col      int
	dheightLowRow int

	headerRow [Cols]rune

	frameBuffer       [FrameBufferCap]byte
	frameBufferOffset int

	space CharTriple
}

// NewPresentationDecoder allocates the grid, installs initial flags, and
// draws a blank frame.
func NewPresentationDecoder(backend Backend, opts ...Option) *PresentationDecoder {
	d := &PresentationDecoder{
		charMap:       CharMapBedstead,
		dheightLowRow: -1,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.grid = NewGrid()
	d.display = NewDisplay(d.grid, backend)
	d.space = charTriple(d.charMap, 0, 2, true, false)
	d.newFrame()
	d.grid.Each(func(row, col int, _ *Cell) {
		d.display.Redraw(row, col)
	})

	return d
}

// Row and Col report the decoder's current cursor position, for tests and
// for driving an external cursor.
func (d *PresentationDecoder) Row() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.row
}

func (d *PresentationDecoder) Col() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.col
}

// Cell returns a copy of the grid cell at (row, col).
func (d *PresentationDecoder) Cell(row, col int) Cell {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return *d.grid.Get(row, col)
}

// HeaderRow returns the code points captured from row 0, for page-number
// scraping.
func (d *PresentationDecoder) HeaderRow() [Cols]rune {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.headerRow
}

// Display returns the decoder's backing Display, for callers that need to
// configure render-time options (mono, bold override, cursor visibility)
// or force a redraw. The pointer is fixed for the decoder's lifetime, so
// this is safe to call without holding d.mu.
func (d *PresentationDecoder) Display() *Display {
	return d.display
}

// Decode advances the state machine one byte at a time.
func (d *PresentationDecoder) Decode(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, b := range data {
		d.capture(b)
		d.decodeByte(b)
	}
}

func (d *PresentationDecoder) capture(b byte) {
	if d.frameBufferOffset < FrameBufferCap {
		d.frameBuffer[d.frameBufferOffset] = b
		d.frameBufferOffset++
	}
}

func (d *PresentationDecoder) decodeByte(b byte) {
	switch b {
	case 0: // NUL
		return
	case 8: // BS
		d.col--
		if d.col < 0 {
			d.col = Cols - 1
			d.row--
			if d.row < 0 {
				d.row = Rows - 1
			}
		}
		d.display.MoveCursor(d.row, d.col)
		return
	case 9: // HT
		d.col++
		if d.col >= Cols {
			d.col = 0
			d.row++
			if d.row >= Rows {
				d.row = 0
			}
		}
		d.display.MoveCursor(d.row, d.col)
		return
	case 10: // LF
		d.row++
		if d.row >= Rows {
			d.row = 0
		}
		d.col = 0
		d.flags.reset(d.space)
		d.afterFlags.reset()
		d.display.MoveCursor(d.row, d.col)
		return
	case 11: // VT
		d.row--
		if d.row < 0 {
			d.row = Rows - 1
		}
		d.display.MoveCursor(d.row, d.col)
		return
	case 12: // FF
		d.newFrame()
		d.display.MoveCursor(d.row, d.col)
		return
	case 13: // CR
		d.fillToEnd()
		d.col = 0
		d.display.MoveCursor(d.row, d.col)
		return
	case 17: // DC1
		d.flags.IsCursorOn = true
		d.display.SetCursorVisible(true)
		return
	case 20: // DC4
		d.flags.IsCursorOn = false
		d.display.SetCursorVisible(false)
		return
	case 30: // RS
		d.fillToEnd()
		d.col = 0
		d.row = 0
		d.display.MoveCursor(d.row, d.col)
		return
	case 27: // ESC: attribute group 2, row code 11; masks the next byte's col_code
		d.decodePresentationByte(b)
		return
	}

	if b < 32 {
		// Unrecognised control code: silently discarded.
		return
	}

	d.decodePresentationByte(b)
}

func (d *PresentationDecoder) newFrame() {
	d.row = 0
	d.col = 0
	d.dheightLowRow = -1
	d.frameBufferOffset = 0
	d.display.SetRevealedState(false)
	d.flags.reset(d.space)
	d.afterFlags.reset()
	d.grid.Clear()
	for i := range d.headerRow {
		d.headerRow[i] = ' '
	}
}

func (d *PresentationDecoder) fillToEnd() {
	if d.col <= 0 {
		return
	}
	prev := d.grid.Get(d.row, d.col-1)
	attr := prev.Attr
	for c := d.col; c < Cols; c++ {
		ch := d.grid.Get(d.row, c).Character
		d.display.Put(d.row, c, ch, attr)
	}
}

func (d *PresentationDecoder) decodePresentationByte(b byte) {
	rowCode := int(b & 0x0F)
	colCode := int((b >> 4) & 0x07)

	if d.flags.IsEscaped {
		colCode &= 1
		d.flags.IsEscaped = false
	}

	switch colCode {
	case 0:
		d.attrGroup1(rowCode)
	case 1:
		if d.attrGroup2(rowCode) {
			return // "ESC": do not draw, do not advance column.
		}
	}

	if d.row != d.dheightLowRow {
		attr := d.composeAttr()

		if colCode == 0 || colCode == 1 {
			ch := d.space
			if d.flags.IsMosaicHeld {
				ch = d.flags.HeldMosaic
			}
			// The header row records a plain space for attribute cells,
			// even when a held mosaic is drawn to the screen cell.
			d.putChar(ch, attr, ' ')
		} else {
			ch := charTriple(d.charMap, rowCode, colCode, d.flags.IsAlpha, d.flags.IsContiguous)
			d.putChar(ch, attr, ch.Single)
			if !d.flags.IsAlpha {
				d.flags.HeldMosaic = ch
			}
		}
	}

	d.applyAfterFlags()
	d.afterFlags.reset()
	d.advanceCursor()
}

// putChar draws the single- or double-height form of ch at the cursor,
// and its lower half on the reserved row if double-height is active.
// headerChar is what row 0 contributes to the page-number capture, which
// is not always the drawn character.
func (d *PresentationDecoder) putChar(ch CharTriple, attr Attr, headerChar rune) {
	if d.flags.IsDoubleHeight {
		d.display.Put(d.row, d.col, ch.Upper, attr)
	} else {
		d.display.Put(d.row, d.col, ch.Single, attr)
	}

	if d.row == 0 {
		d.headerRow[d.col] = headerChar
	}

	if d.flags.IsDoubleHeight {
		d.display.Put(d.dheightLowRow, d.col, ch.Lower, attr)
	}
}

func (d *PresentationDecoder) composeAttr() Attr {
	fg := d.flags.AlphaFgColor
	if !d.flags.IsAlpha {
		fg = d.flags.MosaicFgColor
	}
	return Attr{
		ColorPair:    ColorPair(fg, d.flags.BgColor),
		HasFlash:     d.flags.IsFlashing,
		HasConcealed: d.flags.IsConcealed,
	}
}

// attrGroup1 handles col_code==0 (the first attribute group: alpha
// colors plus flash/box/height commands).
func (d *PresentationDecoder) attrGroup1(rowCode int) {
	switch rowCode {
	case 0, 14, 15:
		// NUL / Shift Out / Shift In: no effect at Level 1.
	case 8: // Flash
		d.afterFlags.IsFlashing = True
	case 9: // Steady
		d.flags.IsFlashing = false
	case 10: // End Box
		d.afterFlags.IsBoxing = False
	case 11: // Start Box
		d.afterFlags.IsBoxing = True
	case 12: // Normal Height
		d.flags.IsDoubleHeight = false
		d.flags.HeldMosaic = d.space
	case 13: // Double Height
		if d.row < Rows-2 && d.row != d.dheightLowRow {
			d.afterFlags.IsDoubleHeight = True
		}
	default:
		if rowCode != 0 {
			d.afterFlags.AlphaFgColor = Color(rowCode)
		}
	}
}

// attrGroup2 handles col_code==1 (the second attribute group: mosaic
// colors plus conceal/contiguous/ESC/background/hold commands).
func (d *PresentationDecoder) attrGroup2(rowCode int) bool {
	switch rowCode {
	case 0: // DLE: ignored
	case 8: // Conceal
		d.flags.IsConcealed = true
	case 9: // Contiguous
		d.flags.IsContiguous = true
	case 10: // Separated
		d.flags.IsContiguous = false
	case 11: // ESC
		d.flags.IsEscaped = true
		return true
	case 12: // Black BG
		d.flags.BgColor = Black
	case 13: // New BG
		if d.flags.IsAlpha {
			d.flags.BgColor = d.flags.AlphaFgColor
		} else {
			d.flags.BgColor = d.flags.MosaicFgColor
		}
	case 14: // Hold Graphics
		d.flags.IsMosaicHeld = true
	case 15: // Release Graphics
		d.afterFlags.IsMosaicHeld = False
	default:
		if rowCode != 0 {
			d.afterFlags.MosaicFgColor = Color(rowCode)
		}
	}
	return false
}

// applyAfterFlags applies pending Set-After changes. Order matters: a
// color change switches the alpha/mosaic mode (and resets the held
// mosaic on a mode switch) before the height change reserves the next
// row.
func (d *PresentationDecoder) applyAfterFlags() {
	wasAlpha := d.flags.IsAlpha

	if d.afterFlags.AlphaFgColor != NoColor {
		d.flags.AlphaFgColor = d.afterFlags.AlphaFgColor
		d.flags.IsAlpha = true
		d.flags.IsConcealed = false
	} else if d.afterFlags.MosaicFgColor != NoColor {
		d.flags.MosaicFgColor = d.afterFlags.MosaicFgColor
		d.flags.IsAlpha = false
		d.flags.IsConcealed = false
	}

	if d.flags.IsAlpha != wasAlpha {
		d.flags.HeldMosaic = d.space
	}

	if d.afterFlags.IsFlashing == True {
		d.flags.IsFlashing = true
	}

	if value, defined := d.afterFlags.IsBoxing.Bool(); defined {
		d.flags.IsBoxing = value
	}

	if d.afterFlags.IsMosaicHeld == False {
		d.flags.IsMosaicHeld = false
	}

	if d.afterFlags.IsDoubleHeight == True {
		d.flags.IsDoubleHeight = true
		d.dheightLowRow = d.row + 1
	}
}

// advanceCursor moves to the next column, wrapping to a new row (as if LF
// had arrived) on overflow.
func (d *PresentationDecoder) advanceCursor() {
	d.col++
	if d.col == Cols {
		d.row++
		if d.row >= Rows {
			d.row = 0
		}
		d.col = 0
		d.flags.reset(d.space)
		d.afterFlags.reset()
	}
	d.display.MoveCursor(d.row, d.col)
}

// ToggleFlash inverts the screen-wide flash-visible state and re-renders
// every cell tagged has_flash.
func (d *PresentationDecoder) ToggleFlash() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.display.ToggleFlashState()

	d.grid.Each(func(row, col int, cell *Cell) {
		if cell.Attr.HasFlash {
			d.display.Redraw(row, col)
		}
	})
}

// ToggleReveal inverts the screen-wide conceal-reveal state and
// re-renders every cell tagged has_concealed.
func (d *PresentationDecoder) ToggleReveal() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.display.ToggleRevealedState()

	d.grid.Each(func(row, col int, cell *Cell) {
		if cell.Attr.HasConcealed {
			d.display.Redraw(row, col)
		}
	})
}

// SaveFrame writes the captured raw frame_buffer bytes to w.
func (d *PresentationDecoder) SaveFrame(w io.Writer) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.frameBufferOffset == 0 {
		return 0, nil
	}
	return w.Write(d.frameBuffer[:d.frameBufferOffset])
}
