package vidtex

// CharTriple holds the three code-point forms of the same logical
// character: single height, and the upper/lower halves used when
// double-height is active.
type CharTriple struct {
	Single rune
	Upper  rune
	Lower  rune
}

// Flags is the decoder's current presentation state. It is reset to its
// defaults at the start of every row, except IsCursorOn, which persists
// across row boundaries.
type Flags struct {
	BgColor       Color
	AlphaFgColor  Color
	MosaicFgColor Color

	IsAlpha         bool
	IsContiguous    bool
	IsFlashing      bool
	IsBoxing        bool
	IsConcealed     bool
	IsMosaicHeld    bool
	IsDoubleHeight  bool
	IsEscaped       bool
	IsCursorOn      bool

	HeldMosaic CharTriple
}

// reset restores the row-start defaults: white alpha text on black,
// contiguous mosaics, steady, not concealed, not boxing, no held mosaic,
// single height. IsCursorOn is left untouched.
func (f *Flags) reset(space CharTriple) {
	f.BgColor = Black
	f.AlphaFgColor = White
	f.MosaicFgColor = White
	f.IsAlpha = true
	f.IsContiguous = true
	f.IsFlashing = false
	f.IsBoxing = false
	f.IsConcealed = false
	f.IsMosaicHeld = false
	f.IsDoubleHeight = false
	f.IsEscaped = false
	f.HeldMosaic = space
}

// AfterFlags holds Set-After changes: mutations that take effect only
// after the current cell has been drawn. Color fields use NoColor as
// "nothing pending"; boolean fields use Tristate since "unchanged" must
// be distinguishable from "set to false".
type AfterFlags struct {
	AlphaFgColor  Color
	MosaicFgColor Color

	IsFlashing     Tristate
	IsBoxing       Tristate
	IsMosaicHeld   Tristate
	IsDoubleHeight Tristate
}

func (a *AfterFlags) reset() {
	a.AlphaFgColor = NoColor
	a.MosaicFgColor = NoColor
	a.IsFlashing = Undef
	a.IsBoxing = Undef
	a.IsMosaicHeld = Undef
	a.IsDoubleHeight = Undef
}
