package vidtex

// Color is one of the eight named teletext colors. The zero value is
// Black, matching the decoder's default background.
type Color int8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// NoColor is the sentinel meaning "no deferred color change pending" in
// AfterFlags. It is distinct from any of the eight named colors.
const NoColor Color = -1

// ColorPair packs a foreground/background pair into the 7-bit form used
// by Display and Attr: (fg<<3)|bg. Pair 0 is always white-on-black and is
// never redefined by callers.
func ColorPair(fg, bg Color) int {
	if fg == White && bg == Black {
		return 0
	}
	return int(fg)<<3 | int(bg)
}

// Tristate represents a deferred boolean with three values: left
// unchanged, or explicitly set true/false. It exists because Set-After
// fields must distinguish "no change" from "set to false", which a plain
// bool cannot.
type Tristate int8

const (
	Undef Tristate = iota
	True
	False
)

// Bool reports the tristate's boolean value and whether it was defined.
func (t Tristate) Bool() (value bool, defined bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}
