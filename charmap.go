package vidtex

// CharMap maps a teletext (row_code, col_code) position and mode to a
// displayable code point. Implementations must be pure: the result
// depends only on the arguments, never on decoder state.
//
// row_code is 0..15, col_code is 0..7. isAlpha selects the alpha glyph
// table over the mosaic one; isContiguous selects contiguous over
// separated mosaic stride. isDheight/isDheightLower select the
// double-height upper or lower half form; both false requests the
// single-height form.
type CharMap func(rowCode, colCode int, isAlpha, isContiguous, isDheight, isDheightLower bool) rune

// charTriple builds the {single, upper, lower} forms for one (row_code,
// col_code, mode) combination using the given CharMap.
func charTriple(m CharMap, rowCode, colCode int, isAlpha, isContiguous bool) CharTriple {
	return CharTriple{
		Single: m(rowCode, colCode, isAlpha, isContiguous, false, false),
		Upper:  m(rowCode, colCode, isAlpha, isContiguous, true, false),
		Lower:  m(rowCode, colCode, isAlpha, isContiguous, true, true),
	}
}
