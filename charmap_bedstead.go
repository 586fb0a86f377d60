package vidtex

// CharMapBedstead is the default, rounded-teletext font. Mosaic glyphs
// live in the 0xEE00 private-use block; double-height halves offset by
// +0x40/+0x80 for mosaics and +0xE000/+0xE100 for alpha glyphs.
func CharMapBedstead(rowCode, colCode int, isAlpha, isContiguous, isDheight, isDheightLower bool) rune {
	if rowCode < 0 || rowCode > 15 || colCode < 0 || colCode > 7 {
		return ' '
	}

	isGraph := !isAlpha
	var ch rune

	switch {
	case colCode == 2 && isAlpha:
		if rowCode == 3 {
			ch = 0xA3
		} else {
			ch = rune(0x20 + rowCode)
		}
	case colCode == 2 && isGraph:
		if isContiguous {
			ch = rune(0xEE00 + rowCode)
		} else {
			ch = rune(0xEE20 + rowCode)
		}
	case colCode == 3 && isAlpha:
		ch = rune(0x30 + rowCode)
	case colCode == 3 && isGraph:
		if isContiguous {
			ch = rune(0xEE10 + rowCode)
		} else {
			ch = rune(0xEE30 + rowCode)
		}
	case colCode == 4:
		ch = rune(0x40 + rowCode)
	case colCode == 5:
		switch rowCode {
		case 11:
			ch = 0x2190 // left arrow
		case 12:
			ch = 0xBD // one half
		case 13:
			ch = 0x2192 // right arrow
		case 14:
			ch = 0x2191 // up arrow
		case 15:
			ch = 0x23 // #
		default:
			ch = rune(0x50 + rowCode)
		}
	case colCode == 6 && isAlpha:
		if rowCode == 0 {
			ch = 0x2013 // en-dash
		} else {
			ch = rune(0x60 + rowCode)
		}
	case colCode == 6 && isGraph:
		if isContiguous {
			ch = rune(0xEE40 + rowCode)
		} else {
			ch = rune(0xEE60 + rowCode)
		}
	case colCode == 7 && isAlpha:
		switch rowCode {
		case 11:
			ch = 0xBC // one quarter
		case 12:
			ch = 0x2016 // double vertical line
		case 13:
			ch = 0xBE // three quarters
		case 14:
			ch = 0xF7 // divide
		case 15:
			ch = 0x25A0 // black square
		default:
			ch = rune(0x70 + rowCode)
		}
	case colCode == 7 && isGraph:
		if isContiguous {
			ch = rune(0xEE50 + rowCode)
		} else {
			ch = rune(0xEE70 + rowCode)
		}
	default:
		return ' '
	}

	if !isDheight {
		return ch
	}

	if isGraph {
		if isDheightLower {
			return ch + 0x80
		}
		return ch + 0x40
	}

	if isDheightLower {
		return ch + 0xE100
	}
	return ch + 0xE000
}
