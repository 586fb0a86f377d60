package vidtex

// CharMapGalax is the alternate, high-compatibility mosaic font,
// selected by the -galax CLI flag. Mosaic glyphs live in the 0xE200
// private-use block, with separated forms at +0xC0.
func CharMapGalax(rowCode, colCode int, isAlpha, isContiguous, isDheight, isDheightLower bool) rune {
	if rowCode < 0 || rowCode > 15 || colCode < 0 || colCode > 7 {
		return '?'
	}

	isGraph := !isAlpha
	ch := rune(0x20)

	if isGraph {
		switch colCode {
		case 2:
			ch = rune(0xE200 + rowCode)
		case 3:
			ch = rune(0xE210 + rowCode)
		case 6:
			ch = rune(0xE220 + rowCode)
		case 7:
			ch = rune(0xE230 + rowCode)
		}

		if !isContiguous {
			ch += 0xC0
		}

		if isDheight {
			if isDheightLower {
				ch += 0x80
			} else {
				ch += 0x40
			}
		}

		return ch
	}

	switch colCode {
	case 2:
		if rowCode == 3 {
			ch = 0xA3
		} else {
			ch = rune(0x20 + rowCode)
		}
	case 3:
		ch = rune(0x30 + rowCode)
	case 4:
		ch = rune(0x40 + rowCode)
	case 5:
		switch rowCode {
		case 12:
			ch = 0xBD
		case 15:
			ch = 0x23
		default:
			ch = rune(0x50 + rowCode)
		}
	case 6:
		ch = rune(0x60 + rowCode)
	case 7:
		switch rowCode {
		case 11:
			ch = 0xBC
		case 13:
			ch = 0xBE
		case 14:
			ch = 0xF7
		case 15:
			ch = 0xB6 // pilcrow
		default:
			ch = rune(0x70 + rowCode)
		}
	}

	if isDheight {
		if isDheightLower {
			ch += 0xE100
		} else {
			ch += 0xE000
		}
	}

	return ch
}
