package vidtex

import "testing"

func TestCharMapBedsteadAlphaASCII(t *testing.T) {
	// col_code 4/5/6/7 rows map onto the ASCII block starting at that
	// column's base.
	got := CharMapBedstead(1, 4, true, true, false, false)
	if got != 'A' {
		t.Errorf("row 1 col 4 alpha = %q, want 'A'", got)
	}
}

func TestCharMapBedsteadPoundSign(t *testing.T) {
	got := CharMapBedstead(3, 2, true, true, false, false)
	if got != 0xA3 {
		t.Errorf("row 3 col 2 alpha = %#x, want £ (0xA3)", got)
	}
}

func TestCharMapBedsteadEnDashDefaultFontOnly(t *testing.T) {
	got := CharMapBedstead(0, 6, true, true, false, false)
	if got != 0x2013 {
		t.Errorf("row 0 col 6 alpha = %#x, want en-dash (0x2013)", got)
	}
	if got := CharMapGalax(0, 6, true, true, false, false); got == 0x2013 {
		t.Errorf("galax row 0 col 6 alpha = en-dash, want the plain ASCII code")
	}
}

func TestCharMapBedsteadCol5Symbols(t *testing.T) {
	cases := map[int]rune{
		11: 0x2190, // left arrow
		12: 0xBD,   // one half
		13: 0x2192, // right arrow
		14: 0x2191, // up arrow
		15: 0x23,   // #
	}
	for row, want := range cases {
		got := CharMapBedstead(row, 5, true, true, false, false)
		if got != want {
			t.Errorf("row %d col 5 alpha = %#x, want %#x", row, got, want)
		}
	}
}

func TestCharMapBedsteadCol7Symbols(t *testing.T) {
	cases := map[int]rune{
		11: 0xBC,   // one quarter
		12: 0x2016, // double vertical line
		13: 0xBE,   // three quarters
		14: 0xF7,   // divide
		15: 0x25A0, // black square
	}
	for row, want := range cases {
		got := CharMapBedstead(row, 7, true, true, false, false)
		if got != want {
			t.Errorf("row %d col 7 alpha = %#x, want %#x", row, got, want)
		}
	}
}

func TestCharMapBedsteadMosaicContiguousVsSeparated(t *testing.T) {
	contiguous := CharMapBedstead(5, 2, false, true, false, false)
	separated := CharMapBedstead(5, 2, false, false, false, false)
	if contiguous == separated {
		t.Error("contiguous and separated mosaic codes must differ")
	}
	if separated-contiguous != 0x20 {
		t.Errorf("separated-contiguous stride = %#x, want 0x20", separated-contiguous)
	}
}

func TestCharMapBedsteadDoubleHeightOffsets(t *testing.T) {
	single := CharMapBedstead(1, 4, true, true, false, false)
	upper := CharMapBedstead(1, 4, true, true, true, false)
	lower := CharMapBedstead(1, 4, true, true, true, true)

	if upper == single || lower == single || upper == lower {
		t.Errorf("expected three distinct codes, got single=%#x upper=%#x lower=%#x", single, upper, lower)
	}
}

func TestCharMapBedsteadOutOfRange(t *testing.T) {
	if got := CharMapBedstead(16, 0, true, true, false, false); got != ' ' {
		t.Errorf("out-of-range row_code = %q, want space", got)
	}
	if got := CharMapBedstead(0, 8, true, true, false, false); got != ' ' {
		t.Errorf("out-of-range col_code = %q, want space", got)
	}
}

func TestCharMapGalaxAlphaASCII(t *testing.T) {
	got := CharMapGalax(1, 4, true, true, false, false)
	if got != 'A' {
		t.Errorf("row 1 col 4 alpha = %q, want 'A'", got)
	}
}

func TestCharMapGalaxPoundSign(t *testing.T) {
	got := CharMapGalax(3, 2, true, true, false, false)
	if got != 0xA3 {
		t.Errorf("row 3 col 2 alpha = %#x, want £ (0xA3)", got)
	}
}

func TestCharMapGalaxMosaicSeparatedOffset(t *testing.T) {
	contiguous := CharMapGalax(5, 2, false, true, false, false)
	separated := CharMapGalax(5, 2, false, false, false, false)
	if separated-contiguous != 0xC0 {
		t.Errorf("separated-contiguous stride = %#x, want 0xC0", separated-contiguous)
	}
}

func TestCharMapGalaxOutOfRangeReturnsQuestionMark(t *testing.T) {
	if got := CharMapGalax(16, 0, true, true, false, false); got != '?' {
		t.Errorf("out-of-range = %q, want '?'", got)
	}
}

func TestCharTripleBuildsAllThreeForms(t *testing.T) {
	triple := charTriple(CharMapBedstead, 1, 4, true, true)
	if triple.Single != 'A' {
		t.Errorf("Single = %q, want 'A'", triple.Single)
	}
	if triple.Upper == triple.Single || triple.Lower == triple.Single || triple.Upper == triple.Lower {
		t.Errorf("expected three distinct forms, got %+v", triple)
	}
}
