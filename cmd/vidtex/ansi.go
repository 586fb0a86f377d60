package main

import (
	"fmt"
	"io"

	"github.com/simonlaszcz/vidtex"
)

// ansiBackend renders decoder output as ANSI escape sequences on an
// io.Writer (normally stdout).
type ansiBackend struct {
	w io.Writer
}

func newAnsiBackend(w io.Writer) *ansiBackend {
	b := &ansiBackend{w: w}
	fmt.Fprint(w, "\x1b[2J\x1b[H")
	return b
}

// unpackPair recovers fg/bg from the packed (fg<<3)|bg pair. Pair 0 is
// always white on black. The eight teletext colors share the ANSI SGR
// ordering, so the recovered values map directly onto 30+fg / 40+bg.
func unpackPair(pair int) (fg, bg int) {
	if pair == 0 {
		return 7, 0
	}
	return (pair >> 3) & 7, pair & 7
}

func (b *ansiBackend) Put(row, col int, codepoint rune, attr vidtex.Attr) {
	fg, bg := unpackPair(attr.ColorPair)

	fmt.Fprintf(b.w, "\x1b[%d;%dH", row+1, col+1)
	if attr.Bold {
		fmt.Fprintf(b.w, "\x1b[1;%d;%dm", 30+fg, 40+bg)
	} else {
		fmt.Fprintf(b.w, "\x1b[0;%d;%dm", 30+fg, 40+bg)
	}
	fmt.Fprintf(b.w, "%c", codepoint)
}

func (b *ansiBackend) MoveCursor(row, col int) {
	fmt.Fprintf(b.w, "\x1b[%d;%dH", row+1, col+1)
}

func (b *ansiBackend) SetCursorVisible(visible bool) {
	if visible {
		fmt.Fprint(b.w, "\x1b[?25h")
	} else {
		fmt.Fprint(b.w, "\x1b[?25l")
	}
}

var _ vidtex.Backend = (*ansiBackend)(nil)
