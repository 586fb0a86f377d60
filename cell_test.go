package vidtex

import "testing"

func TestNewCell(t *testing.T) {
	c := NewCell()

	if c.Character != ' ' {
		t.Errorf("expected space, got %q", c.Character)
	}
	if c.Attr != (Attr{}) {
		t.Errorf("expected zero attr, got %+v", c.Attr)
	}
}

func TestCellReset(t *testing.T) {
	c := Cell{Character: 'A', Attr: Attr{ColorPair: 5, Bold: true}}

	c.Reset()

	if c.Character != ' ' {
		t.Errorf("expected space after reset, got %q", c.Character)
	}
	if c.Attr != (Attr{}) {
		t.Errorf("expected zero attr after reset, got %+v", c.Attr)
	}
}
