package loom

import (
	"testing"
)

func TestGrid(t *testing.T) {
	t.Run("NewGrid", func(t *testing.T) {
		g := NewGrid(3, 2, '.')
		if g.Width() != 3 || g.Height() != 2 {
			t.Errorf("expected 3x2, got %dx%d", g.Width(), g.Height())
		}
		for pos, v := range g.Cells() {
			if v != '.' {
				t.Errorf("expected blank at %v, got %q", pos, v)
			}
		}
	})

	t.Run("negative size is empty", func(t *testing.T) {
		g := NewGrid(-1, 5, 0)
		if g.Width() != 0 || g.Height() != 5 {
			t.Errorf("expected 0x5, got %dx%d", g.Width(), g.Height())
		}
	})

	t.Run("InBounds", func(t *testing.T) {
		g := NewGrid(10, 10, 0)
		tests := []struct {
			x, y   int
			expect bool
		}{
			{0, 0, true},
			{9, 9, true},
			{-1, 0, false},
			{0, -1, false},
			{10, 0, false},
			{0, 10, false},
		}
		for _, tt := range tests {
			if got := g.InBounds(tt.x, tt.y); got != tt.expect {
				t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		g := NewGrid(4, 4, 0)
		g.Set(2, 1, 7)
		if got := g.Get(2, 1); got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
		g.Set(10, 10, 9)
		if got := g.Get(10, 10); got != 0 {
			t.Errorf("expected blank out of bounds, got %d", got)
		}
	})

	t.Run("Resize keeps what fits", func(t *testing.T) {
		g := NewGrid(3, 3, 0)
		g.Set(0, 0, 1)
		g.Set(2, 2, 2)
		g.Set(1, 0, 3)
		g.Resize(2, 4)
		if g.Width() != 2 || g.Height() != 4 {
			t.Fatalf("expected 2x4, got %dx%d", g.Width(), g.Height())
		}
		if g.Get(0, 0) != 1 || g.Get(1, 0) != 3 {
			t.Errorf("expected row 0 kept, got %v", g.Row(0))
		}
		if got := g.Row(3); got[0] != 0 || got[1] != 0 {
			t.Errorf("expected new row blank, got %v", got)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		g := NewGrid(2, 2, -1)
		g.Fill(5)
		g.Reset()
		if g.Get(1, 1) != -1 {
			t.Errorf("expected blank after reset, got %d", g.Get(1, 1))
		}
	})

	t.Run("Rows stops early", func(t *testing.T) {
		g := NewGrid(2, 5, 0)
		n := 0
		for y := range g.Rows() {
			if y == 2 {
				break
			}
			n++
		}
		if n != 2 {
			t.Errorf("expected 2 rows visited, got %d", n)
		}
	})
}

func TestBuffer(t *testing.T) {
	t.Run("NewBuffer", func(t *testing.T) {
		buf := NewBuffer(80, 24)
		if buf.Width() != 80 || buf.Height() != 24 {
			t.Errorf("expected 80x24, got %dx%d", buf.Width(), buf.Height())
		}
		if c := buf.Get(5, 5); c != EmptyCell() {
			t.Errorf("expected empty cell, got %+v", c)
		}
	})

	t.Run("WriteString", func(t *testing.T) {
		buf := NewBuffer(5, 2)
		n := WriteString(buf, 2, 1, "hello", DefaultStyle().Bold())
		if n != 3 {
			t.Errorf("expected 3 cells written, got %d", n)
		}
		if got := Line(buf, 1); got != "  hel" {
			t.Errorf("got %q, want %q", got, "  hel")
		}
		if !buf.Get(2, 1).Style.Attr.Has(AttrBold) {
			t.Error("expected bold style")
		}
	})

	t.Run("Dump trims", func(t *testing.T) {
		buf := NewBuffer(6, 4)
		WriteString(buf, 0, 0, "ab", DefaultStyle())
		WriteString(buf, 1, 1, "c", DefaultStyle())
		if got := Dump(buf); got != "ab\n c" {
			t.Errorf("got %q, want %q", got, "ab\n c")
		}
	})

	t.Run("zero runes dump as spaces", func(t *testing.T) {
		buf := NewBuffer(3, 1)
		buf.Set(0, 0, NewCell('界', DefaultStyle()))
		buf.Set(1, 0, Cell{})
		buf.Set(2, 0, NewCell('x', DefaultStyle()))
		if got := Line(buf, 0); got != "界 x" {
			t.Errorf("got %q, want %q", got, "界 x")
		}
	})
}
