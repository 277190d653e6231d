package loom

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// TextView is a single line of styled text.
type TextView struct {
	text  string
	style Style
}

// Text creates a text view.
func Text(s string) TextView {
	return TextView{text: s, style: DefaultStyle()}
}

// Textf creates a text view with printf-style formatting.
func Textf(format string, args ...any) TextView {
	return Text(fmt.Sprintf(format, args...))
}

func (t TextView) Style(s Style) TextView      { t.style = s; return t }
func (t TextView) Foreground(c Color) TextView { t.style = t.style.Foreground(c); return t }
func (t TextView) Background(c Color) TextView { t.style = t.style.Background(c); return t }
func (t TextView) Bold() TextView              { t.style = t.style.Bold(); return t }
func (t TextView) Dim() TextView               { t.style = t.style.Dim(); return t }
func (t TextView) Italic() TextView            { t.style = t.style.Italic(); return t }
func (t TextView) Underline() TextView         { t.style = t.style.Underline(); return t }

func (TextView) staticSize() (int, bool) { return 1, true }

func (t TextView) buildNode(n *Node) {
	tc := InitControl(&TextControl{})
	tc.set(t.text, t.style)
	n.control = tc
}

func (t TextView) updateNode(n *Node) {
	n.view = t
	n.control.(*TextControl).set(t.text, t.style)
}

// TextControl draws one line of text. Wide runes take two columns; the
// second column holds a zero rune.
type TextControl struct {
	ControlBase
	text  string
	style Style
	cells []Cell
}

func (t *TextControl) Text() string { return t.text }

func (t *TextControl) set(s string, style Style) {
	if s == t.text && style == t.style && t.cells != nil {
		return
	}
	t.text, t.style = s, style
	t.cells = appendTextCells(t.cells[:0], s, style)
	t.layer.Invalidate()
}

// appendTextCells lays s out one cell per column. Zero-width runes are
// dropped.
func appendTextCells(dst []Cell, s string, style Style) []Cell {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		dst = append(dst, Cell{Rune: r, Style: style})
		for range w - 1 {
			dst = append(dst, Cell{Style: style})
		}
	}
	return dst
}

// Size is the text's width on one line, whatever is proposed.
func (t *TextControl) Size(Size) Size {
	return Sz(len(t.cells), 1)
}

func (t *TextControl) Cell(pos Position) (Cell, bool) {
	if pos.Line != 0 || pos.Column < 0 {
		return Cell{}, false
	}
	if int(pos.Column) >= len(t.cells) {
		return NewCell(' ', t.style), true
	}
	return t.cells[pos.Column], true
}
