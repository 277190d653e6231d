package loom

import (
	"unicode"

	"github.com/kungfusheep/loom/key"
	"github.com/mattn/go-runewidth"
)

// TextFieldView is a one-line text input editing a bound string.
type TextFieldView struct {
	text             Binding[string]
	onSubmit         func(string)
	placeholder      string
	placeholderStyle Style
}

// TextField edits text. Enter hands the text to onSubmit, which may be
// nil, and empties the field.
func TextField(text Binding[string], onSubmit func(string)) TextFieldView {
	return TextFieldView{text: text, onSubmit: onSubmit, placeholderStyle: DefaultStyle().Dim()}
}

// Placeholder is shown while the field is empty.
func (t TextFieldView) Placeholder(s string) TextFieldView { t.placeholder = s; return t }

func (t TextFieldView) PlaceholderStyle(s Style) TextFieldView { t.placeholderStyle = s; return t }

func (TextFieldView) staticSize() (int, bool) { return 1, true }

func (t TextFieldView) buildNode(n *Node) {
	tc := InitControl(&TextFieldControl{})
	tc.set(t)
	tc.cursor = len([]rune(t.text.Get()))
	n.control = tc
}

func (t TextFieldView) updateNode(n *Node) {
	n.view = t
	n.control.(*TextFieldControl).set(t)
}

// TextFieldControl draws the field and edits on keys. The cursor is a
// rune index into the text and is shown underlined while focused.
type TextFieldControl struct {
	ControlBase
	text             Binding[string]
	onSubmit         func(string)
	placeholder      string
	placeholderStyle Style
	cursor           int
}

func (t *TextFieldControl) set(v TextFieldView) {
	t.text, t.onSubmit = v.text, v.onSubmit
	t.placeholder, t.placeholderStyle = v.placeholder, v.placeholderStyle
	// the text may have been changed by its owner
	t.cursor = min(t.cursor, len([]rune(t.text.Get())))
	t.layer.Invalidate()
}

// Cursor is the rune index edits happen at.
func (t *TextFieldControl) Cursor() int { return t.cursor }

// Size leaves one column after the text for the cursor.
func (t *TextFieldControl) Size(Size) Size {
	w := max(runewidth.StringWidth(t.text.Get()), runewidth.StringWidth(t.placeholder))
	return Sz(w+1, 1)
}

func (t *TextFieldControl) Selectable() bool { return true }

func (t *TextFieldControl) BecomeFirstResponder() {
	t.ControlBase.BecomeFirstResponder()
	t.layer.Invalidate()
}

func (t *TextFieldControl) ResignFirstResponder() {
	t.layer.Invalidate()
}

func (t *TextFieldControl) Cell(pos Position) (Cell, bool) {
	if pos.Line != 0 || pos.Column < 0 {
		return Cell{}, false
	}
	text := t.text.Get()
	focused := t.IsFirstResponder()
	col := pos.Column.Int()

	if text == "" {
		cells := appendTextCells(nil, t.placeholder, t.placeholderStyle)
		c := EmptyCell()
		if col < len(cells) {
			c = cells[col]
		}
		if focused && col == 0 {
			c.Style = c.Style.Underline()
		}
		return c, true
	}

	runes := []rune(text)
	cells := appendTextCells(nil, text, DefaultStyle())
	c := EmptyCell()
	if col < len(cells) {
		c = cells[col]
	}
	if focused && col == runewidth.StringWidth(string(runes[:min(t.cursor, len(runes))])) {
		c.Style = c.Style.Underline()
	}
	return c, true
}

func (t *TextFieldControl) HandleKey(k key.Key) bool {
	runes := []rune(t.text.Get())
	t.cursor = min(t.cursor, len(runes))

	switch k {
	case key.Named(key.Tab, 0), key.Named(key.Tab, key.Shift):
		return false
	case key.Named(key.Enter, 0):
		if t.onSubmit != nil {
			t.onSubmit(string(runes))
		}
		t.edit(nil, 0)
		return true
	case key.Named(key.Backspace, 0):
		if t.cursor > 0 {
			t.edit(append(runes[:t.cursor-1:t.cursor-1], runes[t.cursor:]...), t.cursor-1)
		}
		return true
	case key.Named(key.Delete, 0):
		if t.cursor < len(runes) {
			t.edit(append(runes[:t.cursor:t.cursor], runes[t.cursor+1:]...), t.cursor)
		}
		return true
	case key.Named(key.Left, 0), key.CtrlChar('b'):
		return t.move(t.cursor - 1)
	case key.Named(key.Right, 0), key.CtrlChar('f'):
		return t.move(t.cursor + 1)
	case key.Named(key.Left, key.Alt), key.Named(key.Left, key.Ctrl):
		return t.move(wordStart(runes, t.cursor))
	case key.Named(key.Right, key.Alt), key.Named(key.Right, key.Ctrl):
		return t.move(wordEnd(runes, t.cursor))
	case key.Named(key.Home, 0), key.CtrlChar('a'):
		t.move(0)
		return true
	case key.Named(key.End, 0), key.CtrlChar('e'):
		t.move(len(runes))
		return true
	case key.CtrlChar('k'):
		t.edit(runes[:t.cursor], t.cursor)
		return true
	case key.CtrlChar('u'):
		t.edit(nil, 0)
		return true
	case key.CtrlChar('w'):
		start := wordStart(runes, t.cursor)
		t.edit(append(runes[:start:start], runes[t.cursor:]...), start)
		return true
	}

	if k.Code == key.Rune && k.Mod == 0 && unicode.IsPrint(k.Rune) {
		next := make([]rune, 0, len(runes)+1)
		next = append(append(append(next, runes[:t.cursor]...), k.Rune), runes[t.cursor:]...)
		t.edit(next, t.cursor+1)
		return true
	}
	return false
}

// edit stores the new text through the binding and places the cursor.
func (t *TextFieldControl) edit(runes []rune, cursor int) {
	t.cursor = cursor
	t.text.Set(string(runes))
	t.layer.Invalidate()
}

// move places the cursor at i, and reports false when i is outside the
// text so that the key can move focus instead.
func (t *TextFieldControl) move(i int) bool {
	if i < 0 || i > len([]rune(t.text.Get())) || i == t.cursor {
		return false
	}
	t.cursor = i
	t.layer.Invalidate()
	return true
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// wordStart is the start of the word before i, skipping separators first.
func wordStart(runes []rune, i int) int {
	for i > 0 && !isWordRune(runes[i-1]) {
		i--
	}
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	return i
}

// wordEnd is the end of the word at or after i.
func wordEnd(runes []rune, i int) int {
	for i < len(runes) && !isWordRune(runes[i]) {
		i++
	}
	for i < len(runes) && isWordRune(runes[i]) {
		i++
	}
	return i
}
