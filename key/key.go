// Package key decodes raw terminal input into structured key events.
package key

import (
	"fmt"
	"strings"
)

// Code identifies a key. Printable input uses Rune and carries the
// character in Key.Rune.
type Code uint8

const (
	Rune Code = iota

	Enter
	Tab
	Backspace
	Escape

	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
	Insert
	Delete

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
)

var codeNames = map[Code]string{
	Enter:     "enter",
	Tab:       "tab",
	Backspace: "backspace",
	Escape:    "escape",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	Home:      "home",
	End:       "end",
	PageUp:    "pgup",
	PageDown:  "pgdown",
	Insert:    "insert",
	Delete:    "delete",
}

func init() {
	for i := 0; i < 20; i++ {
		codeNames[F1+Code(i)] = fmt.Sprintf("f%d", i+1)
	}
}

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
)

// Key is a single decoded key press.
type Key struct {
	Code Code
	Rune rune
	Mod  Modifiers
}

// Char returns the key for a plain character.
func Char(r rune) Key { return Key{Code: Rune, Rune: r} }

// Named returns a key for a non-character code with optional modifiers.
func Named(c Code, mod Modifiers) Key { return Key{Code: c, Mod: mod} }

// Ctrl-modified character, e.g. CtrlChar('d') for ctrl+d.
func CtrlChar(r rune) Key { return Key{Code: Rune, Rune: r, Mod: Ctrl} }

func (k Key) String() string {
	var b strings.Builder
	if k.Mod&Ctrl != 0 {
		b.WriteString("ctrl+")
	}
	if k.Mod&Alt != 0 {
		b.WriteString("alt+")
	}
	if k.Mod&Shift != 0 {
		b.WriteString("shift+")
	}
	if k.Code == Rune {
		switch k.Rune {
		case ' ':
			b.WriteString("space")
		default:
			b.WriteRune(k.Rune)
		}
		return b.String()
	}
	b.WriteString(codeNames[k.Code])
	return b.String()
}

// ParseKey parses the form produced by Key.String, e.g. "ctrl+d",
// "shift+tab", "alt+up" or "q".
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key")
	}
	// A trailing '+' is the key itself: "+" or "ctrl++".
	mods, last := "", s
	switch {
	case s == "+":
		last = "+"
	case strings.HasSuffix(s, "++"):
		mods, last = s[:len(s)-2], "+"
	case strings.HasSuffix(s, "+"):
		return Key{}, fmt.Errorf("missing key in %q", s)
	default:
		if i := strings.LastIndex(s, "+"); i == 0 {
			return Key{}, fmt.Errorf("missing modifier in %q", s)
		} else if i > 0 {
			mods, last = s[:i], s[i+1:]
		}
	}
	var k Key
	if mods != "" {
		for _, p := range strings.Split(mods, "+") {
			switch strings.ToLower(p) {
			case "ctrl":
				k.Mod |= Ctrl
			case "alt":
				k.Mod |= Alt
			case "shift":
				k.Mod |= Shift
			default:
				return Key{}, fmt.Errorf("unknown modifier %q in %q", p, s)
			}
		}
	}
	if last == "space" {
		k.Code, k.Rune = Rune, ' '
		return k, nil
	}
	lower := strings.ToLower(last)
	for c, name := range codeNames {
		if name == lower {
			k.Code = c
			return k, nil
		}
	}
	r := []rune(last)
	if len(r) != 1 {
		return Key{}, fmt.Errorf("unknown key %q", s)
	}
	k.Code, k.Rune = Rune, r[0]
	return k, nil
}
