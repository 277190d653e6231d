package key

// Translate maps raw control codepoints (0-31 and 127) to named or
// ctrl-modified keys. Any other key is returned unchanged.
func Translate(k Key) Key {
	if k.Code != Rune || k.Mod != 0 {
		return k
	}
	r := k.Rune
	switch {
	case r == 9:
		return Named(Tab, 0)
	case r == 13:
		return Named(Enter, 0)
	case r == 27:
		return Named(Escape, 0)
	case r == 8 || r == 127:
		return Named(Backspace, 0)
	case r == 0:
		return CtrlChar(' ')
	case r >= 1 && r <= 26:
		return CtrlChar('a' + r - 1)
	case r >= 28 && r <= 31:
		return CtrlChar(ctrlPunct[r-28])
	}
	return k
}

var ctrlPunct = [4]rune{'\\', ']', '^', '_'}
