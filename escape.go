package loom

// appendCursor appends a cursor move to the zero-based column x, line y.
func appendCursor(b []byte, x, y int) []byte {
	b = append(b, "\x1b["...)
	b = appendInt(b, y+1)
	b = append(b, ';')
	b = appendInt(b, x+1)
	return append(b, 'H')
}

// appendStyleChange appends the SGR sequence that turns from into to,
// naming only what changed. It appends nothing when they are equal.
func appendStyleChange(b []byte, from, to Style) []byte {
	if from == to {
		return b
	}
	b = append(b, "\x1b["...)
	start := len(b)
	param := func(p string) {
		if len(b) > start {
			b = append(b, ';')
		}
		b = append(b, p...)
	}

	// bold and dim share one reset
	droppedIntensity := from.Attr.Has(AttrBold) && !to.Attr.Has(AttrBold) ||
		from.Attr.Has(AttrDim) && !to.Attr.Has(AttrDim)
	if droppedIntensity {
		param("22")
	}
	for _, a := range attrCodes {
		was, is := from.Attr.Has(a.attr), to.Attr.Has(a.attr)
		switch {
		case is && (!was || droppedIntensity && a.off == "22"):
			param(a.on)
		case was && !is && a.off != "22":
			param(a.off)
		}
	}

	if from.FG != to.FG {
		if len(b) > start {
			b = append(b, ';')
		}
		b = appendColor(b, to.FG, true)
	}
	if from.BG != to.BG {
		if len(b) > start {
			b = append(b, ';')
		}
		b = appendColor(b, to.BG, false)
	}
	return append(b, 'm')
}

var attrCodes = [...]struct {
	attr    Attribute
	on, off string
}{
	{AttrBold, "1", "22"},
	{AttrDim, "2", "22"},
	{AttrItalic, "3", "23"},
	{AttrUnderline, "4", "24"},
	{AttrBlink, "5", "25"},
	{AttrInverse, "7", "27"},
	{AttrStrikethrough, "9", "29"},
}

// appendColor appends the SGR parameters selecting c.
func appendColor(b []byte, c Color, fg bool) []byte {
	switch c.Mode {
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		if c.Index >= 8 {
			return appendInt(b, base+60+int(c.Index-8))
		}
		return appendInt(b, base+int(c.Index))
	case Color256:
		if fg {
			b = append(b, "38;5;"...)
		} else {
			b = append(b, "48;5;"...)
		}
		return appendInt(b, int(c.Index))
	case ColorRGB:
		if fg {
			b = append(b, "38;2;"...)
		} else {
			b = append(b, "48;2;"...)
		}
		b = appendInt(b, int(c.R))
		b = append(b, ';')
		b = appendInt(b, int(c.G))
		b = append(b, ';')
		return appendInt(b, int(c.B))
	}
	if fg {
		return append(b, "39"...)
	}
	return append(b, "49"...)
}

// appendInt appends an integer to a byte slice without allocation.
func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	if n < 0 {
		b = append(b, '-')
		n = -n
	}
	var scratch [20]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, scratch[i:]...)
}
