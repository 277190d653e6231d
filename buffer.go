package loom

import "strings"

// Buffer is a grid of cells.
type Buffer = Grid[Cell]

// NewBuffer creates a buffer filled with empty cells.
func NewBuffer(width, height int) *Buffer {
	return NewGrid(width, height, EmptyCell())
}

// WriteString writes s starting at x, y and returns the number of cells
// written. Writing stops at the right edge.
func WriteString(b *Buffer, x, y int, s string, style Style) int {
	written := 0
	for _, r := range s {
		if !b.InBounds(x, y) {
			break
		}
		b.Set(x, y, NewCell(r, style))
		x++
		written++
	}
	return written
}

// Line returns the runes of line y with trailing spaces removed.
func Line(b *Buffer, y int) string {
	var sb strings.Builder
	for _, c := range b.Row(y) {
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Dump returns the buffer contents with trailing spaces and trailing empty
// lines removed, one line per row.
func Dump(b *Buffer) string {
	lines := make([]string, 0, b.Height())
	for y := range b.Height() {
		lines = append(lines, Line(b, y))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
