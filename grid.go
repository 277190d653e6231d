package loom

import "iter"

// Grid is a row-major 2D buffer.
type Grid[T any] struct {
	cells  []T
	width  int
	height int
	blank  T
}

// NewGrid creates a width by height grid with every slot set to blank.
func NewGrid[T any](width, height int, blank T) *Grid[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid[T]{cells: make([]T, width*height), width: width, height: height, blank: blank}
	g.Fill(blank)
	return g
}

func (g *Grid[T]) Width() int  { return g.width }
func (g *Grid[T]) Height() int { return g.height }

// InBounds returns true if the given coordinates are within the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the slot at x, y, or the blank value when out of bounds.
func (g *Grid[T]) Get(x, y int) T {
	if !g.InBounds(x, y) {
		return g.blank
	}
	return g.cells[y*g.width+x]
}

// Set stores v at x, y. Out of bounds writes are dropped.
func (g *Grid[T]) Set(x, y int, v T) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = v
}

func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Reset fills the grid with its blank value.
func (g *Grid[T]) Reset() { g.Fill(g.blank) }

// Resize changes the dimensions, keeping content that still fits.
func (g *Grid[T]) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	next := NewGrid(width, height, g.blank)
	for y := 0; y < min(height, g.height); y++ {
		copy(next.cells[y*width:y*width+min(width, g.width)], g.cells[y*g.width:])
	}
	*g = *next
}

// Row returns the slots of line y. The slice aliases the grid.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.height {
		return nil
	}
	return g.cells[y*g.width : (y+1)*g.width]
}

// Rows yields each line index with its slots.
func (g *Grid[T]) Rows() iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for y := 0; y < g.height; y++ {
			if !yield(y, g.Row(y)) {
				return
			}
		}
	}
}

// Cells yields every position with its value in row-major order.
func (g *Grid[T]) Cells() iter.Seq2[Position, T] {
	return func(yield func(Position, T) bool) {
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				if !yield(Pos(x, y), g.cells[y*g.width+x]) {
					return
				}
			}
		}
	}
}
