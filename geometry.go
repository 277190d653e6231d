package loom

import (
	"fmt"
	"math"
)

// Extended is a cell count that may be infinite. Infinity proposes
// "as much as you like" during size negotiation.
type Extended int

const (
	Infinity    Extended = math.MaxInt32
	NegInfinity Extended = -math.MaxInt32
)

func (e Extended) IsInfinite() bool { return e >= Infinity || e <= NegInfinity }

// Int returns the finite value. Infinities clamp to the int32 range.
func (e Extended) Int() int {
	switch {
	case e >= Infinity:
		return int(Infinity)
	case e <= NegInfinity:
		return int(NegInfinity)
	}
	return int(e)
}

func (e Extended) Plus(o Extended) Extended {
	switch {
	case e >= Infinity || o >= Infinity:
		if e <= NegInfinity || o <= NegInfinity {
			return 0
		}
		return Infinity
	case e <= NegInfinity || o <= NegInfinity:
		return NegInfinity
	}
	return clampExtended(int64(e) + int64(o))
}

func (e Extended) Minus(o Extended) Extended { return e.Plus(o.negate()) }

// Div divides by a positive count. Infinity divided stays infinite.
func (e Extended) Div(n int) Extended {
	if n <= 0 {
		panic(fmt.Sprintf("loom: Extended.Div by %d", n))
	}
	if e.IsInfinite() {
		return e
	}
	return e / Extended(n)
}

func (e Extended) negate() Extended {
	switch {
	case e >= Infinity:
		return NegInfinity
	case e <= NegInfinity:
		return Infinity
	}
	return -e
}

func clampExtended(v int64) Extended {
	switch {
	case v >= int64(Infinity):
		return Infinity
	case v <= int64(NegInfinity):
		return NegInfinity
	}
	return Extended(v)
}

func minExtended(a, b Extended) Extended {
	if a < b {
		return a
	}
	return b
}

func maxExtended(a, b Extended) Extended {
	if a > b {
		return a
	}
	return b
}

func (e Extended) String() string {
	switch {
	case e >= Infinity:
		return "∞"
	case e <= NegInfinity:
		return "-∞"
	}
	return fmt.Sprint(int(e))
}

// Position is a cell coordinate: column across, line down.
type Position struct {
	Column, Line Extended
}

func Pos(column, line int) Position {
	return Position{Column: Extended(column), Line: Extended(line)}
}

func (p Position) Add(o Position) Position {
	return Position{Column: p.Column.Plus(o.Column), Line: p.Line.Plus(o.Line)}
}

func (p Position) Sub(o Position) Position {
	return Position{Column: p.Column.Minus(o.Column), Line: p.Line.Minus(o.Line)}
}

func (p Position) String() string { return fmt.Sprintf("(%v, %v)", p.Column, p.Line) }

// Size is a width by height extent in cells.
type Size struct {
	Width, Height Extended
}

func Sz(width, height int) Size {
	return Size{Width: Extended(width), Height: Extended(height)}
}

var (
	zeroSize     = Size{}
	infiniteSize = Size{Width: Infinity, Height: Infinity}
)

func (s Size) String() string { return fmt.Sprintf("%vx%v", s.Width, s.Height) }

// Rect is a frame: an origin and a size. An empty rect has no area.
type Rect struct {
	Position Position
	Size     Size
}

func (r Rect) MinColumn() Extended { return r.Position.Column }
func (r Rect) MinLine() Extended   { return r.Position.Line }

// MaxColumn is the last column inside the rect.
func (r Rect) MaxColumn() Extended {
	return r.Position.Column.Plus(r.Size.Width).Minus(1)
}

// MaxLine is the last line inside the rect.
func (r Rect) MaxLine() Extended {
	return r.Position.Line.Plus(r.Size.Height).Minus(1)
}

func (r Rect) Empty() bool { return r.Size.Width <= 0 || r.Size.Height <= 0 }

func (r Rect) Contains(p Position) bool {
	return p.Column >= r.MinColumn() && p.Column <= r.MaxColumn() &&
		p.Line >= r.MinLine() && p.Line <= r.MaxLine()
}

// Covers reports whether o lies entirely inside r.
func (r Rect) Covers(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.MinColumn() >= r.MinColumn() && o.MaxColumn() <= r.MaxColumn() &&
		o.MinLine() >= r.MinLine() && o.MaxLine() <= r.MaxLine()
}

// Union is the bounding box of both rects. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	minC := minExtended(r.MinColumn(), o.MinColumn())
	minL := minExtended(r.MinLine(), o.MinLine())
	maxC := maxExtended(r.MaxColumn(), o.MaxColumn())
	maxL := maxExtended(r.MaxLine(), o.MaxLine())
	return Rect{
		Position: Position{Column: minC, Line: minL},
		Size:     Size{Width: maxC.Minus(minC).Plus(1), Height: maxL.Minus(minL).Plus(1)},
	}
}

// Intersect is the overlap of both rects, or an empty rect.
func (r Rect) Intersect(o Rect) Rect {
	minC := maxExtended(r.MinColumn(), o.MinColumn())
	minL := maxExtended(r.MinLine(), o.MinLine())
	maxC := minExtended(r.MaxColumn(), o.MaxColumn())
	maxL := minExtended(r.MaxLine(), o.MaxLine())
	if maxC < minC || maxL < minL {
		return Rect{}
	}
	return Rect{
		Position: Position{Column: minC, Line: minL},
		Size:     Size{Width: maxC.Minus(minC).Plus(1), Height: maxL.Minus(minL).Plus(1)},
	}
}

// Offset moves the rect by p.
func (r Rect) Offset(p Position) Rect {
	r.Position = r.Position.Add(p)
	return r
}

func (r Rect) String() string { return fmt.Sprintf("%v %v", r.Position, r.Size) }
