package loom

// CellSource supplies a layer's own content, in the layer's coordinates.
type CellSource interface {
	Cell(pos Position) (Cell, bool)
}

// CellOverlay lets a layer's content restyle the composited result of
// itself and its children, e.g. a highlight or a border.
type CellOverlay interface {
	OverlayCell(pos Position, c Cell, ok bool) (Cell, bool)
}

// UpdateScheduler is notified when the root layer gains damage.
type UpdateScheduler interface {
	ScheduleUpdate()
}

// Layer is the drawable surface paired with a control. It holds no pixels:
// cells are queried from its content on demand.
type Layer struct {
	frame    Rect
	children []*Layer
	parent   *Layer
	content  CellSource

	// nil when clean, otherwise the bounding box of damage since the last
	// draw, in this layer's coordinates
	invalidated *Rect

	scheduler UpdateScheduler
}

func NewLayer(content CellSource) *Layer {
	return &Layer{content: content}
}

func (l *Layer) Frame() Rect        { return l.frame }
func (l *Layer) Children() []*Layer { return l.children }
func (l *Layer) Parent() *Layer     { return l.parent }

// Invalidated returns the pending damage, or nil when clean.
func (l *Layer) Invalidated() *Rect { return l.invalidated }

// SetScheduler attaches the renderer that root-level damage notifies.
func (l *Layer) SetScheduler(s UpdateScheduler) { l.scheduler = s }

// SetFrame moves or resizes the layer. Both the old and the new area are
// damaged in the parent.
func (l *Layer) SetFrame(f Rect) {
	if f == l.frame {
		return
	}
	old := l.frame
	l.frame = f
	if l.parent != nil {
		l.parent.InvalidateRect(old)
		l.parent.InvalidateRect(f)
	}
}

// AddLayer inserts child at index.
func (l *Layer) AddLayer(child *Layer, at int) {
	child.parent = l
	l.children = append(l.children, nil)
	copy(l.children[at+1:], l.children[at:])
	l.children[at] = child
	l.InvalidateRect(child.frame)
}

// RemoveLayer detaches the child at index.
func (l *Layer) RemoveLayer(at int) {
	child := l.children[at]
	l.InvalidateRect(child.frame)
	copy(l.children[at:], l.children[at+1:])
	l.children[len(l.children)-1] = nil
	l.children = l.children[:len(l.children)-1]
	child.parent = nil
}

// Invalidate damages the whole frame.
func (l *Layer) Invalidate() {
	l.InvalidateRect(Rect{Size: l.frame.Size})
}

// InvalidateRect damages r (in this layer's coordinates) and carries the
// damage up to the root. Propagation stops at the first layer whose
// pending damage already covers it.
func (l *Layer) InvalidateRect(r Rect) {
	if r.Empty() {
		return
	}
	for layer := l; layer != nil; layer = layer.parent {
		if layer.invalidated != nil && layer.invalidated.Covers(r) {
			return
		}
		if layer.invalidated == nil {
			damage := r
			layer.invalidated = &damage
		} else {
			u := layer.invalidated.Union(r)
			layer.invalidated = &u
		}
		if layer.parent == nil {
			if layer.scheduler != nil {
				layer.scheduler.ScheduleUpdate()
			}
			return
		}
		r = r.Offset(layer.frame.Position)
	}
}

// ClearInvalidation marks the subtree clean. A clean layer never has dirty
// descendants, so clean children are skipped.
func (l *Layer) ClearInvalidation() {
	if l.invalidated == nil {
		return
	}
	l.invalidated = nil
	for _, c := range l.children {
		c.ClearInvalidation()
	}
}

// Cell composites the cell at pos (in this layer's coordinates). Children
// are consulted topmost first: the first with a rune supplies rune,
// foreground and attributes, the first with a non-default background
// supplies the background. The layer's own content comes last.
func (l *Layer) Cell(pos Position) (Cell, bool) {
	var (
		out     Cell
		haveRun bool
		haveBG  bool
	)
	take := func(c Cell) {
		if !haveRun {
			out.Rune = c.Rune
			out.Style.FG = c.Style.FG
			out.Style.Attr = c.Style.Attr
			haveRun = true
		}
		if !haveBG && !c.Style.BG.IsDefault() {
			out.Style.BG = c.Style.BG
			haveBG = true
		}
	}

	for i := len(l.children) - 1; i >= 0; i-- {
		if haveRun && haveBG {
			break
		}
		child := l.children[i]
		if !child.frame.Contains(pos) {
			continue
		}
		if c, ok := child.Cell(pos.Sub(child.frame.Position)); ok {
			take(c)
		}
	}
	if l.content != nil && !(haveRun && haveBG) {
		if c, ok := l.content.Cell(pos); ok {
			take(c)
		}
	}

	ok := haveRun || haveBG
	if ok && !haveRun {
		out.Rune = ' '
	}
	if o, isOverlay := l.content.(CellOverlay); isOverlay {
		return o.OverlayCell(pos, out, ok)
	}
	return out, ok
}
