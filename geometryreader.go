package loom

type geometryReaderView struct {
	content func(Size) View
}

// GeometryReader takes all the space it is offered and builds its content,
// as a column, from the size it was last laid out at. The first build sees
// a 1x1 size; a layout at a different size rebuilds the content.
func GeometryReader(content func(Size) View) View {
	return geometryReaderView{content: content}
}

func (geometryReaderView) staticSize() (int, bool) { return 1, true }

func (g geometryReaderView) buildNode(n *Node) {
	size := UseState(&Context{node: n}, "geometry", Sz(1, 1))
	n.control = InitControl(&GeometryReaderControl{size: size})
	n.addNode(0, n.graph.newNode(VStack(g.content(size.Get())), n))
}

func (g geometryReaderView) updateNode(n *Node) {
	n.view = g
	size := UseState(&Context{node: n}, "geometry", Sz(1, 1))
	n.updateChild(0, VStack(g.content(size.Get())))
}

func (g geometryReaderView) insertControl(offset int, n *Node) {
	n.control.base().AddSubview(n.children[0].ControlAt(offset), offset)
}

func (g geometryReaderView) removeControl(offset int, n *Node) {
	n.control.base().RemoveSubview(offset)
}

// GeometryReaderControl gives its content its own size and records it.
type GeometryReaderControl struct {
	ControlBase
	size State[Size]
}

func (g *GeometryReaderControl) Layout(size Size) {
	g.setSize(size)
	for _, c := range g.children {
		c.Layout(size)
	}
	if g.size.Get() != size {
		g.size.Set(size)
	}
}
