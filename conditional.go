package loom

type optionalView struct {
	content View
	present bool
}

// If shows then only while cond holds. Turning it on builds then, turning
// it off discards it with its state.
func If(cond bool, then View) View {
	if !cond {
		return optionalView{}
	}
	return optionalView{content: then, present: true}
}

func (optionalView) staticSize() (int, bool) { return 0, false }

func (o optionalView) buildNode(n *Node) {
	if o.present {
		n.addNode(0, n.graph.newNode(o.content, n))
	}
}

func (o optionalView) updateNode(n *Node) {
	last := n.view.(optionalView)
	n.view = o
	switch {
	case last.present && o.present:
		n.updateChild(0, o.content)
	case !last.present && o.present:
		n.addNode(0, n.graph.newNode(o.content, n))
	case last.present && !o.present:
		n.removeNode(0)
	}
}

type conditionalView struct {
	branch  bool
	content View
}

// IfElse shows then while cond holds and otherwise. Switching branches
// rebuilds; staying on a branch updates in place.
func IfElse(cond bool, then, otherwise View) View {
	if cond {
		return conditionalView{branch: true, content: then}
	}
	return conditionalView{branch: false, content: otherwise}
}

func (conditionalView) staticSize() (int, bool) { return 0, false }

func (c conditionalView) buildNode(n *Node) {
	n.addNode(0, n.graph.newNode(c.content, n))
}

func (c conditionalView) updateNode(n *Node) {
	last := n.view.(conditionalView)
	n.view = c
	if last.branch != c.branch {
		n.replaceNode(0, c.content)
		return
	}
	n.updateChild(0, c.content)
}
