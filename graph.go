package loom

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Scheduler runs work on the UI goroutine. Post must be safe to call from
// any goroutine and must not run fn synchronously.
type Scheduler interface {
	Post(fn func())
}

type nodeSlot struct {
	gen  uint32
	node *Node
}

// Graph owns every node of a view tree. Nodes live in slots addressed by
// NodeID; removed nodes free their slot and bump its generation.
type Graph struct {
	slots []nodeSlot
	free  []uint32
	root  *Node

	mu        sync.Mutex
	pending   []NodeID
	queued    map[NodeID]struct{}
	scheduled bool

	observers []NodeID

	sched       Scheduler
	afterUpdate func()
	onExit      func()
	log         *log.Logger

	taskCtx     context.Context
	onTaskError func(error)
	tasks       sync.WaitGroup
}

// NewGraph creates an empty graph that schedules its update passes on
// sched. A nil logger discards.
func NewGraph(sched Scheduler, logger *log.Logger) *Graph {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Graph{
		sched:  sched,
		queued: make(map[NodeID]struct{}),
		log:    logger,
	}
}

// Build creates the root node for v and merges its preferences.
func (g *Graph) Build(v View) *Node {
	g.root = g.newNode(v, nil)
	g.root.mergePreferences()
	g.notifyObservers()
	g.log.Debug("graph built", "nodes", g.Len())
	return g.root
}

func (g *Graph) Root() *Node { return g.root }

// SetAfterUpdate installs the hook run at the end of each update pass,
// typically layout followed by rendering.
func (g *Graph) SetAfterUpdate(fn func()) { g.afterUpdate = fn }

// SetExitHandler installs what Context.Exit calls.
func (g *Graph) SetExitHandler(fn func()) { g.onExit = fn }

// SetTaskContext parents every task started from now on to ctx. Task
// failures other than cancellation are passed to onError.
func (g *Graph) SetTaskContext(ctx context.Context, onError func(error)) {
	g.taskCtx = ctx
	g.onTaskError = onError
}

// WaitTasks blocks until every started task has returned.
func (g *Graph) WaitTasks() { g.tasks.Wait() }

// Node resolves an ID, failing for removed nodes.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if id.IsZero() || int(id.slot) >= len(g.slots) {
		return nil, false
	}
	s := g.slots[id.slot]
	if s.gen != id.gen || s.node == nil {
		return nil, false
	}
	return s.node, true
}

// Len is the number of live nodes.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

func (g *Graph) newNode(v View, parent *Node) *Node {
	var slot uint32
	if k := len(g.free); k > 0 {
		slot = g.free[k-1]
		g.free = g.free[:k-1]
	} else {
		slot = uint32(len(g.slots))
		g.slots = append(g.slots, nodeSlot{})
	}
	g.slots[slot].gen++
	n := &Node{
		id:    NodeID{slot: slot, gen: g.slots[slot].gen},
		graph: g,
		view:  primitiveOf(v),
		state: make(map[string]any),
	}
	g.slots[slot].node = n
	if parent != nil {
		n.parent = parent.id
	}
	if _, ok := n.view.(preferenceObserver); ok {
		g.observers = append(g.observers, n.id)
	}
	n.view.buildNode(n)
	return n
}

// release frees the slots of n's subtree. Outstanding IDs stop resolving.
func (g *Graph) release(n *Node) {
	for _, c := range n.children {
		g.release(c)
	}
	s := &g.slots[n.id.slot]
	if s.gen == n.id.gen && s.node == n {
		s.node = nil
		g.free = append(g.free, n.id.slot)
	}
}

// Invalidate schedules the node for re-update on the next pass. Repeated
// invalidations before the pass coalesce. Safe from any goroutine.
func (g *Graph) Invalidate(id NodeID) {
	g.mu.Lock()
	if _, ok := g.queued[id]; ok {
		g.mu.Unlock()
		return
	}
	g.queued[id] = struct{}{}
	g.pending = append(g.pending, id)
	schedule := !g.scheduled
	g.scheduled = true
	g.mu.Unlock()

	g.log.Debug("node invalidated", "node", id)
	if schedule {
		g.post(g.Update)
	}
}

func (g *Graph) post(fn func()) {
	if g.sched == nil {
		return
	}
	g.sched.Post(fn)
}

func (g *Graph) requestExit() {
	if g.onExit != nil {
		g.onExit()
	}
}

// Update runs one pass: every live invalidated node is updated with its
// own view (ancestors before descendants), preferences are merged, change
// observers notified and the after-update hook run.
func (g *Graph) Update() {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	clear(g.queued)
	g.scheduled = false
	g.mu.Unlock()

	var nodes []*Node
	for _, id := range pending {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int { return a.depth() - b.depth() })

	g.log.Debug("update pass", "invalidated", len(pending), "live", len(nodes))
	for _, n := range nodes {
		// an earlier update in this pass may have removed it
		if _, ok := g.Node(n.id); !ok {
			continue
		}
		n.update(n.view)
	}

	if g.root != nil {
		g.root.mergePreferences()
	}
	g.notifyObservers()

	if g.afterUpdate != nil {
		g.afterUpdate()
	}
}

func (g *Graph) notifyObservers() {
	live := g.observers[:0]
	for _, id := range g.observers {
		if n, ok := g.Node(id); ok {
			live = append(live, id)
			if o, ok := n.view.(preferenceObserver); ok {
				o.observe(n)
			}
		}
	}
	clear(g.observers[len(live):])
	g.observers = live
}

func (n *Node) depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}
