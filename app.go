package loom

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/kungfusheep/loom/key"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// App runs a view on a terminal. All view code, state changes and drawing
// happen on the goroutine that called Run; other goroutines hand work to
// it with Post.
type App struct {
	root View
	cfg  Config
	term Terminal
	// closed on teardown when the app opened it
	ownTerm bool
	log     *log.Logger

	graph    *Graph
	window   *Window
	renderer *Renderer

	queue    eventQueue
	mu       sync.Mutex
	cancel   context.CancelFunc
	exiting  bool
	err      error
	teardown sync.Once
}

// Option configures an App.
type Option func(*App)

func WithConfig(cfg Config) Option {
	return func(a *App) { a.cfg = cfg }
}

func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithTerminal runs the app on t instead of the process's TTY. The app
// does not close t.
func WithTerminal(t Terminal) Option {
	return func(a *App) { a.term = t }
}

// NewApp creates an app showing root.
func NewApp(root View, opts ...Option) *App {
	a := &App{
		root: root,
		cfg:  DefaultConfig(),
		log:  log.New(io.Discard),
	}
	a.queue.wake = make(chan struct{}, 1)
	for _, opt := range opts {
		opt(a)
	}
	a.graph = NewGraph(a, a.log)
	a.window = NewWindow()
	a.graph.SetExitHandler(a.Exit)
	return a
}

func (a *App) Config() Config  { return a.cfg }
func (a *App) Graph() *Graph   { return a.graph }
func (a *App) Window() *Window { return a.window }

// Post queues fn to run on the UI goroutine. Safe from any goroutine;
// never runs fn before returning.
func (a *App) Post(fn func()) {
	a.queue.post(fn)
}

// Exit stops Run. Safe from any goroutine.
func (a *App) Exit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exiting = true
	if a.cancel != nil {
		a.cancel()
	}
}

// fail records the first fatal error and stops the app.
func (a *App) fail(err error) {
	a.mu.Lock()
	if a.err == nil {
		a.err = err
	}
	a.mu.Unlock()
	a.log.Error("fatal", "err", err)
	a.Exit()
}

// Run takes over the terminal, shows the view and processes input until
// Exit, a fatal error, SIGTERM or SIGHUP, or until ctx is done. The
// terminal is restored on every way out, panics included.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	if a.exiting {
		a.mu.Unlock()
		return nil
	}
	a.cancel = cancel
	a.mu.Unlock()

	if a.term == nil {
		t, err := OpenTTY()
		if err != nil {
			return err
		}
		a.term, a.ownTerm = t, true
	}

	if err := a.term.MakeRaw(); err != nil {
		if a.ownTerm {
			a.term.Close()
		}
		return err
	}
	a.renderer = NewRenderer(a.term, a.window.Layer(),
		WithProfile(a.cfg.ColorProfile),
		WithAltScreen(a.cfg.AltScreen),
		WithHiddenCursor(a.cfg.HideCursor),
		WithScheduler(a, a.fail),
		WithRendererLogger(a.log),
	)
	// deferred so that a panic on the UI goroutine restores too
	defer a.restore(cancel)

	if err := a.renderer.Start(); err != nil {
		return err
	}
	a.graph.SetTaskContext(ctx, a.fail)
	a.graph.SetAfterUpdate(a.relayout)
	root := Mount(a.graph, a.window, a.root)
	a.resize()
	a.log.Debug("view tree\n" + root.TreeDescription())
	for _, c := range a.window.Controls() {
		a.log.Debug("control tree\n" + TreeDescription(c))
	}
	a.log.Info("app started", "size", a.renderer.Size(), "nodes", a.graph.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.readKeys(gctx) })
	g.Go(func() error { return a.watchResize(gctx) })
	g.Go(func() error { return a.watchSignals(gctx) })

	a.loop(gctx)

	cancel()
	err := g.Wait()
	a.mu.Lock()
	if a.err != nil {
		err = a.err
	}
	a.mu.Unlock()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.log.Info("app stopped", "err", err)
	return err
}

// loop runs posted work until ctx is done.
func (a *App) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.queue.wake:
			for _, fn := range a.queue.drain() {
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}
}

// restore cancels every task and hands the terminal back in its original
// state. Only the first call does anything.
func (a *App) restore(cancel context.CancelFunc) {
	a.teardown.Do(func() {
		cancel()
		if err := a.renderer.Stop(); err != nil {
			a.log.Error("stop renderer", "err", err)
		}
		if err := a.term.Restore(); err != nil {
			a.log.Error("restore terminal", "err", err)
		}
		if a.ownTerm {
			if err := a.term.Close(); err != nil {
				a.log.Error("close terminal", "err", err)
			}
		}
	})
}

func (a *App) readKeys(ctx context.Context) error {
	p := key.NewParser(a.term, key.WithTimeout(a.cfg.EscapeTimeout))
	for k := range p.Keys(ctx) {
		a.Post(func() { a.handleKey(k) })
	}
	if ctx.Err() != nil {
		return nil
	}
	// input is gone, nothing more can happen
	a.Exit()
	if err := p.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}
	return nil
}

func (a *App) watchResize(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.term.Resized():
			a.Post(a.resize)
		}
	}
}

func (a *App) watchSignals(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sig)
	select {
	case <-ctx.Done():
	case s := <-sig:
		a.log.Info("signal", "signal", s)
		a.Exit()
	}
	return nil
}

// handleKey offers k to the responder chain, then uses it for focus
// movement or exit.
func (a *App) handleKey(k key.Key) {
	a.log.Debug("key", "key", k)
	if a.window.HandleKey(k) {
		return
	}
	if k == a.cfg.ExitKey {
		a.Exit()
		return
	}
	var dir Direction
	switch {
	case k == key.Named(key.Tab, 0):
		dir = Next
	case k == key.Named(key.Tab, key.Shift):
		dir = Prev
	case k == key.Named(key.Down, 0):
		dir = Below
	case k == key.Named(key.Up, 0):
		dir = Above
	case k == key.Named(key.Right, 0):
		dir = RightOf
	case k == key.Named(key.Left, 0):
		dir = LeftOf
	default:
		return
	}
	a.window.MoveFocus(dir)
}

func (a *App) resize() {
	size, err := a.term.Size()
	if err != nil {
		if a.renderer.Size() != (Size{}) {
			a.log.Warn("terminal size, resize skipped", "err", err)
			return
		}
		a.log.Warn("terminal size", "err", err, "using", size)
	}
	a.window.Layout(size)
	if err := a.renderer.SetSize(size); err != nil {
		a.fail(err)
	}
}

// relayout runs after every update pass.
func (a *App) relayout() {
	a.window.Layout(a.renderer.Size())
	if err := a.renderer.Update(); err != nil {
		a.fail(err)
	}
}

// eventQueue is an unbounded FIFO of work for the UI goroutine. Posting
// never blocks, so the UI goroutine may post to itself.
type eventQueue struct {
	mu   sync.Mutex
	fns  []func()
	wake chan struct{}
}

func (q *eventQueue) post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.fns
	q.fns = nil
	return fns
}

type windowRoot struct {
	content View
	window  *Window
}

// Mount builds v into g and attaches its controls to w as top-level
// controls, following them as they come and go.
func Mount(g *Graph, w *Window, v View) *Node {
	return g.Build(windowRoot{content: v, window: w})
}

func (windowRoot) staticSize() (int, bool) { return 0, false }

func (r windowRoot) buildNode(n *Node) {
	n.addNode(0, n.graph.newNode(r.content, n))
}

func (r windowRoot) updateNode(n *Node) {
	n.view = r
	n.updateChild(0, r.content)
}

func (r windowRoot) insertControl(offset int, n *Node) {
	r.window.InsertControl(n.children[0].ControlAt(offset), offset)
}

func (r windowRoot) removeControl(offset int, _ *Node) {
	r.window.RemoveControl(offset)
}
