package loom

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kungfusheep/loom/key"
	"github.com/pkg/errors"
)

func TestBorder(t *testing.T) {
	t.Run("frames content", func(t *testing.T) {
		h := mount(VStack(Border(Text("hi"), BorderSingle, DefaultStyle())), 10, 4)
		want := "┌──┐\n│hi│\n└──┘"
		if got := h.screen(); got != want {
			t.Errorf("got\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("style change updates in place", func(t *testing.T) {
		var rounded State[bool]
		h := mount(borderToggle{rounded: &rounded}, 10, 3)
		wrapper := children(h)[0]
		rounded.Set(true)
		h.sched.drain()
		if children(h)[0] != wrapper {
			t.Error("expected the border control to be kept")
		}
		if got := Line(h.window.Snapshot(), 0); got != "╭─╮" {
			t.Errorf("got %q, want %q", got, "╭─╮")
		}
	})

	t.Run("ascii", func(t *testing.T) {
		h := mount(VStack(Border(EmptyView(), BorderASCII, DefaultStyle())), 10, 4)
		if got := h.screen(); got != "" {
			t.Errorf("expected nothing to wrap, got %q", got)
		}
		h = mount(VStack(Border(Text("a"), BorderASCII, DefaultStyle())), 3, 3)
		if got := h.screen(); got != "+-+\n|a|\n+-+" {
			t.Errorf("got %q", got)
		}
	})
}

type borderToggle struct {
	rounded *State[bool]
}

func (b borderToggle) Body(ctx *Context) View {
	rounded := UseState(ctx, "rounded", false)
	*b.rounded = rounded
	style := BorderSingle
	if rounded.Get() {
		style = BorderRounded
	}
	return VStack(Border(Text("x"), style, DefaultStyle()))
}

func TestPaddingAndBackground(t *testing.T) {
	t.Run("padding", func(t *testing.T) {
		h := mount(VStack(Padding(Text("x"), 1), Text("y")), 10, 5)
		if got := h.screen(); got != "\n x\n\ny" {
			t.Errorf("got %q, want %q", got, "\n x\n\ny")
		}
	})

	t.Run("background", func(t *testing.T) {
		h := mount(VStack(Background(Padding(Text("x"), 1), Blue)), 5, 3)
		buf := h.window.Snapshot()
		if c := buf.Get(1, 1); c.Rune != 'x' || c.Style.BG != Blue {
			t.Errorf("expected x on blue, got %+v", c)
		}
		if c := buf.Get(0, 0); c.Style.BG != Blue {
			t.Errorf("expected the padding painted, got %+v", c)
		}
		if c := buf.Get(4, 0); !c.Style.BG.IsDefault() {
			t.Errorf("expected nothing outside, got %+v", c)
		}
	})

	t.Run("wrappers follow replaced content", func(t *testing.T) {
		var flag State[bool]
		h := mount(VStack(Background(switcher{useText: &flag}, Red)), 5, 2)
		flag.Set(false)
		h.sched.drain()
		bg, ok := children(h)[0].(*BackgroundControl)
		if !ok {
			t.Fatalf("expected a background wrapper, got %s", TreeDescription(h.window.Controls()[0]))
		}
		if _, ok := bg.Children()[0].(*SpacerControl); !ok {
			t.Errorf("expected the wrapper to hold the new content, got %s", TreeDescription(bg))
		}
		node := find(h.root, "backgroundView")
		if n := len(node.Wrappers()); n != 1 {
			t.Errorf("expected 1 live wrapper, got %d", n)
		}
	})
}

func TestKeyPress(t *testing.T) {
	var pressed, acted int
	h := mount(OnKeyPress(Button(func() { acted++ }, Text("ok")), key.Char('x'), func() { pressed++ }), 10, 1)

	if !h.window.HandleKey(key.Char('x')) || pressed != 1 {
		t.Errorf("expected x handled once, got %d", pressed)
	}
	h.window.HandleKey(key.Named(key.Enter, 0))
	h.window.HandleKey(key.Char(' '))
	if acted != 2 {
		t.Errorf("expected the button to act twice, got %d", acted)
	}
	if h.window.HandleKey(key.Named(key.Enter, key.Alt)) {
		t.Error("expected alt+enter to pass")
	}
	if h.window.HandleKey(key.Char('y')) {
		t.Error("expected y to pass")
	}
}

func TestOnKey(t *testing.T) {
	var seen []key.Key
	h := mount(OnKey(Button(nil, Text("ok")), func(k key.Key) bool {
		seen = append(seen, k)
		return k == key.Char('a')
	}), 10, 1)

	if !h.window.HandleKey(key.Char('a')) {
		t.Error("expected a handled")
	}
	if h.window.HandleKey(key.Char('b')) {
		t.Error("expected b to pass")
	}
	h.window.HandleKey(key.Named(key.Enter, 0))
	if len(seen) != 2 {
		t.Errorf("expected the button to keep enter, saw %v", seen)
	}
}

func TestButtonHighlight(t *testing.T) {
	h := mount(HStack(Button(nil, Text("a"), Text("b")), Button(nil, Text("c"))), 10, 1)
	inverse := func(x int) bool {
		return h.window.Snapshot().Get(x, 0).Style.Attr.Has(AttrInverse)
	}
	if got := h.screen(); got != "a b c" {
		t.Fatalf("got %q", got)
	}
	for x, want := range []bool{true, true, true, false, false} {
		if inverse(x) != want {
			t.Errorf("column %d: expected inverse %v", x, want)
		}
	}

	h.window.MoveFocus(Next)
	if inverse(0) || !inverse(4) {
		t.Error("expected the highlight to move to the second button")
	}
}

func TestButtonLabelRow(t *testing.T) {
	h := mount(VStack(Button(nil, Text("a"), Spacer(), Text("b"))), 20, 3)
	want := "a" + strings.Repeat(" ", 18) + "b"
	if got := h.screen(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	button := children(h)[0]
	if got := button.base().Frame().Size; got != Sz(20, 1) {
		t.Errorf("button: got %v, want 20x1", got)
	}
	if got := button.base().Children()[1].base().Frame(); got != (Rect{Position: Pos(2, 0), Size: Sz(16, 0)}) {
		t.Errorf("spacer: got %v", got)
	}
}

func TestFill(t *testing.T) {
	h := mount(Fill(Green), 3, 2)
	buf := h.window.Snapshot()
	for pos, c := range buf.Cells() {
		if c.Style.BG != Green {
			t.Errorf("%v: expected green, got %+v", pos, c.Style.BG)
		}
	}
}

type taskRecorder struct {
	mu      sync.Mutex
	started chan struct{}
	stopped chan struct{}
	err     error
}

func newTaskRecorder() *taskRecorder {
	return &taskRecorder{started: make(chan struct{}), stopped: make(chan struct{})}
}

func (p *taskRecorder) run(tc TaskContext) error {
	close(p.started)
	defer close(p.stopped)
	<-tc.Done()
	return tc.Err()
}

func (p *taskRecorder) onError(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *taskRecorder) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

type taskHost struct {
	show  *State[bool]
	rec *taskRecorder
}

func (th taskHost) Body(ctx *Context) View {
	show := UseState(ctx, "show", true)
	*th.show = show
	return VStack(If(show.Get(), Task(Text("busy"), th.rec.run)))
}

func TestTask(t *testing.T) {
	t.Run("cancelled when removed", func(t *testing.T) {
		rec := newTaskRecorder()
		var show State[bool]
		h := mount(taskHost{show: &show, rec: rec}, 10, 1, func(g *Graph) {
			g.SetTaskContext(context.Background(), rec.onError)
		})
		waitFor(t, rec.started, "task start")
		tc := find(h.root, "taskView").ControlAt(0).(*TaskControl)
		if !tc.Running() {
			t.Error("expected the task running")
		}

		show.Set(false)
		h.sched.drain()
		waitFor(t, rec.stopped, "task stop")
		h.graph.WaitTasks()
		if tc.Running() {
			t.Error("expected the task stopped")
		}
		if err := rec.failure(); err != nil {
			t.Errorf("expected cancellation not to be reported, got %v", err)
		}
	})

	t.Run("cancelled with the app context", func(t *testing.T) {
		rec := newTaskRecorder()
		ctx, cancel := context.WithCancel(context.Background())
		mount(VStack(Task(Text("t"), rec.run)), 10, 1, func(g *Graph) {
			g.SetTaskContext(ctx, rec.onError)
		})
		waitFor(t, rec.started, "task start")
		cancel()
		waitFor(t, rec.stopped, "task stop")
	})

	t.Run("starts once across layouts", func(t *testing.T) {
		var mu sync.Mutex
		runs := 0
		h := mount(VStack(Task(Text("t"), func(tc TaskContext) error {
			mu.Lock()
			runs++
			mu.Unlock()
			<-tc.Done()
			return nil
		})), 10, 1)
		h.window.Layout(Sz(5, 1))
		h.window.Layout(Sz(10, 1))
		dispose(h.window.Controls()[0])
		h.graph.WaitTasks()
		if runs != 1 {
			t.Errorf("expected 1 run, got %d", runs)
		}
	})

	t.Run("errors and panics are reported", func(t *testing.T) {
		for name, fn := range map[string]func(TaskContext) error{
			"error": func(TaskContext) error { return errors.New("boom") },
			"panic": func(TaskContext) error { panic("boom") },
		} {
			t.Run(name, func(t *testing.T) {
				rec := newTaskRecorder()
				h := mount(VStack(Task(Text("t"), fn)), 10, 1, func(g *Graph) {
					g.SetTaskContext(context.Background(), rec.onError)
				})
				h.graph.WaitTasks()
				err := rec.failure()
				if err == nil || !strings.Contains(err.Error(), "boom") {
					t.Errorf("expected the failure reported, got %v", err)
				}
			})
		}
	})

	t.Run("post reaches the UI goroutine", func(t *testing.T) {
		h := mount(postingTask{}, 20, 1)
		h.graph.WaitTasks()
		h.sched.drain()
		if got := h.screen(); got != "done" {
			t.Errorf("got %q, want %q", got, "done")
		}
	})
}

type postingTask struct{}

func (postingTask) Body(ctx *Context) View {
	label := UseState(ctx, "label", "waiting")
	return Task(Text(label.Get()), func(tc TaskContext) error {
		tc.Post(func() { label.Set("done") })
		return nil
	})
}
