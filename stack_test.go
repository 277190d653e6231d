package loom

import (
	"strings"
	"testing"
)

func children(h *harness) []Control {
	return h.window.Controls()[0].base().Children()
}

func TestStackLayout(t *testing.T) {
	t.Run("spacer takes what text leaves", func(t *testing.T) {
		h := mount(HStack(Text("A"), Spacer()).Spacing(0), 100, 1)
		c := children(h)
		if got := c[0].base().Frame(); got != (Rect{Size: Sz(1, 1)}) {
			t.Errorf("text: got %v", got)
		}
		want := Rect{Position: Pos(1, 0), Size: Sz(99, 0)}
		if got := c[1].base().Frame(); got != want {
			t.Errorf("spacer: got %v, want %v", got, want)
		}
	})

	t.Run("default row spacing", func(t *testing.T) {
		h := mount(HStack(Text("A"), Spacer(), Text("B")), 100, 1)
		want := "A" + strings.Repeat(" ", 98) + "B"
		if got := h.screen(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("explicit spacing", func(t *testing.T) {
		h := mount(HStack(Text("a"), Text("b"), Text("c")).Spacing(2), 20, 1)
		if got := h.screen(); got != "a  b  c" {
			t.Errorf("got %q, want %q", got, "a  b  c")
		}
	})

	t.Run("column", func(t *testing.T) {
		h := mount(VStack(Text("a"), Spacer(), Text("b")), 5, 4)
		if got := h.screen(); got != "a\n\n\nb" {
			t.Errorf("got %q, want %q", got, "a\n\n\nb")
		}
	})

	t.Run("cross axis alignment", func(t *testing.T) {
		h := mount(VStack(Text("ab"), Text("abcd")).Align(Center), 8, 2)
		if got := h.screen(); got != "   ab\n  abcd" {
			t.Errorf("got %q, want %q", got, "   ab\n  abcd")
		}
		h = mount(VStack(Text("ab"), Text("abcd")).Align(Trailing), 8, 2)
		if got := h.screen(); got != "      ab\n    abcd" {
			t.Errorf("got %q, want %q", got, "      ab\n    abcd")
		}
	})

	t.Run("overlay", func(t *testing.T) {
		h := mount(ZStack(Fill(Blue), Text("hi")), 6, 3)
		buf := h.window.Snapshot()
		if got := Line(buf, 1); got != "  hi" {
			t.Errorf("line 1: got %q, want %q", got, "  hi")
		}
		if c := buf.Get(0, 0); c.Style.BG != Blue {
			t.Errorf("expected fill behind, got %+v", c)
		}
		if c := buf.Get(2, 1); c.Rune != 'h' || c.Style.BG != Blue {
			t.Errorf("expected h on blue, got %+v", c)
		}
	})

	t.Run("rows align to the top", func(t *testing.T) {
		h := mount(VStack(HStack(Text("a"), VStack(Text("b"), Text("c"), Text("d")))), 10, 3)
		if got := h.screen(); got != "a b\n  c\n  d" {
			t.Errorf("got %q", got)
		}
		h = mount(VStack(HStack(Text("a"), VStack(Text("b"), Text("c"), Text("d"))).Align(Center)), 10, 3)
		if got := h.screen(); got != "  b\na c\n  d" {
			t.Errorf("centered: got %q", got)
		}
	})

	t.Run("measures content", func(t *testing.T) {
		h := mount(VStack(HStack(Text("ab"), Text("c"))), 20, 5)
		inner := children(h)[0]
		if got := inner.Size(Size{Width: Infinity, Height: Infinity}); got != Sz(4, 1) {
			t.Errorf("expected 4x1, got %v", got)
		}
	})

	t.Run("minimum spacer length", func(t *testing.T) {
		h := mount(HStack(Text("abc"), Spacer().MinLength(2), Text("d")).Spacing(0), 4, 1)
		if got := children(h)[1].base().Frame().Size.Width; got != 2 {
			t.Errorf("expected spacer width 2, got %v", got)
		}
	})

	t.Run("options update in place", func(t *testing.T) {
		var spaced State[bool]
		h := mount(spacingToggle{on: &spaced}, 20, 1)
		stack := h.window.Controls()[0]
		if got := h.screen(); got != "ab" {
			t.Fatalf("got %q, want %q", got, "ab")
		}
		spaced.Set(true)
		h.sched.drain()
		if h.window.Controls()[0] != stack {
			t.Error("expected the stack control to be kept")
		}
		if got := h.screen(); got != "a   b" {
			t.Errorf("got %q, want %q", got, "a   b")
		}
	})
}

type spacingToggle struct {
	on *State[bool]
}

func (s spacingToggle) Body(ctx *Context) View {
	on := UseState(ctx, "on", false)
	*s.on = on
	gap := 0
	if on.Get() {
		gap = 3
	}
	return HStack(Text("a"), Text("b")).Spacing(gap)
}

func buttonLabel(c Control) string {
	if c == nil {
		return "<nil>"
	}
	return c.base().Children()[0].(*TextControl).Text()
}

func TestStackNavigation(t *testing.T) {
	button := func(s string) View { return Button(nil, Text(s)) }
	setup := func() *harness {
		return mount(HStack(button("a"), button("b"), VStack(button("c"), button("d"))), 40, 4)
	}

	t.Run("first selectable gets focus", func(t *testing.T) {
		h := setup()
		if got := buttonLabel(h.window.FirstResponder()); got != "a" {
			t.Errorf("expected a, got %s", got)
		}
	})

	t.Run("next runs through nested stacks", func(t *testing.T) {
		h := setup()
		var got []string
		for h.window.MoveFocus(Next) {
			got = append(got, buttonLabel(h.window.FirstResponder()))
		}
		if strings.Join(got, "") != "bcd" {
			t.Errorf("expected bcd, got %v", got)
		}
	})

	t.Run("prev runs back out", func(t *testing.T) {
		h := setup()
		for h.window.MoveFocus(Next) {
		}
		var got []string
		for h.window.MoveFocus(Prev) {
			got = append(got, buttonLabel(h.window.FirstResponder()))
		}
		if strings.Join(got, "") != "cba" {
			t.Errorf("expected cba, got %v", got)
		}
	})

	t.Run("directions follow the axis", func(t *testing.T) {
		h := setup()
		if h.window.MoveFocus(Below) {
			t.Errorf("expected no move below from a row, got %s", buttonLabel(h.window.FirstResponder()))
		}
		h.window.MoveFocus(RightOf)
		h.window.MoveFocus(RightOf)
		if got := buttonLabel(h.window.FirstResponder()); got != "c" {
			t.Fatalf("expected c, got %s", got)
		}
		h.window.MoveFocus(Below)
		if got := buttonLabel(h.window.FirstResponder()); got != "d" {
			t.Errorf("expected d, got %s", got)
		}
		if h.window.MoveFocus(RightOf) {
			t.Errorf("expected nothing right of d, got %s", buttonLabel(h.window.FirstResponder()))
		}
		h.window.MoveFocus(LeftOf)
		if got := buttonLabel(h.window.FirstResponder()); got != "b" {
			t.Errorf("expected b, got %s", got)
		}
	})
}
