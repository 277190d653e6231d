package key

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func feedAll(d *Decoder, s string) []Key {
	var keys []Key
	for _, r := range s {
		keys = append(keys, d.Feed(r)...)
	}
	return keys
}

func TestDecoderMappedSequences(t *testing.T) {
	for seq, want := range sequences {
		var d Decoder
		got := feedAll(&d, seq)
		if len(got) != 1 {
			t.Errorf("%q: expected 1 key, got %d (%v)", seq, len(got), got)
			continue
		}
		if got[0] != want {
			t.Errorf("%q: expected %v, got %v", seq, want, got[0])
		}
		if d.Pending() {
			t.Errorf("%q: expected idle decoder after match", seq)
		}
	}
}

func TestDecoderNoPartialKeys(t *testing.T) {
	var d Decoder
	seq := "\x1b[1;5A"
	for i, r := range seq[:len(seq)-1] {
		if keys := d.Feed(r); len(keys) != 0 {
			t.Fatalf("byte %d: expected no keys mid-sequence, got %v", i, keys)
		}
	}
	keys := d.Feed('A')
	if len(keys) != 1 || keys[0] != Named(Up, Ctrl) {
		t.Errorf("expected ctrl+up, got %v", keys)
	}
}

func TestDecoderDecomposition(t *testing.T) {
	t.Run("ShiftTabThenQuote", func(t *testing.T) {
		var d Decoder
		got := feedAll(&d, "\x1b[Z'")
		want := []Key{Named(Tab, Shift), Char('\'')}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("key %d: expected %v, got %v", i, want[i], got[i])
			}
		}
	})

	t.Run("BrokenPrefix", func(t *testing.T) {
		var d Decoder
		got := feedAll(&d, "\x1b[1;x")
		want := []Key{Named(Escape, 0), Char('['), Char('1'), Char(';'), Char('x')}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("key %d: expected %v, got %v", i, want[i], got[i])
			}
		}
	})

	t.Run("AltStyleLetter", func(t *testing.T) {
		var d Decoder
		got := feedAll(&d, "\x1bx")
		if len(got) != 2 || got[0] != Named(Escape, 0) || got[1] != Char('x') {
			t.Errorf("expected escape then x, got %v", got)
		}
	})
}

func TestDecoderExpire(t *testing.T) {
	var d Decoder
	if keys := d.Feed(0x1b); len(keys) != 0 {
		t.Fatalf("expected pending escape, got %v", keys)
	}
	keys := d.Expire()
	if len(keys) != 1 || keys[0] != Named(Escape, 0) {
		t.Fatalf("expected single escape, got %v", keys)
	}
	if d.Pending() {
		t.Fatal("expected idle after expire")
	}
	// a following '[' starts fresh
	keys = d.Feed('[')
	if len(keys) != 1 || keys[0] != Char('[') {
		t.Errorf("expected '[', got %v", keys)
	}
	if got := d.Expire(); got != nil {
		t.Errorf("expected nothing to expire, got %v", got)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		in   rune
		want Key
	}{
		{4, CtrlChar('d')},
		{1, CtrlChar('a')},
		{26, CtrlChar('z')},
		{13, Named(Enter, 0)},
		{9, Named(Tab, 0)},
		{127, Named(Backspace, 0)},
		{27, Named(Escape, 0)},
		{0, CtrlChar(' ')},
		{28, CtrlChar('\\')},
		{31, CtrlChar('_')},
		{'a', Char('a')},
	}
	for _, tt := range tests {
		if got := Translate(Char(tt.in)); got != tt.want {
			t.Errorf("Translate(%d): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	if got := Translate(Named(Up, Shift)); got != Named(Up, Shift) {
		t.Errorf("expected named key unchanged, got %v", got)
	}
}

func TestPrefixes(t *testing.T) {
	for _, p := range []string{"\x1b", "\x1b[", "\x1b[1", "\x1b[1;", "\x1b[1;5", "\x1bO", "\x1b[["} {
		if !IsPrefix(p) {
			t.Errorf("expected %q to be a prefix", p)
		}
	}
	// a mapped sequence that is also a prefix could never be matched
	for seq := range sequences {
		if IsPrefix(seq) {
			t.Errorf("sequence %q is shadowed by a longer one", seq)
		}
	}
	if IsPrefix("\x1b[A") {
		t.Error("complete sequence \\x1b[A should not be a proper prefix")
	}
}

func collect(t *testing.T, ch <-chan Key, n int, within time.Duration) []Key {
	t.Helper()
	var keys []Key
	deadline := time.After(within)
	for len(keys) < n {
		select {
		case k, ok := <-ch:
			if !ok {
				return keys
			}
			keys = append(keys, k)
		case <-deadline:
			t.Fatalf("timed out with %d/%d keys: %v", len(keys), n, keys)
		}
	}
	return keys
}

func TestParserStream(t *testing.T) {
	p := NewParser(strings.NewReader("a\x1b[Bq\x04"))
	keys := collect(t, p.Keys(context.Background()), 4, time.Second)
	want := []Key{Char('a'), Named(Down, 0), Char('q'), CtrlChar('d')}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}

func TestParserEscapeTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	p := NewParser(pr)
	ch := p.Keys(context.Background())

	go pw.Write([]byte{0x1b})
	keys := collect(t, ch, 1, time.Second)
	if keys[0] != Named(Escape, 0) {
		t.Fatalf("expected escape after timeout, got %v", keys[0])
	}

	// after the timeout '[' then 'A' must not join the old escape
	go pw.Write([]byte("[A"))
	keys = collect(t, ch, 2, time.Second)
	if keys[0] != Char('[') || keys[1] != Char('A') {
		t.Errorf("expected fresh '[' 'A', got %v", keys)
	}
}

func TestParserEOFFlushesPrefix(t *testing.T) {
	p := NewParser(strings.NewReader("\x1b["), WithTimeout(time.Hour))
	keys := collect(t, p.Keys(context.Background()), 3, time.Second)
	if len(keys) != 2 || keys[0] != Named(Escape, 0) || keys[1] != Char('[') {
		t.Errorf("expected escape and '[', got %v", keys)
	}
}

func TestParserCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewParser(pr, WithTimeout(20*time.Millisecond))
	ch := p.Keys(ctx)

	go pw.Write([]byte{0x1b})
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case k, ok := <-ch:
		if ok {
			t.Errorf("expected no keys after cancel, got %v", k)
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestParserSingleUse(t *testing.T) {
	p := NewParser(strings.NewReader("x"))
	_ = p.Keys(context.Background())
	if _, ok := <-p.Keys(context.Background()); ok {
		t.Error("expected second Keys call to return a closed channel")
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		k    Key
		want string
	}{
		{CtrlChar('d'), "ctrl+d"},
		{Named(Tab, Shift), "shift+tab"},
		{Named(Up, Alt), "alt+up"},
		{Char(' '), "space"},
		{Named(F12, 0), "f12"},
		{Char('+'), "+"},
		{CtrlChar('+'), "ctrl++"},
		{Key{Code: Rune, Rune: '+', Mod: Ctrl | Alt}, "ctrl+alt++"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
		back, err := ParseKey(tt.want)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", tt.want, err)
			continue
		}
		if back != tt.k {
			t.Errorf("ParseKey(%q): expected %v, got %v", tt.want, tt.k, back)
		}
	}
	for _, bad := range []string{"hyper+x", "ctrl+", "+x", ""} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q): expected an error", bad)
		}
	}
}
