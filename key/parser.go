package key

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// DefaultTimeout is how long a lone ESC waits for the rest of a sequence.
const DefaultTimeout = 30 * time.Millisecond

// Decoder is the escape-sequence state machine without any timing. It is
// either idle or holding a pending escape prefix. Callers run the timer:
// when Pending reports true and no input arrives in time, call Expire.
type Decoder struct {
	pending []rune
}

// Pending reports whether an escape prefix is waiting for more input.
func (d *Decoder) Pending() bool { return len(d.pending) > 0 }

// Feed advances the machine by one scalar and returns the keys it produced.
func (d *Decoder) Feed(r rune) []Key {
	if len(d.pending) == 0 {
		if r == 0x1b {
			d.pending = append(d.pending, r)
			return nil
		}
		return []Key{Translate(Char(r))}
	}

	candidate := string(append(d.pending, r))
	if IsPrefix(candidate) {
		d.pending = append(d.pending, r)
		return nil
	}
	if k, ok := Lookup(candidate); ok {
		d.pending = d.pending[:0]
		return []Key{k}
	}
	return d.flush(r)
}

// Expire handles the escape timeout: every scalar of the pending prefix is
// emitted on its own and the machine returns to idle.
func (d *Decoder) Expire() []Key {
	if len(d.pending) == 0 {
		return nil
	}
	return d.flush()
}

func (d *Decoder) flush(extra ...rune) []Key {
	keys := make([]Key, 0, len(d.pending)+len(extra))
	for _, r := range d.pending {
		keys = append(keys, Translate(Char(r)))
	}
	for _, r := range extra {
		keys = append(keys, Translate(Char(r)))
	}
	d.pending = d.pending[:0]
	return keys
}

// Option configures a Parser.
type Option func(*Parser)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// Parser turns a byte stream into keys. A Parser reads its stream once;
// Keys may only be consumed a single time.
type Parser struct {
	r       io.Reader
	timeout time.Duration

	once sync.Once
	mu   sync.Mutex
	err  error
}

func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{r: r, timeout: DefaultTimeout}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Err returns the read error that ended the stream, if it was not EOF.
func (p *Parser) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Keys starts decoding and returns the key stream. The channel closes when
// ctx is cancelled or the reader ends. On cancellation nothing further is
// emitted; at end of input a pending prefix is flushed first.
//
// The reading goroutine stays blocked in Read until the reader returns,
// so callers owning the reader should close it on shutdown.
func (p *Parser) Keys(ctx context.Context) <-chan Key {
	out := make(chan Key)
	started := false
	p.once.Do(func() {
		started = true
		runes := make(chan rune)
		go p.read(ctx, runes)
		go p.decode(ctx, runes, out)
	})
	if !started {
		close(out)
	}
	return out
}

func (p *Parser) read(ctx context.Context, runes chan<- rune) {
	defer close(runes)
	br := bufio.NewReader(p.r)
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.mu.Lock()
				p.err = err
				p.mu.Unlock()
			}
			return
		}
		select {
		case runes <- r:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Parser) decode(ctx context.Context, runes <-chan rune, out chan<- Key) {
	defer close(out)

	var d Decoder
	timer := time.NewTimer(p.timeout)
	timer.Stop()
	defer timer.Stop()
	var expired <-chan time.Time

	emit := func(keys []Key) bool {
		for _, k := range keys {
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- k:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case r, ok := <-runes:
			timer.Stop()
			expired = nil
			if !ok {
				emit(d.Expire())
				return
			}
			if !emit(d.Feed(r)) {
				return
			}
			if d.Pending() {
				timer.Reset(p.timeout)
				expired = timer.C
			}

		case <-expired:
			expired = nil
			if !emit(d.Expire()) {
				return
			}
		}
	}
}
