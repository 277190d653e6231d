package loom

import (
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is what an App runs on: a byte stream in both directions plus
// the controls a full-screen program needs.
type Terminal interface {
	io.Reader
	io.Writer
	// Size is the current size in cells.
	Size() (Size, error)
	// MakeRaw switches off line discipline; Restore undoes it.
	MakeRaw() error
	Restore() error
	// Resized delivers a value after the size changes. Resizes that
	// arrive before the previous one is received are merged.
	Resized() <-chan struct{}
	Close() error
}

// fallbackSize is assumed when the size cannot be queried.
var fallbackSize = Sz(80, 24)

// TTY is the controlling terminal on stdin and stdout.
type TTY struct {
	in, out *os.File

	mu   sync.Mutex
	orig *unix.Termios

	sigCh   chan os.Signal
	resized chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// OpenTTY checks that stdin and stdout are terminals and starts listening
// for size changes.
func OpenTTY() (*TTY, error) {
	in, out := os.Stdin, os.Stdout
	if !term.IsTerminal(int(in.Fd())) {
		return nil, errors.New("stdin is not a terminal")
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return nil, errors.New("stdout is not a terminal")
	}
	t := &TTY{
		in:      in,
		out:     out,
		sigCh:   make(chan os.Signal, 1),
		resized: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	signal.Notify(t.sigCh, unix.SIGWINCH)
	go t.watch()
	return t, nil
}

func (t *TTY) watch() {
	for {
		select {
		case <-t.stop:
			return
		case <-t.sigCh:
			select {
			case t.resized <- struct{}{}:
			default:
			}
		}
	}
}

func (t *TTY) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t *TTY) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t *TTY) Resized() <-chan struct{} { return t.resized }

// Size returns the window size, or 80x24 along with the error when the
// terminal cannot tell.
func (t *TTY) Size() (Size, error) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fallbackSize, errors.Wrap(err, "get window size")
	}
	if ws.Col == 0 || ws.Row == 0 {
		return fallbackSize, nil
	}
	return Sz(int(ws.Col), int(ws.Row)), nil
}

func (t *TTY) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.orig != nil {
		return nil
	}

	fd := int(t.in.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return errors.Wrap(err, "get termios")
	}

	raw := *termios
	// no break, CR to NL, parity, strip or flow control
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	// no echo, canonical mode, signals or extended input
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	// block for at least one byte, no timeout
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return errors.Wrap(err, "set raw mode")
	}
	t.orig = termios
	return nil
}

func (t *TTY) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.orig == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(int(t.in.Fd()), ioctlSetTermios, t.orig); err != nil {
		return errors.Wrap(err, "restore termios")
	}
	t.orig = nil
	return nil
}

// Close stops resize notifications and restores the terminal mode. A
// pending Read is not interrupted.
func (t *TTY) Close() error {
	t.once.Do(func() {
		signal.Stop(t.sigCh)
		close(t.stop)
	})
	return t.Restore()
}
