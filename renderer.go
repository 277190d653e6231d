package loom

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
)

// Renderer draws a layer tree to a terminal. It keeps a copy of what the
// terminal shows and writes only the cells that differ, tracking cursor
// position and the active style so that unchanged state is never
// re-emitted.
type Renderer struct {
	w     io.Writer
	layer *Layer

	cache  *Grid[Cell]
	size   Size
	curX   int // -1 when unknown
	curY   int
	style  Style
	out    []byte
	active bool
	blank  bool // nothing drawn since the last erase

	profile    termenv.Profile
	altScreen  bool
	hideCursor bool

	sched     Scheduler
	mu        sync.Mutex
	scheduled bool
	onError   func(error)
	log       *log.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithProfile sets the color profile colors are reduced to.
func WithProfile(p termenv.Profile) RendererOption {
	return func(r *Renderer) { r.profile = p }
}

// WithAltScreen chooses whether Start switches to the alternate screen.
func WithAltScreen(on bool) RendererOption {
	return func(r *Renderer) { r.altScreen = on }
}

// WithHiddenCursor chooses whether the cursor is hidden while running.
func WithHiddenCursor(on bool) RendererOption {
	return func(r *Renderer) { r.hideCursor = on }
}

// WithScheduler makes damage to the layer schedule a redraw on s. Write
// failures during a scheduled redraw go to onError.
func WithScheduler(s Scheduler, onError func(error)) RendererOption {
	return func(r *Renderer) { r.sched, r.onError = s, onError }
}

func WithRendererLogger(l *log.Logger) RendererOption {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer creates a renderer for layer writing to w. The renderer
// becomes the layer's update scheduler.
func NewRenderer(w io.Writer, layer *Layer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		w:          w,
		layer:      layer,
		cache:      NewGrid(0, 0, EmptyCell()),
		curX:       -1,
		style:      DefaultStyle(),
		profile:    termenv.TrueColor,
		altScreen:  true,
		hideCursor: true,
		log:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	layer.SetScheduler(r)
	return r
}

// Size is the area being drawn.
func (r *Renderer) Size() Size { return r.size }

// Start prepares the terminal: alternate screen, hidden cursor and a clean
// slate matching the empty cache.
func (r *Renderer) Start() error {
	if r.altScreen {
		r.out = append(r.out, ansi.SetAltScreenSaveCursorMode...)
	}
	if r.hideCursor {
		r.out = append(r.out, ansi.HideCursor...)
	}
	r.active = true
	r.clear()
	r.log.Debug("renderer started", "profile", r.profile, "altScreen", r.altScreen)
	return r.flush()
}

// Stop restores what Start changed. It is safe to call more than once.
func (r *Renderer) Stop() error {
	if !r.active {
		return nil
	}
	r.active = false
	r.out = append(r.out, ansi.ResetStyle...)
	r.style = DefaultStyle()
	if r.hideCursor {
		r.out = append(r.out, ansi.ShowCursor...)
	}
	if r.altScreen {
		r.out = append(r.out, ansi.ResetAltScreenSaveCursorMode...)
	}
	return r.flush()
}

// SetSize resizes the drawing area and redraws everything.
func (r *Renderer) SetSize(size Size) error {
	r.size = size
	r.cache.Resize(size.Width.Int(), size.Height.Int())
	f := r.layer.Frame()
	f.Size = size
	r.layer.SetFrame(f)
	return r.redraw(!r.blank)
}

// Redraw clears the terminal and draws every cell again.
func (r *Renderer) Redraw() error {
	return r.redraw(true)
}

func (r *Renderer) redraw(erase bool) error {
	if erase {
		r.clear()
	}
	r.draw(Rect{Size: r.size})
	r.layer.ClearInvalidation()
	return r.flush()
}

// Update draws whatever the layer tree reports as damaged since the last
// draw. With no damage it writes nothing.
func (r *Renderer) Update() error {
	damage := r.layer.Invalidated()
	if damage == nil {
		return nil
	}
	r.draw(damage.Intersect(Rect{Size: r.size}))
	r.layer.ClearInvalidation()
	return r.flush()
}

// ScheduleUpdate posts one Update for any amount of damage reported
// before it runs.
func (r *Renderer) ScheduleUpdate() {
	if r.sched == nil {
		return
	}
	r.mu.Lock()
	if r.scheduled {
		r.mu.Unlock()
		return
	}
	r.scheduled = true
	r.mu.Unlock()

	r.sched.Post(func() {
		r.mu.Lock()
		r.scheduled = false
		r.mu.Unlock()
		if err := r.Update(); err != nil && r.onError != nil {
			r.onError(err)
		}
	})
}

// clear erases the terminal and resets the cache to match.
func (r *Renderer) clear() {
	if r.style != DefaultStyle() {
		r.out = append(r.out, ansi.ResetStyle...)
		r.style = DefaultStyle()
	}
	r.out = append(r.out, ansi.EraseEntireScreen...)
	r.cache.Reset()
	r.curX, r.curY = -1, -1
	r.blank = true
}

func (r *Renderer) draw(rect Rect) {
	if rect.Empty() {
		return
	}
	width := r.cache.Width()
	for y := rect.MinLine().Int(); y <= rect.MaxLine().Int(); y++ {
		for x := rect.MinColumn().Int(); x <= rect.MaxColumn().Int(); x++ {
			c, ok := r.layer.Cell(Pos(x, y))
			if !ok {
				c = EmptyCell()
			}
			if r.cache.Get(x, y) == c {
				continue
			}
			r.cache.Set(x, y, c)
			r.blank = false
			// second column of a wide rune
			if c.Rune == 0 {
				continue
			}

			if r.curX != x || r.curY != y {
				r.out = appendCursor(r.out, x, y)
			}
			style := r.downsampleStyle(c.Style)
			r.out = appendStyleChange(r.out, r.style, style)
			r.style = style
			r.out = append(r.out, string(c.Rune)...)

			w := runewidth.RuneWidth(c.Rune)
			if w == 0 {
				w = 1
			}
			r.curX, r.curY = x+w, y
			// the terminal defers the wrap, so the column is unreliable
			if r.curX >= width {
				r.curX = -1
			}
		}
	}
}

func (r *Renderer) flush() error {
	if len(r.out) == 0 {
		return nil
	}
	n, err := r.w.Write(r.out)
	r.log.Debug("flush", "bytes", n)
	r.out = r.out[:0]
	if err != nil {
		return errors.Wrap(err, "write to terminal")
	}
	return nil
}

func (r *Renderer) downsampleStyle(s Style) Style {
	s.FG = r.downsample(s.FG)
	s.BG = r.downsample(s.BG)
	return s
}

// downsample reduces c to what the profile can show.
func (r *Renderer) downsample(c Color) Color {
	if c.IsDefault() || r.profile == termenv.TrueColor {
		return c
	}
	var tc termenv.Color
	switch c.Mode {
	case Color16:
		tc = termenv.ANSIColor(c.Index)
	case Color256:
		tc = termenv.ANSI256Color(c.Index)
	case ColorRGB:
		tc = termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	switch v := r.profile.Convert(tc).(type) {
	case termenv.ANSIColor:
		return BasicColor(uint8(v))
	case termenv.ANSI256Color:
		return PaletteColor(uint8(v))
	case termenv.RGBColor:
		return c
	}
	return DefaultColor()
}
