package termfield

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/ghostline/predict"
)

// postedMsg carries a continuation back onto the Bubble Tea loop.
type postedMsg struct {
	host *host
	fn   func()
}

// ErrorMsg reports a prediction callback failure.
type ErrorMsg struct {
	Err error
}

func (m ErrorMsg) Error() string { return m.Err.Error() }

// host is the terminal environment of one field. Everything except Post
// runs on the Bubble Tea loop.
type host struct {
	f *field

	posts chan func()
	done  chan struct{}
	once  sync.Once

	observers map[int]func()
	nextObs   int
	layer     *layer
}

func newHost(f *field) *host {
	return &host{
		f:         f,
		posts:     make(chan func(), 64),
		done:      make(chan struct{}),
		observers: make(map[int]func()),
	}
}

func (h *host) ComputedStyle(predict.Field) predict.ComputedStyle {
	f := h.f
	box := f.box

	whiteSpace := "pre"
	if f.cfg.Multiline {
		whiteSpace = "pre-wrap"
	}
	border := "0px none"
	if w := max(box.GetBorderTopSize(), box.GetBorderLeftSize()); w > 0 {
		border = fmt.Sprintf("%dpx solid", w)
	}

	return predict.ComputedStyle{
		"width":  fmt.Sprintf("%dpx", f.cfg.Width),
		"height": fmt.Sprintf("%dpx", f.cfg.Height),
		"padding": fmt.Sprintf("%dpx %dpx %dpx %dpx",
			box.GetPaddingTop(), box.GetPaddingRight(), box.GetPaddingBottom(), box.GetPaddingLeft()),
		"border":          border,
		"font":            "1px monospace",
		"font-size":       "1px",
		"font-family":     "monospace",
		"font-weight":     "400",
		"font-style":      "normal",
		"text-transform":  "none",
		"text-indent":     "0px",
		"letter-spacing":  "normal",
		"word-spacing":    "0px",
		"line-height":     "1px",
		"text-decoration": "none",
		"text-align":      "start",
		"direction":       "ltr",
		"vertical-align":  "baseline",
		"white-space":     whiteSpace,
	}
}

func (h *host) Rect(predict.Field) predict.Rect {
	box := h.f.box
	return predict.Rect{
		Top:    float64(box.GetMarginTop()),
		Left:   float64(box.GetMarginLeft()),
		Width:  float64(h.f.cfg.Width + box.GetHorizontalPadding() + box.GetHorizontalBorderSize()),
		Height: float64(h.f.cfg.Height + box.GetVerticalPadding() + box.GetVerticalBorderSize()),
	}
}

// Scroll is always zero: the field is laid out relative to its own box.
func (h *host) Scroll() predict.Point { return predict.Point{} }

func (h *host) ObserveResize(_ predict.Field, fn func()) func() {
	id := h.nextObs
	h.nextObs++
	h.observers[id] = fn
	return func() { delete(h.observers, id) }
}

func (h *host) notifyResize() {
	for _, fn := range h.observers {
		fn()
	}
}

func (h *host) CreateLayer() predict.Layer {
	l := &layer{host: h, mirror: &mirror{}}
	h.layer = l
	return l
}

func (h *host) AfterFunc(d time.Duration, fn func()) predict.Timer {
	return time.AfterFunc(d, fn)
}

func (h *host) Post(fn func()) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.posts <- fn:
	case <-h.done:
	}
}

func (h *host) ReportError(err error) {
	h.f.errs = append(h.f.errs, err)
}

// listen waits for the next post. It is re-armed after every delivery.
func (h *host) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-h.posts:
			return postedMsg{host: h, fn: fn}
		case <-h.done:
			return nil
		}
	}
}

func (h *host) close() {
	h.once.Do(func() { close(h.done) })
}
