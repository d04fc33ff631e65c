package predict

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves virtual time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeMirror struct {
	content      Composite
	style        Declarations
	contentCalls int
	styleCalls   int
}

func (m *fakeMirror) SetContent(c Composite) {
	m.content = c
	m.contentCalls++
}

func (m *fakeMirror) SetStyle(d Declarations) {
	m.style = d
	m.styleCalls++
}

type fakeLayer struct {
	mirror  *fakeMirror
	removed bool
}

func (l *fakeLayer) Mirror() Mirror { return l.mirror }
func (l *fakeLayer) Remove()        { l.removed = true }

type fakeHost struct {
	*fakeClock

	posts chan func()

	style  ComputedStyle
	rect   Rect
	scroll Point

	resize       func()
	disconnected bool
	layers       []*fakeLayer
	errs         []error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		fakeClock: &fakeClock{},
		posts:     make(chan func(), 64),
		style: ComputedStyle{
			"height":      "40px",
			"width":       "300px",
			"padding":     "20px",
			"border":      "1px solid rgb(0, 0, 0)",
			"font":        "13.33px Arial",
			"font-size":   "13.33px",
			"font-family": "Arial",
			"white-space": "pre",
		},
		rect:   Rect{Top: 10, Left: 8, Width: 342, Height: 82},
		scroll: Point{X: 0, Y: 100},
	}
}

func (h *fakeHost) ComputedStyle(Field) ComputedStyle { return h.style }
func (h *fakeHost) Rect(Field) Rect                   { return h.rect }
func (h *fakeHost) Scroll() Point                     { return h.scroll }

func (h *fakeHost) ObserveResize(_ Field, fn func()) func() {
	h.resize = fn
	return func() {
		h.disconnected = true
		h.resize = nil
	}
}

func (h *fakeHost) CreateLayer() Layer {
	l := &fakeLayer{mirror: &fakeMirror{}}
	h.layers = append(h.layers, l)
	return l
}

func (h *fakeHost) Post(fn func())        { h.posts <- fn }
func (h *fakeHost) ReportError(err error) { h.errs = append(h.errs, err) }

func (h *fakeHost) mirror() *fakeMirror {
	return h.layers[len(h.layers)-1].mirror
}

// flush runs everything already posted.
func (h *fakeHost) flush() int {
	n := 0
	for {
		select {
		case fn := <-h.posts:
			fn()
			n++
		default:
			return n
		}
	}
}

// runNext waits for the next post (typically a prediction completion) and
// runs it.
func (h *fakeHost) runNext(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.posts:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a posted continuation")
	}
}

type fakeField struct {
	value string
	sets  int
}

func (f *fakeField) Value() string { return f.value }
func (f *fakeField) SetValue(v string) { f.value = v; f.sets++ }

type reply struct {
	text string
	err  error
}

type call struct {
	value string
	ctx   context.Context
	reply chan reply
}

// stubPredictor blocks every request until the test replies or the request
// context is cancelled.
type stubPredictor struct {
	calls chan *call
}

func newStubPredictor() *stubPredictor {
	return &stubPredictor{calls: make(chan *call, 16)}
}

func (s *stubPredictor) get(ctx context.Context, value string) (string, error) {
	c := &call{value: value, ctx: ctx, reply: make(chan reply, 1)}
	s.calls <- c
	select {
	case r := <-c.reply:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *stubPredictor) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a prediction request")
		return nil
	}
}

func (s *stubPredictor) expectNone(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected prediction request for %q", c.value)
	case <-time.After(50 * time.Millisecond):
	}
}
