package predict

import (
	"context"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// State is the controller's position in the request lifecycle.
type State int

const (
	// Idle: no prediction and no pending request.
	Idle State = iota
	// Debouncing: a timer is pending, nothing has been requested yet.
	Debouncing
	// Awaiting: Config.Get is running.
	Awaiting
	// Showing: a prediction is stored and rendered.
	Showing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Awaiting:
		return "awaiting"
	case Showing:
		return "showing"
	default:
		return "unknown"
	}
}

// request is the single live cancellation token.
type request struct {
	id     uint64
	value  string
	ctx    context.Context
	cancel context.CancelFunc
	timer  Timer
}

func (r *request) stop() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.cancel()
}

// Controller drives predictions for one attached field.
type Controller struct {
	host    Host
	field   Field
	cfg     Config
	log     *zap.Logger
	overlay *Overlay

	state      State
	prediction string

	seq        uint64
	live       *request
	disconnect func()
	detached   bool
}

// Attach binds a controller to field: it creates the overlay layer and
// starts observing the field's size. The caller forwards the field's input,
// key and blur events to Input, KeyDown and Blur.
func Attach(host Host, field Field, cfg Config) (*Controller, error) {
	if isNil(host) {
		return nil, ErrNoHost
	}
	if isNil(field) {
		return nil, ErrNoTarget
	}
	if cfg.Get == nil {
		return nil, ErrNoPredictFunc
	}
	cfg = cfg.withDefaults()

	c := &Controller{
		host:    host,
		field:   field,
		cfg:     cfg,
		log:     cfg.Logger,
		overlay: NewOverlay(host, cfg),
	}
	c.overlay.Attach()
	c.render()
	c.disconnect = host.ObserveResize(field, c.render)

	c.log.Debug("prediction attached",
		zap.Duration("debounce", cfg.Debounce),
		zap.String("accept_key", cfg.AcceptKey))
	return c, nil
}

func (c *Controller) State() State { return c.state }

// Prediction returns the stored prediction, or "" when none is showing.
func (c *Controller) Prediction() string { return c.prediction }

// AcceptKey is the key name KeyDown treats as accepting the prediction.
func (c *Controller) AcceptKey() string { return c.cfg.AcceptKey }

// Input handles a change of the field's text to value.
func (c *Controller) Input(value string) {
	if c.detached {
		return
	}
	c.cancelLive()

	if strings.TrimSpace(value) == "" {
		c.prediction = ""
		c.state = Idle
		c.render()
		return
	}
	if c.prediction != "" {
		c.prediction = ""
		c.render()
	}

	c.seq++
	ctx, cancel := context.WithCancel(context.Background())
	req := &request{id: c.seq, value: value, ctx: ctx, cancel: cancel}
	req.timer = c.host.AfterFunc(c.cfg.Debounce, func() {
		c.host.Post(func() { c.fire(req) })
	})
	c.live = req
	c.state = Debouncing
}

// KeyDown handles a key press before the field applies it. It reports
// whether the key was consumed; the host must then suppress the key's
// default action and propagation.
func (c *Controller) KeyDown(key string) bool {
	if c.detached {
		return false
	}
	prediction := c.prediction
	if prediction == "" || key != c.cfg.AcceptKey {
		c.dismiss()
		return false
	}

	c.field.SetValue(c.field.Value() + prediction)
	c.prediction = ""
	c.state = Idle
	c.render()
	c.log.Debug("prediction accepted", zap.Int("len", len(prediction)))
	return true
}

// Blur handles the field losing focus.
func (c *Controller) Blur() {
	if c.detached {
		return
	}
	c.cancelLive()
	c.prediction = ""
	c.state = Idle
	c.render()
}

// Detach stops all pending work and removes the overlay. Continuations that
// are already queued on the loop become no-ops.
func (c *Controller) Detach() {
	if c.detached {
		return
	}
	c.detached = true
	c.cancelLive()
	if c.disconnect != nil {
		c.disconnect()
		c.disconnect = nil
	}
	c.prediction = ""
	c.state = Idle
	c.overlay.Detach()
	c.log.Debug("prediction detached")
}

func (c *Controller) fire(req *request) {
	if c.detached || c.live != req {
		return
	}
	c.state = Awaiting
	c.log.Debug("prediction requested", zap.Uint64("request", req.id))

	get := c.cfg.Get
	go func() {
		text, err := get(req.ctx, req.value)
		c.host.Post(func() { c.complete(req, text, err) })
	}()
}

func (c *Controller) complete(req *request, text string, err error) {
	if c.detached || c.live != req {
		return
	}
	c.live = nil
	canceled := req.ctx.Err() != nil
	req.cancel()

	if err != nil {
		c.state = Idle
		if canceled || IsCanceled(err) {
			return
		}
		c.host.ReportError(&PredictionError{Value: req.value, Err: err})
		return
	}

	c.prediction = text
	if text == "" {
		c.state = Idle
	} else {
		c.state = Showing
	}
	c.log.Debug("prediction resolved", zap.Uint64("request", req.id), zap.Int("len", len(text)))
	c.render()
}

func (c *Controller) dismiss() {
	if c.state == Showing {
		c.state = Idle
	}
	c.prediction = ""
	c.render()
}

func (c *Controller) cancelLive() {
	if c.live == nil {
		return
	}
	c.live.stop()
	c.live = nil
}

func (c *Controller) render() {
	c.overlay.Render(c.field, c.prediction)
}

// isNil also catches a nil pointer stored in an interface, which would
// otherwise only fail on first use.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
