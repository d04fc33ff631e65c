package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"github.com/iw2rmb/ghostline/predict"
)

// teardownTimeout bounds the page calls made after the binding's context is
// done.
const teardownTimeout = 2 * time.Second

// Binding is a controller attached to one element of a page.
type Binding struct {
	h      *host
	ctrl   *predict.Controller
	cancel context.CancelFunc
	stop   func() error

	done chan struct{}
	err  error
}

// Bind attaches prediction to the first element matching selector. The
// binding stays live until Close is called or ctx is done.
func Bind(ctx context.Context, page *rod.Page, selector string, cfg predict.Config) (*Binding, error) {
	if page == nil {
		return nil, predict.ErrNoHost
	}
	el, err := page.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, errors.Join(predict.ErrNoTarget, err))
	}
	return BindElement(ctx, page, el, cfg)
}

// BindElement is Bind for an element the caller already holds. The element
// must be a textarea or a text-like input.
func BindElement(ctx context.Context, page *rod.Page, el *rod.Element, cfg predict.Config) (*Binding, error) {
	if page == nil {
		return nil, predict.ErrNoHost
	}
	if el == nil {
		return nil, predict.ErrNoTarget
	}
	if cfg.Get == nil {
		return nil, predict.ErrNoPredictFunc
	}
	res, err := el.Context(ctx).Eval(textFieldJS)
	if err != nil {
		return nil, fmt.Errorf("inspect element: %w", errors.Join(predict.ErrNoTarget, err))
	}
	if !res.Value.Bool() {
		return nil, fmt.Errorf("%w: element has no editable text value", predict.ErrNoTarget)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &host{
		ctx:       ctx,
		page:      page,
		el:        el,
		loop:      predict.NewLoop(256),
		binding:   "__ghostline_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		log:       log.Named("browser"),
		observers: make(map[int]func()),
	}
	b := &Binding{h: h, cancel: cancel, done: make(chan struct{})}

	// The exposure outlives ctx so teardown can remove it.
	stop, err := page.Context(context.WithoutCancel(ctx)).Expose(h.binding, func(j gson.JSON) (interface{}, error) {
		if ev, ok := decodeEvent(j); ok {
			h.loop.Post(func() { b.dispatch(ev) })
		}
		return nil, nil
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("expose binding: %w", err)
	}
	b.stop = stop

	go b.run(ctx)

	var attachErr error
	err = h.loop.Do(ctx, func() {
		b.ctrl, attachErr = predict.Attach(h, field{h}, cfg)
		if attachErr != nil {
			return
		}
		if _, err := el.Context(ctx).Eval(installJS, h.binding, b.ctrl.AcceptKey()); err != nil {
			attachErr = fmt.Errorf("install listeners: %w", err)
		}
	})
	if err == nil {
		err = attachErr
	}
	if err != nil {
		cancel()
		<-b.done
		return nil, err
	}
	h.log.Debug("bound", zap.String("binding", h.binding))
	return b, nil
}

// run drives the binding's loop until ctx is done, then tears the binding
// down on the same goroutine: once Run has returned nothing else touches the
// controller.
func (b *Binding) run(ctx context.Context) {
	defer close(b.done)
	h := b.h
	if err := h.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		h.log.Debug("loop stopped", zap.Error(err))
	}

	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()
	h.ctx = tctx

	if b.ctrl != nil {
		b.ctrl.Detach()
		h.eval(uninstallJS, h.binding)
	}
	if err := b.stop(); err != nil {
		b.err = fmt.Errorf("remove binding: %w", err)
	}
	h.log.Debug("unbound", zap.String("binding", h.binding))
}

func (b *Binding) dispatch(ev event) {
	if b.ctrl == nil {
		return
	}
	switch ev.Type {
	case eventInput:
		b.ctrl.Input(ev.Value)
	case eventKeyDown:
		b.ctrl.KeyDown(ev.Key)
	case eventBlur:
		b.ctrl.Blur()
	case eventResize:
		b.h.resized(ev.ID)
	}
}

// State reports the controller state. It waits for the binding's loop.
func (b *Binding) State(ctx context.Context) (predict.State, error) {
	var s predict.State
	err := b.h.loop.Do(ctx, func() {
		if b.ctrl != nil {
			s = b.ctrl.State()
		}
	})
	return s, err
}

// Prediction returns the prediction currently on screen, if any.
func (b *Binding) Prediction(ctx context.Context) (string, error) {
	var p string
	err := b.h.loop.Do(ctx, func() {
		if b.ctrl != nil {
			p = b.ctrl.Prediction()
		}
	})
	return p, err
}

// Close detaches the controller, removes the page listeners and the mirror
// layer, and stops the binding's loop. Cancelling the context given to Bind
// does the same; Close then only waits for it. It is safe to call more than
// once.
func (b *Binding) Close(ctx context.Context) error {
	b.cancel()
	select {
	case <-b.done:
		return b.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
