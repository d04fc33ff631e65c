package browser

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/ghostline/predict"
)

// host is the page environment of one bound field. All methods except Post
// and AfterFunc run on the binding's loop. CDP failures are logged and
// otherwise ignored: they never change controller state.
type host struct {
	ctx     context.Context
	page    *rod.Page
	el      *rod.Element
	loop    *predict.Loop
	binding string
	log     *zap.Logger

	mu        sync.Mutex
	observers map[int]func()
	nextObs   int
}

func (h *host) eval(js string, args ...any) (*proto.RuntimeRemoteObject, bool) {
	res, err := h.el.Context(h.ctx).Eval(js, args...)
	if err != nil {
		if h.ctx.Err() == nil {
			h.log.Warn("page eval failed", zap.String("binding", h.binding), zap.Error(err))
		}
		return nil, false
	}
	return res, true
}

func (h *host) ComputedStyle(predict.Field) predict.ComputedStyle {
	res, ok := h.eval(computedStyleJS, predict.MirroredProperties())
	if !ok {
		return nil
	}
	cs := make(predict.ComputedStyle)
	for k, v := range res.Value.Map() {
		if s, ok := v.Val().(string); ok {
			cs[k] = s
		}
	}
	return cs
}

func (h *host) Rect(predict.Field) predict.Rect {
	res, ok := h.eval(rectJS)
	if !ok {
		return predict.Rect{}
	}
	v := res.Value
	return predict.Rect{
		Top:    v.Get("top").Num(),
		Left:   v.Get("left").Num(),
		Width:  v.Get("width").Num(),
		Height: v.Get("height").Num(),
	}
}

func (h *host) Scroll() predict.Point {
	res, ok := h.eval(scrollJS)
	if !ok {
		return predict.Point{}
	}
	return predict.Point{X: res.Value.Get("x").Num(), Y: res.Value.Get("y").Num()}
}

func (h *host) ObserveResize(_ predict.Field, fn func()) func() {
	h.mu.Lock()
	h.nextObs++
	id := h.nextObs
	h.observers[id] = fn
	h.mu.Unlock()

	h.eval(observeJS, h.binding, id)
	return func() {
		h.mu.Lock()
		_, live := h.observers[id]
		delete(h.observers, id)
		h.mu.Unlock()
		if live {
			h.eval(unobserveJS, h.binding, id)
		}
	}
}

func (h *host) resized(id int) {
	h.mu.Lock()
	fn := h.observers[id]
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *host) CreateLayer() predict.Layer {
	id := uuid.NewString()
	if _, ok := h.eval(createLayerJS, id); !ok {
		return nil
	}
	return &layer{h: h, id: id}
}

func (h *host) AfterFunc(d time.Duration, fn func()) predict.Timer {
	return h.loop.AfterFunc(d, fn)
}

func (h *host) Post(fn func()) { h.loop.Post(fn) }

func (h *host) ReportError(err error) {
	h.log.Error("prediction failed", zap.String("binding", h.binding), zap.Error(err))
	h.eval(consoleErrorJS, "ghostline: "+err.Error())
}

// field reads and writes the bound element's value.
type field struct {
	h *host
}

func (f field) Value() string {
	res, ok := f.h.eval(valueJS)
	if !ok {
		return ""
	}
	s, _ := res.Value.Val().(string)
	return s
}

func (f field) SetValue(v string) {
	f.h.eval(setValueJS, v)
}

type layer struct {
	h  *host
	id string
}

func (l *layer) Mirror() predict.Mirror { return mirror{l} }

func (l *layer) Remove() {
	l.h.eval(removeLayerJS, l.id)
}

type mirror struct {
	l *layer
}

func (m mirror) SetContent(c predict.Composite) {
	html := ""
	if !c.IsZero() {
		html = c.HTML()
	}
	m.l.h.eval(setContentJS, m.l.id, html)
}

func (m mirror) SetStyle(d predict.Declarations) {
	sets, rest := splitStyle(d)
	m.l.h.eval(setStyleJS, m.l.id, sets.CSSText(), declarationsJSON(rest))
}

// splitStyle cuts d before its first removal. The leading sets go in as one
// cssText assignment; the rest are replayed in order so a removal never
// clears a property set after it.
func splitStyle(d predict.Declarations) (sets, rest predict.Declarations) {
	i := slices.IndexFunc(d, func(decl predict.Declaration) bool { return decl.Remove })
	if i < 0 {
		return d, nil
	}
	return d[:i], d[i:]
}

func declarationsJSON(d predict.Declarations) []map[string]any {
	out := make([]map[string]any, 0, len(d))
	for _, decl := range d {
		out = append(out, map[string]any{
			"property": decl.Property,
			"value":    decl.Value,
			"remove":   decl.Remove,
		})
	}
	return out
}
