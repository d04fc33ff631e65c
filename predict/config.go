package predict

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Func predicts a continuation of value.
//
// Implementations must watch ctx: it is cancelled as soon as the request is
// superseded by newer input or the controller is detached. Returning
// ctx.Err() (or any error wrapping context.Canceled) is the expected way to
// end a superseded request.
type Func func(ctx context.Context, value string) (string, error)

const (
	DefaultDebounce  = 500 * time.Millisecond
	DefaultColor     = "#98A5B4"
	DefaultAcceptKey = "Tab"
)

// Config configures one attachment. It is copied on Attach and not
// re-read afterwards.
type Config struct {
	// Get produces predictions. Required.
	Get Func

	// Debounce is the quiet period after the last input before Get is
	// called. Zero or negative means DefaultDebounce.
	Debounce time.Duration

	// Color of the ghost text, as a CSS color.
	Color string

	// Style overrides applied to the mirror after the computed snapshot.
	// String values set the property, nil removes it, anything else is
	// skipped.
	Style map[string]any

	// AcceptKey is the key name that accepts a prediction.
	AcceptKey string

	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.AcceptKey == "" {
		c.AcceptKey = DefaultAcceptKey
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Style != nil {
		style := make(map[string]any, len(c.Style))
		for k, v := range c.Style {
			style[k] = v
		}
		c.Style = style
	}
	return c
}
