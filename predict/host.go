package predict

import "time"

// Field is the live text-entry element a Controller is attached to.
//
// The controller reads Value on every render and calls SetValue only when a
// prediction is accepted.
type Field interface {
	Value() string
	SetValue(v string)
}

// Rect is a field's bounding box relative to the visible viewport.
type Rect struct {
	Top, Left     float64
	Width, Height float64
}

// Point is a scroll offset of the document.
type Point struct {
	X, Y float64
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Layer is an isolated visual layer holding exactly one mirror node. Host
// styles must not leak into it.
type Layer interface {
	Mirror() Mirror
	Remove()
}

// Mirror is the visual-only node ghost text is drawn into.
type Mirror interface {
	// SetContent replaces the mirror's content. A zero Composite clears it.
	SetContent(c Composite)
	// SetStyle replaces the mirror's inline style with d.
	SetStyle(d Declarations)
}

// Host is the environment a Controller runs in.
type Host interface {
	ComputedStyle(f Field) ComputedStyle
	Rect(f Field) Rect
	Scroll() Point

	// ObserveResize calls fn whenever f's box size changes, until disconnect
	// is called. fn is invoked on the event loop.
	ObserveResize(f Field, fn func()) (disconnect func())

	CreateLayer() Layer

	// AfterFunc calls fn once after d. fn may run on any goroutine.
	AfterFunc(d time.Duration, fn func()) Timer

	// Post schedules fn on the event loop. It must not block for long and
	// must be safe to call from any goroutine, including after teardown.
	Post(fn func())

	// ReportError surfaces a failure the core cannot handle.
	ReportError(err error)
}
