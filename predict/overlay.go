package predict

// Overlay owns the mirror layer for one field.
type Overlay struct {
	host   Host
	color  string
	style  map[string]any
	layer  Layer
	mirror Mirror
}

// NewOverlay returns a detached overlay. cfg supplies Color and Style.
func NewOverlay(host Host, cfg Config) *Overlay {
	cfg = cfg.withDefaults()
	return &Overlay{host: host, color: cfg.Color, style: cfg.Style}
}

// Attach creates the layer. Calling it again while attached is a no-op.
func (o *Overlay) Attach() {
	if o.layer != nil || o.host == nil {
		return
	}
	layer := o.host.CreateLayer()
	if layer == nil {
		return
	}
	o.layer = layer
	o.mirror = layer.Mirror()
}

// Detach removes the layer. It is safe on a never-attached overlay.
func (o *Overlay) Detach() {
	if o.layer == nil {
		return
	}
	o.layer.Remove()
	o.layer = nil
	o.mirror = nil
}

func (o *Overlay) Attached() bool { return o.mirror != nil }

// Render draws prediction after f's current text, or clears the mirror when
// there is nothing to draw.
func (o *Overlay) Render(f Field, prediction string) {
	if o.mirror == nil {
		return
	}
	if prediction == "" || f == nil {
		o.mirror.SetContent(Composite{})
		return
	}

	o.mirror.SetContent(NewComposite(f.Value(), prediction))

	d := Snapshot(o.host.ComputedStyle(f), o.host.Rect(f), o.host.Scroll(), o.color)
	o.mirror.SetStyle(WithOverrides(d, o.style))
}
