package predict

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOverlay_AttachIsIdempotentAndDetachIsSafe(t *testing.T) {
	h := newFakeHost()
	o := NewOverlay(h, Config{})

	o.Detach() // never attached
	o.Attach()
	o.Attach()
	if len(h.layers) != 1 {
		t.Fatalf("layers created: got %d, want 1", len(h.layers))
	}
	if !o.Attached() {
		t.Fatalf("overlay should report attached")
	}

	o.Detach()
	o.Detach()
	if !h.layers[0].removed {
		t.Fatalf("layer not removed")
	}
	if o.Attached() {
		t.Fatalf("overlay should report detached")
	}

	// Rendering while detached is a no-op.
	o.Render(&fakeField{value: "x"}, "y")
}

type nilLayerHost struct{ *fakeHost }

func (nilLayerHost) CreateLayer() Layer { return nil }

func TestOverlay_AttachToleratesFailedLayer(t *testing.T) {
	o := NewOverlay(nilLayerHost{newFakeHost()}, Config{})
	o.Attach()
	if o.Attached() {
		t.Fatalf("overlay without a layer must not report attached")
	}
	o.Render(&fakeField{value: "x"}, "y")
	o.Detach()
}

func TestOverlay_RenderWithoutPredictionOnlyClears(t *testing.T) {
	h := newFakeHost()
	o := NewOverlay(h, Config{})
	o.Attach()

	o.Render(&fakeField{value: "hello"}, "")
	m := h.mirror()
	if !m.content.IsZero() || m.contentCalls != 1 {
		t.Fatalf("content: %+v after %d calls", m.content, m.contentCalls)
	}
	if m.styleCalls != 0 {
		t.Fatalf("style must not be touched without a prediction")
	}

	o.Render(nil, "x")
	if !m.content.IsZero() || m.styleCalls != 0 {
		t.Fatalf("nil field must clear without styling")
	}
}

func TestOverlay_RenderSnapshotsGeometryAndTypography(t *testing.T) {
	h := newFakeHost()
	o := NewOverlay(h, Config{Color: "orange"})
	o.Attach()

	o.Render(&fakeField{value: "hello "}, "world")

	m := h.mirror()
	if diff := cmp.Diff(Composite{Reserved: "hello\u00a0", Ghost: "world"}, m.content); diff != "" {
		t.Fatalf("content (-want +got):\n%s", diff)
	}

	want := map[string]string{
		"display":        "inline-block",
		"position":       "absolute",
		"z-index":        "999999",
		"top":            "110px",
		"left":           "8px",
		"height":         "40px",
		"width":          "300px",
		"padding":        "20px",
		"border":         "1px solid rgb(0, 0, 0)",
		"border-color":   "transparent",
		"background":     "transparent",
		"pointer-events": "none",
		"font-family":    "Arial",
		"white-space":    "pre",
		"color":          "orange",
	}
	for prop, v := range want {
		got, ok := m.style.Lookup(prop)
		if !ok || got != v {
			t.Fatalf("%s: got %q (set=%v), want %q", prop, got, ok, v)
		}
	}
	for _, p := range MirroredProperties() {
		if _, ok := m.style.Lookup(p); !ok {
			t.Fatalf("mirrored property %q missing from snapshot", p)
		}
	}
}

func TestOverlay_StyleOverridesSkipNonStrings(t *testing.T) {
	h := newFakeHost()
	o := NewOverlay(h, Config{Style: map[string]any{
		"opacity":        "0.5",
		"z-index":        7,
		"pointer-events": nil,
		"font-style":     []string{"italic"},
	}})
	o.Attach()
	o.Render(&fakeField{value: "a"}, "b")

	m := h.mirror()
	if got, _ := m.style.Lookup("opacity"); got != "0.5" {
		t.Fatalf("opacity override: got %q", got)
	}
	if got, _ := m.style.Lookup("z-index"); got != "999999" {
		t.Fatalf("non-string override must be skipped, z-index=%q", got)
	}
	if _, ok := m.style.Lookup("pointer-events"); ok {
		t.Fatalf("nil override must remove the property")
	}
	if got, _ := m.style.Lookup("font-style"); got != "" {
		t.Fatalf("non-string override must be skipped, font-style=%q", got)
	}
}

func TestOverlay_ConfigStyleIsCopied(t *testing.T) {
	h := newFakeHost()
	style := map[string]any{"opacity": "0.5"}
	o := NewOverlay(h, Config{Style: style})
	style["opacity"] = "1"

	o.Attach()
	o.Render(&fakeField{value: "a"}, "b")
	if got, _ := h.mirror().style.Lookup("opacity"); got != "0.5" {
		t.Fatalf("overlay must not observe later config mutation, opacity=%q", got)
	}
}
