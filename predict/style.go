package predict

import (
	"sort"
	"strconv"
	"strings"
)

// ComputedStyle maps CSS property names to their resolved values.
type ComputedStyle map[string]string

func (s ComputedStyle) Get(property string) string {
	if s == nil {
		return ""
	}
	return s[property]
}

// Declaration is one inline style property. Remove drops the property
// instead of setting it.
type Declaration struct {
	Property string
	Value    string
	Remove   bool
}

// Declarations is an ordered inline style. Later entries win.
type Declarations []Declaration

// Lookup returns the effective value of property.
func (d Declarations) Lookup(property string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Property != property {
			continue
		}
		if d[i].Remove {
			return "", false
		}
		return d[i].Value, true
	}
	return "", false
}

// CSSText renders the declarations that set a value as a cssText string.
// Removals are left to the caller.
func (d Declarations) CSSText() string {
	var sb strings.Builder
	for _, decl := range d {
		if decl.Remove {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(decl.Property)
		sb.WriteString(": ")
		sb.WriteString(decl.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// typography lists the properties copied verbatim from the field so glyphs
// in the mirror land on the same pixels as the field's own.
var typography = []string{
	"font",
	"font-size",
	"font-family",
	"font-weight",
	"font-style",
	"text-transform",
	"text-indent",
	"letter-spacing",
	"word-spacing",
	"line-height",
	"text-decoration",
	"text-align",
	"direction",
	"vertical-align",
	"white-space",
}

// MirroredProperties returns every computed property the style snapshot
// reads. Hosts that fetch computed style remotely should fetch these.
func MirroredProperties() []string {
	out := []string{"height", "width", "padding", "border"}
	return append(out, typography...)
}

// Snapshot builds the mirror's style for a field with computed style cs
// whose viewport box is r, with the document scrolled by scroll.
func Snapshot(cs ComputedStyle, r Rect, scroll Point, color string) Declarations {
	d := Declarations{
		{Property: "display", Value: "inline-block"},
		{Property: "position", Value: "absolute"},
		{Property: "z-index", Value: "999999"},
		{Property: "top", Value: px(r.Top + scroll.Y)},
		{Property: "left", Value: px(r.Left + scroll.X)},
		{Property: "height", Value: cs.Get("height")},
		{Property: "width", Value: cs.Get("width")},
		{Property: "padding", Value: cs.Get("padding")},
		{Property: "background", Value: "transparent"},
		{Property: "border", Value: cs.Get("border")},
		{Property: "border-color", Value: "transparent"},
		{Property: "pointer-events", Value: "none"},
	}
	for _, p := range typography {
		d = append(d, Declaration{Property: p, Value: cs.Get(p)})
	}
	return append(d, Declaration{Property: "color", Value: color})
}

// WithOverrides appends overrides to d in property order.
func WithOverrides(d Declarations, overrides map[string]any) Declarations {
	if len(overrides) == 0 {
		return d
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := overrides[k].(type) {
		case string:
			d = append(d, Declaration{Property: k, Value: v})
		case nil:
			d = append(d, Declaration{Property: k, Remove: true})
		}
	}
	return d
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
