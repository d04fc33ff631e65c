package termfield

import (
	"reflect"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/iw2rmb/ghostline/internal/grapheme"
)

// offset is how far a field has scrolled its text, in cells.
type offset struct {
	x, y int
}

// scrollOffset reports the inner widget's scroll position. bubbles keeps it
// unexported (textinput.offset, textarea.viewport.YOffset), so it is read by
// reflection; a field that moves in a bubbles release reads as zero and the
// scroll tests fail.
func (f *field) scrollOffset() offset {
	if f.cfg.Multiline {
		return offset{y: textareaTop(f.area)}
	}
	return offset{x: textinputLeft(f.input)}
}

// textinputLeft is the width of the runes scrolled off the left edge.
func textinputLeft(m textinput.Model) int {
	v := reflect.ValueOf(m).FieldByName("offset")
	if !v.IsValid() || v.Kind() != reflect.Int {
		return 0
	}
	runes := []rune(m.Value())
	n := int(v.Int())
	if n <= 0 || n > len(runes) {
		return 0
	}
	return grapheme.Width(string(runes[:n]))
}

// textareaTop is the first display row the textarea shows.
func textareaTop(m textarea.Model) int {
	vp := reflect.ValueOf(m).FieldByName("viewport")
	if !vp.IsValid() || vp.Kind() != reflect.Pointer || vp.IsNil() {
		return 0
	}
	y := vp.Elem().FieldByName("YOffset")
	if !y.IsValid() || y.Kind() != reflect.Int {
		return 0
	}
	return max(0, int(y.Int()))
}
