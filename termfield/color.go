package termfield

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// cssNamedColors covers the CSS names a ghost color is likely to use.
// go-colorful parses hex only.
var cssNamedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"red":     "#ff0000",
	"orange":  "#ffa500",
	"yellow":  "#ffff00",
	"green":   "#008000",
	"lime":    "#00ff00",
	"teal":    "#008080",
	"cyan":    "#00ffff",
	"blue":    "#0000ff",
	"navy":    "#000080",
	"purple":  "#800080",
	"magenta": "#ff00ff",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
}

// cssColor converts a CSS color to a terminal color. Hex, rgb(), ANSI
// indexes and a handful of named colors are understood.
func cssColor(v string) lipgloss.TerminalColor {
	v = strings.TrimSpace(strings.ToLower(v))
	if named, ok := cssNamedColors[v]; ok {
		v = named
	}
	switch {
	case v == "" || v == "transparent" || v == "inherit" || v == "currentcolor":
		return lipgloss.NoColor{}
	case strings.HasPrefix(v, "#"):
		c, err := colorful.Hex(v)
		if err != nil {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(c.Hex())
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		c, ok := parseRGB(v)
		if !ok {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(c.Hex())
	}
	if _, err := strconv.Atoi(v); err == nil {
		return lipgloss.Color(v)
	}
	return lipgloss.NoColor{}
}

// parseRGB reads the channels of rgb()/rgba() in comma or space syntax. Alpha
// is dropped: terminals have no translucency.
func parseRGB(v string) (colorful.Color, bool) {
	open := strings.IndexByte(v, '(')
	end := strings.IndexByte(v, ')')
	if open < 0 || end < open {
		return colorful.Color{}, false
	}
	parts := strings.FieldsFunc(v[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) < 3 {
		return colorful.Color{}, false
	}
	var ch [3]float64
	for i := range ch {
		n, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || n < 0 || n > 255 {
			return colorful.Color{}, false
		}
		ch[i] = n / 255
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
}
