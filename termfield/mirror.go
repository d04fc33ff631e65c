package termfield

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/ghostline/internal/grapheme"
	"github.com/iw2rmb/ghostline/predict"
)

type layer struct {
	host    *host
	mirror  *mirror
	removed bool
}

func (l *layer) Mirror() predict.Mirror { return l.mirror }

func (l *layer) Remove() {
	l.removed = true
	if l.host.layer == l {
		l.host.layer = nil
	}
}

// mirror keeps the last content and style the overlay pushed; paint turns
// them into cells over the rendered field.
type mirror struct {
	content predict.Composite
	style   predict.Declarations
}

func (m *mirror) SetContent(c predict.Composite) { m.content = c }
func (m *mirror) SetStyle(d predict.Declarations) { m.style = d }

// geometry is the mirror style resolved to terminal cells (1px == 1 cell).
type geometry struct {
	top, left     int
	width, height int
	padTop        int
	padLeft       int
	borderTop     int
	borderLeft    int
	wrap          bool
	color         string

	underline, italic, bold bool
}

func geometryOf(d predict.Declarations) geometry {
	get := func(p string) string {
		v, _ := d.Lookup(p)
		return v
	}

	g := geometry{
		top:    cells(get("top")),
		left:   cells(get("left")),
		width:  cells(get("width")),
		height: cells(get("height")),
		color:  get("color"),
	}

	pad := boxSides(get("padding"))
	for i, side := range []string{"top", "right", "bottom", "left"} {
		if v, ok := d.Lookup("padding-" + side); ok {
			pad[i] = cells(v)
		}
	}
	g.padTop, g.padLeft = pad[0], pad[3]

	border := borderWidth(get("border"))
	g.borderTop, g.borderLeft = border, border
	if v, ok := d.Lookup("border-top-width"); ok {
		g.borderTop = cells(v)
	}
	if v, ok := d.Lookup("border-left-width"); ok {
		g.borderLeft = cells(v)
	}

	g.underline = strings.Contains(get("text-decoration"), "underline")
	g.italic = get("font-style") == "italic" || get("font-style") == "oblique"
	switch get("font-weight") {
	case "bold", "bolder", "600", "700", "800", "900":
		g.bold = true
	}

	switch get("white-space") {
	case "pre", "nowrap", "":
		g.wrap = false
	default:
		g.wrap = true
	}
	return g
}

// paint composites the mirror over base, the rendered field box. Reserved
// text is never drawn: the field's own text shows through. scroll is how far
// the field has scrolled its text; the ghost moves with it and is clipped to
// the visible window.
func (m *mirror) paint(base string, r *lipgloss.Renderer, caret bool, scroll offset) string {
	if m.content.Ghost == "" {
		return base
	}
	g := geometryOf(m.style)

	wrapAt := 0
	if g.wrap {
		wrapAt = g.width
	}
	_, startRow, startCol := grapheme.Flow(m.content.Reserved, wrapAt, 0)
	segs, _, _ := grapheme.Flow(m.content.Ghost, wrapAt, startCol)

	ghost := r.NewStyle().
		Foreground(cssColor(g.color)).
		Underline(g.underline).
		Italic(g.italic).
		Bold(g.bold)
	lines := strings.Split(base, "\n")

	for i, s := range segs {
		row := startRow + s.Row - scroll.y
		if row < 0 {
			continue
		}
		if g.height > 0 && row >= g.height {
			break
		}
		text := s.Text
		col := s.Col - scroll.x
		atCaret := caret && i == 0 && col >= 0
		if col < 0 {
			text = ansi.TruncateLeft(text, -col, "")
			col = 0
		}
		if !g.wrap && g.width > 0 {
			avail := g.width - col
			if avail <= 0 {
				continue
			}
			text = ansi.Truncate(text, avail, "")
		}
		if text == "" {
			continue
		}

		y := g.top + g.borderTop + g.padTop + row
		x := g.left + g.borderLeft + g.padLeft + col
		if y < 0 || y >= len(lines) {
			continue
		}

		rendered := ghost.Render(text)
		if atCaret {
			clusters := grapheme.Split(text)
			rendered = ghost.Reverse(true).Render(clusters[0])
			if rest := strings.Join(clusters[1:], ""); rest != "" {
				rendered += ghost.Render(rest)
			}
		}
		lines[y] = splice(lines[y], x, rendered, grapheme.Width(text))
	}
	return strings.Join(lines, "\n")
}

// splice replaces w cells of line starting at cell x with s.
func splice(line string, x int, s string, w int) string {
	left := ansi.Truncate(line, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}
	right := ansi.TruncateLeft(line, x+w, "")
	return left + s + right
}

// cells parses a CSS length such as "12px" or "12.4px" into whole cells.
func cells(v string) int {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(n))
}

// boxSides expands a 1-4 value CSS shorthand to top, right, bottom, left.
func boxSides(v string) [4]int {
	f := strings.Fields(v)
	var out [4]int
	switch len(f) {
	case 1:
		n := cells(f[0])
		out = [4]int{n, n, n, n}
	case 2:
		a, b := cells(f[0]), cells(f[1])
		out = [4]int{a, b, a, b}
	case 3:
		a, b, c := cells(f[0]), cells(f[1]), cells(f[2])
		out = [4]int{a, b, c, b}
	case 4:
		out = [4]int{cells(f[0]), cells(f[1]), cells(f[2]), cells(f[3])}
	}
	return out
}

// borderWidth reads the width token of a border shorthand.
func borderWidth(v string) int {
	for _, tok := range strings.Fields(v) {
		if strings.HasSuffix(tok, "px") {
			return cells(tok)
		}
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			return cells(tok)
		}
	}
	return 0
}
