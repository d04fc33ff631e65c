package grapheme

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// CellWidth returns the terminal cell width of a single cluster.
func CellWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		return 0
	}
	return w
}

// Width returns the terminal cell width of a line of text.
func Width(text string) int {
	n := 0
	for _, c := range Split(text) {
		n += CellWidth(c)
	}
	return n
}

// Segment is a run of text placed on one visual row.
type Segment struct {
	Row  int
	Col  int
	Text string
}

// Flow lays text out in rows of width cells, starting at column col of row
// 0. Line breaks start a new row; clusters that would overflow wrap to the
// next row. width <= 0 disables wrapping.
//
// The returned end row and column are where the next cluster would go.
func Flow(text string, width, col int) (segs []Segment, endRow, endCol int) {
	row := 0
	var sb strings.Builder
	start := col

	flush := func() {
		if sb.Len() > 0 {
			segs = append(segs, Segment{Row: row, Col: start, Text: sb.String()})
			sb.Reset()
		}
	}

	for _, c := range Split(text) {
		if c == "\n" || c == "\r\n" || c == "\r" {
			flush()
			row++
			col, start = 0, 0
			continue
		}
		w := CellWidth(c)
		if width > 0 && col+w > width && col > 0 {
			flush()
			row++
			col, start = 0, 0
		}
		sb.WriteString(c)
		col += w
	}
	flush()
	return segs, row, col
}
