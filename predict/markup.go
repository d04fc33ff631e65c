package predict

import (
	"html"
	"strings"
	"unicode"
)

const nbsp = '\u00a0'

// Composite is the mirror's content: the field's text, drawn invisible to
// reserve its exact extent, followed by the visible ghost text.
type Composite struct {
	Reserved string
	Ghost    string
}

// NewComposite builds the content for value followed by prediction.
//
// Trailing whitespace of value and leading whitespace of prediction become
// no-break spaces so whitespace collapsing cannot drop the gap between them.
// Line breaks are kept.
func NewComposite(value, prediction string) Composite {
	return Composite{
		Reserved: pinTrailingSpace(value),
		Ghost:    pinLeadingSpace(prediction),
	}
}

func (c Composite) IsZero() bool {
	return c.Reserved == "" && c.Ghost == ""
}

// HTML renders c for DOM hosts.
func (c Composite) HTML() string {
	if c.IsZero() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<span style="opacity: 0">`)
	sb.WriteString(html.EscapeString(c.Reserved))
	sb.WriteString(`</span>`)
	sb.WriteString(html.EscapeString(c.Ghost))
	return sb.String()
}

func pinTrailingSpace(s string) string {
	end := strings.TrimRightFunc(s, unicode.IsSpace)
	if len(end) == len(s) {
		return s
	}
	return end + pinSpaces(s[len(end):])
}

func pinLeadingSpace(s string) string {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(rest) == len(s) {
		return s
	}
	return pinSpaces(s[:len(s)-len(rest)]) + rest
}

func pinSpaces(run string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return r
		}
		return nbsp
	}, run)
}
