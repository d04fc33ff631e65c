package termfield

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/ghostline/predict"
)

// Config configures a field Model.
type Config struct {
	Predict predict.Config

	// Multiline selects a textarea instead of a single-line input.
	Multiline bool

	// Content size in cells. Height applies to multi-line fields only.
	Width  int
	Height int

	Placeholder string
	CharLimit   int

	// Box frames the field. Its padding and border are mirrored.
	Box lipgloss.Style

	// Renderer used for ghost text. Defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
}

func (c Config) normalize() Config {
	if c.Width <= 0 {
		c.Width = 40
	}
	if !c.Multiline {
		c.Height = 1
	} else if c.Height <= 0 {
		c.Height = 3
	}
	if c.Renderer == nil {
		c.Renderer = lipgloss.DefaultRenderer()
	}
	return c
}

// DefaultBox is a rounded border with one cell of horizontal padding.
func DefaultBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}
