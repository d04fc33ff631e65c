package termfield

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCSSColor(t *testing.T) {
	cases := []struct {
		in   string
		want lipgloss.TerminalColor
	}{
		{in: "#98A5B4", want: lipgloss.Color("#98a5b4")},
		{in: "#abc", want: lipgloss.Color("#aabbcc")},
		{in: "orange", want: lipgloss.Color("#ffa500")},
		{in: "Orange", want: lipgloss.Color("#ffa500")},
		{in: "rgb(255, 0, 16)", want: lipgloss.Color("#ff0010")},
		{in: "rgb(127.5, 0, 0)", want: lipgloss.Color("#800000")},
		{in: "rgba(1 2 3 / 0.5)", want: lipgloss.Color("#010203")},
		{in: "240", want: lipgloss.Color("240")},
		{in: "transparent", want: lipgloss.NoColor{}},
		{in: "rgb(nope)", want: lipgloss.NoColor{}},
		{in: "rgb(300, 0, 0)", want: lipgloss.NoColor{}},
		{in: "#zzz", want: lipgloss.NoColor{}},
		{in: "#12", want: lipgloss.NoColor{}},
		{in: "papayawhip", want: lipgloss.NoColor{}},
	}
	for _, tc := range cases {
		if got := cssColor(tc.in); got != tc.want {
			t.Fatalf("cssColor(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}
