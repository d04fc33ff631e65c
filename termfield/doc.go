// Package termfield provides a Bubble Tea text field with inline ghost-text
// predictions.
//
// The field is a bubbles textinput (single line) or textarea (multi line)
// wrapped in a lipgloss box. It is the predict.Host for its own controller:
// posts from timers and prediction callbacks come back as messages, and the
// mirror layer is composited over the rendered box in View.
package termfield
