package termfield

import tea "github.com/charmbracelet/bubbletea"

// keyName maps a terminal key to the key names predict.Config.AcceptKey
// uses (DOM KeyboardEvent.key values).
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyTab:
		return "Tab"
	case tea.KeyEnter:
		return "Enter"
	case tea.KeyEsc:
		return "Escape"
	case tea.KeyBackspace:
		return "Backspace"
	case tea.KeyDelete:
		return "Delete"
	case tea.KeyLeft:
		return "ArrowLeft"
	case tea.KeyRight:
		return "ArrowRight"
	case tea.KeyUp:
		return "ArrowUp"
	case tea.KeyDown:
		return "ArrowDown"
	case tea.KeyHome:
		return "Home"
	case tea.KeyEnd:
		return "End"
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		return string(msg.Runes)
	}
	return msg.String()
}
