package termfield

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/ghostline/predict"
)

// Model is a text field with ghost-text predictions. Copies share state.
type Model struct {
	f *field
}

type field struct {
	cfg Config
	box lipgloss.Style

	input textinput.Model
	area  textarea.Model

	focused bool
	// seen is the value the controller last heard about.
	seen string

	host *host
	ctrl *predict.Controller
	errs []error
}

// New builds a field and attaches a prediction controller to it. It fails
// when cfg.Predict has no callback.
func New(cfg Config) (Model, error) {
	cfg = cfg.normalize()
	f := &field{cfg: cfg, box: cfg.Box}

	if cfg.Multiline {
		ta := textarea.New()
		ta.Prompt = ""
		ta.ShowLineNumbers = false
		ta.Placeholder = cfg.Placeholder
		ta.EndOfBufferCharacter = ' '
		ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
		if cfg.CharLimit > 0 {
			ta.CharLimit = cfg.CharLimit
		}
		ta.SetWidth(cfg.Width)
		ta.SetHeight(cfg.Height)
		f.area = ta
	} else {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = cfg.Placeholder
		ti.Width = cfg.Width - 1
		if cfg.CharLimit > 0 {
			ti.CharLimit = cfg.CharLimit
		}
		f.input = ti
	}

	f.host = newHost(f)
	ctrl, err := predict.Attach(f.host, f, cfg.Predict)
	if err != nil {
		f.host.close()
		return Model{}, err
	}
	f.ctrl = ctrl
	return Model{f: f}, nil
}

// Init starts delivery of timer and prediction continuations.
func (m Model) Init() tea.Cmd {
	return m.f.host.listen()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	f := m.f
	switch msg := msg.(type) {
	case postedMsg:
		if msg.host != f.host {
			return m, nil
		}
		msg.fn()
		return m, tea.Batch(f.host.listen(), f.drainErrors())

	case tea.KeyMsg:
		if !f.focused {
			return m, nil
		}
		if f.ctrl.KeyDown(keyName(msg)) {
			return m, nil
		}
	}
	// Pastes arrive as the widgets' own messages, so every update is checked
	// for an edit.
	cmd := f.updateInner(msg)
	if v := f.Value(); v != f.seen {
		f.seen = v
		f.ctrl.Input(v)
	}
	return m, cmd
}

func (m Model) View() string {
	f := m.f
	var inner string
	if f.cfg.Multiline {
		inner = f.area.View()
	} else {
		inner = f.input.View()
	}
	out := f.box.Render(inner)
	if l := f.host.layer; l != nil && !l.removed {
		out = l.mirror.paint(out, f.cfg.Renderer, f.focused && f.caretAtEnd(), f.scrollOffset())
	}
	return out
}

func (m Model) Focus() (Model, tea.Cmd) {
	f := m.f
	f.focused = true
	if f.cfg.Multiline {
		return m, f.area.Focus()
	}
	return m, f.input.Focus()
}

func (m Model) Blur() Model {
	f := m.f
	if !f.focused {
		return m
	}
	f.focused = false
	if f.cfg.Multiline {
		f.area.Blur()
	} else {
		f.input.Blur()
	}
	f.ctrl.Blur()
	return m
}

func (m Model) Focused() bool { return m.f.focused }

// SetSize changes the content size in cells.
func (m Model) SetSize(width, height int) Model {
	f := m.f
	if width <= 0 {
		width = f.cfg.Width
	}
	if !f.cfg.Multiline {
		height = 1
	} else if height <= 0 {
		height = f.cfg.Height
	}
	if width == f.cfg.Width && height == f.cfg.Height {
		return m
	}
	f.cfg.Width, f.cfg.Height = width, height
	if f.cfg.Multiline {
		f.area.SetWidth(width)
		f.area.SetHeight(height)
	} else {
		f.input.Width = width - 1
	}
	f.host.notifyResize()
	return m
}

// SetBox restyles the frame around the field.
func (m Model) SetBox(box lipgloss.Style) Model {
	m.f.box = box
	m.f.host.notifyResize()
	return m
}

func (m Model) Value() string { return m.f.Value() }

// SetValue replaces the text without raising an input event, like a
// programmatic assignment to a DOM field.
func (m Model) SetValue(v string) Model {
	m.f.SetValue(v)
	return m
}

func (m Model) Prediction() string { return m.f.ctrl.Prediction() }
func (m Model) State() predict.State { return m.f.ctrl.State() }

// Reconfigure replaces the prediction config. The running attachment is
// detached only after the new one is in place.
func (m Model) Reconfigure(cfg predict.Config) (Model, error) {
	f := m.f
	ctrl, err := predict.Attach(f.host, f, cfg)
	if err != nil {
		return m, err
	}
	f.ctrl.Detach()
	f.ctrl = ctrl
	f.cfg.Predict = cfg
	return m, nil
}

// Close detaches the controller and stops message delivery.
func (m Model) Close() {
	m.f.ctrl.Detach()
	m.f.host.close()
}

func (f *field) Value() string {
	if f.cfg.Multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *field) SetValue(v string) {
	if f.cfg.Multiline {
		f.area.SetValue(v)
	} else {
		f.input.SetValue(v)
		f.input.CursorEnd()
	}
	f.seen = f.Value()
}

func (f *field) updateInner(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.cfg.Multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (f *field) caretAtEnd() bool {
	if !f.cfg.Multiline {
		return f.input.Position() == utf8.RuneCountInString(f.input.Value())
	}
	if f.area.Line() != f.area.LineCount()-1 {
		return false
	}
	li := f.area.LineInfo()
	lines := strings.Split(f.area.Value(), "\n")
	last := lines[len(lines)-1]
	return li.StartColumn+li.ColumnOffset == utf8.RuneCountInString(last)
}

func (f *field) drainErrors() tea.Cmd {
	if len(f.errs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(f.errs))
	for _, err := range f.errs {
		err := err
		cmds = append(cmds, func() tea.Msg { return ErrorMsg{Err: err} })
	}
	f.errs = nil
	return tea.Batch(cmds...)
}
