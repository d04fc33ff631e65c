package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iw2rmb/ghostline/internal/config"
	"github.com/iw2rmb/ghostline/internal/logging"
	"github.com/iw2rmb/ghostline/predict"
	"github.com/iw2rmb/ghostline/termfield"
)

const (
	fieldWidth  = 60
	eventsLines = 8
	maxEvents   = 200
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Ghost-text fields in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	eventStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238"))
)

type logLineMsg string

type reloadMsg struct {
	cfg *config.Config
}

// lineSink feeds zap output into the events pane. Lines are dropped when
// the pane falls behind.
type lineSink chan string

func (s lineSink) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		select {
		case s <- line:
		default:
		}
	}
	return len(p), nil
}

func (s lineSink) Sync() error { return nil }

func paneLogger(sink lineSink, level string) (*zap.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(sink), lvl)
	return zap.New(core), nil
}

type tuiModel struct {
	ctx context.Context
	log *zap.Logger

	fields [2]termfield.Model
	names  [2]string
	states [2]predict.State
	focus  int

	events   viewport.Model
	lines    []string
	logLines <-chan string
	reloads  <-chan *config.Config

	initCmds []tea.Cmd
}

func newTUIModel(ctx context.Context, c *config.Config, log *zap.Logger) (*tuiModel, error) {
	remote, err := remotePredictor(ctx, c)
	if err != nil {
		return nil, err
	}

	counter, err := termfield.New(termfield.Config{
		Predict:     counterConfig(c, log),
		Width:       fieldWidth,
		Placeholder: "Type to count predictions...",
		Box:         termfield.DefaultBox(),
	})
	if err != nil {
		return nil, err
	}

	rc := c.PredictConfig(remote)
	rc.Logger = log.Named(c.Provider.Name)
	area, err := termfield.New(termfield.Config{
		Predict:     rc,
		Multiline:   true,
		Width:       fieldWidth,
		Height:      4,
		Placeholder: "Write something...",
		Box:         termfield.DefaultBox(),
	})
	if err != nil {
		counter.Close()
		return nil, err
	}

	m := &tuiModel{
		ctx:    ctx,
		log:    log,
		fields: [2]termfield.Model{counter, area},
		names:  [2]string{"counter", c.Provider.Name},
		events: viewport.New(fieldWidth+4, eventsLines),
	}
	var cmd tea.Cmd
	m.fields[0], cmd = m.fields[0].Focus()
	m.initCmds = append(m.initCmds, cmd)
	return m, nil
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := append([]tea.Cmd{}, m.initCmds...)
	for _, f := range m.fields {
		cmds = append(cmds, f.Init())
	}
	cmds = append(cmds, m.waitLogLine(), m.waitReload())
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "shift+tab", "ctrl+n":
			cmds = append(cmds, m.cycleFocus())
		default:
			var cmd tea.Cmd
			m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		w := min(max(msg.Width-4, 10), fieldWidth)
		m.fields[0] = m.fields[0].SetSize(w, 1)
		m.fields[1] = m.fields[1].SetSize(w, 4)
		m.events.Width = w + 4

	case termfield.ErrorMsg:
		m.record("error: %v", msg.Err)

	case logLineMsg:
		m.record("%s", string(msg))
		cmds = append(cmds, m.waitLogLine())

	case reloadMsg:
		m.reconfigure(msg.cfg)
		cmds = append(cmds, m.waitReload())

	default:
		for i := range m.fields {
			var cmd tea.Cmd
			m.fields[i], cmd = m.fields[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.recordStates()
	return m, tea.Batch(cmds...)
}

func (m *tuiModel) cycleFocus() tea.Cmd {
	m.fields[m.focus] = m.fields[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.fields)
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Focus()
	return cmd
}

func (m *tuiModel) reconfigure(c *config.Config) {
	remote, err := remotePredictor(m.ctx, c)
	if err != nil {
		m.record("reload: %v", err)
		return
	}
	rc := c.PredictConfig(remote)
	rc.Logger = m.log.Named(c.Provider.Name)

	f, err := m.fields[1].Reconfigure(rc)
	if err != nil {
		m.record("reload: %v", err)
		return
	}
	m.fields[1] = f
	m.names[1] = c.Provider.Name
	m.record("config reloaded: provider %s, debounce %s", c.Provider.Name, rc.Debounce)
}

func (m *tuiModel) recordStates() {
	for i, f := range m.fields {
		s := f.State()
		if s == m.states[i] {
			continue
		}
		m.record("%s: %s -> %s", m.names[i], m.states[i], s)
		m.states[i] = s
	}
}

func (m *tuiModel) record(format string, args ...any) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
	if len(m.lines) > maxEvents {
		m.lines = m.lines[len(m.lines)-maxEvents:]
	}
	m.events.SetContent(strings.Join(m.lines, "\n"))
	m.events.GotoBottom()
}

func (m *tuiModel) waitLogLine() tea.Cmd {
	if m.logLines == nil {
		return nil
	}
	ch := m.logLines
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}

func (m *tuiModel) waitReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{cfg: c}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ghostline"))
	b.WriteString("\n\n")

	labels := [2]string{"Counter (local, default debounce)", "Remote (" + m.names[1] + ")"}
	for i, f := range m.fields {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusStyle.Render("> " + labels[i])
		}
		b.WriteString(label)
		b.WriteByte('\n')
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab accept - esc dismiss - shift+tab switch field - ctrl+c quit"))
	b.WriteByte('\n')
	b.WriteString(eventStyle.Render(m.events.View()))
	return b.String()
}

func (m *tuiModel) close() {
	for _, f := range m.fields {
		f.Close()
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log := logger
	sink := make(lineSink, 64)
	if logFile == "" {
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		var err error
		if log, err = paneLogger(sink, level); err != nil {
			return err
		}
	}

	m, err := newTUIModel(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer m.close()
	if logFile == "" {
		m.logLines = sink
	}

	reloads := make(chan *config.Config, 1)
	m.reloads = reloads
	go func() {
		err := config.Watch(ctx, configPath,
			func(c *config.Config) {
				select {
				case reloads <- c:
				case <-ctx.Done():
				}
			},
			func(err error) { log.Warn("config reload failed", zap.Error(err)) })
		if err != nil {
			log.Warn("config watch disabled", zap.Error(err))
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
