package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iw2rmb/ghostline"
	"github.com/iw2rmb/ghostline/internal/config"
	"github.com/iw2rmb/ghostline/predict"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ghostline "+ghostline.Version()+"\n", out.String())
}

func TestInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostline.yaml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); initForce = false })

	rootCmd.SetArgs([]string{"init", "--config", path})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "wrote "+path+"\n", out.String())

	got, err := config.Load(path)
	require.NoError(t, err)
	want := config.Default()
	assert.Equal(t, want.Prediction.Debounce, got.Prediction.Debounce)
	assert.Equal(t, want.Prediction.AcceptKey, got.Prediction.AcceptKey)
	assert.Equal(t, want.Provider, got.Provider)
	assert.Equal(t, want.Browser, got.Browser)

	rootCmd.SetArgs([]string{"init", "--config", path})
	require.ErrorContains(t, rootCmd.Execute(), "already exists")

	rootCmd.SetArgs([]string{"init", "--config", path, "--force"})
	require.NoError(t, rootCmd.Execute())
}

func TestDemoHandler(t *testing.T) {
	h := demoHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="counter"`)
	assert.Contains(t, rec.Body.String(), `id="remote"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWithTimeout(t *testing.T) {
	slow := func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	start := time.Now()
	_, err := withTimeout(slow, 20*time.Millisecond)(context.Background(), "x")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRemotePredictor(t *testing.T) {
	c := config.Default()
	get, err := remotePredictor(context.Background(), c)
	require.NoError(t, err)

	got, err := get(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, " 1", got)

	c.Provider.Name = "carrier-pigeon"
	_, err = remotePredictor(context.Background(), c)
	require.Error(t, err)
}

func TestCounterConfig(t *testing.T) {
	pc := counterConfig(config.Default(), zap.NewNop())
	assert.Equal(t, "orange", pc.Color)
	assert.Zero(t, pc.Debounce, "counter keeps the default debounce")
	assert.NotNil(t, pc.Get)
}

func TestLineSinkSplitsLines(t *testing.T) {
	sink := make(lineSink, 4)
	_, err := sink.Write([]byte("first\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, "first", <-sink)
	assert.Equal(t, "second", <-sink)
}

func TestPaneLoggerWritesToSink(t *testing.T) {
	sink := make(lineSink, 4)
	log, err := paneLogger(sink, "info")
	require.NoError(t, err)
	log.Info("config reloaded")
	log.Debug("hidden")

	select {
	case line := <-sink:
		assert.Contains(t, line, "config reloaded")
	default:
		t.Fatal("no log line")
	}
	assert.Empty(t, sink)
}

func newTestTUI(t *testing.T) *tuiModel {
	t.Helper()
	m, err := newTUIModel(context.Background(), config.Default(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(m.close)
	return m
}

func TestTUIRecordsStateChanges(t *testing.T) {
	m := newTestTUI(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})

	assert.Equal(t, "h", m.fields[0].Value())
	assert.Equal(t, predict.Debouncing, m.fields[0].State())
	assert.Contains(t, strings.Join(m.lines, "\n"), "counter: idle -> debouncing")
}

func TestTUICycleFocus(t *testing.T) {
	m := newTestTUI(t)
	require.True(t, m.fields[0].Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.focus)
	assert.False(t, m.fields[0].Focused())
	assert.True(t, m.fields[1].Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "", m.fields[0].Value())
	assert.Equal(t, "x", m.fields[1].Value())
}

func TestTUIReconfigure(t *testing.T) {
	m := newTestTUI(t)
	c := config.Default()
	c.Prediction.Debounce = "250ms"

	m.Update(reloadMsg{cfg: c})
	assert.Contains(t, strings.Join(m.lines, "\n"), "config reloaded: provider counter, debounce 250ms")
}
