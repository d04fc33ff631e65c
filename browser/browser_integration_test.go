//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/ghostline/browser"
	"github.com/iw2rmb/ghostline/predict"
)

const testPage = `<html><body style="margin:40px">
<input id="q" style="width:300px;font:16px monospace;padding:4px">
<button id="next">next</button>
<div id="out"></div>
<input id="agree" type="checkbox">
</body></html>`

func openPage(t *testing.T) *rod.Page {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testPage)
	}))
	t.Cleanup(ts.Close)

	u, err := launcher.New().Headless(true).Launch()
	require.NoError(t, err, "launch browser")
	b := rod.New().ControlURL(u)
	require.NoError(t, b.Connect())
	t.Cleanup(func() { _ = b.Close() })

	page, err := b.Page(proto.TargetCreateTarget{URL: ts.URL})
	require.NoError(t, err)
	require.NoError(t, page.WaitLoad())
	return page
}

func mirrorHTML(t *testing.T, page *rod.Page) string {
	res, err := page.Eval(`() => {
		const host = document.querySelector("[data-ghostline-layer]");
		return host ? host.shadowRoot.firstChild.innerHTML : "<missing>";
	}`)
	require.NoError(t, err)
	return res.Value.Str()
}

func TestBind_ShowAndAccept_Integration(t *testing.T) {
	page := openPage(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b, err := browser.Bind(ctx, page, "#q", predict.Config{
		Debounce: 20 * time.Millisecond,
		Get: func(ctx context.Context, value string) (string, error) {
			return " world", nil
		},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close(context.Background())) }()

	el, err := page.Element("#q")
	require.NoError(t, err)
	require.NoError(t, el.Input("hello"))

	require.Eventually(t, func() bool {
		return strings.Contains(mirrorHTML(t, page), "world")
	}, 5*time.Second, 20*time.Millisecond)

	html := mirrorHTML(t, page)
	require.Contains(t, html, `<span style="opacity: 0">hello</span>`)

	state, err := b.State(ctx)
	require.NoError(t, err)
	require.Equal(t, predict.Showing, state)

	require.NoError(t, page.Keyboard.Press(input.Tab))

	require.Eventually(t, func() bool {
		return el.MustProperty("value").Str() == "hello world"
	}, 5*time.Second, 20*time.Millisecond)

	// Tab was consumed: focus stays in the field.
	focused, err := page.Eval(`() => document.activeElement && document.activeElement.id`)
	require.NoError(t, err)
	require.Equal(t, "q", focused.Value.Str())
	require.Empty(t, mirrorHTML(t, page))
}

func TestBind_CloseRemovesLayer_Integration(t *testing.T) {
	page := openPage(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b, err := browser.Bind(ctx, page, "#q", predict.Config{
		Get: func(ctx context.Context, value string) (string, error) {
			return "", nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, "", mirrorHTML(t, page))

	require.NoError(t, b.Close(ctx))
	require.NoError(t, b.Close(ctx))
	require.Equal(t, "<missing>", mirrorHTML(t, page))
}

func TestBind_RejectsElementsWithoutText_Integration(t *testing.T) {
	page := openPage(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := predict.Config{Get: func(context.Context, string) (string, error) { return "x", nil }}
	for _, sel := range []string{"#out", "#next", "#agree"} {
		_, err := browser.Bind(ctx, page, sel, cfg)
		require.ErrorIs(t, err, predict.ErrNoTarget, sel)
	}
	require.Equal(t, "<missing>", mirrorHTML(t, page))
}

func TestBind_ContextCancelDetaches_Integration(t *testing.T) {
	page := openPage(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	bindCtx, unbind := context.WithCancel(ctx)

	var startOnce, abortOnce sync.Once
	started := make(chan struct{})
	aborted := make(chan struct{})
	b, err := browser.Bind(bindCtx, page, "#q", predict.Config{
		Debounce: 20 * time.Millisecond,
		Get: func(ctx context.Context, value string) (string, error) {
			startOnce.Do(func() { close(started) })
			<-ctx.Done()
			abortOnce.Do(func() { close(aborted) })
			return "", ctx.Err()
		},
	})
	require.NoError(t, err)

	el, err := page.Element("#q")
	require.NoError(t, err)
	require.NoError(t, el.Input("hello"))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("prediction was never requested")
	}
	unbind()

	select {
	case <-aborted:
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request not aborted")
	}
	require.Eventually(t, func() bool {
		return mirrorHTML(t, page) == "<missing>"
	}, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, b.Close(ctx))

	// Listeners are gone: typing no longer marks a pending prediction.
	require.NoError(t, el.Input("!"))
	pending, err := el.Attribute("data-ghostline-pending")
	require.NoError(t, err)
	require.Nil(t, pending)
}
