package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/ghostline/browser"
	"github.com/iw2rmb/ghostline/internal/config"
)

//go:embed demo.html
var demoPage []byte

var browserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Ghost-text fields in a Chromium page",
	Long: `Serves a small page with two fields, opens it in Chromium through the
DevTools protocol and binds predictions to both fields. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runBrowser,
}

func demoHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(demoPage)
	})
	return mux
}

func launchBrowser(ctx context.Context, c config.BrowserConfig) (*rod.Browser, error) {
	l := launcher.New().Headless(c.Headless)
	if c.Bin != "" {
		l = l.Bin(c.Bin)
	}
	u, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return b, nil
}

func runBrowser(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.Named("demo")

	ln, err := net.Listen("tcp", cfg.Browser.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: demoHandler(), ReadHeaderTimeout: 5 * time.Second}
	url := "http://" + ln.Addr().String() + "/"

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve demo page: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		b, err := launchBrowser(ctx, cfg.Browser)
		if err != nil {
			return err
		}
		defer func() { _ = b.Context(context.Background()).Close() }()

		page, err := b.Page(proto.TargetCreateTarget{URL: url})
		if err != nil {
			return fmt.Errorf("open %s: %w", url, err)
		}
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("load %s: %w", url, err)
		}

		remote, err := remotePredictor(ctx, cfg)
		if err != nil {
			return err
		}
		rc := cfg.PredictConfig(remote)
		rc.Logger = logger.Named(cfg.Provider.Name)

		counter, err := browser.Bind(ctx, page, "#counter", counterConfig(cfg, logger))
		if err != nil {
			return fmt.Errorf("bind counter: %w", err)
		}
		area, err := browser.Bind(ctx, page, "#remote", rc)
		if err != nil {
			_ = counter.Close(context.Background())
			return fmt.Errorf("bind remote: %w", err)
		}
		log.Info("demo ready", zap.String("url", url), zap.String("provider", cfg.Provider.Name))

		<-ctx.Done()
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return errors.Join(counter.Close(closeCtx), area.Close(closeCtx))
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
