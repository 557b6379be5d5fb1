// Package app wires configuration, backend client, pages and background jobs
// into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"eventgo/internal/apiclient"
	"eventgo/internal/capture"
	"eventgo/internal/config"
	"eventgo/internal/i18n"
	appLog "eventgo/internal/log"
	"eventgo/internal/metrics"
	"eventgo/internal/probe"
	"eventgo/internal/router"
	"eventgo/internal/service"
	"eventgo/internal/ui"
	"eventgo/internal/web"
)

const shutdownTimeout = 10 * time.Second

// App is a fully wired EventGo server.
type App struct {
	cfg     *config.Config
	metrics *metrics.Collector
	probe   *probe.Monitor
	web     *web.Server
}

// Options tweak construction. The zero value builds the production wiring.
type Options struct {
	// Renderer replaces the headless Chromium PDF renderer.
	Renderer capture.Renderer
	// HTTPClient replaces the backend transport client.
	HTTPClient *http.Client
}

// New builds the application from cfg. cfg is normalized in place.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	cfg.Normalize()
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	bundle, err := i18n.New(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("i18n: %w", err)
	}

	m := metrics.New()
	client, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		Token:      cfg.APIToken,
		Timeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		HTTPClient: opts.HTTPClient,
		Observer:   m,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	views, err := ui.New()
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	if err := views.RegisterGlobals(); err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}

	rt := router.Default()

	mon, err := probe.New(client, probe.Options{
		Schedule: cfg.ProbeCron,
		Path:     cfg.ProbePath,
		Location: resolveLocation(cfg.Timezone),
		Reporter: m,
	})
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = &capture.Chromium{}
	}

	srv, err := web.NewServer(web.Deps{
		Config:   cfg,
		Services: service.New(client),
		Router:   rt,
		Views:    views,
		I18n:     bundle,
		Metrics:  m,
		Probe:    mon,
		Renderer: renderer,
	})
	if err != nil {
		return nil, err
	}

	// Every routed page needs both a handler and a template.
	for _, r := range rt.Routes() {
		if r.Page == "" {
			continue
		}
		if !srv.Handles(r.Page) {
			return nil, fmt.Errorf("app: no handler for page %q", r.Page)
		}
		if !views.Has(r.Page) {
			return nil, fmt.Errorf("app: no template for page %q", r.Page)
		}
	}

	appLog.Info("app configured",
		"backend", appLog.RedactURL(cfg.APIBaseURL),
		"locale", cfg.Locale,
		"timezone", cfg.Timezone,
		"probe", cfg.ProbeCron,
	)

	return &App{cfg: cfg, metrics: m, probe: mon, web: srv}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler { return a.web.Handler() }

// Run serves HTTP on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Listen, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.probe.Start(ctx); err != nil {
		ln.Close()
		return err
	}
	defer a.probe.Stop()
	defer a.web.Close()

	httpSrv := &http.Server{
		Handler:           a.web.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("http server listening", "addr", ln.Addr().String())
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	appLog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http shutdown failed", err)
		return err
	}
	return nil
}

func resolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}
