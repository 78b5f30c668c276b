package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
	"git.home.luguber.info/inful/malvolio/internal/metrics"
	"git.home.luguber.info/inful/malvolio/internal/preview"
	"git.home.luguber.info/inful/malvolio/internal/render"
	"git.home.luguber.info/inful/malvolio/internal/site"
)

// ServeCmd builds the site, then serves it and rebuilds on every change.
type ServeCmd struct {
	Port int `default:"8000" help:"Port to serve on (default: ${default})"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	if s.Port < 0 || s.Port > 65535 {
		return derrors.ValidationError(fmt.Sprintf("invalid port %d", s.Port)).Build()
	}
	cfg, err := root.loadSite()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(g.Ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	hub := preview.NewLiveReloadHub(rec, g.Logger)
	builder := site.New(cfg, render.NewEngine(cfg.TemplatesDir()),
		site.WithLogger(g.Logger),
		site.WithRecorder(rec))

	for _, p := range cfg.WatchPaths() {
		_, _ = fmt.Fprintf(g.Stdout, "Watching: %s\n", p)
	}
	_, _ = fmt.Fprintf(g.Stdout, "\nStarting server at http://0.0.0.0:%d\n", s.Port)
	_, _ = fmt.Fprintln(g.Stdout, "Press Ctrl+C to stop.")

	return preview.Run(ctx, preview.Options{
		Builder: builder,
		Watcher: preview.NewFSWatcher(preview.DefaultDebounce, g.Logger),
		Server: preview.NewHTTPServer(hub,
			preview.WithServerLogger(g.Logger),
			preview.WithMetricsHandler(metrics.HTTPHandler(reg))),
		Hub:        hub,
		Root:       cfg.OutputDir(),
		Port:       s.Port,
		WatchPaths: cfg.WatchPaths(),
		Logger:     g.Logger,
	})
}
