package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/demo"
	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [app]",
		Short: "Serve a demo app with live sessions",
		Long: `Serve a demo app.

Every page load renders the app and opens a session that is hydrated on
the server. Client events arrive over the WebSocket and DOM changes are
streamed back as mutation batches. Prometheus metrics are served at
server.metricsPath.

Examples:
  hydra serve todo
  hydra serve counter --port 8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			name := cfg.Render.App
			if len(args) == 1 {
				name = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg, name)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, name string) error {
	app, err := demo.Lookup(name)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	hooks := []instrument.Hooks{instrument.OpenTelemetry()}
	var registry *prometheus.Registry
	if cfg.Server.MetricsPath != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks = append(hooks, instrument.Prometheus(instrument.WithRegistry(registry)))
	}

	page := pageData(cfg, app)
	page.Body = nil
	srv, err := server.New(&server.Config{
		Address:     cfg.Address(),
		App:         app.Tree,
		Page:        page,
		Services:    demo.Services,
		Hooks:       instrument.Multi(hooks...),
		Registry:    registry,
		WSPath:      cfg.Server.WSPath,
		MetricsPath: cfg.Server.MetricsPath,
		MaxSessions: cfg.Server.MaxSessions,
		MaxCascade:  cfg.Scheduler.MaxCascade,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	printBanner(w)
	success(w, "Serving %s on http://%s", app.Name, cfg.Address())
	if registry != nil {
		info(w, "Metrics at %s", cfg.Server.MetricsPath)
	}
	return srv.ListenAndServe(ctx)
}
