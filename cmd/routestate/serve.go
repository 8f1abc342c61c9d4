package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routestate/internal/dev"
	"github.com/vango-dev/routestate/pkg/middleware"
	"github.com/vango-dev/routestate/pkg/routeconfig"
	"github.com/vango-dev/routestate/pkg/router"
	"github.com/vango-dev/routestate/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a router over HTTP",
		Long: `Serve a router over HTTP.

Every endpoint answers GET with the state navigating to it would produce.
Control routes live under /_router:

  GET  /_router/endpoints   endpoint templates
  GET  /_router/state       current location and state
  POST /_router/navigate    navigate, body {"path": "..."}
  GET  /_router/ws          live state stream (with --live)

With --watch the route file is reloaded on change and connected clients
receive the new state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(args, 0)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, src)
		},
	}

	f := cmd.Flags()
	f.String("routes", "", "Route configuration file or s3:// URI")
	f.String("host", "localhost", "Host to bind to")
	f.IntP("port", "p", 8080, "Port to listen on")
	f.Bool("live", true, "Enable the WebSocket state stream")
	f.Bool("metrics", false, "Record Prometheus metrics and serve /metrics")
	f.Bool("tracing", false, "Trace navigations with OpenTelemetry")
	f.BoolP("watch", "w", false, "Reload the route file on change")

	return cmd
}

func (a *app) serve(ctx context.Context, src string) error {
	root, err := a.loadRoutes(ctx, src)
	if err != nil {
		return err
	}

	var (
		routerOpts = []router.Option{router.WithLogger(a.logger)}
		serverOpts = []server.Option{
			server.WithLogger(a.logger),
			server.WithAddress(a.cfg.Address()),
			server.WithLive(a.cfg.Server.Live),
		}
		metrics *middleware.Metrics
	)
	if a.cfg.Tracing.Enabled {
		routerOpts = append(routerOpts, router.WithMiddleware(
			middleware.OpenTelemetry(middleware.WithTracerName(a.cfg.Tracing.Tracer)),
		))
	}
	if a.cfg.Metrics.Enabled {
		metrics = middleware.Default(middleware.WithNamespace(a.cfg.Metrics.Namespace))
		routerOpts = append(routerOpts, router.WithMiddleware(metrics.Middleware()))
		serverOpts = append(serverOpts, server.WithMetrics(metrics, promhttp.Handler()))
	}

	rt, err := router.New(root, routerOpts...)
	if err != nil {
		return err
	}
	s := server.New(rt, serverOpts...)

	if a.cfg.Dev.Watch {
		if strings.HasPrefix(src, "s3://") {
			warn(os.Stderr, "--watch ignored for %s", src)
		} else {
			w, err := dev.NewWatcher(dev.WatcherConfig{
				Path:     src,
				Debounce: a.cfg.Dev.Debounce,
				Logger:   a.logger,
			}, func(root routeconfig.Node, err error) {
				if err == nil {
					var next *router.Router
					next, err = router.New(root, routerOpts...)
					if err == nil {
						s.SetRouter(next)
					}
				}
				if metrics != nil {
					metrics.RecordReload(err)
				}
				if err != nil {
					a.logger.Error("reload failed", "file", src, "error", err)
				}
			})
			if err != nil {
				return err
			}
			defer w.Close()
			go func() {
				if err := w.Run(ctx); err != nil && ctx.Err() == nil {
					a.logger.Error("watcher stopped", "error", err)
				}
			}()
			a.logger.Info("watching routes", "file", src)
		}
	}

	return s.ListenAndServe(ctx)
}
