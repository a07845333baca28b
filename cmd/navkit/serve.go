package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/internal/config"
	"github.com/navkit-dev/navkit/pkg/live"
	"github.com/navkit-dev/navkit/pkg/middleware"
	"github.com/navkit-dev/navkit/pkg/sitesource"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and its live sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to navkit.yaml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default navkit.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			if err := config.WriteDefault(out); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "navkit.yaml", "output path")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := newLogger(cfg.Logging)
	slog.SetDefault(log)

	source, err := newSource(cfg.Site)
	if err != nil {
		return err
	}

	loader := func(ctx context.Context, path string) ([]byte, error) {
		return sitesource.Page(ctx, source, path)
	}
	liveSrv := live.NewServer(loader, live.WithLogger(log))

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	if cfg.Server.Metrics {
		r.Use(middleware.Prometheus())
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.Server.Tracing {
		r.Use(middleware.OpenTelemetry())
	}

	r.Mount("/live", liveSrv.Routes())
	r.Get("/*", servePage(source, log))

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("navkit: listening", "addr", cfg.Server.Addr, "source", cfg.Site.Source)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("navkit: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	liveSrv.Shutdown(shutdownCtx)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// servePage streams page HTML from the site source.
func servePage(source sitesource.Source, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := sitesource.Page(r.Context(), source, r.URL.Path)
		if err != nil {
			if errors.Is(err, sitesource.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			log.Error("navkit: page read failed", "path", r.URL.Path, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}

func newSource(cfg config.SiteConfig) (sitesource.Source, error) {
	switch cfg.Source {
	case "dir":
		return sitesource.NewDir(cfg.Dir), nil
	case "s3":
		client := s3.New(s3.Options{Region: cfg.S3.Region})
		return sitesource.NewS3(client, cfg.S3.Bucket, sitesource.WithPrefix(cfg.S3.Prefix)), nil
	}
	return nil, fmt.Errorf("unknown site source %q", cfg.Source)
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
