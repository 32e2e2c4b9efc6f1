// Command serveindex serves a directory over HTTP with browsable
// listings: the serveindex middleware renders directories, and a plain
// file server handles everything else.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/serveindex"
	"github.com/dmitrymomot/serveindex/core/render"
	"github.com/dmitrymomot/serveindex/internal/config"
)

func main() {
	// Missing .env is fine; it only exists in local development.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "serveindex [flags]",
		Short:        "Serve a directory over HTTP with browsable listings",
		SilenceUsage: true,
		RunE:         run,
	}

	root.Flags().String("config", "", "path to config file (default: ./serveindex.yaml)")
	root.Flags().String("addr", "localhost:8080", "listen address")
	root.Flags().String("root", ".", "directory to serve")
	root.Flags().Bool("hidden", false, "include dot-files in listings")
	root.Flags().Bool("icons", false, "embed icons into HTML listings")
	root.Flags().String("view", "tiles", "HTML listing layout: tiles or details")
	root.Flags().String("stylesheet", "", "CSS file for HTML listings")
	root.Flags().String("template", "", "page template file")
	root.Flags().Int("concurrency", 0, "per-entry stat concurrency (0 = default)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	opts := []serveindex.Option{
		serveindex.WithView(render.View(cfg.View)),
		serveindex.WithLogger(logger),
	}
	if cfg.Hidden {
		opts = append(opts, serveindex.WithHidden())
	}
	if cfg.Icons {
		opts = append(opts, serveindex.WithIcons())
	}
	if cfg.Stylesheet != "" {
		opts = append(opts, serveindex.WithStylesheetFile(cfg.Stylesheet))
	}
	if cfg.Template != "" {
		opts = append(opts, serveindex.WithTemplateFile(cfg.Template))
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, serveindex.WithConcurrency(cfg.Concurrency))
	}

	index, err := serveindex.New(cfg.Root, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(index)
	r.Handle("/*", http.FileServer(http.Dir(cfg.Root)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}

	logger.Info("serving directory",
		slog.String("root", cfg.Root),
		slog.String("addr", cfg.Addr),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// newLogger builds the process logger from the logging configuration.
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
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

// requestLogger logs each request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
