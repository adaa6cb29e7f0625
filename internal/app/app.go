package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/transport/middleware"
	"github.com/heartmarshall/polyglot-dictionary/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, wires the
// dependencies, serves HTTP until ctx is cancelled and then shuts down
// gracefully within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("cms_enabled", cfg.CMS.Enabled()),
	)

	deps, err := Wire(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	limiter := middleware.NewRateLimiter(10 * time.Minute)

	checks := []rest.Check{{Name: "database", Pinger: deps.Pool, Critical: true}}
	routes := rest.RouterConfig{
		Logger:          logger,
		CORS:            cfg.CORS,
		Tokens:          deps.Tokens,
		AdminRole:       cfg.Auth.AdminRole,
		Limiter:         limiter,
		ImportRateLimit: cfg.CMS.ImportRateLimit,
		Words:           rest.NewWordHandler(deps.Dictionary, logger),
		Categories:      rest.NewCategoryHandler(deps.Categories, logger),
	}
	if deps.CMS != nil {
		checks = append(checks, rest.Check{Name: "cms", Pinger: deps.CMSClient})
		routes.CMS = rest.NewCMSHandler(deps.CMS, logger)
	}
	routes.Health = rest.NewHealthHandler(Version, checks...)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      rest.NewRouter(routes),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
