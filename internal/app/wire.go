package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/cms"
	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres/category"
	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres/entry"
	"github.com/heartmarshall/polyglot-dictionary/internal/auth"
	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	categorysvc "github.com/heartmarshall/polyglot-dictionary/internal/service/category"
	cmssvc "github.com/heartmarshall/polyglot-dictionary/internal/service/cms"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/dictionary"
)

// Deps holds the components built from configuration. Every collaborator is
// constructed here and injected; nothing below this layer reads config or
// environment on its own.
type Deps struct {
	Pool       *pgxpool.Pool
	Tokens     *auth.JWTManager
	Dictionary *dictionary.Service
	Categories *categorysvc.Service

	// CMSClient and CMS are nil when no CMS base URL is configured.
	CMSClient *cms.Client
	CMS       *cmssvc.Service
}

// Wire connects to the database and builds repositories and services.
// Call Close when done.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	entryRepo := entry.New(pool)
	categoryRepo := category.New(pool)
	txm := postgres.NewTxManager(pool)

	deps := &Deps{
		Pool:       pool,
		Tokens:     auth.NewJWTManager(cfg.Auth),
		Dictionary: dictionary.NewService(logger, entryRepo, categoryRepo, txm, cfg.Dictionary),
		Categories: categorysvc.NewService(logger, categoryRepo),
	}

	if cfg.CMS.Enabled() {
		deps.CMSClient = cms.NewClient(cfg.CMS, logger)
		deps.CMS = cmssvc.NewService(logger, deps.CMSClient, deps.Dictionary, deps.Categories, cfg.CMS)
	} else {
		logger.WarnContext(ctx, "cms base_url not set, cms routes and import disabled")
	}

	return deps, nil
}

// Close releases the database pool.
func (d *Deps) Close() {
	d.Pool.Close()
}
