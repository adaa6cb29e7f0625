package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (subject string, role string, err error)
}

// RouterConfig collects the handlers and settings served by NewRouter.
type RouterConfig struct {
	Logger    *slog.Logger
	CORS      config.CORSConfig
	Tokens    tokenValidator
	AdminRole string

	// Limiter and ImportRateLimit throttle CMS imports per editor.
	Limiter         *middleware.RateLimiter
	ImportRateLimit int

	Health     *HealthHandler
	Words      *WordHandler
	Categories *CategoryHandler
	// CMS is nil when no CMS is configured; its routes are then not registered.
	CMS *CMSHandler
}

// NewRouter builds the HTTP handler: public read routes under /api, editorial
// routes under /api/admin behind a role check, and the health probes.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", cfg.Health.Live)
	mux.HandleFunc("GET /ready", cfg.Health.Ready)
	mux.HandleFunc("GET /health", cfg.Health.Health)

	mux.HandleFunc("GET /api/words", cfg.Words.List)
	mux.HandleFunc("GET /api/words/{id}", cfg.Words.Get)
	mux.HandleFunc("GET /api/categories", cfg.Categories.List)
	mux.HandleFunc("GET /api/categories/{id}", cfg.Categories.Get)

	admin := middleware.RequireRole(cfg.Tokens, cfg.AdminRole, cfg.Logger)

	mux.Handle("GET /api/admin/words/{id}", middleware.HandlerFunc(cfg.Words.GetEditable, admin))
	mux.Handle("POST /api/admin/words", middleware.HandlerFunc(cfg.Words.Create, admin))
	mux.Handle("PUT /api/admin/words/{id}", middleware.HandlerFunc(cfg.Words.Update, admin))
	mux.Handle("DELETE /api/admin/words/{id}", middleware.HandlerFunc(cfg.Words.Delete, admin))

	mux.Handle("POST /api/admin/categories", middleware.HandlerFunc(cfg.Categories.Create, admin))
	mux.Handle("PUT /api/admin/categories/{id}", middleware.HandlerFunc(cfg.Categories.Update, admin))
	mux.Handle("DELETE /api/admin/categories/{id}", middleware.HandlerFunc(cfg.Categories.Delete, admin))

	if cfg.CMS != nil {
		mux.HandleFunc("GET /api/cms/words", cfg.CMS.List)
		mux.HandleFunc("GET /api/cms/words/{id}", cfg.CMS.Get)

		var throttle middleware.Middleware
		if cfg.Limiter != nil {
			throttle = cfg.Limiter.Limit(cfg.ImportRateLimit)
		}
		mux.Handle("POST /api/admin/cms/import", middleware.HandlerFunc(cfg.CMS.Import, admin, throttle))
	}

	return middleware.Chain(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.Logger(cfg.Logger),
		middleware.CORS(cfg.CORS),
	)(mux)
}
