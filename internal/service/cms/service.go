// Package cms serves and imports entries held in the headless CMS.
package cms

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/normalizer"
	"github.com/heartmarshall/polyglot-dictionary/internal/provider"
)

type cmsClient interface {
	ListEntries(ctx context.Context, offset, limit int) (*provider.Page, error)
	GetEntry(ctx context.Context, id string) ([]byte, error)
}

type entryCreator interface {
	CreateFromCanonical(ctx context.Context, entry domain.LexicalEntry, categoryIDs []uuid.UUID) (*domain.StoredEntry, error)
}

type categoryEnsurer interface {
	EnsureSlugs(ctx context.Context, labels []string) (map[string]uuid.UUID, error)
}

const maxPageSize = 100

// Service reads CMS documents through the normalizer.
type Service struct {
	log        *slog.Logger
	client     cmsClient
	entries    entryCreator
	categories categoryEnsurer
	cfg        config.CMSConfig
}

// NewService creates a new CMS service.
func NewService(
	logger *slog.Logger,
	client cmsClient,
	entries entryCreator,
	categories categoryEnsurer,
	cfg config.CMSConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "cms"),
		client:     client,
		entries:    entries,
		categories: categories,
		cfg:        cfg,
	}
}

// normalize converts one raw document and logs the fields it had to degrade.
// The flag reports whether any field was degraded.
func (s *Service) normalize(ctx context.Context, raw []byte) (domain.LexicalEntry, bool) {
	entry, rep := normalizer.NormalizeJSON(raw)
	if rep.HasIssues() {
		s.log.WarnContext(ctx, "malformed cms document",
			slog.String("cms_id", entry.ID),
			slog.String("shape", string(rep.Shape)),
			slog.Any("fields", rep.Fields()),
		)
	}
	return entry, rep.HasIssues()
}
