package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/cms"
)

type cmsService interface {
	ListEntries(ctx context.Context, offset, limit int) (*cms.PageResult, error)
	GetEntry(ctx context.Context, id string) (*domain.LexicalEntry, error)
	Import(ctx context.Context, input cms.ImportInput) (*cms.ImportResult, error)
}

// CMSHandler serves normalized CMS documents and triggers imports.
type CMSHandler struct {
	svc cmsService
	log *slog.Logger
}

// NewCMSHandler creates a CMSHandler.
func NewCMSHandler(svc cmsService, logger *slog.Logger) *CMSHandler {
	return &CMSHandler{svc: svc, log: logger.With("handler", "cms")}
}

type importRequest struct {
	MaxEntries int `json:"maxEntries"`
}

type importResponse struct {
	Fetched  int `json:"fetched"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Degraded int `json:"degraded"`
}

// List handles GET /api/cms/words?offset=&limit=.
func (h *CMSHandler) List(w http.ResponseWriter, r *http.Request) {
	var errs []domain.FieldError
	offset := queryInt(r, "offset", &errs)
	limit := queryInt(r, "limit", &errs)
	if len(errs) > 0 {
		handleError(w, r, h.log, domain.NewValidationErrors(errs))
		return
	}

	page, err := h.svc.ListEntries(r.Context(), offset, limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[domain.LexicalEntry]{
		Items:      page.Entries,
		TotalCount: page.TotalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// Get handles GET /api/cms/words/{id}.
func (h *CMSHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Import handles POST /api/admin/cms/import. An empty body imports everything.
func (h *CMSHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	result, err := h.svc.Import(r.Context(), cms.ImportInput{MaxEntries: req.MaxEntries})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Fetched:  result.Fetched,
		Created:  result.Created,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
		Degraded: result.Degraded,
	})
}
