package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/reconcile"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/dictionary"
)

type dictionaryService interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.LexicalEntry, error)
	GetEditableEntry(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	ListEntries(ctx context.Context, input dictionary.ListInput) (*dictionary.ListResult, error)
	CreateEntry(ctx context.Context, input dictionary.CreateEntryInput) (*domain.StoredEntry, error)
	UpdateEntry(ctx context.Context, input dictionary.UpdateEntryInput) (*dictionary.UpdateResult, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// WordHandler serves dictionary entries.
type WordHandler struct {
	svc dictionaryService
	log *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc dictionaryService, logger *slog.Logger) *WordHandler {
	return &WordHandler{svc: svc, log: logger.With("handler", "words")}
}

// List returns canonical entries, newest first by default.
// GET /api/words?search=&lang=&category=&sort_by=&sort_order=&limit=&offset=
func (h *WordHandler) List(w http.ResponseWriter, r *http.Request) {
	var errs []domain.FieldError
	input := dictionary.ListInput{
		Search:    queryString(r, "search"),
		Lang:      queryString(r, "lang"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
		Limit:     queryInt(r, "limit", &errs),
		Offset:    queryInt(r, "offset", &errs),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "category", Message: "must be a UUID"})
		} else {
			input.CategoryID = &id
		}
	}
	if len(errs) > 0 {
		handleError(w, r, h.log, domain.NewValidationErrors(errs))
		return
	}

	result, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[domain.LexicalEntry]{
		Items:      result.Entries,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get returns one entry in canonical form.
// GET /api/words/{id}
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// GetEditable returns one entry with its row identifiers.
// GET /api/admin/words/{id}
func (h *WordHandler) GetEditable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entry, err := h.svc.GetEditableEntry(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toEditableResponse(entry))
}

// Create stores a new entry.
// POST /api/admin/words
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := dictionary.CreateEntryInput{
		Rows:        req.Rows.toInput(),
		CategoryIDs: req.CategoryIDs,
	}
	if req.CoverImage != nil {
		input.Cover = req.CoverImage.toDomain()
	}

	entry, err := h.svc.CreateEntry(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEditableResponse(entry))
}

// Update reconciles the submitted state into an entry. The mode is required:
// "replace_all" deletes rows missing from a submitted kind, "patch" never
// deletes by omission.
// PUT /api/admin/words/{id}
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	mode, err := reconcile.ParseMode(req.Mode)
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError("mode", "must be replace_all or patch"))
		return
	}

	result, err := h.svc.UpdateEntry(r.Context(), dictionary.UpdateEntryInput{
		EntryID:         id,
		Mode:            mode,
		ExpectedVersion: req.ExpectedVersion,
		Cover:           coverPtr(req.CoverImage),
		Rows:            req.Rows.toInput(),
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	adopted := result.Adopted
	if adopted == nil {
		adopted = []uuid.UUID{}
	}
	writeJSON(w, http.StatusOK, updateEntryResponse{
		Entry:   toEditableResponse(result.Entry),
		Changed: result.Changed,
		Created: result.Created,
		Updated: result.Updated,
		Deleted: result.Deleted,
		Adopted: adopted,
	})
}

// Delete removes an entry with its rows and category links.
// DELETE /api/admin/words/{id}
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
