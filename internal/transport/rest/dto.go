package rest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/dictionary"
)

type coverRequest struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (c *coverRequest) toDomain() domain.CoverImage {
	return domain.CoverImage{URL: strings.TrimSpace(c.URL), Width: c.Width, Height: c.Height}
}

type rowRequest struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Lang  string     `json:"lang"`
	Value string     `json:"value"`
	Score *float64   `json:"score,omitempty"`
}

// rowsRequest is keyed by lowercase child kind ("word", "frequency", ...).
// A key with a null value is treated as absent.
type rowsRequest map[string][]rowRequest

func (rows rowsRequest) toInput() map[domain.ChildKind][]dictionary.RowInput {
	if rows == nil {
		return nil
	}
	out := make(map[domain.ChildKind][]dictionary.RowInput, len(rows))
	for key, group := range rows {
		if group == nil {
			continue
		}
		in := make([]dictionary.RowInput, 0, len(group))
		for _, r := range group {
			in = append(in, dictionary.RowInput{ID: r.ID, Lang: r.Lang, Value: r.Value, Score: r.Score})
		}
		out[domain.ChildKind(strings.ToUpper(key))] = in
	}
	return out
}

type createEntryRequest struct {
	CoverImage  *coverRequest `json:"coverImage"`
	Rows        rowsRequest   `json:"rows"`
	CategoryIDs []uuid.UUID   `json:"categoryIds"`
}

// updateEntryRequest leaves parts that are absent from the body untouched.
type updateEntryRequest struct {
	Mode            string        `json:"mode"`
	ExpectedVersion *int          `json:"expectedVersion"`
	CoverImage      *coverRequest `json:"coverImage"`
	Rows            rowsRequest   `json:"rows"`
	CategoryIDs     []uuid.UUID   `json:"categoryIds"`
}

type rowResponse struct {
	ID       uuid.UUID `json:"id"`
	Lang     string    `json:"lang"`
	Value    string    `json:"value,omitempty"`
	Score    *float64  `json:"score,omitempty"`
	Position int       `json:"position"`
}

type categoryResponse struct {
	ID        uuid.UUID         `json:"id"`
	Slug      string            `json:"slug"`
	Name      map[string]string `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
}

// editableEntryResponse is the relational view with row identifiers, used by
// the editorial routes.
type editableEntryResponse struct {
	ID         uuid.UUID                `json:"id"`
	Version    int                      `json:"version"`
	CoverImage domain.CoverImage        `json:"coverImage"`
	Rows       map[string][]rowResponse `json:"rows"`
	Categories []categoryResponse       `json:"categories"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

type updateEntryResponse struct {
	Entry   editableEntryResponse `json:"entry"`
	Changed bool                  `json:"changed"`
	Created int                   `json:"created"`
	Updated int                   `json:"updated"`
	Deleted int                   `json:"deleted"`
	// Adopted lists submitted row ids that matched nothing and became new rows.
	Adopted []uuid.UUID `json:"adopted"`
}

type listResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	names := make(map[string]string, len(c.Name))
	for lang, name := range domain.CompleteNames(c.Name) {
		names[lang.String()] = name
	}
	return categoryResponse{ID: c.ID, Slug: c.Slug, Name: names, CreatedAt: c.CreatedAt}
}

func toCategoryResponses(cs []domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toEditableResponse(e *domain.StoredEntry) editableEntryResponse {
	resp := editableEntryResponse{
		ID:         e.ID,
		Version:    e.Version,
		CoverImage: e.CoverImage,
		Rows:       make(map[string][]rowResponse, len(domain.ChildKinds())),
		Categories: toCategoryResponses(e.Categories),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	for _, kind := range domain.ChildKinds() {
		rows := e.Rows[kind]
		group := make([]rowResponse, 0, len(rows))
		for _, r := range rows {
			rr := rowResponse{ID: r.ID, Lang: r.Lang.String(), Position: r.Position}
			if kind.IsNumeric() {
				score := r.Score
				rr.Score = &score
			} else {
				rr.Value = r.Value
			}
			group = append(group, rr)
		}
		resp.Rows[strings.ToLower(kind.String())] = group
	}
	return resp
}

func coverPtr(c *coverRequest) *domain.CoverImage {
	if c == nil {
		return nil
	}
	cover := c.toDomain()
	return &cover
}
