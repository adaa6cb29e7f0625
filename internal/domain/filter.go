package domain

import "github.com/google/uuid"

// EntryFilter contains filtering/pagination parameters for entry listings.
type EntryFilter struct {
	// Search matches word values case-insensitively as a substring.
	Search *string
	// Lang restricts Search to words of one language.
	Lang       *Language
	CategoryID *uuid.UUID
	// SortBy is "created_at" (default) or "updated_at".
	SortBy string
	// SortOrder is "ASC" or "DESC" (default).
	SortOrder string
	Limit     int
	Offset    int
}
