// Package provider holds the result types that content-source adapters hand
// to services.
package provider

import "encoding/json"

// Page is one page of raw source documents. Contents are left undecoded so
// the normalizer can classify each one.
type Page struct {
	Contents   []json.RawMessage `json:"contents"`
	TotalCount int               `json:"totalCount"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
}

// HasMore reports whether documents remain after this page.
func (p *Page) HasMore() bool {
	return len(p.Contents) > 0 && p.Offset+len(p.Contents) < p.TotalCount
}
