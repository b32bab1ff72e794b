// =============================================================================
// Catalog Scanner - Wholesaler Templates
// =============================================================================
//
// A template is a saved, named column-mapping profile for a recurring
// catalog source. Once a wholesaler's catalog layout has been mapped and
// accepted, the template lets subsequent files from the same source skip
// detection entirely.
//
// =============================================================================

package template

import "time"

// Template is the stored mapping profile for one wholesaler's catalog
// format. The JSON shape is the on-disk document format and also the
// export/import payload.
type Template struct {
	// Name is the unique key, usually the wholesaler name. Trimmed,
	// never empty.
	Name string `json:"name"`

	// ColumnMappings maps source column names to canonical field names.
	ColumnMappings map[string]string `json:"column_mappings"`

	// Currency is the catalog's currency code (EUR, USD, ...).
	Currency string `json:"currency"`

	// VATIncluded records whether catalog prices include VAT.
	VATIncluded bool `json:"vat_included"`

	// Metadata holds free-form details (file format, delimiter, notes).
	Metadata map[string]any `json:"metadata"`

	// CreatedDate is when the template was first saved.
	CreatedDate time.Time `json:"created_date"`

	// LastUsedDate tracks the most recent save or retrieval.
	LastUsedDate time.Time `json:"last_used_date"`

	// UseCount counts saves and retrievals. Always >= 1.
	UseCount int `json:"use_count"`
}

// clone returns a deep-enough copy so callers can hold a template without
// observing later store mutations.
func (t *Template) clone() *Template {
	cp := *t
	cp.ColumnMappings = make(map[string]string, len(t.ColumnMappings))
	for k, v := range t.ColumnMappings {
		cp.ColumnMappings[k] = v
	}
	cp.Metadata = make(map[string]any, len(t.Metadata))
	for k, v := range t.Metadata {
		cp.Metadata[k] = v
	}
	return &cp
}

// Summary is the listing view of a template.
type Summary struct {
	Name         string    `json:"name"`
	Currency     string    `json:"currency"`
	VATIncluded  bool      `json:"vat_included"`
	ColumnCount  int       `json:"column_count"`
	CreatedDate  time.Time `json:"created_date"`
	LastUsedDate time.Time `json:"last_used_date"`
	UseCount     int       `json:"use_count"`
}
