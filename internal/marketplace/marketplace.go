// =============================================================================
// Catalog Scanner - Marketplace Lookup
// =============================================================================
//
// The narrow surface the scanner needs from a marketplace pricing source.
// Implementations wrap a real pricing API; tests use an in-memory stub.
//
// =============================================================================

package marketplace

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the marketplace carries no listing for the
// requested identifier.
var ErrNotFound = errors.New("marketplace: product not found")

// ProductSnapshot is the marketplace state of one listing at lookup time.
type ProductSnapshot struct {
	ASIN         string  `json:"asin"`
	Title        string  `json:"title"`
	CurrentPrice float64 `json:"current_price"`
	SalesRank    int     `json:"sales_rank"`
	ReviewCount  int     `json:"review_count"`
	Rating       float64 `json:"rating"`
	Category     string  `json:"category"`
	WeightKG     float64 `json:"weight_kg"`
	Available    bool    `json:"available"`
}

// Lookup resolves catalog identifiers against a marketplace.
type Lookup interface {
	// ByGTIN finds the listing for a barcode. Returns ErrNotFound when
	// no listing exists.
	ByGTIN(ctx context.Context, gtin string) (*ProductSnapshot, error)

	// ByQuery searches listings by free text (typically brand plus
	// product name) and returns the best candidates, most relevant
	// first.
	ByQuery(ctx context.Context, query string, limit int) ([]*ProductSnapshot, error)
}
