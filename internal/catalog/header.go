// =============================================================================
// Catalog Scanner - Header Locator
// =============================================================================
//
// Wholesaler catalogs rarely start with the header row: exports carry title
// rows, "generated on" metadata, and blank spacer rows above the actual data
// table. This module scans the raw grid for the row most likely to be the
// header.
//
// SCORING:
//   For each candidate row, an integer score is computed per cell:
//     +2  the cell contains a known header keyword (identifier, price,
//         stock, name, category vocabulary)
//     +1  the cell is non-empty and not purely numeric
//     -1  the cell is purely numeric (likely a data row)
//
//   The row with the strictly highest score wins; ties keep the earliest
//   row. A winning row must score at least 2, otherwise the header is
//   reported as not found and the parse fails.
//
// =============================================================================

package catalog

import "strings"

// headerSearchLimit bounds the header scan. Rows beyond this are assumed to
// be data: documents must place their header within the first 20 rows.
const headerSearchLimit = 20

// minHeaderScore is the minimum score a row must reach to be accepted as
// the header.
const minHeaderScore = 2

// headerKeywords is the vocabulary of terms that commonly appear in catalog
// header rows. Matching is case-insensitive substring.
var headerKeywords = []string{
	"gtin", "ean", "upc", "asin", "sku", "product", "item",
	"price", "cost", "wholesale", "retail", "msrp",
	"stock", "quantity", "inventory", "available",
	"name", "title", "description", "brand", "manufacturer",
	"category", "type", "department",
}

// LocateHeader scans the raw grid for the header row.
//
// PARAMETERS:
//   - grid: The raw rows of the file, each a slice of string cells.
//
// RETURNS:
//   - The zero-based index of the header row within the grid.
//   - The trimmed header names (case preserved).
//   - ErrHeaderNotFound when no row scores at least minHeaderScore.
func LocateHeader(grid [][]string) (int, []string, error) {
	limit := headerSearchLimit
	if len(grid) < limit {
		limit = len(grid)
	}

	bestScore := 0
	bestIndex := -1
	var bestHeaders []string

	for i := 0; i < limit; i++ {
		row := grid[i]
		if isBlankRow(row) {
			continue
		}

		score := ScoreHeaderRow(row)
		if score > bestScore {
			bestScore = score
			bestIndex = i
			bestHeaders = trimCells(row)
		}
	}

	if bestScore < minHeaderScore {
		return -1, nil, ErrHeaderNotFound
	}
	return bestIndex, bestHeaders, nil
}

// ScoreHeaderRow scores a single row on how likely it is to be a header.
// Exported for deterministic-scoring tests; the scoring rules are described
// in the file header above.
func ScoreHeaderRow(row []string) int {
	score := 0
	for _, cell := range row {
		lower := strings.ToLower(strings.TrimSpace(cell))

		for _, keyword := range headerKeywords {
			if strings.Contains(lower, keyword) {
				score += 2
				break
			}
		}

		if lower != "" && !isDigits(stripChars(lower, ".,")) {
			score++
		}

		if isDigits(stripChars(cell, ".,-")) {
			score--
		}
	}
	return score
}

// isBlankRow reports whether every cell is empty after trimming.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isDigits reports whether s is non-empty and consists only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripChars removes every rune in chars from s.
func stripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

// trimCells trims whitespace from each cell, preserving case.
func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
