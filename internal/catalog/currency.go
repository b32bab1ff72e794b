// =============================================================================
// Catalog Scanner - Currency Sniffer
// =============================================================================
//
// Detects the catalog currency by inspecting raw values in price-like
// columns for currency symbols and codes. Detection is best-effort: an
// empty result means "no marker found" and is an expected outcome, not an
// error.
//
// =============================================================================

package catalog

import "strings"

// priceHeaderHints marks a column as price-like when its header contains
// any of these substrings (case-insensitive).
var priceHeaderHints = []string{"price", "cost", "wholesale", "retail"}

// currencyScanRows bounds how many records the sniffer inspects.
const currencyScanRows = 10

// currencyMarker maps a symbol or code found inside a price value to its
// ISO currency code. Order matters: the first marker found wins, scanning
// records outermost, price columns next, markers innermost.
type currencyMarker struct {
	marker string
	code   string
}

var currencyMarkers = []currencyMarker{
	{"€", "EUR"},
	{"$", "USD"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"EUR", "EUR"},
	{"USD", "USD"},
	{"GBP", "GBP"},
	{"JPY", "JPY"},
	{"CHF", "CHF"},
}

// SniffCurrency inspects price-like columns for currency markers.
//
// RETURNS:
//   - The ISO code of the first marker found within the scan window, or ""
//     when the catalog has no price-like columns or no marker appears.
func SniffCurrency(records []Record, headers []string) string {
	var priceColumns []string
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, hint := range priceHeaderHints {
			if strings.Contains(lower, hint) {
				priceColumns = append(priceColumns, header)
				break
			}
		}
	}
	if len(priceColumns) == 0 {
		return ""
	}

	limit := currencyScanRows
	if len(records) < limit {
		limit = len(records)
	}

	for _, rec := range records[:limit] {
		for _, col := range priceColumns {
			value := rec[col]
			for _, cm := range currencyMarkers {
				if strings.Contains(value, cm.marker) {
					return cm.code
				}
			}
		}
	}
	return ""
}
