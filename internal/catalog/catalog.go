// =============================================================================
// Catalog Scanner - Catalog Types
// =============================================================================
//
// This file defines the data structures produced by the catalog parsing
// pipeline, along with the error taxonomy shared by all parsing stages:
//   - ErrUnsupportedFormat : the file extension is not recognized (fatal)
//   - ErrHeaderNotFound    : no plausible header row exists in the file (fatal)
//   - ErrNoData            : the file decoded but contains no usable rows (fatal)
//
// Plain I/O errors (missing file, unreadable file) are propagated unwrapped
// so callers can inspect them with os.IsNotExist and friends.
//
// =============================================================================

package catalog

import "errors"

// Parsing errors. Callers distinguish these with errors.Is.
var (
	// ErrUnsupportedFormat indicates the file extension is not one of the
	// supported catalog formats.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrHeaderNotFound indicates no row in the scanned window scored high
	// enough to be accepted as the header row.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrNoData indicates the file was decoded successfully but produced no
	// non-empty rows.
	ErrNoData = errors.New("catalog contains no data")
)

// Format identifies the kind of source file a catalog was parsed from.
type Format string

const (
	// FormatCSV is delimiter-separated text (CSV, TSV, pipe-separated).
	FormatCSV Format = "csv"

	// FormatExcel is a spreadsheet workbook (.xlsx).
	FormatExcel Format = "excel"
)

// Record is a single data row keyed by header name.
//
// Every record produced by the parser carries the full header key set:
// cells missing from short rows are present as empty strings, never as
// absent keys. Downstream code can therefore index records without
// existence checks.
type Record map[string]string

// Catalog is the parsed representation of a wholesaler catalog file.
//
// A Catalog is created once per parse and never mutated afterwards; it is
// owned by the caller for the remainder of one scan.
type Catalog struct {
	// Headers contains the column headers in file order. Cell text is
	// trimmed but case is preserved for display purposes; case-insensitive
	// matching happens in the detector.
	Headers []string

	// Records contains the data rows in file order.
	Records []Record

	// HeaderRowIndex is the zero-based position of the header row within
	// the raw file grid.
	HeaderRowIndex int

	// RowCount is the number of data rows. Invariant: RowCount == len(Records).
	RowCount int

	// Format is the detected file kind.
	Format Format

	// Encoding is the text encoding the file was decoded with.
	// Only meaningful for text files; spreadsheets report "utf-8".
	Encoding string

	// DetectedCurrency is the currency code sniffed from price-like
	// columns, or "" when no currency marker was found. An empty value is
	// an expected outcome, not a failure.
	DetectedCurrency string

	// DetectedDelimiter is the field delimiter chosen by the sniffer.
	// Only set for text files.
	DetectedDelimiter rune

	// Warnings collects non-fatal parse conditions (row truncation and the
	// like). Warnings never abort a parse.
	Warnings []string

	// SourceFile is the path the catalog was loaded from.
	SourceFile string
}

// Column returns all values for the named column in record order.
func (c *Catalog) Column(header string) []string {
	values := make([]string, len(c.Records))
	for i, rec := range c.Records {
		values[i] = rec[header]
	}
	return values
}

// Sample returns up to n records from the start of the catalog.
// The returned slice aliases the catalog's records; treat it as read-only.
func (c *Catalog) Sample(n int) []Record {
	if n > len(c.Records) {
		n = len(c.Records)
	}
	return c.Records[:n]
}
