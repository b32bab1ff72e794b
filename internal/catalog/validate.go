// =============================================================================
// Catalog Scanner - Catalog Validation
// =============================================================================
//
// Structural validation of a parsed catalog. Validation never aborts a
// scan: problems are collected into a report the caller can surface, with
// a hard error/warning split matching how the rest of the pipeline treats
// failures (errors invalidate the catalog, warnings do not).
//
// =============================================================================

package catalog

import (
	"fmt"
	"strings"
)

// emptyRowWarnRatio is the fraction of empty rows above which a warning is
// recorded.
const emptyRowWarnRatio = 0.1

// Stats summarizes the shape of a parsed catalog.
type Stats struct {
	TotalRows    int
	Columns      int
	EmptyRows    int
	CompleteRows int
}

// ValidationReport is the result of validating a parsed catalog.
type ValidationReport struct {
	// Valid is false when the catalog cannot be used at all (no rows or no
	// headers). Warnings alone never clear this flag.
	Valid    bool
	Errors   []string
	Warnings []string
	Stats    Stats
}

// Validate checks a parsed catalog for structural problems.
//
// RETURNS:
//   - A report with a validity flag, collected errors and warnings, and
//     row/column statistics. The report is always non-nil.
func Validate(c *Catalog) *ValidationReport {
	report := &ValidationReport{
		Valid: true,
		Stats: Stats{
			TotalRows: c.RowCount,
			Columns:   len(c.Headers),
		},
	}

	if c.RowCount == 0 {
		report.Valid = false
		report.Errors = append(report.Errors, "no data rows found")
		return report
	}
	if len(c.Headers) == 0 {
		report.Valid = false
		report.Errors = append(report.Errors, "no headers found")
		return report
	}

	for _, rec := range c.Records {
		filled := 0
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				filled++
			}
		}
		switch {
		case filled == 0:
			report.Stats.EmptyRows++
		case filled == len(c.Headers):
			report.Stats.CompleteRows++
		}
	}

	emptyRatio := float64(report.Stats.EmptyRows) / float64(c.RowCount)
	if emptyRatio > emptyRowWarnRatio {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%.1f%% of rows are empty", emptyRatio*100))
	}

	return report
}
