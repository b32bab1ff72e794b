// =============================================================================
// Catalog Scanner - Mapping Suggestions & Review
// =============================================================================
//
// Helpers for the manual review step that follows an uncertain detection:
// ranked suggestions for an unmapped column, and sample-data validation of
// a mapping a user is about to accept.
//
// =============================================================================

package detector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wholescan/catalog-scanner/internal/catalog"
)

// suggestionThreshold is the minimum similarity for a field to appear in
// suggestions. Deliberately lower than the detection threshold: a human is
// choosing, so weaker candidates are still worth showing.
const suggestionThreshold = 0.4

// maxSuggestions bounds the suggestion list.
const maxSuggestions = 5

// Suggestion is a candidate field for an unmapped column.
type Suggestion struct {
	Field Field
	Score float64
}

// Suggest ranks candidate fields for an unmapped column by keyword
// similarity (no priority weighting).
//
// PARAMETERS:
//   - column: The unmapped column name.
//   - candidates: The fields still available for assignment. Unknown field
//     names are ignored.
//
// RETURNS:
//   - Up to five suggestions scoring at least 0.4, highest first.
func (d *Detector) Suggest(column string, candidates []Field) []Suggestion {
	lower := strings.ToLower(strings.TrimSpace(column))

	var suggestions []Suggestion
	for _, field := range candidates {
		spec := specFor(field)
		if spec == nil {
			continue
		}
		best := 0.0
		for _, keyword := range spec.keywords {
			if s := similarity(lower, keyword); s > best {
				best = s
			}
		}
		if best >= suggestionThreshold {
			suggestions = append(suggestions, Suggestion{Field: field, Score: best})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// MappingCheck is the result of validating one mapping against sample data.
type MappingCheck struct {
	TotalValues       int
	NonEmptyValues    int
	EmptyRatio        float64
	PatternMatchRatio float64
	Warnings          []string
}

// ValidateMapping checks a mapping against sample records, reporting how
// well the column's data fits the target field.
func (d *Detector) ValidateMapping(m Mapping, samples []catalog.Record) *MappingCheck {
	check := &MappingCheck{}

	var nonEmpty []string
	for _, rec := range samples {
		check.TotalValues++
		if v := strings.TrimSpace(rec[m.Column]); v != "" {
			nonEmpty = append(nonEmpty, v)
		}
	}
	check.NonEmptyValues = len(nonEmpty)
	if check.TotalValues > 0 {
		check.EmptyRatio = float64(check.TotalValues-check.NonEmptyValues) / float64(check.TotalValues)
	}

	spec := specFor(m.Field)
	if spec != nil && spec.pattern != nil && len(nonEmpty) > 0 {
		matches := 0
		for _, v := range nonEmpty {
			if spec.pattern.MatchString(strings.ReplaceAll(v, " ", "")) {
				matches++
			}
		}
		check.PatternMatchRatio = float64(matches) / float64(len(nonEmpty))
		if check.PatternMatchRatio < 0.5 {
			check.Warnings = append(check.Warnings,
				fmt.Sprintf("only %.1f%% of values match the expected pattern for %s",
					check.PatternMatchRatio*100, m.Field))
		}
	}

	if check.EmptyRatio > 0.3 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%.1f%% of values are empty", check.EmptyRatio*100))
	}

	return check
}
