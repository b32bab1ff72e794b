// =============================================================================
// Catalog Scanner - Column Detector
// =============================================================================
//
// Maps arbitrary catalog column headers onto the canonical field vocabulary
// using three methods, in order of reliability:
//   - exact   : the lowercased header equals a field keyword (confidence 1.0)
//   - fuzzy   : best keyword similarity, weighted by field priority
//   - pattern : the column's sample values match a field's structural
//               pattern (confidence capped at 0.85)
//
// ASSIGNMENT POLICY:
//   Field assignment is greedy and order-sensitive: headers are considered
//   in file order, and a field claimed by an earlier header is unavailable
//   to later ones. This mirrors how a human reviews a catalog left to
//   right, but it is not globally optimal; the policy is isolated behind
//   the Assigner interface so an optimal bipartite matcher can replace it
//   without touching callers.
//
// =============================================================================

package detector

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wholescan/catalog-scanner/internal/catalog"
)

// DefaultMinConfidence is the default threshold a fuzzy match must reach to
// be accepted.
const DefaultMinConfidence = 0.6

// patternSampleLimit bounds how many non-empty sample values the pattern
// pass inspects per column.
const patternSampleLimit = 20

// patternMatchThreshold is the fraction of sample values that must match a
// field's pattern for a content-based mapping.
const patternMatchThreshold = 0.7

// patternConfidenceCap caps the confidence of pattern-based mappings: data
// shape is weaker evidence than the header name.
const patternConfidenceCap = 0.85

// Method tags how a mapping was detected.
type Method string

const (
	MethodExact   Method = "exact"
	MethodFuzzy   Method = "fuzzy"
	MethodPattern Method = "pattern"
	// MethodUser marks mappings assigned manually rather than detected.
	MethodUser Method = "user"
)

// Mapping binds one catalog column to one canonical field.
type Mapping struct {
	// Column is the source column name exactly as it appears in the file.
	Column string
	// Field is the canonical field the column maps to.
	Field Field
	// Confidence is the detection confidence in [0,1]. Not a probability,
	// just a ranking heuristic.
	Confidence float64
	// Method records how the mapping was detected.
	Method Method
}

// Result is the outcome of one detection run.
type Result struct {
	// Mappings is sorted by confidence descending; ties keep their
	// detection order. No canonical field appears twice.
	Mappings []Mapping
	// Unmapped lists source columns that received no mapping.
	Unmapped []string
	// Confidence is the arithmetic mean of mapping confidences, 0 when
	// there are no mappings.
	Confidence float64
	// Warnings collects human-readable detection concerns (missing
	// critical fields, mostly-unmapped catalogs).
	Warnings []string
}

// Mapped returns the column→field pairs as a plain map, the shape the
// template store persists.
func (r *Result) Mapped() map[string]string {
	out := make(map[string]string, len(r.Mappings))
	for _, m := range r.Mappings {
		out[m.Column] = string(m.Field)
	}
	return out
}

// FieldColumn returns the source column mapped to the given field, or ""
// when the field is unmapped.
func (r *Result) FieldColumn(field Field) string {
	for _, m := range r.Mappings {
		if m.Field == field {
			return m.Column
		}
	}
	return ""
}

// Assigner decides which header claims which canonical field during the
// header-name pass. match evaluates one header against the still-unclaimed
// fields and returns its best mapping, if any.
type Assigner interface {
	Assign(headers []string, match func(header string, claimed map[Field]bool) (Mapping, bool)) []Mapping
}

// greedyAssigner implements first-claim-wins assignment in header order.
type greedyAssigner struct{}

func (greedyAssigner) Assign(headers []string, match func(string, map[Field]bool) (Mapping, bool)) []Mapping {
	claimed := make(map[Field]bool)
	var mappings []Mapping
	for _, header := range headers {
		if m, ok := match(header, claimed); ok {
			mappings = append(mappings, m)
			claimed[m.Field] = true
		}
	}
	return mappings
}

// Detector maps catalog columns to canonical fields.
type Detector struct {
	// MinConfidence is the acceptance threshold for fuzzy matches.
	MinConfidence float64

	assigner Assigner
	logger   *zap.Logger
}

// New creates a Detector with the default greedy assignment policy.
// A nil logger disables logging.
func New(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		MinConfidence: DefaultMinConfidence,
		assigner:      greedyAssigner{},
		logger:        logger,
	}
}

// Detect maps headers (and, for headers the name pass cannot place, sample
// column content) onto canonical fields.
//
// PARAMETERS:
//   - headers: Column headers in file order.
//   - samples: Sample records for the pattern pass; may be nil, in which
//     case only header-name matching runs.
//
// RETURNS:
//   - A Result with mappings sorted by confidence descending, the columns
//     left unmapped, the mean confidence, and any warnings.
func (d *Detector) Detect(headers []string, samples []catalog.Record) *Result {
	// Pass 1: exact and fuzzy matching on header names.
	mappings := d.assigner.Assign(headers, d.matchHeader)

	claimed := make(map[Field]bool, len(mappings))
	mappedColumns := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		claimed[m.Field] = true
		mappedColumns[m.Column] = true
	}

	// Pass 2: content-pattern matching for whatever pass 1 left unmapped.
	if len(samples) > 0 {
		for _, header := range headers {
			if mappedColumns[header] {
				continue
			}
			if m, ok := d.matchPattern(header, samples, claimed); ok {
				mappings = append(mappings, m)
				claimed[m.Field] = true
				mappedColumns[header] = true
			}
		}
	}

	// Assemble the result.
	result := &Result{Mappings: mappings}

	if len(mappings) > 0 {
		total := 0.0
		for _, m := range mappings {
			total += m.Confidence
		}
		result.Confidence = total / float64(len(mappings))
	}

	for _, header := range headers {
		if !mappedColumns[header] {
			result.Unmapped = append(result.Unmapped, header)
		}
	}

	var missing []string
	for _, field := range CriticalFields {
		if !claimed[field] {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("missing critical fields: %s", strings.Join(missing, ", ")))
	}
	if len(result.Unmapped)*2 > len(headers) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d columns could not be mapped", len(result.Unmapped)))
	}

	// Highest confidence first; sort stability keeps detection order
	// among equal confidences.
	sort.SliceStable(result.Mappings, func(i, j int) bool {
		return result.Mappings[i].Confidence > result.Mappings[j].Confidence
	})

	d.logger.Info("detected column mappings",
		zap.Int("mapped", len(result.Mappings)),
		zap.Int("unmapped", len(result.Unmapped)),
		zap.Float64("confidence", result.Confidence))

	return result
}

// matchHeader evaluates one header against all unclaimed fields using
// exact then fuzzy matching.
func (d *Detector) matchHeader(header string, claimed map[Field]bool) (Mapping, bool) {
	lower := strings.ToLower(strings.TrimSpace(header))

	bestScore := 0.0
	var bestField Field

	for _, spec := range fieldSpecs {
		if claimed[spec.field] {
			continue
		}

		// Exact keyword equality short-circuits everything else.
		for _, keyword := range spec.keywords {
			if lower == keyword {
				return Mapping{
					Column:     header,
					Field:      spec.field,
					Confidence: 1.0,
					Method:     MethodExact,
				}, true
			}
		}

		// Fuzzy: best similarity across keywords, weighted by priority.
		for _, keyword := range spec.keywords {
			score := similarity(lower, keyword) * (1 + float64(spec.priority)*0.05)
			if score > bestScore {
				bestScore = score
				bestField = spec.field
			}
		}
	}

	if bestScore >= d.MinConfidence {
		confidence := bestScore
		if confidence > 1.0 {
			confidence = 1.0
		}
		return Mapping{
			Column:     header,
			Field:      bestField,
			Confidence: confidence,
			Method:     MethodFuzzy,
		}, true
	}
	return Mapping{}, false
}

// matchPattern inspects a column's sample values against the structural
// patterns of unclaimed fields. Fields are evaluated in table order; the
// first one whose match fraction clears the threshold claims the column.
func (d *Detector) matchPattern(header string, samples []catalog.Record, claimed map[Field]bool) (Mapping, bool) {
	var values []string
	for _, rec := range samples {
		if len(values) == patternSampleLimit {
			break
		}
		if v := strings.TrimSpace(rec[header]); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Mapping{}, false
	}

	for _, spec := range fieldSpecs {
		if claimed[spec.field] || spec.pattern == nil {
			continue
		}

		matches := 0
		for _, v := range values {
			if spec.pattern.MatchString(strings.ReplaceAll(v, " ", "")) {
				matches++
			}
		}
		ratio := float64(matches) / float64(len(values))
		if ratio >= patternMatchThreshold {
			confidence := ratio
			if confidence > patternConfidenceCap {
				confidence = patternConfidenceCap
			}
			return Mapping{
				Column:     header,
				Field:      spec.field,
				Confidence: confidence,
				Method:     MethodPattern,
			}, true
		}
	}
	return Mapping{}, false
}
