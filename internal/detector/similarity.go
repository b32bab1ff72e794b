// =============================================================================
// Catalog Scanner - String Similarity
// =============================================================================
//
// Similarity scoring used by the detector's fuzzy header matching. A
// containment check short-circuits at 0.9 (a header like "wholesale price
// eur" should match the keyword "wholesale" strongly regardless of the
// extra tokens); otherwise a normalized edit-distance ratio is used.
//
// =============================================================================

package detector

import (
	"strings"
	"unicode/utf8"
)

// similarity scores two strings in [0,1]. Both inputs are expected to be
// lowercased and trimmed by the caller.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}
	// The distance counts runes, so the normalizing length must too or
	// multi-byte headers score too high.
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
