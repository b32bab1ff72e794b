// =============================================================================
// Catalog Scanner - Product Identifier Utilities
// =============================================================================
//
// Detection, validation, and display formatting for the product codes that
// show up in wholesaler catalogs: ASIN, GTIN-14, EAN-13/EAN-8, and UPC-A.
// Barcode family detection goes by digit count after stripping separators;
// validity uses the standard GS1 mod-10 check digit.
//
// =============================================================================

package identifier

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind labels the identifier family a code belongs to.
type Kind string

const (
	KindASIN    Kind = "ASIN"
	KindGTIN    Kind = "GTIN"
	KindEAN     Kind = "EAN"
	KindUPC     Kind = "UPC"
	KindUnknown Kind = "UNKNOWN"
)

// Detect classifies a product code and reports whether it is valid.
//
// The code is trimmed and uppercased first. An ASIN is 10 alphanumeric
// characters starting with B; barcodes are classified by digit count
// (14 -> GTIN, 13 -> EAN, 12 -> UPC, 8 -> EAN) and validated with the GS1
// check digit.
func Detect(code string) (Kind, bool) {
	if code == "" {
		return KindUnknown, false
	}

	code = strings.ToUpper(strings.TrimSpace(code))

	if looksLikeASIN(code) {
		return KindASIN, validASIN(code)
	}

	digits := digitsOnly(code)
	switch len(digits) {
	case 14:
		return KindGTIN, CheckDigitValid(digits)
	case 13:
		return KindEAN, CheckDigitValid(digits)
	case 12:
		return KindUPC, CheckDigitValid(digits)
	case 8:
		return KindEAN, CheckDigitValid(digits)
	}

	return KindUnknown, false
}

// Normalize strips dashes and whitespace and uppercases the code, the form
// all other functions in this package expect.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Format renders an identifier for display. Barcodes get the conventional
// digit grouping for their length; anything unrecognized passes through.
func Format(code string, kind Kind) string {
	switch kind {
	case KindASIN:
		return strings.ToUpper(code)
	case KindEAN, KindUPC, KindGTIN:
		switch len(code) {
		case 13:
			return fmt.Sprintf("%s %s %s %s", code[:3], code[3:7], code[7:12], code[12:])
		case 12:
			return fmt.Sprintf("%s %s %s %s", code[:1], code[1:6], code[6:11], code[11:])
		case 8:
			return fmt.Sprintf("%s %s %s", code[:4], code[4:7], code[7:])
		case 14:
			return fmt.Sprintf("%s %s %s %s", code[:2], code[2:8], code[8:13], code[13:])
		}
	}
	return code
}

// CheckDigitValid verifies the GS1 mod-10 check digit of a numeric code.
// Digits are weighted 3,1,3,1,... from the right, excluding the check
// digit itself; the check digit must bring the weighted sum to a multiple
// of ten.
func CheckDigitValid(code string) bool {
	if len(code) < 8 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}

	total := 0
	weightThree := true
	for i := len(code) - 2; i >= 0; i-- {
		digit := int(code[i] - '0')
		if weightThree {
			total += digit * 3
		} else {
			total += digit
		}
		weightThree = !weightThree
	}

	expected := (10 - total%10) % 10
	return expected == int(code[len(code)-1]-'0')
}

// Detection bundles everything a caller needs to act on a raw code.
type Detection struct {
	Original   string `json:"original_code"`
	Normalized string `json:"normalized_code"`
	Kind       Kind   `json:"identifier_type"`
	Valid      bool   `json:"is_valid"`
	Formatted  string `json:"formatted_code"`
	Lookupable bool   `json:"can_use_for_lookup"`
}

// Inspect normalizes, classifies, and formats a raw product code in one
// call.
func Inspect(code string) Detection {
	normalized := Normalize(code)
	kind, valid := Detect(normalized)
	return Detection{
		Original:   code,
		Normalized: normalized,
		Kind:       kind,
		Valid:      valid,
		Formatted:  Format(normalized, kind),
		Lookupable: valid && kind != KindUnknown,
	}
}

func looksLikeASIN(code string) bool {
	if len(code) != 10 || code[0] != 'B' {
		return false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func validASIN(code string) bool {
	if !looksLikeASIN(code) {
		return false
	}
	hasDigit, hasLetter := false, false
	for _, r := range code[1:] {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	return hasDigit && hasLetter
}

func digitsOnly(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
