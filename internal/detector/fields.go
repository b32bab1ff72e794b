// =============================================================================
// Catalog Scanner - Canonical Field Definitions
// =============================================================================
//
// The fixed vocabulary of standard fields a catalog column can map onto,
// together with the matching hints used by the detector:
//   - keywords : alternative header names seen in the wild
//   - pattern  : optional structural pattern for content-based detection
//   - priority : 1-10 weight used only to break fuzzy-match ties
//
// The table order matters for content-pattern matching: the first field
// whose pattern clears the match threshold claims the column.
//
// =============================================================================

package detector

import "regexp"

// Field names a canonical catalog field.
type Field string

// Canonical fields.
const (
	FieldGTIN           Field = "gtin"
	FieldASIN           Field = "asin"
	FieldSKU            Field = "sku"
	FieldProductName    Field = "product_name"
	FieldBrand          Field = "brand"
	FieldCategory       Field = "category"
	FieldWholesalePrice Field = "wholesale_price"
	FieldRetailPrice    Field = "retail_price"
	FieldStock          Field = "stock"
	FieldMOQ            Field = "moq"
	FieldWeight         Field = "weight"
	FieldDimensions     Field = "dimensions"
)

// CriticalFields are the fields a usable catalog mapping must cover; a
// detection result missing any of them carries a warning.
var CriticalFields = []Field{FieldGTIN, FieldWholesalePrice, FieldProductName}

// fieldSpec describes how one canonical field is recognized.
type fieldSpec struct {
	field    Field
	keywords []string
	// pattern matches sample values at the start of the string (prefix
	// semantics); nil when the field has no structural shape.
	pattern  *regexp.Regexp
	priority int
}

// prefix compiles a pattern with prefix-match semantics.
func prefix(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)`)
}

// fieldSpecs is the canonical field table, in declaration order.
var fieldSpecs = []fieldSpec{
	{
		field:    FieldGTIN,
		keywords: []string{"gtin", "ean", "upc", "barcode", "ean13", "ean-13", "product code", "article number"},
		pattern:  prefix(`\d{8,14}$`),
		priority: 10,
	},
	{
		field:    FieldASIN,
		keywords: []string{"asin", "amazon", "amazon id"},
		pattern:  prefix(`B[0-9A-Z]{9}$`),
		priority: 9,
	},
	{
		field:    FieldSKU,
		keywords: []string{"sku", "product id", "item id", "article id", "reference", "ref"},
		pattern:  prefix(`[A-Z0-9\-]+$`),
		priority: 8,
	},
	{
		field:    FieldProductName,
		keywords: []string{"name", "title", "product name", "product title", "description", "item name"},
		priority: 7,
	},
	{
		field:    FieldBrand,
		keywords: []string{"brand", "manufacturer", "make", "supplier"},
		priority: 6,
	},
	{
		field:    FieldCategory,
		keywords: []string{"category", "type", "department", "class", "group"},
		priority: 5,
	},
	{
		field:    FieldWholesalePrice,
		keywords: []string{"price", "wholesale", "cost", "unit price", "buy price", "purchase price", "net price"},
		pattern:  prefix(`[\d.,]+`),
		priority: 9,
	},
	{
		field:    FieldRetailPrice,
		keywords: []string{"retail", "rrp", "msrp", "recommended", "sell price", "list price"},
		pattern:  prefix(`[\d.,]+`),
		priority: 4,
	},
	{
		field:    FieldStock,
		keywords: []string{"stock", "quantity", "qty", "available", "inventory", "in stock", "units"},
		pattern:  prefix(`\d+$`),
		priority: 6,
	},
	{
		field:    FieldMOQ,
		keywords: []string{"moq", "minimum", "min order", "minimum quantity", "min qty"},
		pattern:  prefix(`\d+$`),
		priority: 3,
	},
	{
		field:    FieldWeight,
		keywords: []string{"weight", "kg", "grams", "mass"},
		pattern:  prefix(`[\d.,]+`),
		priority: 2,
	},
	{
		field:    FieldDimensions,
		keywords: []string{"size", "dimensions", "length", "width", "height", "dim"},
		priority: 2,
	},
}

// specFor returns the spec for a canonical field, or nil for unknown names.
func specFor(field Field) *fieldSpec {
	for i := range fieldSpecs {
		if fieldSpecs[i].field == field {
			return &fieldSpecs[i]
		}
	}
	return nil
}

// Fields returns the canonical field names in table order.
func Fields() []Field {
	out := make([]Field, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		out[i] = spec.field
	}
	return out
}
