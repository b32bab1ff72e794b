package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wholescan/catalog-scanner/internal/catalog"
)

func TestDetect(t *testing.T) {
	t.Run("typical wholesaler headers", func(t *testing.T) {
		headers := []string{"EAN", "Item Name", "Manufacturer", "Wholesale Price", "Qty"}

		result := New(nil).Detect(headers, nil)

		mapped := result.Mapped()
		assert.Equal(t, "gtin", mapped["EAN"])
		assert.Equal(t, "product_name", mapped["Item Name"])
		assert.Equal(t, "brand", mapped["Manufacturer"])
		assert.Equal(t, "wholesale_price", mapped["Wholesale Price"])
		assert.Equal(t, "stock", mapped["Qty"])
		assert.Empty(t, result.Unmapped)
		assert.Empty(t, result.Warnings)
	})

	t.Run("exact keyword match has full confidence", func(t *testing.T) {
		result := New(nil).Detect([]string{"EAN"}, nil)

		require.Len(t, result.Mappings, 1)
		assert.Equal(t, MethodExact, result.Mappings[0].Method)
		assert.Equal(t, 1.0, result.Mappings[0].Confidence)
	})

	t.Run("each field is claimed at most once", func(t *testing.T) {
		headers := []string{"Price", "Unit Price", "EAN", "Barcode"}

		result := New(nil).Detect(headers, nil)

		seen := make(map[Field]int)
		for _, m := range result.Mappings {
			seen[m.Field]++
		}
		for field, count := range seen {
			assert.Equal(t, 1, count, "field %s claimed %d times", field, count)
		}
	})

	t.Run("content pattern places opaque headers", func(t *testing.T) {
		headers := []string{"XYZ", "Item Name"}
		samples := []catalog.Record{
			{"XYZ": "4003994155486", "Item Name": "Widget"},
			{"XYZ": "5000112637922", "Item Name": "Gadget"},
			{"XYZ": "4006381333931", "Item Name": "Gizmo"},
		}

		result := New(nil).Detect(headers, samples)

		mapped := result.Mapped()
		assert.Equal(t, "gtin", mapped["XYZ"])

		for _, m := range result.Mappings {
			if m.Column == "XYZ" {
				assert.Equal(t, MethodPattern, m.Method)
				assert.LessOrEqual(t, m.Confidence, 0.85)
			}
		}
	})

	t.Run("pattern pass ignores mostly non-conforming columns", func(t *testing.T) {
		headers := []string{"XYZ"}
		samples := []catalog.Record{
			{"XYZ": "hello"},
			{"XYZ": "world"},
			{"XYZ": "4003994155486"},
		}

		result := New(nil).Detect(headers, samples)
		assert.Equal(t, []string{"XYZ"}, result.Unmapped)
	})

	t.Run("missing critical fields warn", func(t *testing.T) {
		result := New(nil).Detect([]string{"Category", "Weight"}, nil)

		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], "missing critical fields")
		assert.Contains(t, result.Warnings[0], "gtin")
	})

	t.Run("mostly unmapped catalog warns", func(t *testing.T) {
		headers := []string{"EAN", "zzz1", "zzz2", "zzz3"}

		result := New(nil).Detect(headers, nil)

		found := false
		for _, w := range result.Warnings {
			if w == "3 columns could not be mapped" {
				found = true
			}
		}
		assert.True(t, found, "expected unmapped-columns warning, got %v", result.Warnings)
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		headers := []string{"EAN", "Item Name", "Wholesale Price", "Qty", "Brand"}

		result := New(nil).Detect(headers, nil)

		for _, m := range result.Mappings {
			assert.Greater(t, m.Confidence, 0.0)
			assert.LessOrEqual(t, m.Confidence, 1.0)
		}
		assert.Greater(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	})

	t.Run("mappings are sorted by confidence descending", func(t *testing.T) {
		headers := []string{"Descriptions", "EAN", "Qty"}

		result := New(nil).Detect(headers, nil)
		for i := 1; i < len(result.Mappings); i++ {
			assert.GreaterOrEqual(t,
				result.Mappings[i-1].Confidence, result.Mappings[i].Confidence)
		}
	})

	t.Run("no headers yields an empty result", func(t *testing.T) {
		result := New(nil).Detect(nil, nil)
		assert.Empty(t, result.Mappings)
		assert.Equal(t, 0.0, result.Confidence)
	})
}

func TestFieldColumn(t *testing.T) {
	result := New(nil).Detect([]string{"EAN", "Item Name"}, nil)

	assert.Equal(t, "EAN", result.FieldColumn(FieldGTIN))
	assert.Equal(t, "", result.FieldColumn(FieldStock))
}

func TestSimilarity(t *testing.T) {
	t.Run("identical strings take the containment path", func(t *testing.T) {
		assert.Equal(t, 0.9, similarity("price", "price"))
	})

	t.Run("substring scores 0.9", func(t *testing.T) {
		assert.Equal(t, 0.9, similarity("wholesale price", "wholesale"))
		assert.Equal(t, 0.9, similarity("name", "item name"))
	})

	t.Run("edit distance ratio", func(t *testing.T) {
		// one substitution over five runes
		assert.InDelta(t, 0.8, similarity("prise", "price"), 1e-9)
	})

	t.Run("multi-byte runes count once", func(t *testing.T) {
		// one substitution over four runes, not five bytes
		assert.InDelta(t, 0.75, similarity("café", "cafe"), 1e-9)
	})

	t.Run("disjoint strings score low", func(t *testing.T) {
		assert.Less(t, similarity("xyz", "price"), 0.5)
	})

	t.Run("empty strings", func(t *testing.T) {
		assert.Equal(t, 1.0, similarity("", ""))
	})
}
