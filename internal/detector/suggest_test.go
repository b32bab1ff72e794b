package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wholescan/catalog-scanner/internal/catalog"
)

func TestSuggest(t *testing.T) {
	d := New(nil)

	t.Run("ranks plausible fields", func(t *testing.T) {
		suggestions := d.Suggest("Artikel Name", Fields())

		require.NotEmpty(t, suggestions)
		assert.Equal(t, FieldProductName, suggestions[0].Field)
	})

	t.Run("respects the candidate set", func(t *testing.T) {
		suggestions := d.Suggest("price", []Field{FieldStock, FieldWeight})
		for _, s := range suggestions {
			assert.NotEqual(t, FieldWholesalePrice, s.Field)
		}
	})

	t.Run("caps the list at five", func(t *testing.T) {
		suggestions := d.Suggest("name", Fields())
		assert.LessOrEqual(t, len(suggestions), 5)
	})

	t.Run("nothing plausible yields nothing", func(t *testing.T) {
		assert.Empty(t, d.Suggest("zzzzzzz", Fields()))
	})
}

func TestValidateMapping(t *testing.T) {
	d := New(nil)

	t.Run("clean barcode column", func(t *testing.T) {
		m := Mapping{Column: "EAN", Field: FieldGTIN}
		samples := []catalog.Record{
			{"EAN": "4003994155486"},
			{"EAN": "5000112637922"},
		}

		check := d.ValidateMapping(m, samples)
		assert.Equal(t, 2, check.NonEmptyValues)
		assert.Equal(t, 1.0, check.PatternMatchRatio)
		assert.Empty(t, check.Warnings)
	})

	t.Run("non-conforming values warn", func(t *testing.T) {
		m := Mapping{Column: "EAN", Field: FieldGTIN}
		samples := []catalog.Record{
			{"EAN": "hello"},
			{"EAN": "world"},
			{"EAN": "4003994155486"},
		}

		check := d.ValidateMapping(m, samples)
		require.NotEmpty(t, check.Warnings)
		assert.Contains(t, check.Warnings[0], "pattern")
	})

	t.Run("mostly empty column warns", func(t *testing.T) {
		m := Mapping{Column: "Notes", Field: FieldProductName}
		samples := []catalog.Record{
			{"Notes": "something"},
			{"Notes": ""},
			{"Notes": ""},
		}

		check := d.ValidateMapping(m, samples)
		assert.InDelta(t, 2.0/3.0, check.EmptyRatio, 1e-9)
		require.NotEmpty(t, check.Warnings)
		assert.Contains(t, check.Warnings[0], "empty")
	})
}
