package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "templates.json"), nil)
}

var acmeMappings = map[string]string{
	"EAN":          "gtin",
	"Item Name":    "product_name",
	"Net Price":    "wholesale_price",
	"Manufacturer": "brand",
}

func TestStoreSaveAndGet(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := tempStore(t)

		ok := s.Save("acme", acmeMappings, "EUR", true, map[string]any{"source_file": "acme.csv"})
		require.True(t, ok)

		tpl, found := s.Get("acme")
		require.True(t, found)
		assert.Equal(t, acmeMappings, tpl.ColumnMappings)
		assert.Equal(t, "EUR", tpl.Currency)
		assert.True(t, tpl.VATIncluded)
		assert.Equal(t, "acme.csv", tpl.Metadata["source_file"])
	})

	t.Run("get bumps usage counters", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, nil))

		first, _ := s.Get("acme")
		second, _ := s.Get("acme")
		assert.Equal(t, first.UseCount+1, second.UseCount)
		assert.False(t, second.LastUsedDate.Before(first.LastUsedDate))
	})

	t.Run("re-save replaces mappings and merges metadata", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, map[string]any{"a": "1"}))

		newMappings := map[string]string{"Barcode": "gtin"}
		require.True(t, s.Save("acme", newMappings, "USD", true, map[string]any{"b": "2"}))

		tpl, found := s.Get("acme")
		require.True(t, found)
		assert.Equal(t, newMappings, tpl.ColumnMappings)
		assert.Equal(t, "USD", tpl.Currency)
		assert.Equal(t, "1", tpl.Metadata["a"])
		assert.Equal(t, "2", tpl.Metadata["b"])

		// still a single template
		assert.Len(t, s.List(), 1)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		s := tempStore(t)
		assert.False(t, s.Save("   ", acmeMappings, "", false, nil))
	})

	t.Run("empty mappings are rejected", func(t *testing.T) {
		s := tempStore(t)
		assert.False(t, s.Save("acme", nil, "", false, nil))
	})

	t.Run("unknown name", func(t *testing.T) {
		s := tempStore(t)
		_, found := s.Get("nope")
		assert.False(t, found)
	})

	t.Run("returned template is a copy", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, nil))

		tpl, _ := s.Get("acme")
		tpl.ColumnMappings["EAN"] = "tampered"

		fresh, _ := s.Get("acme")
		assert.Equal(t, "gtin", fresh.ColumnMappings["EAN"])
	})
}

func TestStorePersistence(t *testing.T) {
	t.Run("survives a reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.json")

		s := NewStore(path, nil)
		require.True(t, s.Save("acme", acmeMappings, "EUR", true, nil))

		reloaded := NewStore(path, nil)
		tpl, found := reloaded.Get("acme")
		require.True(t, found)
		assert.Equal(t, acmeMappings, tpl.ColumnMappings)
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		s := NewStore(path, nil)
		assert.Empty(t, s.List())

		// and the store is usable again
		assert.True(t, s.Save("acme", acmeMappings, "", false, nil))
	})

	t.Run("missing file starts empty", func(t *testing.T) {
		assert.Empty(t, tempStore(t).List())
	})
}

func TestStoreDelete(t *testing.T) {
	s := tempStore(t)
	require.True(t, s.Save("acme", acmeMappings, "", false, nil))

	assert.True(t, s.Delete("acme"))
	assert.False(t, s.Delete("acme"))
	_, found := s.Get("acme")
	assert.False(t, found)
}

func TestFindMatching(t *testing.T) {
	headers := []string{"EAN", "Item Name", "Net Price", "Manufacturer"}

	t.Run("column overlap alone suffices", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, nil))

		name, ok := s.FindMatching(headers, "unrelated.csv")
		require.True(t, ok)
		assert.Equal(t, "acme", name)
	})

	t.Run("filename bonus pushes a partial overlap over the line", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, nil))

		// one of four template columns present: 0.7*0.25 = 0.175, +0.3 name bonus
		partial := []string{"EAN", "Totally", "Different", "Columns"}
		_, ok := s.FindMatching(partial, "acme_january.csv")
		assert.False(t, ok) // 0.475 still under threshold

		half := []string{"EAN", "Item Name", "Different", "Columns"}
		name, ok := s.FindMatching(half, "acme_january.csv")
		require.True(t, ok) // 0.3 + 0.7*0.5 = 0.65
		assert.Equal(t, "acme", name)
	})

	t.Run("no match below threshold", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("acme", acmeMappings, "EUR", false, nil))

		_, ok := s.FindMatching([]string{"a", "b"}, "other.csv")
		assert.False(t, ok)
	})

	t.Run("earlier insertion wins a tie", func(t *testing.T) {
		s := tempStore(t)
		require.True(t, s.Save("first", acmeMappings, "", false, nil))
		require.True(t, s.Save("second", acmeMappings, "", false, nil))

		name, ok := s.FindMatching(headers, "unrelated.csv")
		require.True(t, ok)
		assert.Equal(t, "first", name)
	})

	t.Run("empty store", func(t *testing.T) {
		_, ok := tempStore(t).FindMatching(headers, "acme.csv")
		assert.False(t, ok)
	})
}

func TestSuggest(t *testing.T) {
	s := tempStore(t)
	require.True(t, s.Save("acme", acmeMappings, "", false, nil))
	require.True(t, s.Save("other", map[string]string{"Foo": "gtin"}, "", false, nil))

	matches := s.Suggest([]string{"EAN", "Item Name", "Net Price", "Manufacturer"}, 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "acme", matches[0].Name)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)

	for _, m := range matches {
		assert.NotEqual(t, "other", m.Name)
	}

	t.Run("topN caps the list", func(t *testing.T) {
		assert.LessOrEqual(t, len(s.Suggest([]string{"EAN", "Item Name"}, 1)), 1)
	})
}

func TestExportImport(t *testing.T) {
	t.Run("round trip between stores", func(t *testing.T) {
		src := tempStore(t)
		require.True(t, src.Save("acme", acmeMappings, "EUR", true, nil))

		file := filepath.Join(t.TempDir(), "acme.json")
		require.True(t, src.Export("acme", file))

		dst := tempStore(t)
		name, ok := dst.Import(file)
		require.True(t, ok)
		assert.Equal(t, "acme", name)

		tpl, found := dst.Get("acme")
		require.True(t, found)
		assert.Equal(t, acmeMappings, tpl.ColumnMappings)
		assert.Equal(t, "EUR", tpl.Currency)
	})

	t.Run("export of unknown template fails", func(t *testing.T) {
		s := tempStore(t)
		assert.False(t, s.Export("nope", filepath.Join(t.TempDir(), "x.json")))
	})

	t.Run("import without a name fails", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "anon.json")
		data, _ := json.Marshal(map[string]any{"column_mappings": map[string]string{"a": "gtin"}})
		require.NoError(t, os.WriteFile(file, data, 0o644))

		_, ok := tempStore(t).Import(file)
		assert.False(t, ok)
	})
}

func TestSignature(t *testing.T) {
	t.Run("stable across column order", func(t *testing.T) {
		a := Signature([]string{"EAN", "Name", "Price"})
		b := Signature([]string{"Price", "EAN", "Name"})
		assert.Equal(t, a, b)
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		a := Signature([]string{"EAN", "Name"})
		b := Signature([]string{" ean ", "NAME"})
		assert.Equal(t, a, b)
	})

	t.Run("sixteen hex characters", func(t *testing.T) {
		sig := Signature([]string{"EAN"})
		assert.Len(t, sig, 16)
		assert.Regexp(t, "^[0-9a-f]+$", sig)
	})

	t.Run("different header sets differ", func(t *testing.T) {
		assert.NotEqual(t,
			Signature([]string{"EAN", "Name"}),
			Signature([]string{"EAN", "Price"}))
	})
}
