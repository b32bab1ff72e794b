package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreHeaderRow(t *testing.T) {
	t.Run("keyword cells score high", func(t *testing.T) {
		// each cell collects the keyword bonus and the non-numeric point
		score := ScoreHeaderRow([]string{"EAN", "Product Name", "Price"})
		assert.Equal(t, 9, score)
	})

	t.Run("numeric cells are penalized", func(t *testing.T) {
		score := ScoreHeaderRow([]string{"4003994155486", "12.99", "250"})
		assert.Equal(t, -3, score)
	})

	t.Run("plain text without keywords scores one per cell", func(t *testing.T) {
		score := ScoreHeaderRow([]string{"foo", "bar"})
		assert.Equal(t, 2, score)
	})

	t.Run("empty cells score nothing", func(t *testing.T) {
		assert.Equal(t, 0, ScoreHeaderRow([]string{"", "", ""}))
	})

	t.Run("mixed row", func(t *testing.T) {
		// keyword + numeric + plain text
		score := ScoreHeaderRow([]string{"SKU", "123", "Notes"})
		assert.Equal(t, 3, score)
	})
}

func TestLocateHeader(t *testing.T) {
	t.Run("skips preamble junk", func(t *testing.T) {
		grid := [][]string{
			{"Acme Wholesale GmbH"},
			{"Generated: 2024-01-15"},
			{"EAN", "Product Name", "Price", "Stock"},
			{"4003994155486", "Widget", "12.99", "250"},
		}

		index, headers, err := LocateHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 2, index)
		assert.Equal(t, []string{"EAN", "Product Name", "Price", "Stock"}, headers)
	})

	t.Run("skips blank rows", func(t *testing.T) {
		grid := [][]string{
			{"", "", ""},
			{"EAN", "Name", "Price"},
			{"123", "Widget", "9.99"},
		}

		index, _, err := LocateHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 1, index)
	})

	t.Run("first best row wins on ties", func(t *testing.T) {
		grid := [][]string{
			{"EAN", "Name", "Price"},
			{"EAN", "Name", "Price"},
		}

		index, _, err := LocateHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 0, index)
	})

	t.Run("headers are trimmed", func(t *testing.T) {
		grid := [][]string{
			{"  EAN ", " Product Name  "},
			{"123", "Widget"},
		}

		_, headers, err := LocateHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, []string{"EAN", "Product Name"}, headers)
	})

	t.Run("all numeric grid has no header", func(t *testing.T) {
		grid := [][]string{
			{"1", "2", "3"},
			{"4", "5", "6"},
		}

		_, _, err := LocateHeader(grid)
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("header beyond the search window is not found", func(t *testing.T) {
		var grid [][]string
		for i := 0; i < headerSearchLimit; i++ {
			grid = append(grid, []string{"1", "2", "3"})
		}
		grid = append(grid, []string{"EAN", "Name", "Price"})

		_, _, err := LocateHeader(grid)
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("empty grid", func(t *testing.T) {
		_, _, err := LocateHeader(nil)
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})
}
