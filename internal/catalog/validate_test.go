package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	headers := []string{"EAN", "Name"}

	t.Run("clean catalog", func(t *testing.T) {
		c := &Catalog{
			Headers: headers,
			Records: []Record{
				{"EAN": "4003994155486", "Name": "Widget"},
				{"EAN": "5000112637922", "Name": "Gadget"},
			},
			RowCount: 2,
		}

		report := Validate(c)
		assert.True(t, report.Valid)
		assert.Empty(t, report.Errors)
		assert.Empty(t, report.Warnings)
		assert.Equal(t, 2, report.Stats.CompleteRows)
		assert.Equal(t, 0, report.Stats.EmptyRows)
	})

	t.Run("no rows is invalid", func(t *testing.T) {
		report := Validate(&Catalog{Headers: headers})
		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "no data rows")
	})

	t.Run("no headers is invalid", func(t *testing.T) {
		report := Validate(&Catalog{
			Records:  []Record{{"": "x"}},
			RowCount: 1,
		})
		assert.False(t, report.Valid)
	})

	t.Run("many empty rows warn but stay valid", func(t *testing.T) {
		c := &Catalog{
			Headers: headers,
			Records: []Record{
				{"EAN": "4003994155486", "Name": "Widget"},
				{"EAN": "", "Name": ""},
			},
			RowCount: 2,
		}

		report := Validate(c)
		assert.True(t, report.Valid)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "empty")
		assert.Equal(t, 1, report.Stats.EmptyRows)
	})

	t.Run("partially filled rows are neither empty nor complete", func(t *testing.T) {
		c := &Catalog{
			Headers: headers,
			Records: []Record{
				{"EAN": "4003994155486", "Name": ""},
			},
			RowCount: 1,
		}

		report := Validate(c)
		assert.Equal(t, 0, report.Stats.EmptyRows)
		assert.Equal(t, 0, report.Stats.CompleteRows)
	})
}
