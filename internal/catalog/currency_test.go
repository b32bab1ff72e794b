package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffCurrency(t *testing.T) {
	headers := []string{"EAN", "Product Name", "Wholesale Price"}

	t.Run("euro symbol", func(t *testing.T) {
		records := []Record{
			{"EAN": "4003994155486", "Product Name": "Widget", "Wholesale Price": "€12,99"},
		}
		assert.Equal(t, "EUR", SniffCurrency(records, headers))
	})

	t.Run("dollar symbol", func(t *testing.T) {
		records := []Record{
			{"Wholesale Price": "$9.99"},
		}
		assert.Equal(t, "USD", SniffCurrency(records, headers))
	})

	t.Run("currency code", func(t *testing.T) {
		records := []Record{
			{"Wholesale Price": "12.99 GBP"},
		}
		assert.Equal(t, "GBP", SniffCurrency(records, headers))
	})

	t.Run("first marker in the value wins by marker order", func(t *testing.T) {
		records := []Record{
			{"Wholesale Price": "EUR 12.99 ($14.20)"},
		}
		// the dollar symbol precedes the EUR code in marker order
		assert.Equal(t, "USD", SniffCurrency(records, headers))
	})

	t.Run("non-price columns are ignored", func(t *testing.T) {
		records := []Record{
			{"EAN": "4003994155486", "Product Name": "Widget €uro Edition", "Wholesale Price": "12.99"},
		}
		assert.Equal(t, "", SniffCurrency(records, headers))
	})

	t.Run("no price column at all", func(t *testing.T) {
		records := []Record{
			{"EAN": "4003994155486", "Name": "€12"},
		}
		assert.Equal(t, "", SniffCurrency(records, []string{"EAN", "Name"}))
	})

	t.Run("bare numbers yield nothing", func(t *testing.T) {
		records := []Record{
			{"Wholesale Price": "12.99"},
		}
		assert.Equal(t, "", SniffCurrency(records, headers))
	})
}
