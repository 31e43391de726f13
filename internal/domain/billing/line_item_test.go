package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewLineItem_Validation(t *testing.T) {
	docID := uuid.New()

	tests := []struct {
		name        string
		description string
		quantity    string
		unitPrice   string
		taxRate     string
		discount    string
		wantErr     bool
	}{
		{"valid", "Consulting", "2", "100", "20", "0", false},
		{"empty description", "", "1", "10", "0", "0", true},
		{"zero quantity", "Consulting", "0", "10", "0", "0", true},
		{"negative quantity", "Consulting", "-1", "10", "0", "0", true},
		{"negative price", "Consulting", "1", "-5", "0", "0", true},
		{"tax rate above 100", "Consulting", "1", "10", "101", "0", true},
		{"discount above 100", "Consulting", "1", "10", "0", "150", true},
		{"free line", "Goodwill gesture", "1", "0", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewLineItem(docID, tt.description, d(tt.quantity), d(tt.unitPrice), d(tt.taxRate), d(tt.discount))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, docID, item.DocumentID)
			}
		})
	}
}

func TestLineItem_TotalAndTax(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		taxRate   string
		discount  string
		wantTotal string
		wantTax   string
	}{
		{"plain", "2", "100", "0", "0", "200", "0"},
		{"with tax", "1", "1000", "10", "0", "1000", "100"},
		{"with discount", "4", "50", "0", "25", "150", "0"},
		{"discount then tax", "1", "200", "20", "50", "100", "20"},
		{"fractional quantity", "1.5", "19.99", "0", "0", "29.99", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewLineItem(uuid.New(), "Item", d(tt.quantity), d(tt.unitPrice), d(tt.taxRate), d(tt.discount))
			require.NoError(t, err)
			assert.True(t, item.Total.Equal(d(tt.wantTotal)), "total %s != %s", item.Total, tt.wantTotal)
			assert.True(t, item.TaxAmount().Equal(d(tt.wantTax)), "tax %s != %s", item.TaxAmount(), tt.wantTax)
		})
	}
}

func TestLineItem_UpdateRecalculates(t *testing.T) {
	item, err := NewLineItem(uuid.New(), "Item", d("1"), d("100"), d("0"), d("0"))
	require.NoError(t, err)
	require.True(t, item.Total.Equal(d("100")))

	require.NoError(t, item.Update("Item", d("3"), d("100"), d("20"), d("0")))
	assert.True(t, item.Total.Equal(d("300")))
	assert.True(t, item.TaxAmount().Equal(d("60")))

	assert.Error(t, item.Update("", d("1"), d("1"), d("0"), d("0")))
}
