package numbering

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackNumber(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		docType DocumentType
		want    string
	}{
		{DocumentTypeInvoice, "FAC-2026-0001"},
		{DocumentTypeQuote, "DEVIS-2026-0001"},
		{DocumentTypeDeliveryNote, "BL-2026-0001"},
		{DocumentTypeCreditNote, "AVOIR-2026-0001"},
		{DocumentTypePurchaseOrder, "CMD-2026-0001"},
		{DocumentType("unknown"), "DOC-2026-0001"},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackNumber(tt.docType, now))
		})
	}
}

func TestFallbackNumber_IdempotentWithinYear(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, FallbackNumber(DocumentTypeInvoice, jan), FallbackNumber(DocumentTypeInvoice, dec))
}

func TestFallbackNumber_YearQualified(t *testing.T) {
	for year := 2024; year <= 2027; year++ {
		now := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, fmt.Sprintf("FAC-%d-0001", year), FallbackNumber(DocumentTypeInvoice, now))
	}
}
