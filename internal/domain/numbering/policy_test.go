package numbering

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentType_IsValid(t *testing.T) {
	tests := []struct {
		docType DocumentType
		isValid bool
	}{
		{DocumentTypeInvoice, true},
		{DocumentTypeQuote, true},
		{DocumentTypeDeliveryNote, true},
		{DocumentTypeCreditNote, true},
		{DocumentTypePurchaseOrder, true},
		{DocumentType("receipt"), false},
		{DocumentType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.docType.IsValid())
		})
	}
}

func TestNewDocumentNumberingPolicy(t *testing.T) {
	orgID := uuid.New()

	t.Run("valid policy", func(t *testing.T) {
		policy, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "FAC-", FormatYearly, ResetYearly)
		require.NoError(t, err)
		assert.Equal(t, orgID, policy.OrganizationID)
		assert.Equal(t, int64(1), policy.NextNumber)
		assert.Equal(t, "FAC-", policy.Prefix)
	})

	t.Run("nil organization", func(t *testing.T) {
		_, err := NewDocumentNumberingPolicy(uuid.Nil, DocumentTypeInvoice, "FAC-", FormatYearly, ResetYearly)
		assert.Error(t, err)
	})

	t.Run("invalid document type", func(t *testing.T) {
		_, err := NewDocumentNumberingPolicy(orgID, DocumentType("receipt"), "FAC-", FormatYearly, ResetYearly)
		assert.Error(t, err)
	})

	t.Run("empty prefix", func(t *testing.T) {
		_, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "", FormatYearly, ResetYearly)
		assert.Error(t, err)
	})

	t.Run("prefix too long", func(t *testing.T) {
		_, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "VERYLONGPREFIX", FormatYearly, ResetYearly)
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "FAC-", NumberFormat("weekly"), ResetYearly)
		assert.Error(t, err)
	})
}

func TestDocumentNumberingPolicy_FormatNumber(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		prefix string
		format NumberFormat
		seq    int64
		want   string
	}{
		{"yearly zero padded to 4", "FAC-", FormatYearly, 1, "FAC-2026-0001"},
		{"yearly larger sequence", "FAC-", FormatYearly, 123, "FAC-2026-0123"},
		{"yearly beyond padding", "FAC-", FormatYearly, 12345, "FAC-2026-12345"},
		{"monthly zero padded to 3", "BL-", FormatMonthly, 7, "BL-202608-007"},
		{"incremental plain counter", "DEVIS-", FormatIncremental, 42, "DEVIS-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &DocumentNumberingPolicy{Prefix: tt.prefix, Format: tt.format}
			assert.Equal(t, tt.want, policy.FormatNumber(tt.seq, now))
		})
	}
}

func TestDocumentNumberingPolicy_PeriodKey(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		reset ResetFrequency
		want  string
	}{
		{ResetNever, ""},
		{ResetYearly, "2026"},
		{ResetMonthly, "2026-03"},
	}

	for _, tt := range tests {
		t.Run(string(tt.reset), func(t *testing.T) {
			policy := &DocumentNumberingPolicy{ResetFrequency: tt.reset}
			assert.Equal(t, tt.want, policy.PeriodKey(now))
		})
	}
}

func TestDocumentNumberingPolicy_Advance(t *testing.T) {
	orgID := uuid.New()

	t.Run("monotonic within period", func(t *testing.T) {
		policy, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "FAC-", FormatYearly, ResetYearly)
		require.NoError(t, err)

		now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(1), policy.Advance(now))
		assert.Equal(t, int64(2), policy.Advance(now))
		assert.Equal(t, int64(3), policy.Advance(now))
		assert.Equal(t, int64(4), policy.NextNumber)
	})

	t.Run("yearly reset restarts at 1", func(t *testing.T) {
		policy, err := NewDocumentNumberingPolicy(orgID, DocumentTypeInvoice, "FAC-", FormatYearly, ResetYearly)
		require.NoError(t, err)

		dec := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
		jan := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)

		assert.Equal(t, int64(1), policy.Advance(dec))
		assert.Equal(t, int64(2), policy.Advance(dec))
		assert.Equal(t, int64(1), policy.Advance(jan))
		assert.Equal(t, "2026", policy.LastResetPeriod)
	})

	t.Run("monthly reset restarts at 1", func(t *testing.T) {
		policy, err := NewDocumentNumberingPolicy(orgID, DocumentTypeDeliveryNote, "BL-", FormatMonthly, ResetMonthly)
		require.NoError(t, err)

		aug := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		sep := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, int64(1), policy.Advance(aug))
		assert.Equal(t, int64(2), policy.Advance(aug))
		assert.Equal(t, int64(1), policy.Advance(sep))
	})

	t.Run("never reset keeps counting across years", func(t *testing.T) {
		policy, err := NewDocumentNumberingPolicy(orgID, DocumentTypeQuote, "DEVIS-", FormatIncremental, ResetNever)
		require.NoError(t, err)

		y1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		y2 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, int64(1), policy.Advance(y1))
		assert.Equal(t, int64(2), policy.Advance(y2))
	})
}

func TestDocumentNumberingPolicy_SeededSequence(t *testing.T) {
	// Seeded policy prefix="FAC-", format=yearly, reset=yearly, next_number=1:
	// first number is FAC-<YEAR>-0001, second is FAC-<YEAR>-0002.
	policy, err := NewDocumentNumberingPolicy(uuid.New(), DocumentTypeInvoice, "FAC-", FormatYearly, ResetYearly)
	require.NoError(t, err)

	now := time.Now()
	year := now.Year()

	first := policy.FormatNumber(policy.Advance(now), now)
	second := policy.FormatNumber(policy.Advance(now), now)

	assert.Equal(t, fmt.Sprintf("FAC-%d-0001", year), first)
	assert.Equal(t, fmt.Sprintf("FAC-%d-0002", year), second)
}
