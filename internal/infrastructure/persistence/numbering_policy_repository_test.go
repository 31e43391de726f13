package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPolicyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&numbering.DocumentNumberingPolicy{}))
	return db
}

func mustPolicy(t *testing.T, organizationID uuid.UUID, docType numbering.DocumentType, prefix string, format numbering.NumberFormat, reset numbering.ResetFrequency) *numbering.DocumentNumberingPolicy {
	t.Helper()
	policy, err := numbering.NewDocumentNumberingPolicy(organizationID, docType, prefix, format, reset)
	require.NoError(t, err)
	return policy
}

func TestGormPolicyRepository_SaveAndFind(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewGormPolicyRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	policy := mustPolicy(t, organizationID, numbering.DocumentTypeInvoice, "FAC-", numbering.FormatYearly, numbering.ResetYearly)
	require.NoError(t, repo.Save(ctx, policy))

	found, err := repo.FindByDocumentType(ctx, organizationID, numbering.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "FAC-", found.Prefix)
	assert.Equal(t, numbering.FormatYearly, found.Format)
	assert.Equal(t, int64(1), found.NextNumber)

	_, err = repo.FindByDocumentType(ctx, organizationID, numbering.DocumentTypeQuote)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByDocumentType(ctx, uuid.New(), numbering.DocumentTypeInvoice)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPolicyRepository_UniquePerOrganizationAndType(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewGormPolicyRepository(db)
	ctx := context.Background()
	orgA := uuid.New()
	orgB := uuid.New()

	require.NoError(t, repo.Save(ctx, mustPolicy(t, orgA, numbering.DocumentTypeInvoice, "FAC-", numbering.FormatYearly, numbering.ResetYearly)))

	// the same document type in another organization is its own row
	require.NoError(t, repo.Save(ctx, mustPolicy(t, orgB, numbering.DocumentTypeInvoice, "INV-", numbering.FormatYearly, numbering.ResetYearly)))

	// a second invoice policy within one organization is rejected
	err := repo.Save(ctx, mustPolicy(t, orgA, numbering.DocumentTypeInvoice, "FA-", numbering.FormatIncremental, numbering.ResetNever))
	assert.Error(t, err)
}

func TestGormPolicyRepository_NextNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("issues sequential numbers", func(t *testing.T) {
		db := setupPolicyTestDB(t)
		repo := NewGormPolicyRepository(db)
		organizationID := uuid.New()

		policy := mustPolicy(t, organizationID, numbering.DocumentTypeInvoice, "FAC-", numbering.FormatYearly, numbering.ResetYearly)
		require.NoError(t, repo.Save(ctx, policy))

		year := time.Now().Format("2006")

		first, err := repo.NextNumber(ctx, organizationID, numbering.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FAC-%s-0001", year), first)

		second, err := repo.NextNumber(ctx, organizationID, numbering.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FAC-%s-0002", year), second)

		// counter state survives round-trips
		found, err := repo.FindByDocumentType(ctx, organizationID, numbering.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.NextNumber)
	})

	t.Run("resets counter when the period rolls over", func(t *testing.T) {
		db := setupPolicyTestDB(t)
		repo := NewGormPolicyRepository(db)
		organizationID := uuid.New()

		policy := mustPolicy(t, organizationID, numbering.DocumentTypeQuote, "DEVIS-", numbering.FormatYearly, numbering.ResetYearly)
		policy.NextNumber = 57
		policy.LastResetPeriod = "2001" // long-gone period
		require.NoError(t, repo.Save(ctx, policy))

		year := time.Now().Format("2006")
		number, err := repo.NextNumber(ctx, organizationID, numbering.DocumentTypeQuote)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("DEVIS-%s-0001", year), number)
	})

	t.Run("never reset keeps counting across periods", func(t *testing.T) {
		db := setupPolicyTestDB(t)
		repo := NewGormPolicyRepository(db)
		organizationID := uuid.New()

		policy := mustPolicy(t, organizationID, numbering.DocumentTypeCreditNote, "AVOIR-", numbering.FormatIncremental, numbering.ResetNever)
		policy.NextNumber = 41
		policy.LastResetPeriod = ""
		require.NoError(t, repo.Save(ctx, policy))

		number, err := repo.NextNumber(ctx, organizationID, numbering.DocumentTypeCreditNote)
		require.NoError(t, err)
		assert.Equal(t, "AVOIR-41", number)
	})

	t.Run("missing policy", func(t *testing.T) {
		db := setupPolicyTestDB(t)
		repo := NewGormPolicyRepository(db)

		_, err := repo.NextNumber(ctx, uuid.New(), numbering.DocumentTypeInvoice)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("counters are independent per organization", func(t *testing.T) {
		db := setupPolicyTestDB(t)
		repo := NewGormPolicyRepository(db)
		orgA := uuid.New()
		orgB := uuid.New()

		require.NoError(t, repo.Save(ctx, mustPolicy(t, orgA, numbering.DocumentTypeInvoice, "FAC-", numbering.FormatYearly, numbering.ResetYearly)))
		require.NoError(t, repo.Save(ctx, mustPolicy(t, orgB, numbering.DocumentTypeInvoice, "FAC-", numbering.FormatYearly, numbering.ResetYearly)))

		_, err := repo.NextNumber(ctx, orgA, numbering.DocumentTypeInvoice)
		require.NoError(t, err)
		_, err = repo.NextNumber(ctx, orgA, numbering.DocumentTypeInvoice)
		require.NoError(t, err)

		year := time.Now().Format("2006")
		number, err := repo.NextNumber(ctx, orgB, numbering.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FAC-%s-0001", year), number)
	})
}

func TestGormPolicyRepository_Delete(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewGormPolicyRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	policy := mustPolicy(t, organizationID, numbering.DocumentTypeDeliveryNote, "BL-", numbering.FormatMonthly, numbering.ResetMonthly)
	require.NoError(t, repo.Save(ctx, policy))

	// deleting in another organization must not touch the row
	err := repo.Delete(ctx, uuid.New(), policy.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, organizationID, policy.ID))

	_, err = repo.FindByDocumentType(ctx, organizationID, numbering.DocumentTypeDeliveryNote)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
