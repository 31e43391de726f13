package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billing.Invoice{}, &billing.LineItem{}))
	return db
}

func buildInvoice(t *testing.T, organizationID uuid.UUID, number string) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(organizationID, number, uuid.New(), "Dupont SARL", time.Now())
	require.NoError(t, err)
	_, err = inv.AddItem("Conseil", decimal.NewFromInt(2), decimal.NewFromInt(500), decimal.NewFromInt(20), decimal.Zero)
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	inv := buildInvoice(t, organizationID, "FAC-2026-0001")
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByIDForOrganization(ctx, organizationID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-0001", found.Number)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Conseil", found.Items[0].Description)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(1200)))
}

func TestGormInvoiceRepository_OrganizationBoundary(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	inv := buildInvoice(t, organizationID, "FAC-2026-0002")
	require.NoError(t, repo.Save(ctx, inv))

	_, err := repo.FindByIDForOrganization(ctx, uuid.New(), inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err := repo.ExistsByNumber(ctx, uuid.New(), "FAC-2026-0002")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByNumber(ctx, organizationID, "FAC-2026-0002")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormInvoiceRepository_CountStaysWithinOrganization(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	orgA := uuid.New()
	orgB := uuid.New()

	require.NoError(t, repo.Save(ctx, buildInvoice(t, orgA, "FAC-2026-0010")))
	require.NoError(t, repo.Save(ctx, buildInvoice(t, orgB, "FAC-2026-0011")))
	require.NoError(t, repo.Save(ctx, buildInvoice(t, orgB, "FAC-2026-0012")))

	filter := shared.DefaultFilter()

	invoices, err := repo.FindAllForOrganization(ctx, orgA, filter)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	// the pagination total must match the page's tenant, not the table
	total, err := repo.CountForOrganization(ctx, orgA, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, err = repo.CountForOrganization(ctx, orgB, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGormInvoiceRepository_SaveReplacesItems(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	inv := buildInvoice(t, organizationID, "FAC-2026-0003")
	item, err := inv.AddItem("Formation", decimal.NewFromInt(1), decimal.NewFromInt(300), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, inv.RemoveItem(item.ID))
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByIDForOrganization(ctx, organizationID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)

	var orphans int64
	require.NoError(t, db.Model(&billing.LineItem{}).Where("id = ?", item.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	inv := buildInvoice(t, organizationID, "FAC-2026-0004")
	require.NoError(t, repo.Save(ctx, inv))
	require.NoError(t, repo.Delete(ctx, inv.ID))

	_, err := repo.FindByIDForOrganization(ctx, organizationID, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var lines int64
	require.NoError(t, db.Model(&billing.LineItem{}).Where("document_id = ?", inv.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestGormInvoiceRepository_FindOverdue(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	organizationID := uuid.New()

	pastDue, err := billing.NewInvoice(organizationID, "FAC-2026-0005", uuid.New(), "Dupont SARL", time.Now().AddDate(0, -2, 0))
	require.NoError(t, err)
	_, err = pastDue.AddItem("Conseil", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, pastDue.SetDueDate(time.Now().AddDate(0, -1, 0)))
	require.NoError(t, pastDue.Send())
	require.NoError(t, repo.Save(ctx, pastDue))

	current := buildInvoice(t, organizationID, "FAC-2026-0006")
	require.NoError(t, current.SetDueDate(time.Now().AddDate(0, 1, 0)))
	require.NoError(t, current.Send())
	require.NoError(t, repo.Save(ctx, current))

	draft := buildInvoice(t, organizationID, "FAC-2026-0007")
	require.NoError(t, repo.Save(ctx, draft))

	overdue, err := repo.FindOverdue(ctx, organizationID)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "FAC-2026-0005", overdue[0].Number)
}
