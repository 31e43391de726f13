package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNextNumberConcurrency verifies that the row lock in NextNumber keeps
// concurrent allocations from ever producing a duplicate document number.
func TestNextNumberConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormPolicyRepository(tdb.DB)

	orgID := uuid.New()
	tdb.CreateOrganization(orgID)

	policy, err := numbering.NewDocumentNumberingPolicy(
		orgID, numbering.DocumentTypeInvoice, "FAC-",
		numbering.FormatIncremental, numbering.ResetNever,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), policy))

	const workers = 20

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := repo.NextNumber(context.Background(), orgID, numbering.DocumentTypeInvoice)
			if err != nil {
				errs <- err
				return
			}
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)

	// The counter must now sit exactly one past the last issued value.
	stored, err := repo.FindByDocumentType(context.Background(), orgID, numbering.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(workers+1), stored.NextNumber)
}

func TestNextNumberWithoutPolicy(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormPolicyRepository(tdb.DB)

	orgID := uuid.New()
	tdb.CreateOrganization(orgID)

	_, err := repo.NextNumber(context.Background(), orgID, numbering.DocumentTypeQuote)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

// TestPolicyUniquePerDocumentType checks the database-level guarantee that an
// organization can hold at most one policy per document type.
func TestPolicyUniquePerDocumentType(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormPolicyRepository(tdb.DB)

	orgID := uuid.New()
	tdb.CreateOrganization(orgID)

	first, err := numbering.NewDocumentNumberingPolicy(
		orgID, numbering.DocumentTypeQuote, "DEVIS-",
		numbering.FormatYearly, numbering.ResetYearly,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), first))

	second, err := numbering.NewDocumentNumberingPolicy(
		orgID, numbering.DocumentTypeQuote, "Q-",
		numbering.FormatMonthly, numbering.ResetMonthly,
	)
	require.NoError(t, err)
	assert.Error(t, repo.Save(context.Background(), second))
}
