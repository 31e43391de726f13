package numbering

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPolicyRepository is a mock implementation of numbering.PolicyRepository
type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) FindByDocumentType(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType) (*numbering.DocumentNumberingPolicy, error) {
	args := m.Called(ctx, organizationID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*numbering.DocumentNumberingPolicy), args.Error(1)
}

func (m *MockPolicyRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID) ([]numbering.DocumentNumberingPolicy, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]numbering.DocumentNumberingPolicy), args.Error(1)
}

func (m *MockPolicyRepository) Save(ctx context.Context, policy *numbering.DocumentNumberingPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockPolicyRepository) NextNumber(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType) (string, error) {
	args := m.Called(ctx, organizationID, docType)
	return args.String(0), args.Error(1)
}

func TestResolver_NilOrganizationIsSilentNoOp(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())

	got := resolver.NextDocumentNumber(context.Background(), nil, numbering.DocumentTypeInvoice)
	assert.Equal(t, "", got)

	nilID := uuid.Nil
	got = resolver.NextDocumentNumber(context.Background(), &nilID, numbering.DocumentTypeInvoice)
	assert.Equal(t, "", got)

	// no network call of any kind was made
	repo.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindByDocumentType", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_HappyPath(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())
	orgID := uuid.New()
	year := time.Now().Year()

	repo.On("NextNumber", mock.Anything, orgID, numbering.DocumentTypeInvoice).
		Return(fmt.Sprintf("FAC-%d-0001", year), nil).Once()
	repo.On("NextNumber", mock.Anything, orgID, numbering.DocumentTypeInvoice).
		Return(fmt.Sprintf("FAC-%d-0002", year), nil).Once()

	first := resolver.NextDocumentNumber(context.Background(), &orgID, numbering.DocumentTypeInvoice)
	second := resolver.NextDocumentNumber(context.Background(), &orgID, numbering.DocumentTypeInvoice)

	assert.Equal(t, fmt.Sprintf("FAC-%d-0001", year), first)
	assert.Equal(t, fmt.Sprintf("FAC-%d-0002", year), second)
	repo.AssertExpectations(t)
}

func TestResolver_RetriesOnceBeforeFallback(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())
	orgID := uuid.New()
	year := time.Now().Year()

	repo.On("NextNumber", mock.Anything, orgID, numbering.DocumentTypeQuote).
		Return("", errors.New("connection reset")).Once()
	repo.On("NextNumber", mock.Anything, orgID, numbering.DocumentTypeQuote).
		Return(fmt.Sprintf("DEVIS-%d-0042", year), nil).Once()

	got := resolver.NextDocumentNumber(context.Background(), &orgID, numbering.DocumentTypeQuote)
	assert.Equal(t, fmt.Sprintf("DEVIS-%d-0042", year), got)
	repo.AssertNumberOfCalls(t, "NextNumber", 2)
}

func TestResolver_FallbackAfterRepeatedFailure(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())
	orgID := uuid.New()
	year := time.Now().Year()

	repo.On("NextNumber", mock.Anything, orgID, numbering.DocumentTypeInvoice).
		Return("", errors.New("policy not found"))

	got := resolver.NextDocumentNumber(context.Background(), &orgID, numbering.DocumentTypeInvoice)
	assert.Equal(t, fmt.Sprintf("FAC-%d-0001", year), got)

	// the fallback is idempotent within the failure window
	again := resolver.NextDocumentNumber(context.Background(), &orgID, numbering.DocumentTypeInvoice)
	assert.Equal(t, got, again)
}

func TestResolver_FallbackPerDocumentType(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())
	orgID := uuid.New()
	year := time.Now().Year()

	repo.On("NextNumber", mock.Anything, orgID, mock.Anything).
		Return("", errors.New("backend unavailable"))

	tests := []struct {
		docType numbering.DocumentType
		want    string
	}{
		{numbering.DocumentTypeInvoice, fmt.Sprintf("FAC-%d-0001", year)},
		{numbering.DocumentTypeQuote, fmt.Sprintf("DEVIS-%d-0001", year)},
		{numbering.DocumentTypeDeliveryNote, fmt.Sprintf("BL-%d-0001", year)},
		{numbering.DocumentTypeCreditNote, fmt.Sprintf("AVOIR-%d-0001", year)},
		{numbering.DocumentTypePurchaseOrder, fmt.Sprintf("CMD-%d-0001", year)},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.NextDocumentNumber(context.Background(), &orgID, tt.docType))
		})
	}
}

func TestResolver_UnknownTypeNeverHitsCounter(t *testing.T) {
	repo := new(MockPolicyRepository)
	resolver := NewResolver(repo, zap.NewNop())
	orgID := uuid.New()
	year := time.Now().Year()

	got := resolver.NextDocumentNumber(context.Background(), &orgID, "receipt")
	assert.Equal(t, fmt.Sprintf("DOC-%d-0001", year), got)
	repo.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything, mock.Anything)
}
