package tax

import (
	"context"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateTaxRequest carries a new custom tax definition
type CreateTaxRequest struct {
	Name                string                   `json:"name" binding:"required"`
	Type                tax.TaxType              `json:"type" binding:"required"`
	Value               decimal.Decimal          `json:"value" binding:"required"`
	ApplicableDocuments []numbering.DocumentType `json:"applicable_documents" binding:"required"`
}

// TaxService manages custom taxes and computes them for documents
type TaxService struct {
	taxRepo tax.TaxRepository
	logger  *zap.Logger
}

// NewTaxService creates a new TaxService
func NewTaxService(taxRepo tax.TaxRepository, logger *zap.Logger) *TaxService {
	return &TaxService{taxRepo: taxRepo, logger: logger}
}

// CreateTax registers a new custom tax for the organization
func (s *TaxService) CreateTax(ctx context.Context, organizationID uuid.UUID, req CreateTaxRequest) (*tax.Tax, error) {
	t, err := tax.NewTax(organizationID, req.Name, req.Type, req.Value, req.ApplicableDocuments)
	if err != nil {
		return nil, err
	}
	if err := s.taxRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("custom tax created",
		zap.String("organization_id", organizationID.String()),
		zap.String("name", t.Name))
	return t, nil
}

// ListTaxes returns every custom tax of the organization
func (s *TaxService) ListTaxes(ctx context.Context, organizationID uuid.UUID) ([]tax.Tax, error) {
	return s.taxRepo.FindAllForOrganization(ctx, organizationID, shared.DefaultFilter())
}

// SetActive toggles whether the tax is charged on new documents
func (s *TaxService) SetActive(ctx context.Context, organizationID, taxID uuid.UUID, active bool) (*tax.Tax, error) {
	t, err := s.taxRepo.FindByIDForOrganization(ctx, organizationID, taxID)
	if err != nil {
		return nil, err
	}
	if active {
		t.Activate()
	} else {
		t.Deactivate()
	}
	if err := s.taxRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTax removes a custom tax definition
func (s *TaxService) DeleteTax(ctx context.Context, organizationID, taxID uuid.UUID) error {
	if _, err := s.taxRepo.FindByIDForOrganization(ctx, organizationID, taxID); err != nil {
		return err
	}
	return s.taxRepo.Delete(ctx, taxID)
}

// ComputeForDocument applies the organization's applicable taxes to a
// document subtotal
func (s *TaxService) ComputeForDocument(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType, base decimal.Decimal) (tax.Computation, error) {
	taxes, err := s.taxRepo.FindApplicable(ctx, organizationID)
	if err != nil {
		return tax.Computation{}, err
	}
	return tax.Compute(base, docType, taxes), nil
}
