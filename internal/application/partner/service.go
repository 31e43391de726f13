package partner

import (
	"context"

	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpsertClientRequest carries client contact details
type UpsertClientRequest struct {
	Name      string               `json:"name" binding:"required,max=200"`
	Email     string               `json:"email" binding:"omitempty,email"`
	Phone     string               `json:"phone"`
	Address   string               `json:"address"`
	City      string               `json:"city"`
	Country   string               `json:"country"`
	VATNumber string               `json:"vat_number"`
	Currency  valueobject.Currency `json:"currency"`
}

// UpsertSupplierRequest carries supplier contact details
type UpsertSupplierRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	VATNumber    string `json:"vat_number"`
	PaymentTerms string `json:"payment_terms"`
}

// PartnerService manages clients and suppliers
type PartnerService struct {
	clientRepo   partner.ClientRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(clientRepo partner.ClientRepository, supplierRepo partner.SupplierRepository, logger *zap.Logger) *PartnerService {
	return &PartnerService{clientRepo: clientRepo, supplierRepo: supplierRepo, logger: logger}
}

// CreateClient registers a new client
func (s *PartnerService) CreateClient(ctx context.Context, organizationID uuid.UUID, req UpsertClientRequest) (*partner.Client, error) {
	c, err := partner.NewClient(organizationID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Email, req.Phone, req.Address, req.City, req.Country, req.VATNumber); err != nil {
		return nil, err
	}
	if req.Currency != "" {
		if err := c.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("client created",
		zap.String("organization_id", organizationID.String()),
		zap.String("client_id", c.ID.String()))
	return c, nil
}

// UpdateClient replaces the client's contact details
func (s *PartnerService) UpdateClient(ctx context.Context, organizationID, clientID uuid.UUID, req UpsertClientRequest) (*partner.Client, error) {
	c, err := s.clientRepo.FindByIDForOrganization(ctx, organizationID, clientID)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Email, req.Phone, req.Address, req.City, req.Country, req.VATNumber); err != nil {
		return nil, err
	}
	if req.Currency != "" {
		if err := c.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient fetches one client within the organization boundary
func (s *PartnerService) GetClient(ctx context.Context, organizationID, clientID uuid.UUID) (*partner.Client, error) {
	return s.clientRepo.FindByIDForOrganization(ctx, organizationID, clientID)
}

// ListClients returns the organization's non-archived clients
func (s *PartnerService) ListClients(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	return s.clientRepo.FindActive(ctx, organizationID, filter)
}

// ArchiveClient hides the client from pickers
func (s *PartnerService) ArchiveClient(ctx context.Context, organizationID, clientID uuid.UUID) error {
	c, err := s.clientRepo.FindByIDForOrganization(ctx, organizationID, clientID)
	if err != nil {
		return err
	}
	c.Archive()
	return s.clientRepo.Save(ctx, c)
}

// CreateSupplier registers a new supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, organizationID uuid.UUID, req UpsertSupplierRequest) (*partner.Supplier, error) {
	sup, err := partner.NewSupplier(organizationID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := sup.Update(req.Name, req.Email, req.Phone, req.Address, req.City, req.Country, req.VATNumber, req.PaymentTerms); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created",
		zap.String("organization_id", organizationID.String()),
		zap.String("supplier_id", sup.ID.String()))
	return sup, nil
}

// UpdateSupplier replaces the supplier's contact details
func (s *PartnerService) UpdateSupplier(ctx context.Context, organizationID, supplierID uuid.UUID, req UpsertSupplierRequest) (*partner.Supplier, error) {
	sup, err := s.supplierRepo.FindByIDForOrganization(ctx, organizationID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := sup.Update(req.Name, req.Email, req.Phone, req.Address, req.City, req.Country, req.VATNumber, req.PaymentTerms); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// GetSupplier fetches one supplier within the organization boundary
func (s *PartnerService) GetSupplier(ctx context.Context, organizationID, supplierID uuid.UUID) (*partner.Supplier, error) {
	return s.supplierRepo.FindByIDForOrganization(ctx, organizationID, supplierID)
}

// ListSuppliers returns the organization's non-archived suppliers
func (s *PartnerService) ListSuppliers(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	return s.supplierRepo.FindActive(ctx, organizationID, filter)
}

// ArchiveSupplier hides the supplier from pickers
func (s *PartnerService) ArchiveSupplier(ctx context.Context, organizationID, supplierID uuid.UUID) error {
	sup, err := s.supplierRepo.FindByIDForOrganization(ctx, organizationID, supplierID)
	if err != nil {
		return err
	}
	sup.Archive()
	return s.supplierRepo.Save(ctx, sup)
}
