package organization

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/organization"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterOrganizationRequest carries a new tenant signup
type RegisterOrganizationRequest struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// OrganizationDTO is the outward representation of a tenant, including
// the badge derived at read time
type OrganizationDTO struct {
	ID                uuid.UUID                      `json:"id"`
	Name              string                         `json:"name"`
	Slug              string                         `json:"slug"`
	Status            organization.OrganizationStatus `json:"status"`
	Email             string                         `json:"email,omitempty"`
	SubscriptionStart *time.Time                     `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time                     `json:"subscription_end,omitempty"`
	Badge             organization.SubscriptionBadge `json:"badge"`
}

func toDTO(org *organization.Organization, now time.Time) OrganizationDTO {
	return OrganizationDTO{
		ID:                org.ID,
		Name:              org.Name,
		Slug:              org.Slug,
		Status:            org.Status,
		Email:             org.Email,
		SubscriptionStart: org.SubscriptionStart,
		SubscriptionEnd:   org.SubscriptionEnd,
		Badge:             org.Badge(now),
	}
}

// OrganizationService manages tenant accounts
type OrganizationService struct {
	orgRepo organization.OrganizationRepository
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo organization.OrganizationRepository, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, logger: logger}
}

// Register creates a new pending organization
func (s *OrganizationService) Register(ctx context.Context, req RegisterOrganizationRequest) (*OrganizationDTO, error) {
	taken, err := s.orgRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists
	}

	org, err := organization.NewOrganization(req.Name, req.Slug, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("organization registered",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug))
	dto := toDTO(org, time.Now())
	return &dto, nil
}

// Get returns the organization with its badge recomputed against the
// current clock. The badge is never read from storage.
func (s *OrganizationService) Get(ctx context.Context, organizationID uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(org, time.Now())
	return &dto, nil
}

// List returns a page of organizations, badges derived per row
func (s *OrganizationService) List(ctx context.Context, filter shared.Filter) ([]OrganizationDTO, error) {
	orgs, err := s.orgRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	dtos := make([]OrganizationDTO, 0, len(orgs))
	for idx := range orgs {
		dtos = append(dtos, toDTO(&orgs[idx], now))
	}
	return dtos, nil
}

// Activate opens the account with an optional subscription window
func (s *OrganizationService) Activate(ctx context.Context, organizationID uuid.UUID, start time.Time, end *time.Time) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := org.Activate(start, end); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	dto := toDTO(org, time.Now())
	return &dto, nil
}

// Suspend blocks the account
func (s *OrganizationService) Suspend(ctx context.Context, organizationID uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := org.Suspend(); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("organization suspended",
		zap.String("organization_id", org.ID.String()))
	dto := toDTO(org, time.Now())
	return &dto, nil
}

// ExtendSubscription pushes the subscription end date out
func (s *OrganizationService) ExtendSubscription(ctx context.Context, organizationID uuid.UUID, newEnd time.Time) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := org.ExtendSubscription(newEnd); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	dto := toDTO(org, time.Now())
	return &dto, nil
}
