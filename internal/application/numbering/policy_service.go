package numbering

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PolicyService manages numbering policies for the settings screens
type PolicyService struct {
	policyRepo numbering.PolicyRepository
	logger     *zap.Logger
}

// NewPolicyService creates a new PolicyService
func NewPolicyService(policyRepo numbering.PolicyRepository, logger *zap.Logger) *PolicyService {
	return &PolicyService{policyRepo: policyRepo, logger: logger}
}

// UpsertPolicyRequest carries the configurable part of a numbering policy
type UpsertPolicyRequest struct {
	DocumentType   numbering.DocumentType   `json:"document_type" binding:"required"`
	Prefix         string                   `json:"prefix" binding:"required,max=10"`
	Format         numbering.NumberFormat   `json:"format" binding:"required"`
	ResetFrequency numbering.ResetFrequency `json:"reset_frequency" binding:"required"`
}

// PolicyDTO is the outward representation of a numbering policy
type PolicyDTO struct {
	ID             uuid.UUID                `json:"id"`
	DocumentType   numbering.DocumentType   `json:"document_type"`
	Prefix         string                   `json:"prefix"`
	Format         numbering.NumberFormat   `json:"format"`
	NextNumber     int64                    `json:"next_number"`
	ResetFrequency numbering.ResetFrequency `json:"reset_frequency"`
	NextPreview    string                   `json:"next_preview"`
}

func toPolicyDTO(p *numbering.DocumentNumberingPolicy, now time.Time) PolicyDTO {
	return PolicyDTO{
		ID:             p.ID,
		DocumentType:   p.DocumentType,
		Prefix:         p.Prefix,
		Format:         p.Format,
		NextNumber:     p.NextNumber,
		ResetFrequency: p.ResetFrequency,
		NextPreview:    p.FormatNumber(p.NextNumber, now),
	}
}

// ListPolicies returns every configured policy for the organization
func (s *PolicyService) ListPolicies(ctx context.Context, organizationID uuid.UUID) ([]PolicyDTO, error) {
	policies, err := s.policyRepo.FindAllForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dtos := make([]PolicyDTO, 0, len(policies))
	for idx := range policies {
		dtos = append(dtos, toPolicyDTO(&policies[idx], now))
	}
	return dtos, nil
}

// GetPolicy returns the policy for one document type
func (s *PolicyService) GetPolicy(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType) (*PolicyDTO, error) {
	policy, err := s.policyRepo.FindByDocumentType(ctx, organizationID, docType)
	if err != nil {
		return nil, err
	}
	dto := toPolicyDTO(policy, time.Now())
	return &dto, nil
}

// UpsertPolicy creates or reconfigures the policy for a document type.
// The counter value is never writable from the settings screen; only the
// atomic NextNumber path may advance it.
func (s *PolicyService) UpsertPolicy(ctx context.Context, organizationID uuid.UUID, req UpsertPolicyRequest) (*PolicyDTO, error) {
	existing, err := s.policyRepo.FindByDocumentType(ctx, organizationID, req.DocumentType)
	if err == nil {
		if updateErr := existing.UpdateFormat(req.Prefix, req.Format, req.ResetFrequency); updateErr != nil {
			return nil, updateErr
		}
		if saveErr := s.policyRepo.Save(ctx, existing); saveErr != nil {
			return nil, saveErr
		}
		s.logger.Info("numbering policy updated",
			zap.String("organization_id", organizationID.String()),
			zap.String("document_type", req.DocumentType.String()))
		dto := toPolicyDTO(existing, time.Now())
		return &dto, nil
	}

	policy, err := numbering.NewDocumentNumberingPolicy(organizationID, req.DocumentType, req.Prefix, req.Format, req.ResetFrequency)
	if err != nil {
		return nil, err
	}
	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}
	s.logger.Info("numbering policy created",
		zap.String("organization_id", organizationID.String()),
		zap.String("document_type", req.DocumentType.String()))
	dto := toPolicyDTO(policy, time.Now())
	return &dto, nil
}

// DeletePolicy removes the policy; numbering for the type reverts to the
// built-in fallback format.
func (s *PolicyService) DeletePolicy(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.policyRepo.Delete(ctx, organizationID, id)
}
