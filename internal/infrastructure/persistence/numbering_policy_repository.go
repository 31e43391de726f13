package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPolicyRepository implements numbering.PolicyRepository using GORM
type GormPolicyRepository struct {
	db *gorm.DB
}

// NewGormPolicyRepository creates a new GormPolicyRepository
func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

// FindByDocumentType finds the policy for a document type within an organization
func (r *GormPolicyRepository) FindByDocumentType(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType) (*numbering.DocumentNumberingPolicy, error) {
	var policy numbering.DocumentNumberingPolicy
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND document_type = ?", organizationID, docType).
		First(&policy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// FindAllForOrganization finds all numbering policies for an organization
func (r *GormPolicyRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID) ([]numbering.DocumentNumberingPolicy, error) {
	var policies []numbering.DocumentNumberingPolicy
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("document_type ASC").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// Save persists a numbering policy
func (r *GormPolicyRepository) Save(ctx context.Context, policy *numbering.DocumentNumberingPolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// Delete removes a numbering policy within an organization
func (r *GormPolicyRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Delete(&numbering.DocumentNumberingPolicy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextNumber atomically advances the counter for the (organization, document
// type) pair and returns the formatted document number. The policy row is
// locked for the duration of the transaction so two concurrent callers can
// never be handed the same sequence value; the counter is advanced in place,
// never read-incremented-written from outside the lock.
func (r *GormPolicyRepository) NextNumber(ctx context.Context, organizationID uuid.UUID, docType numbering.DocumentType) (string, error) {
	var number string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var policy numbering.DocumentNumberingPolicy
		if err := query.
			Where("organization_id = ? AND document_type = ?", organizationID, docType).
			First(&policy).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		now := time.Now()
		seq := policy.Advance(now)
		number = policy.FormatNumber(seq, now)

		return tx.Model(&numbering.DocumentNumberingPolicy{}).
			Where("id = ?", policy.ID).
			Updates(map[string]interface{}{
				"next_number":       policy.NextNumber,
				"last_reset_period": policy.LastResetPeriod,
				"updated_at":        now,
			}).Error
	})
	if err != nil {
		return "", err
	}
	return number, nil
}
