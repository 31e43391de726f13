package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentRepository extends gormRepository for the billing documents that
// carry line items. Saving replaces the line set wholesale so removed lines
// do not linger, and deleting cascades to the lines.
type documentRepository[T any] struct {
	gormRepository[T]
}

func newDocumentRepository[T any](db *gorm.DB) documentRepository[T] {
	return documentRepository[T]{
		gormRepository: newGormRepository[T](db, []string{"number", "client_name"}, DocumentSortFields, "Items"),
	}
}

// ExistsByNumber reports whether a document with the number exists in the organization
func (r *documentRepository[T]) ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error) {
	return r.existsByColumn(ctx, organizationID, "number", number)
}

// saveWithItems persists the document and replaces its line items
func (r *documentRepository[T]) saveWithItems(ctx context.Context, entity *T, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&billing.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(entity).Error
	})
}

// deleteWithItems removes the document and its line items
func (r *documentRepository[T]) deleteWithItems(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&billing.LineItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(new(T), "id = ?", documentID)
		if result.Error != nil {
			return result.Error
		}
		return nil
	})
}
