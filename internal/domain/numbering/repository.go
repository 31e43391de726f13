package numbering

import (
	"context"

	"github.com/google/uuid"
)

// PolicyRepository persists numbering policies and issues sequence numbers.
//
// NextNumber is the atomic fetch-and-increment: it must serialize concurrent
// invocations for the same (organization, document type) pair so that two
// users submitting simultaneously never receive the same number. The reset
// frequency is applied inside the same transaction.
type PolicyRepository interface {
	FindByDocumentType(ctx context.Context, organizationID uuid.UUID, docType DocumentType) (*DocumentNumberingPolicy, error)
	FindAllForOrganization(ctx context.Context, organizationID uuid.UUID) ([]DocumentNumberingPolicy, error)
	Save(ctx context.Context, policy *DocumentNumberingPolicy) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error

	// NextNumber atomically advances the counter for the pair and returns
	// the formatted document number.
	NextNumber(ctx context.Context, organizationID uuid.UUID, docType DocumentType) (string, error)
}
