package numbering

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver produces the next human-readable document number for an
// organization and document type. The happy path delegates to the
// repository's atomic counter; failures degrade to a deterministic
// fallback number instead of blocking document creation.
type Resolver struct {
	policyRepo numbering.PolicyRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewResolver creates a new Resolver
func NewResolver(policyRepo numbering.PolicyRepository, logger *zap.Logger) *Resolver {
	return &Resolver{
		policyRepo: policyRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// NextDocumentNumber returns the next formatted number for the document
// type.
//
// Without an organization context this is a deliberate no-op: it returns
// an empty string immediately and never touches the repository. On a
// counter failure the primary path is retried once; if that also fails
// the fallback number for the current year is returned, which is stable
// across repeated failures in the same year.
func (r *Resolver) NextDocumentNumber(ctx context.Context, organizationID *uuid.UUID, docType numbering.DocumentType) string {
	if organizationID == nil || *organizationID == uuid.Nil {
		return ""
	}
	if !docType.IsValid() {
		r.logger.Warn("document number requested for unknown type",
			zap.String("document_type", docType.String()),
			zap.String("organization_id", organizationID.String()))
		return numbering.FallbackNumber(docType, r.now())
	}

	number, err := r.policyRepo.NextNumber(ctx, *organizationID, docType)
	if err == nil {
		return number
	}

	// transient failures (lock timeouts, connection loss) often clear
	// immediately, so the primary path gets one more chance before we
	// accept a fallback number
	number, retryErr := r.policyRepo.NextNumber(ctx, *organizationID, docType)
	if retryErr == nil {
		return number
	}

	fallback := numbering.FallbackNumber(docType, r.now())
	r.logger.Warn("document numbering fell back to default format",
		zap.String("organization_id", organizationID.String()),
		zap.String("document_type", docType.String()),
		zap.String("fallback_number", fallback),
		zap.NamedError("first_error", err),
		zap.NamedError("retry_error", retryErr))
	return fallback
}
