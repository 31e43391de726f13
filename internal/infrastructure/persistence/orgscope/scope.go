// Package orgscope provides organization-level row scoping for GORM.
//
// Every business table carries an organization_id column, and any query
// that reads, counts or mutates tenant data must be narrowed to exactly
// one organization. Scope builds that condition once so repositories
// cannot drift apart in how they spell it, and so a missing organization
// poisons the query instead of silently matching every tenant's rows.
//
// Usage:
//
//	db.Scopes(orgscope.Scope(organizationID)).Find(&invoices)
package orgscope

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOrganizationRequired is returned when a scoped query is built
// without an organization ID.
var ErrOrganizationRequired = errors.New("organization id is required for a scoped query")

// Scope restricts a query to one organization's rows. A nil UUID makes
// the query fail rather than widen to all organizations.
func Scope(organizationID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if organizationID == uuid.Nil {
			_ = db.AddError(ErrOrganizationRequired)
			return db
		}
		return db.Where("organization_id = ?", organizationID)
	}
}
