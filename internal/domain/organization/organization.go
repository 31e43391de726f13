package organization

import (
	"strings"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
)

// OrganizationStatus is the administrative state of a tenant account
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusPending   OrganizationStatus = "pending"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

// IsValid checks if the status is a valid OrganizationStatus
func (s OrganizationStatus) IsValid() bool {
	switch s {
	case OrganizationStatusActive, OrganizationStatusPending, OrganizationStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of OrganizationStatus
func (s OrganizationStatus) String() string {
	return string(s)
}

// Organization is the tenant aggregate. Every business record in the
// system hangs off exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	Name              string             `gorm:"type:varchar(200);not null"`
	Slug              string             `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status            OrganizationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Email             string             `gorm:"type:varchar(255)"`
	Phone             string             `gorm:"type:varchar(50)"`
	Address           string             `gorm:"type:text"`
	VATNumber         string             `gorm:"type:varchar(50)"`
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	SuspendedAt       *time.Time
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new pending organization
func NewOrganization(name, slug, email string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Organization slug cannot be empty")
	}

	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Email:             email,
		Status:            OrganizationStatusPending,
	}, nil
}

// Activate opens the account, optionally bounding the subscription window.
// A nil end means an unlimited subscription.
func (o *Organization) Activate(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription end cannot precede its start")
	}

	o.Status = OrganizationStatusActive
	o.SubscriptionStart = &start
	o.SubscriptionEnd = end
	o.SuspendedAt = nil
	o.UpdatedAt = time.Now()
	return nil
}

// Suspend blocks the account until reactivated
func (o *Organization) Suspend() error {
	if o.Status == OrganizationStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Organization is already suspended")
	}

	now := time.Now()
	o.Status = OrganizationStatusSuspended
	o.SuspendedAt = &now
	o.UpdatedAt = now
	return nil
}

// ExtendSubscription pushes the subscription end date out
func (o *Organization) ExtendSubscription(newEnd time.Time) error {
	if o.SubscriptionEnd != nil && newEnd.Before(*o.SubscriptionEnd) {
		return shared.NewDomainError("INVALID_SUBSCRIPTION", "New end date cannot shorten the subscription")
	}
	o.SubscriptionEnd = &newEnd
	o.UpdatedAt = time.Now()
	return nil
}

// Badge derives the subscription badge for the organization at the given
// instant. Never store the result; it depends on wall-clock time.
func (o *Organization) Badge(now time.Time) SubscriptionBadge {
	return DeriveBadge(o.Status, o.SubscriptionEnd, now)
}

// BadgeKind classifies an organization's subscription state for display
type BadgeKind string

const (
	BadgeSuspended    BadgeKind = "suspended"
	BadgePending      BadgeKind = "pending"
	BadgeUnlimited    BadgeKind = "unlimited"
	BadgeExpired      BadgeKind = "expired"
	BadgeExpiringSoon BadgeKind = "expiring_soon"
	BadgeActive       BadgeKind = "active"
)

// expiringSoonWindow is how close to the end date the badge starts warning
const expiringSoonWindow = 7 * 24 * time.Hour

// SubscriptionBadge is the derived display state of a subscription.
// DaysLeft is only meaningful for expiring_soon.
type SubscriptionBadge struct {
	Kind     BadgeKind `json:"kind"`
	DaysLeft int       `json:"days_left,omitempty"`
}

// DeriveBadge classifies a subscription from the account status and end
// date. Administrative states win first: a suspended or pending account
// shows as such no matter what the dates say. A nil end date means the
// subscription never expires.
func DeriveBadge(status OrganizationStatus, subscriptionEnd *time.Time, now time.Time) SubscriptionBadge {
	if status == OrganizationStatusSuspended {
		return SubscriptionBadge{Kind: BadgeSuspended}
	}
	if status == OrganizationStatusPending {
		return SubscriptionBadge{Kind: BadgePending}
	}
	if subscriptionEnd == nil {
		return SubscriptionBadge{Kind: BadgeUnlimited}
	}

	remaining := subscriptionEnd.Sub(now)
	if remaining < 0 {
		return SubscriptionBadge{Kind: BadgeExpired}
	}
	if remaining <= expiringSoonWindow {
		days := int(remaining / (24 * time.Hour))
		return SubscriptionBadge{Kind: BadgeExpiringSoon, DaysLeft: days}
	}
	return SubscriptionBadge{Kind: BadgeActive}
}
