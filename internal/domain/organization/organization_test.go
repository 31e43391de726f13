package organization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time {
	return &t
}

func TestNewOrganization(t *testing.T) {
	org, err := NewOrganization("Acme SARL", "Acme-SARL ", "billing@acme.fr")
	require.NoError(t, err)
	assert.Equal(t, OrganizationStatusPending, org.Status)
	assert.Equal(t, "acme-sarl", org.Slug)

	_, err = NewOrganization("", "acme", "")
	assert.Error(t, err)

	_, err = NewOrganization("Acme", "  ", "")
	assert.Error(t, err)
}

func TestOrganization_ActivateAndSuspend(t *testing.T) {
	org, err := NewOrganization("Acme SARL", "acme", "billing@acme.fr")
	require.NoError(t, err)

	start := time.Now()
	end := start.AddDate(1, 0, 0)
	assert.Error(t, org.Activate(start, ptr(start.Add(-time.Hour))))

	require.NoError(t, org.Activate(start, &end))
	assert.Equal(t, OrganizationStatusActive, org.Status)

	require.NoError(t, org.Suspend())
	assert.Equal(t, OrganizationStatusSuspended, org.Status)
	assert.NotNil(t, org.SuspendedAt)
	assert.Error(t, org.Suspend())

	// reactivation clears the suspension
	require.NoError(t, org.Activate(start, &end))
	assert.Nil(t, org.SuspendedAt)
}

func TestOrganization_ExtendSubscription(t *testing.T) {
	org, err := NewOrganization("Acme SARL", "acme", "billing@acme.fr")
	require.NoError(t, err)
	start := time.Now()
	end := start.AddDate(0, 1, 0)
	require.NoError(t, org.Activate(start, &end))

	assert.Error(t, org.ExtendSubscription(end.Add(-time.Hour)))

	newEnd := end.AddDate(1, 0, 0)
	require.NoError(t, org.ExtendSubscription(newEnd))
	assert.True(t, org.SubscriptionEnd.Equal(newEnd))
}

func TestDeriveBadge(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   OrganizationStatus
		end      *time.Time
		wantKind BadgeKind
		wantDays int
	}{
		{"suspended wins over dates", OrganizationStatusSuspended, ptr(now.AddDate(1, 0, 0)), BadgeSuspended, 0},
		{"suspended with expired end", OrganizationStatusSuspended, ptr(now.AddDate(-1, 0, 0)), BadgeSuspended, 0},
		{"suspended unlimited", OrganizationStatusSuspended, nil, BadgeSuspended, 0},
		{"pending wins over dates", OrganizationStatusPending, ptr(now.AddDate(1, 0, 0)), BadgePending, 0},
		{"active without end is unlimited", OrganizationStatusActive, nil, BadgeUnlimited, 0},
		{"past end is expired", OrganizationStatusActive, ptr(now.Add(-time.Hour)), BadgeExpired, 0},
		{"three days left", OrganizationStatusActive, ptr(now.Add(3 * 24 * time.Hour)), BadgeExpiringSoon, 3},
		{"last day", OrganizationStatusActive, ptr(now.Add(6 * time.Hour)), BadgeExpiringSoon, 0},
		{"exactly seven days", OrganizationStatusActive, ptr(now.Add(7 * 24 * time.Hour)), BadgeExpiringSoon, 7},
		{"eight days left is plain active", OrganizationStatusActive, ptr(now.Add(8 * 24 * time.Hour)), BadgeActive, 0},
		{"far future", OrganizationStatusActive, ptr(now.AddDate(2, 0, 0)), BadgeActive, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := DeriveBadge(tt.status, tt.end, now)
			assert.Equal(t, tt.wantKind, badge.Kind)
			assert.Equal(t, tt.wantDays, badge.DaysLeft)
		})
	}
}

// The badge must be a pure function of its inputs; calling it twice with
// different clocks reflects the new clock.
func TestDeriveBadge_RecomputedPerRead(t *testing.T) {
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	early := DeriveBadge(OrganizationStatusActive, &end, end.AddDate(0, -1, 0))
	assert.Equal(t, BadgeActive, early.Kind)

	closing := DeriveBadge(OrganizationStatusActive, &end, end.Add(-48*time.Hour))
	assert.Equal(t, BadgeExpiringSoon, closing.Kind)
	assert.Equal(t, 2, closing.DaysLeft)

	after := DeriveBadge(OrganizationStatusActive, &end, end.Add(time.Hour))
	assert.Equal(t, BadgeExpired, after.Kind)
}
