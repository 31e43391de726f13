package identity

import (
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	organizationID := uuid.New()

	user, err := NewUser(organizationID, "Marie@Example.COM", "Marie Curie", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "marie@example.com", user.Email)
	assert.Equal(t, "Marie Curie", user.DisplayName)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Equal(t, organizationID, user.OrganizationID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong"))
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{"invalid email", "not-an-email", "s3cret-pass", "INVALID_EMAIL"},
		{"empty email", "", "s3cret-pass", "INVALID_EMAIL"},
		{"short password", "a@b.fr", "short", "INVALID_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(uuid.New(), tt.email, "", tt.password)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestUserLockout(t *testing.T) {
	user, err := NewUser(uuid.New(), "jean@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	now := time.Now()
	for i := 0; i < maxFailedAttempts-1; i++ {
		user.RecordFailedLogin(now)
		assert.Equal(t, UserStatusActive, user.Status)
	}
	user.RecordFailedLogin(now)

	assert.Equal(t, UserStatusLocked, user.Status)
	require.NotNil(t, user.LockedUntil)
	assert.False(t, user.CanLogin(now))

	// Lock expires after the window
	assert.True(t, user.CanLogin(now.Add(lockDuration+time.Minute)))

	user.RecordLogin(now.Add(lockDuration + time.Minute))
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Zero(t, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser(uuid.New(), "jean@example.com", "", "old-password")
	require.NoError(t, err)

	require.Error(t, user.ChangePassword("wrong", "new-password"))
	require.NoError(t, user.ChangePassword("old-password", "new-password"))
	assert.True(t, user.VerifyPassword("new-password"))
	assert.False(t, user.VerifyPassword("old-password"))
}

func TestUserDeactivate(t *testing.T) {
	user, err := NewUser(uuid.New(), "jean@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.CanLogin(time.Now()))
	assert.False(t, user.CanLogin(time.Now().Add(24*time.Hour)))
}
