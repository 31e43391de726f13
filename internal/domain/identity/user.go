package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus is the account state of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const (
	bcryptCost        = 12
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is a person who can sign in to an organization. Authentication
// is by email and password; the email is unique within the organization.
type User struct {
	shared.OrganizationAggregateRoot
	Email          string     `gorm:"type:varchar(255);not null;index:idx_users_org_email,unique"`
	DisplayName    string     `gorm:"type:varchar(200)"`
	PasswordHash   string     `gorm:"type:varchar(100);not null" json:"-"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(organizationID uuid.UUID, email, displayName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Email:                     email,
		DisplayName:               strings.TrimSpace(displayName),
		PasswordHash:              string(hash),
		Status:                    UserStatusActive,
	}, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// VerifyPassword reports whether the given password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after checking the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// CanLogin reports whether the account accepts logins right now
func (u *User) CanLogin(now time.Time) bool {
	switch u.Status {
	case UserStatusDeactivated:
		return false
	case UserStatusLocked:
		return u.LockedUntil != nil && now.After(*u.LockedUntil)
	}
	return true
}

// RecordFailedLogin bumps the failure counter and locks the account
// after too many attempts.
func (u *User) RecordFailedLogin(now time.Time) {
	u.FailedAttempts++
	if u.FailedAttempts >= maxFailedAttempts {
		until := now.Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
	}
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLogin resets the failure counter and stamps the login time
func (u *User) RecordLogin(now time.Time) {
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Status = UserStatusActive
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// Deactivate blocks the account permanently until reactivated
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
