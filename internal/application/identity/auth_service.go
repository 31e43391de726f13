package identity

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/organization"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginRequest carries credentials for a login attempt. The organization
// slug selects the tenant because emails are only unique per organization.
type LoginRequest struct {
	Organization string `json:"organization" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
}

// RegisterUserRequest creates a user inside an existing organization
type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// LoginResult is the outcome of a successful authentication
type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
}

// ErrInvalidCredentials deliberately does not distinguish between an
// unknown account and a wrong password.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// ErrAccountLocked is returned while a lockout window is open
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")

// ErrOrganizationInactive blocks logins to suspended or expired tenants
var ErrOrganizationInactive = shared.NewDomainError("ORGANIZATION_INACTIVE", "Organization is not active")

// AuthService authenticates users and manages their tokens
type AuthService struct {
	users     identity.UserRepository
	orgs      organization.OrganizationRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users identity.UserRepository,
	orgs organization.OrganizationRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		orgs:      orgs,
		jwt:       jwt,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	org, err := s.orgs.FindBySlug(ctx, req.Organization)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if org.Status != organization.OrganizationStatusActive {
		return nil, ErrOrganizationInactive
	}

	user, err := s.users.FindByEmail(ctx, org.ID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if !user.CanLogin(now) {
		return nil, ErrAccountLocked
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordFailedLogin(now)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Warn("failed to persist login failure",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin(now)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Email:          user.Email,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("organization_id", org.ID.String()),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessTokenExpiresAt,
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("token blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, auth.ErrTokenRevoked
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, err
	}

	// The refresh token stays valid until it expires; re-check that the
	// account itself is still allowed in.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if !user.CanLogin(time.Now()) {
		return nil, ErrAccountLocked
	}

	return s.jwt.RefreshTokenPair(refreshToken)
}

// Logout revokes the given tokens for their remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}

	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := s.jwt.ParseClaims(token)
		if err != nil || claims.ID == "" {
			continue
		}
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	return nil
}

// RegisterUser creates a user inside the organization
func (s *AuthService) RegisterUser(ctx context.Context, organizationID uuid.UUID, req RegisterUserRequest) (*identity.User, error) {
	if _, err := s.users.FindByEmail(ctx, organizationID, req.Email); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_EMAIL", "A user with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(organizationID, req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("organization_id", organizationID.String()),
		zap.String("user_id", user.ID.String()))

	return user, nil
}
