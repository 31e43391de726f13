package identity

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/organization"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, organizationID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Organization, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "facturio-test",
	})
}

func activeOrganization(t *testing.T, slug string) *organization.Organization {
	t.Helper()
	org, err := organization.NewOrganization("Test SARL", slug, "contact@test.fr")
	require.NoError(t, err)
	require.NoError(t, org.Activate(time.Now().Add(-time.Hour), nil))
	return org
}

func activeUser(t *testing.T, organizationID uuid.UUID, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(organizationID, email, "Testeur", password)
	require.NoError(t, err)
	return user
}

func newTestAuthService(users identity.UserRepository, orgs organization.OrganizationRepository) *AuthService {
	return NewAuthService(users, orgs, testJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func TestLogin(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")

	orgs.On("FindBySlug", mock.Anything, "acme").Return(org, nil)
	users.On("FindByEmail", mock.Anything, org.ID, "marie@acme.fr").Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	result, err := svc.Login(context.Background(), LoginRequest{
		Organization: "acme",
		Email:        "marie@acme.fr",
		Password:     "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, user.ID, result.UserID)
	assert.NotNil(t, user.LastLoginAt)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")

	orgs.On("FindBySlug", mock.Anything, "acme").Return(org, nil)
	users.On("FindByEmail", mock.Anything, org.ID, "marie@acme.fr").Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Organization: "acme",
		Email:        "marie@acme.fr",
		Password:     "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestLoginUnknownAccountLooksLikeWrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	orgs.On("FindBySlug", mock.Anything, "acme").Return(org, nil)
	users.On("FindByEmail", mock.Anything, org.ID, "nobody@acme.fr").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Organization: "acme",
		Email:        "nobody@acme.fr",
		Password:     "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown tenant is indistinguishable too
	orgs.On("FindBySlug", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)
	_, err = svc.Login(context.Background(), LoginRequest{
		Organization: "ghost",
		Email:        "nobody@acme.fr",
		Password:     "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveOrganization(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	require.NoError(t, org.Suspend())
	orgs.On("FindBySlug", mock.Anything, "acme").Return(org, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Organization: "acme",
		Email:        "marie@acme.fr",
		Password:     "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrOrganizationInactive)
}

func TestLoginLockedAccount(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")
	for i := 0; i < 5; i++ {
		user.RecordFailedLogin(time.Now())
	}

	orgs.On("FindBySlug", mock.Anything, "acme").Return(org, nil)
	users.On("FindByEmail", mock.Anything, org.ID, "marie@acme.fr").Return(user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Organization: "acme",
		Email:        "marie@acme.fr",
		Password:     "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestRefresh(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")

	pair, err := svc.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Email:          user.Email,
	})
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// Access tokens cannot be used to refresh
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")
	user.Deactivate()

	pair, err := svc.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Email:          user.Email,
	})
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)

	org := activeOrganization(t, "acme")
	user := activeUser(t, org.ID, "marie@acme.fr", "s3cret-pass")

	pair, err := svc.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Email:          user.Email,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestRegisterUser(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)
	organizationID := uuid.New()

	users.On("FindByEmail", mock.Anything, organizationID, "new@acme.fr").Return(nil, shared.ErrNotFound)
	users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	user, err := svc.RegisterUser(context.Background(), organizationID, RegisterUserRequest{
		Email:    "new@acme.fr",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@acme.fr", user.Email)
	assert.Equal(t, organizationID, user.OrganizationID)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	svc := newTestAuthService(users, orgs)
	organizationID := uuid.New()

	existing := activeUser(t, organizationID, "taken@acme.fr", "s3cret-pass")
	users.On("FindByEmail", mock.Anything, organizationID, "taken@acme.fr").Return(existing, nil)

	_, err := svc.RegisterUser(context.Background(), organizationID, RegisterUserRequest{
		Email:    "taken@acme.fr",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
}
