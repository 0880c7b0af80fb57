package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
)

func newAuthTestService() (*AuthService, *memUserRepo) {
	users := newMemUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
		Seed: config.SeedConfig{
			AdminName:     "Admin Manager",
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
		},
	}
	return NewAuthService(cfg, users), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthTestService()
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Uma User", "Uma@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "uma@example.com", user.Email)
	assert.NotEmpty(t, token)

	loggedIn, token, _, err := svc.Login(ctx, "uma@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	principal, err := svc.TokenManager().VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, domain.RoleUser, principal.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthTestService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Uma User", "uma@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "uma@example.com", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))

	// Unknown accounts produce the same error as a wrong password.
	_, _, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"name too short", "U", "uma@example.com", "hunter22"},
		{"email missing at sign", "Uma User", "uma.example.com", "hunter22"},
		{"password too short", "Uma User", "uma@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Register(ctx, tc.userName, tc.email, tc.password)
			assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
		})
	}

	_, _, _, err := svc.Register(ctx, "Uma User", "uma@example.com", "hunter22")
	require.NoError(t, err)
	_, _, _, err = svc.Register(ctx, "Uma Again", "UMA@example.com", "hunter22")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreateUserRequiresManager(t *testing.T) {
	svc, users := newAuthTestService()
	ctx := context.Background()

	manager := &domain.User{Name: "Morgan Manager", Email: "morgan@example.com", PasswordHash: "x", Role: domain.RoleManager}
	require.NoError(t, users.Create(ctx, manager))
	managerPrincipal := domain.Principal{UserID: manager.ID, Email: manager.Email, Role: manager.Role}

	created, err := svc.CreateUser(ctx, managerPrincipal, "Sam Support", "sam@example.com", "hunter22", domain.RoleSupport)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupport, created.Role)

	_, err = svc.CreateUser(ctx, managerPrincipal, "Bad Role", "bad@example.com", "hunter22", "ADMIN")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	supportPrincipal := domain.Principal{UserID: created.ID, Email: created.Email, Role: created.Role}
	_, err = svc.CreateUser(ctx, supportPrincipal, "Sneaky", "sneaky@example.com", "hunter22", domain.RoleUser)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = svc.ListUsers(ctx, supportPrincipal)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	listed, err := svc.ListUsers(ctx, managerPrincipal)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestSeedDefaults(t *testing.T) {
	svc, users := newAuthTestService()
	ctx := context.Background()
	logger := zap.NewNop()

	require.NoError(t, svc.SeedDefaults(ctx, logger))

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, admin.Role)

	_, _, _, err = svc.Login(ctx, "admin@example.com", "admin123")
	assert.NoError(t, err)

	// A populated table is left untouched.
	require.NoError(t, svc.SeedDefaults(ctx, logger))
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
