package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/service"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

func newAuthService(t *testing.T) (*service.AuthService, *tenantdb.Manager) {
	t.Helper()

	m, err := tenantdb.New(context.Background(), tenantdb.Config{
		MasterURL: filepath.Join(t.TempDir(), "master.db"),
		Prefix:    "tenant_",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	auth := service.NewAuthService(
		repository.NewUserRepository(m.Master()),
		repository.NewOrganizationRepository(m.Master()),
		m,
		service.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	)
	return auth, m
}

func registerInput() service.RegisterInput {
	return service.RegisterInput{
		OrganizationName: "Acme Corp",
		Email:            "Ada@Example.com",
		Username:         "ada",
		Password:         "correct horse battery",
		FirstName:        "Ada",
		LastName:         "Lovelace",
	}
}

func TestRegisterCreatesAdminAndTenant(t *testing.T) {
	auth, m := newAuthService(t)
	ctx := context.Background()

	user, tokens, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Registration provisions the tenant database and mirrors the admin.
	db, err := m.Tenant(ctx, user.OrganizationID)
	require.NoError(t, err)
	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, count)
}

func TestLoginRoundTrip(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	registered, _, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	user, tokens, err := auth.Login(ctx, "ada", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	userID, err := auth.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLoginByEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ada@example.com", "correct horse battery")
	assert.NoError(t, err)
}

func TestLoginBadPassword(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = auth.Login(ctx, "nobody", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	auth, _ := newAuthService(t)

	_, tokens, err := auth.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = auth.ValidateToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth, _ := newAuthService(t)
	_, err := auth.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	user, tokens, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	fresh, err := auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	userID, err := auth.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// Access tokens are not accepted as refresh tokens.
	_, err = auth.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp", service.Slugify("Acme Corp"))
	assert.Equal(t, "acme", service.Slugify("  Acme!  "))
	assert.Equal(t, "a-b-c", service.Slugify("A/B/C"))
}
