package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdeck/salesdeck/internal/adapter/memory"
	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/service/password"
	"github.com/salesdeck/salesdeck/internal/service/token"
)

type authFixture struct {
	users     *memory.UserRepository
	orgs      *memory.OrganizationRepository
	workflows *memory.WorkflowRepository
	uc        *AuthUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := memory.NewUserRepository()
	orgs := memory.NewOrganizationRepository()
	workflows := memory.NewWorkflowRepository()
	refresh := memory.NewRefreshTokenRepository()

	tokens, err := token.NewJWTService("test-secret", time.Minute)
	require.NoError(t, err)

	uc := NewAuthUseCase(
		users, orgs, workflows, refresh,
		tokens, password.NewBcryptService(4),
		memory.NewTxManager(), testLogger(),
	)

	return &authFixture{users: users, orgs: orgs, workflows: workflows, uc: uc}
}

func TestRegister_BootstrapsTenant(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Register(ctx, RegisterInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "jane@example.com", resp.User.Email)

	org, err := f.orgs.FindByID(ctx, resp.User.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, "Jane's Organization", org.Name)

	workflows, err := f.workflows.FindAllByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "Sales Pipeline", workflows[0].Name)
	require.Len(t, workflows[0].Stages, 6)
	assert.Equal(t, "Lead", workflows[0].Stages[0].Name)
	assert.Equal(t, "Lost", workflows[0].Stages[5].Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"}
	_, err := f.uc.Register(ctx, in)
	require.NoError(t, err)

	_, err = f.uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	resp, err := f.uc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)

	_, err = f.uc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.uc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	refreshed, err := f.uc.Refresh(ctx, registered.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.Token.RefreshToken, refreshed.Token.RefreshToken)

	// The presented token was revoked by the rotation.
	_, err = f.uc.Refresh(ctx, registered.Token.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked)

	_, err = f.uc.Refresh(ctx, refreshed.Token.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.Refresh(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.uc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	f.uc.now = func() time.Time { return time.Now().Add(refreshTokenTTL + time.Hour) }

	_, err = f.uc.Refresh(ctx, registered.Token.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)
}

func TestLogout_ToleratesUnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.uc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, registered.Token.RefreshToken))
	_, err = f.uc.Refresh(ctx, registered.Token.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked)

	assert.NoError(t, f.uc.Logout(ctx, "no-such-token"))
}
