package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/db/testdb"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repositories.NewUserRepository(testdb.New(t)), time.Hour, zap.NewNop())
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		LoginID:  "shopper01",
		Password: "password123",
		Name:     "Shopper",
		Email:    "shopper@mall.com",
		Phone:    "01012345678",
	}
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	got, err := svc.Authenticate(ctx, "shopper01", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "shopper01", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterRejectsDuplicates(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUserService_RegisterValidates(t *testing.T) {
	svc := newUserService(t)
	req := validRegistration()
	req.Phone = "12345"
	req.LoginID = "abc"

	_, err := svc.Register(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestUserService_LoginSocial(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	profile := SocialProfile{Provider: ProviderGitHub, Subject: "42", Email: "octo@example.com", Name: "Octo"}

	first, err := svc.LoginSocial(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSocial, first.Role)

	profile.Name = "Octocat"
	second, err := svc.LoginSocial(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Octocat", second.Name)

	stored, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Octocat", stored.Name)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "social accounts cannot use form login")

	_, err = svc.LoginSocial(ctx, SocialProfile{Provider: ProviderGoogle})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestUserService_RememberToken(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	token, expires, err := svc.IssueRememberToken(ctx, user.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	resolved, err := svc.ResolveRememberToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, svc.ClearRememberToken(ctx, user.ID))
	resolved, err = svc.ResolveRememberToken(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	resolved, err = svc.ResolveRememberToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestUserService_GetByIDMissing(t *testing.T) {
	_, err := newUserService(t).GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFoundUser)
}

func TestNewUserService_DefaultTTL(t *testing.T) {
	svc := NewUserService(nil, 0, zap.NewNop())
	assert.Equal(t, DefaultRememberMeTTL, svc.RememberTTL())
}

func TestUserService_ListUsers(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	result, err := svc.ListUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, 1, result.Paging.CurrentPage)
	assert.Equal(t, int64(1), result.Paging.TotalElements)
}
