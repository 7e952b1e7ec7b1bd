package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/internal/store/memory"
	"github.com/shopora/backend/pkg/models"
)

func newUserService() *UserService {
	return NewUserService(memory.New(), auth.NewManager("test_secret"))
}

func registerReq() models.RegisterRequest {
	return models.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
	}
}

func TestRegister(t *testing.T) {
	svc := newUserService()

	res, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, "Jane", res.User.FirstName)
	assert.False(t, res.User.CreatedAt.IsZero())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newUserService()

	req := registerReq()
	req.Email = "  Jane@Example.COM "
	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
		want   error
	}{
		{"missing first name", func(r *models.RegisterRequest) { r.FirstName = " " }, ErrMissingFields},
		{"missing email", func(r *models.RegisterRequest) { r.Email = "" }, ErrMissingFields},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"short password", func(r *models.RegisterRequest) { r.Password = "abc" }, ErrPasswordTooShort},
		{"confirm mismatch", func(r *models.RegisterRequest) { r.PasswordConfirm = "different1" }, ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newUserService()
			req := registerReq()
			tt.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	res, err := svc.Login(ctx, models.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jane@example.com", res.User.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	// Wrong password and unknown email are indistinguishable to the caller.
	_, wrongPass := svc.Login(ctx, models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	_, unknownEmail := svc.Login(ctx, models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestGetMe(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	me, err := svc.GetMe(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)
	assert.Equal(t, "Jane", me.FirstName)
}

func TestUpdateProfile(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, res.User.ID, models.UpdateProfileRequest{
		FirstName: "Janet",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestUpdateProfileRequiresNames(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, res.User.ID, models.UpdateProfileRequest{FirstName: "Janet"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestDeleteAccount(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, res.User.ID))

	_, err = svc.GetMe(ctx, res.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, res.User.ID), ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	second := registerReq()
	second.Email = "john@example.com"
	_, err = svc.Register(ctx, second)
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
