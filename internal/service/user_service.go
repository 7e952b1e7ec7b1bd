package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService handles registration, login and profile management.
type UserService struct {
	users  store.UserStore
	tokens *auth.Manager
}

func NewUserService(users store.UserStore, tokens *auth.Manager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// AuthResult is what register and login hand back: a bearer token plus the
// public view of the account.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// Register creates an account with an empty cart and logs it in.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if firstName == "" || lastName == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hashed),
		CartData:  models.Cart{},
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login checks the credentials. Unknown email and wrong password produce
// the same message so the endpoint does not confirm which emails exist.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *UserService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// GetMe returns the authenticated user's public profile.
func (s *UserService) GetMe(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile changes the account's first and last name.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.PublicUser, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.UpdateUserNames(ctx, userID, firstName, lastName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// DeleteAccount removes the user and, with it, the embedded cart. Orders
// the user placed stay on record.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ListUsers is the administrative listing, newest first, passwords already
// stripped by the public projection.
func (s *UserService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}
	return out, nil
}
