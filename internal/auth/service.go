package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/catalog"
)

// PublicUser is the user view exposed to clients. It never carries the
// password hash.
type PublicUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Result is the outcome of a login or signup attempt. When Success is false,
// Message carries the user-facing reason and User/Token are empty.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    *PublicUser `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
}

const (
	// msgInvalidCredentials is shared by unknown-email and wrong-password
	// failures so responses never reveal which field was wrong.
	msgInvalidCredentials = "Invalid email or password"
	msgAccountInactive    = "Account is inactive"
	msgEmailTaken         = "Email already registered"
	msgPasswordTooShort   = "Password must be at least 8 characters"
)

// Service implements the credential and session flows on top of the content
// repository.
type Service struct {
	store  catalog.Store
	tokens *TokenService
}

// NewService creates an auth service
func NewService(store catalog.Store, tokens *TokenService) *Service {
	return &Service{store: store, tokens: tokens}
}

func publicView(u *catalog.User) *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

// Login exchanges credentials for a token and public user view. A non-nil
// error means the repository failed; credential problems come back as an
// unsuccessful Result.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, catalog.ErrNotFound) {
		return &Result{Success: false, Message: msgInvalidCredentials}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return &Result{Success: false, Message: msgInvalidCredentials}, nil
	}

	if user.Status != catalog.StatusActive {
		return &Result{Success: false, Message: msgAccountInactive}, nil
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Result{Success: true, User: publicView(user), Token: token}, nil
}

// Signup registers a new account and logs it in.
func (s *Service) Signup(ctx context.Context, fullName, email, password string) (*Result, error) {
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return &Result{Success: false, Message: msgEmailTaken}, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return nil, fmt.Errorf("signup lookup: %w", err)
	}

	if len(password) < minPasswordLength {
		return &Result{Success: false, Message: msgPasswordTooShort}, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &catalog.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Status:       catalog.StatusActive,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Result{Success: true, User: publicView(user), Token: token}, nil
}

// CurrentUser resolves a bearer token to a fresh public user view. The user
// record is always re-fetched so status changes and profile edits made after
// token issuance are honored. Returns nil for any invalid token, missing
// user, or inactive account.
func (s *Service) CurrentUser(ctx context.Context, token string) (*PublicUser, error) {
	claims := s.tokens.Verify(token)
	if claims == nil {
		return nil, nil
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current user lookup: %w", err)
	}

	if user.Status != catalog.StatusActive {
		return nil, nil
	}

	return publicView(user), nil
}

// UpdateProfile updates the user's display name and bio.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, bio string) (*PublicUser, error) {
	user, err := s.store.UpdateUserProfile(ctx, userID, fullName, bio)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return publicView(user), nil
}
