package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pantrypal/internal/auth"
	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

// AuthService implements password and Google-identity login on top of the
// users table. It never reveals which field of a credential pair was wrong.
type AuthService struct {
	storage *storage.SQLiteRepository
}

func NewAuthService(storage *storage.SQLiteRepository) *AuthService {
	return &AuthService{storage: storage}
}

// Login verifies email+password against the stored digest.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.User{}, core.ErrInvalidCredentials
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrUserNotFound) {
		return core.User{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	// Sentinel rows hold no digest; they can only log in through Google.
	if user.IsGoogleAccount() {
		return core.User{}, core.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return core.User{}, core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return user, nil
}

// Signup hashes the password and creates the user. Duplicate usernames or
// emails surface as core.ErrUserExists without naming the field.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return core.User{}, errors.New("username, email and password are required")
	}
	if err := (core.User{Username: username, Email: email}).Validate(); err != nil {
		return core.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.storage.CreateUser(ctx, username, email, string(hashed))
}

// LoginWithGoogle maps a provider-verified identity to a user, creating one
// with the sentinel password on first sight of the email. A second callback
// with the same email always resolves to the same row.
func (s *AuthService) LoginWithGoogle(ctx context.Context, id auth.Identity) (core.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, id.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrUserNotFound) {
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	username := strings.TrimSpace(id.Name)
	if username == "" {
		username = strings.SplitN(id.Email, "@", 2)[0]
	}

	user, err = s.storage.CreateUser(ctx, username, id.Email, core.GoogleSentinelPassword)
	if errors.Is(err, core.ErrUserExists) {
		// Either a concurrent callback created the row, or the display name
		// collides with an existing username. Re-read by email first.
		if existing, lookupErr := s.storage.GetUserByEmail(ctx, id.Email); lookupErr == nil {
			return existing, nil
		}
		user, err = s.storage.CreateUser(ctx, username+"-"+auth.NewState()[:6], id.Email, core.GoogleSentinelPassword)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create google user: %w", err)
	}

	slog.InfoContext(ctx, "Google user signed in", "user_id", user.ID)
	return user, nil
}
