package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/repository"
)

// AuthService authenticates portal accounts and issues session tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	log    *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// LoginResult carries the signed token and the authenticated actor.
type LoginResult struct {
	Token string     `json:"token"`
	Actor auth.Actor `json:"-"`

	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Login verifies credentials and returns a signed session token. Missing
// users and bad passwords collapse into the same error so login attempts
// cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	actor := auth.Actor{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}
	token, err := s.tokens.Issue(actor)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, Actor: actor, Email: actor.Email, IsAdmin: actor.IsAdmin}, nil
}

// VerifyToken resolves a bearer token into an actor.
func (s *AuthService) VerifyToken(tokenString string) (auth.Actor, error) {
	return s.tokens.Verify(tokenString)
}

// EnsureAdmin creates the bootstrap administrator account when configured.
// An existing account with the same email is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.TrimSpace(strings.ToLower(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.users.Create(ctx, email, string(hash), true)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("seed admin account: %w", err)
	}
	s.log.Info("seeded admin account", "email", email)
	return nil
}
