// Package service contains the business logic layer: validation, rules, and
// orchestration. Handlers parse HTTP and delegate here; repositories do the
// SQL. Services depend only on the repository interfaces, never on the sqlite
// package, so tests run against in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// AuthService handles registration and login for both identity paths:
// email/password and Google OAuth.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a password account and signs the user in.
//
// The password rules (8+ chars, upper, lower, digit) are enforced here, not
// in the handler — any future caller gets them for free. A duplicate email
// surfaces as apperror.ErrConflict from the repository.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if err := auth.CheckStrength(password); err != nil {
		return nil, err
	}
	if displayName == "" {
		// Default to the mailbox part of the email, like most signup flows.
		displayName = email[:strings.Index(email, "@")]
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password could not be processed")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.users.CreateWithPassword(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueToken(user)
}

// Login verifies an email/password pair.
//
// Wrong email and wrong password return the same validation error — the
// response must not reveal which half was wrong, or it becomes an email
// enumeration oracle.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	invalid := apperror.ValidationFailed("credentials", "invalid email or password")

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, invalid
	}
	if user.PasswordHash == "" {
		// Google-only account; there is no password to check.
		return nil, invalid
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalid
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// LoginOrRegisterGoogle completes the OAuth callback: upsert on the stable
// Google subject ID (first login inserts, later logins refresh name/avatar),
// then issue a token.
func (s *AuthService) LoginOrRegisterGoogle(ctx context.Context, gUser *auth.GoogleUser) (*AuthResult, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user := &model.User{
		Email:       strings.ToLower(gUser.Email),
		GoogleID:    gUser.Sub,
		DisplayName: gUser.Name,
		AvatarURL:   gUser.Picture,
	}
	if err := s.users.UpsertGoogle(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting Google user: %w", err)
	}

	s.logger.Info("user authenticated via Google", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// GetUserByID returns the full user record for the given internal ID. Used by
// the /api/me handler after middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
