// Authentication business logic.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Two ways in: email + password (Signup/Signin), or a GitHub profile that
// the handler already exchanged (SigninWithGitHub). Both end in the same
// bearer token.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// errInvalidCredentials is deliberately vague: the caller must not learn
// whether the email exists.
const errInvalidCredentials = "invalid credentials"

// AuthService handles signup, signin and GitHub sign-in.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
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

// AuthResult bundles the user record and the issued JWT so the handler can
// respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// NormalizeEmail trims and lowercases an address. Emails are stored in this
// form, so every lookup must use it too.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account.
//
// The lookup-first check gives a clean Conflict in the common case; the
// store's unique index still catches two signups racing for one address.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user", "email")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up", slog.Int64("userID", user.ID))
	return user, nil
}

// Signin checks the credentials and issues an access token.
// Unknown email, a GitHub-only account and a wrong password all produce the
// same Unauthorized error.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(errInvalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if !user.HasPassword() {
		return nil, apperror.Unauthorized(errInvalidCredentials)
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.Unauthorized(errInvalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	return s.issue(user, "password")
}

// SigninWithGitHub finds the account matching the GitHub email, creating a
// password-less one on first sign-in, and issues an access token.
func (s *AuthService) SigninWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}
	email := NormalizeEmail(ghUser.Email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "GitHub account has no usable email")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrNotFound):
		user = &model.User{Email: email}
		if ghUser.Name != "" {
			first, last, _ := strings.Cut(ghUser.Name, " ")
			user.FirstName = &first
			if last != "" {
				user.LastName = &last
			}
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating GitHub user %s: %w", ghUser.Login, err)
		}
		s.logger.Info("user signed up", slog.Int64("userID", user.ID), slog.String("via", "github"))
	default:
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	return s.issue(user, "github")
}

func (s *AuthService) issue(user *model.User, method string) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user signed in",
		slog.Int64("userID", user.ID),
		slog.String("method", method),
	)

	return &AuthResult{User: user, Token: token}, nil
}
