package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// UserPatch is a partial profile edit. A nil field is left unchanged; an
// empty FirstName or LastName clears the name.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserService serves the caller's own profile.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, callerID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: fetching user %d: %w", callerID, err)
	}
	return user, nil
}

// Edit applies patch to the caller's account and returns the result.
func (s *UserService) Edit(ctx context.Context, callerID int64, patch UserPatch) (*model.User, error) {
	user, err := s.Me(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = optionalName(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = optionalName(*patch.LastName)
	}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if _, err := mail.ParseAddress(email); err != nil || email == "" {
			return nil, apperror.ValidationFailed("email", "email must be a valid address")
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update user",
			slog.Int64("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/user: updating user %d: %w", callerID, err)
	}

	s.logger.Info("user updated", slog.Int64("userID", callerID))
	return user, nil
}

func optionalName(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
