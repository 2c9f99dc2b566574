// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces ownership, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services take repository interfaces, not concrete stores, so tests pass
// in-memory fakes and the server can pick SQLite or PostgreSQL at startup.
// Every method takes the caller's user id explicitly; nothing here reads
// HTTP state.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

const (
	MaxTitleLength       = 255
	MaxLinkLength        = 2048
	MaxDescriptionLength = 4000
)

// BookmarkInput is the payload for a new bookmark.
type BookmarkInput struct {
	Title       string
	Link        string
	Description string
}

// BookmarkPatch is a partial edit. Only non-nil fields are applied.
type BookmarkPatch struct {
	Title       *string
	Link        *string
	Description *string
}

// Access is the outcome of loading a bookmark on behalf of a caller.
type Access int

const (
	AccessNotFound Access = iota
	AccessForbidden
	AccessOwned
)

func (a Access) String() string {
	switch a {
	case AccessOwned:
		return "owned"
	case AccessForbidden:
		return "forbidden"
	default:
		return "not_found"
	}
}

// BookmarkService handles business logic for bookmarks. Every operation is
// scoped to the calling user.
type BookmarkService struct {
	repo   repository.BookmarkRepository
	logger *slog.Logger
}

func NewBookmarkService(repo repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		repo:   repo,
		logger: logger,
	}
}

// GetBookmarks returns the caller's bookmarks in creation order, or an empty
// slice.
func (s *BookmarkService) GetBookmarks(ctx context.Context, callerID int64) ([]model.Bookmark, error) {
	bookmarks, err := s.repo.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to list bookmarks",
			slog.Int64("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	return bookmarks, nil
}

// GetBookmarkByID returns one of the caller's bookmarks. Someone else's
// bookmark is reported as not found, so ids of other users do not leak.
func (s *BookmarkService) GetBookmarkByID(ctx context.Context, callerID, bookmarkID int64) (*model.Bookmark, error) {
	bookmark, access, err := s.loadOwned(ctx, callerID, bookmarkID)
	if err != nil {
		return nil, err
	}
	if access != AccessOwned {
		return nil, apperror.NotFound("bookmark", bookmarkID)
	}
	return bookmark, nil
}

// CreateBookmark validates input and saves it as a bookmark owned by the
// caller.
func (s *BookmarkService) CreateBookmark(ctx context.Context, callerID int64, in BookmarkInput) (*model.Bookmark, error) {
	bookmark := &model.Bookmark{
		UserID:      callerID,
		Title:       strings.TrimSpace(in.Title),
		Link:        strings.TrimSpace(in.Link),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validateBookmark(bookmark); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bookmark); err != nil {
		s.logger.Error("failed to create bookmark",
			slog.Int64("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		slog.Int64("id", bookmark.ID),
		slog.Int64("userID", callerID),
	)
	return bookmark, nil
}

// EditBookmarkByID applies patch to one of the caller's bookmarks.
func (s *BookmarkService) EditBookmarkByID(ctx context.Context, callerID, bookmarkID int64, patch BookmarkPatch) (*model.Bookmark, error) {
	bookmark, err := s.requireOwned(ctx, callerID, bookmarkID, "edit")
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		bookmark.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Link != nil {
		bookmark.Link = strings.TrimSpace(*patch.Link)
	}
	if patch.Description != nil {
		bookmark.Description = strings.TrimSpace(*patch.Description)
	}
	if err := validateBookmark(bookmark); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, bookmark); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update bookmark",
			slog.Int64("id", bookmarkID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating bookmark %d: %w", bookmarkID, err)
	}

	s.logger.Info("bookmark updated", slog.Int64("id", bookmarkID))
	return bookmark, nil
}

// DeleteBookmarkByID permanently removes one of the caller's bookmarks.
func (s *BookmarkService) DeleteBookmarkByID(ctx context.Context, callerID, bookmarkID int64) error {
	if _, err := s.requireOwned(ctx, callerID, bookmarkID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, bookmarkID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete bookmark",
			slog.Int64("id", bookmarkID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting bookmark %d: %w", bookmarkID, err)
	}

	s.logger.Info("bookmark deleted", slog.Int64("id", bookmarkID))
	return nil
}

// loadOwned fetches a bookmark and classifies it against callerID. A non-nil
// error means the store failed; a missing row is AccessNotFound, not an error.
func (s *BookmarkService) loadOwned(ctx context.Context, callerID, bookmarkID int64) (*model.Bookmark, Access, error) {
	bookmark, err := s.repo.GetByID(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, AccessNotFound, nil
		}
		return nil, AccessNotFound, fmt.Errorf("fetching bookmark %d: %w", bookmarkID, err)
	}
	if !bookmark.OwnedBy(callerID) {
		return bookmark, AccessForbidden, nil
	}
	return bookmark, AccessOwned, nil
}

// requireOwned is loadOwned for mutations: absent → NotFound, foreign →
// Forbidden.
func (s *BookmarkService) requireOwned(ctx context.Context, callerID, bookmarkID int64, action string) (*model.Bookmark, error) {
	bookmark, access, err := s.loadOwned(ctx, callerID, bookmarkID)
	if err != nil {
		return nil, err
	}

	switch access {
	case AccessOwned:
		return bookmark, nil
	case AccessForbidden:
		s.logger.Warn("bookmark access denied",
			slog.Int64("id", bookmarkID),
			slog.Int64("userID", callerID),
			slog.String("action", action),
		)
		return nil, apperror.Forbidden("access to resources denied")
	default:
		return nil, apperror.NotFound("bookmark", bookmarkID)
	}
}

func validateBookmark(b *model.Bookmark) error {
	if b.Title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(b.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if b.Link == "" {
		return apperror.ValidationFailed("link", "link is required")
	}
	if len(b.Link) > MaxLinkLength {
		return apperror.ValidationFailed("link",
			fmt.Sprintf("link must be %d characters or less", MaxLinkLength))
	}
	if u, err := url.Parse(b.Link); err != nil || !u.IsAbs() || u.Host == "" {
		return apperror.ValidationFailed("link", "link must be an absolute URL")
	}
	if len(b.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	return nil
}
