// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in sub-packages (sqlstore).
package repository

import (
	"context"

	"github.com/sakif/bookmarks/internal/model"
)

// UserRepository persists user accounts.
//
// Lookups return an error wrapping apperror.ErrNotFound when no row matches.
// Create and Update return apperror.ErrConflict when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// BookmarkRepository persists bookmarks. It performs no ownership checks;
// those belong to the service layer.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error)
	Update(ctx context.Context, bookmark *model.Bookmark) error
	Delete(ctx context.Context, id int64) error
}
