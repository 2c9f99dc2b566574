package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

var _ repository.BookmarkRepository = (*BookmarkStore)(nil)

// BookmarkStore reads and writes the bookmarks table.
type BookmarkStore struct {
	db *DB
}

const bookmarkColumns = `id, user_id, title, link, description, created_at, updated_at`

// Create inserts a bookmark and fills in ID and timestamps. The caller sets
// UserID; the foreign key rejects owners that do not exist.
func (s *BookmarkStore) Create(ctx context.Context, b *model.Bookmark) error {
	ts := now()
	b.CreatedAt = ts
	b.UpdatedAt = ts

	err := s.db.queryRow(ctx,
		`INSERT INTO bookmarks (user_id, title, link, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		b.UserID,
		b.Title,
		b.Link,
		b.Description,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("sqlstore: creating bookmark for user %d: %w", b.UserID, err)
	}

	return nil
}

// GetByID retrieves a single bookmark regardless of owner.
// Returns apperror.ErrNotFound if no row matches.
func (s *BookmarkStore) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	var b model.Bookmark

	err := s.db.queryRow(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id,
	).Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Link,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("bookmark", id)
		}
		return nil, fmt.Errorf("sqlstore: getting bookmark %d: %w", id, err)
	}

	return &b, nil
}

// ListByUser returns every bookmark owned by userID in insertion order.
// The result is never nil, so it encodes as [] rather than null.
func (s *BookmarkStore) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	rows, err := s.db.query(ctx,
		`SELECT `+bookmarkColumns+`
		 FROM bookmarks
		 WHERE user_id = ?
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing bookmarks for user %d: %w", userID, err)
	}
	defer rows.Close()

	bookmarks := make([]model.Bookmark, 0)
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Title, &b.Link, &b.Description,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Update writes title, link and description. id, user_id and created_at
// are immutable and never appear in the SET list.
func (s *BookmarkStore) Update(ctx context.Context, b *model.Bookmark) error {
	b.UpdatedAt = now()

	result, err := s.db.exec(ctx,
		`UPDATE bookmarks
		 SET title = ?, link = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title,
		b.Link,
		b.Description,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating bookmark %d: %w", b.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", b.ID)
	}

	return nil
}

// Delete permanently removes a bookmark.
func (s *BookmarkStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.exec(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting bookmark %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", id)
	}

	return nil
}
