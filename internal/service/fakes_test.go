package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
)

// =========================================================================
// IN-MEMORY FAKES
// =========================================================================
//
// fakeUserRepo and fakeBookmarkRepo implement the repository interfaces with
// maps. They store and return copies so a test cannot mutate "persisted"
// state by accident. Set err to simulate a database failure.

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (f *fakeUserRepo) emailTaken(email string, exceptID int64) bool {
	for _, u := range f.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if f.emailTaken(user.Email, 0) {
		return apperror.Conflict("user", "email")
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	if f.emailTaken(user.Email, user.ID) {
		return apperror.Conflict("user", "email")
	}
	user.UpdatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

type fakeBookmarkRepo struct {
	bookmarks map[int64]*model.Bookmark
	nextID    int64
	err       error
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: make(map[int64]*model.Bookmark)}
}

func (f *fakeBookmarkRepo) Create(_ context.Context, b *model.Bookmark) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	f.bookmarks[b.ID] = &stored
	return nil
}

func (f *fakeBookmarkRepo) GetByID(_ context.Context, id int64) (*model.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookmarks[id]
	if !ok {
		return nil, apperror.NotFound("bookmark", id)
	}
	result := *b
	return &result, nil
}

func (f *fakeBookmarkRepo) ListByUser(_ context.Context, userID int64) ([]model.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []model.Bookmark
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeBookmarkRepo) Update(_ context.Context, b *model.Bookmark) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.bookmarks[b.ID]; !ok {
		return apperror.NotFound("bookmark", b.ID)
	}
	b.UpdatedAt = time.Now()
	stored := *b
	f.bookmarks[b.ID] = &stored
	return nil
}

func (f *fakeBookmarkRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.bookmarks[id]; !ok {
		return apperror.NotFound("bookmark", id)
	}
	delete(f.bookmarks, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
