package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/service"
)

// BookmarkHandler exposes the caller's bookmarks. Every route sits behind
// auth.RequireAuth; ownership is enforced by the service.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
	logger    *slog.Logger
}

func NewBookmarkHandler(bookmarks *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, logger: logger}
}

type createBookmarkRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	Link        string `json:"link" validate:"required,url,max=2048"`
}

type editBookmarkRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=4000"`
	Link        *string `json:"link" validate:"omitnil,url,max=2048"`
}

// caller pulls the authenticated user id, writing a 401 if the route was
// somehow mounted without the guard.
func (h *BookmarkHandler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("authentication required"))
	}
	return id, ok
}

// HandleList returns the caller's bookmarks; [] when there are none.
//
// HTTP: GET /bookmarks
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarks.GetBookmarks(r.Context(), callerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

// HandleGetByID returns one bookmark.
//
// HTTP: GET /bookmarks/{id}
func (h *BookmarkHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.GetBookmarkByID(r.Context(), callerID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

// HandleCreate saves a new bookmark owned by the caller.
//
// HTTP: POST /bookmarks
// REQUEST BODY: {"title": "First Bookmark", "link": "https://..."}
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createBookmarkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.CreateBookmark(r.Context(), callerID, service.BookmarkInput{
		Title:       req.Title,
		Link:        req.Link,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

// HandleEdit applies a partial update.
//
// HTTP: PATCH /bookmarks/{id}
func (h *BookmarkHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req editBookmarkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.EditBookmarkByID(r.Context(), callerID, id, service.BookmarkPatch{
		Title:       req.Title,
		Link:        req.Link,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

// HandleDelete removes a bookmark. 204 No Content on success.
//
// HTTP: DELETE /bookmarks/{id}
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.bookmarks.DeleteBookmarkByID(r.Context(), callerID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
