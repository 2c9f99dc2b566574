package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/handler"
	"github.com/sakif/bookmarks/internal/repository/sqlstore"
	"github.com/sakif/bookmarks/internal/service"
)

// harness wires real services over an in-memory SQLite store behind a chi
// router, so handler tests exercise URL params, the guard and the store.
type harness struct {
	router http.Handler
	tokens *auth.TokenService
	github *fakeGitHub
}

type fakeGitHub struct {
	user *auth.GitHubUser
	err  error
}

func (f *fakeGitHub) AuthURL(state string) string {
	return "https://github.example/login?state=" + state
}

func (f *fakeGitHub) Exchange(_ context.Context, code string) (*auth.GitHubUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlstore.New(context.Background(), sqlstore.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	authSvc := service.NewAuthService(db.Users(), tokens, auth.NewPasswordService(bcrypt.MinCost), logger)
	gh := &fakeGitHub{}

	authH := handler.NewAuthHandler(authSvc, gh, logger)
	userH := handler.NewUserHandler(service.NewUserService(db.Users(), logger), logger)
	bookmarkH := handler.NewBookmarkHandler(service.NewBookmarkService(db.Bookmarks(), logger), logger)

	r := chi.NewRouter()
	r.Get("/healthz", handler.HandleHealth(db, logger))
	r.Post("/auth/signup", authH.HandleSignup)
	r.Post("/auth/signin", authH.HandleSignin)
	r.Get("/auth/github/login", authH.HandleGitHubLogin)
	r.Get("/auth/github/callback", authH.HandleGitHubCallback)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, db.Users(), logger))
		r.Get("/users/me", userH.HandleMe)
		r.Patch("/users", userH.HandleEdit)
		r.Get("/bookmarks", bookmarkH.HandleList)
		r.Post("/bookmarks", bookmarkH.HandleCreate)
		r.Get("/bookmarks/{id}", bookmarkH.HandleGetByID)
		r.Patch("/bookmarks/{id}", bookmarkH.HandleEdit)
		r.Delete("/bookmarks/{id}", bookmarkH.HandleDelete)
	})

	return &harness{router: r, tokens: tokens, github: gh}
}

func (h *harness) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

// signupAndSignin registers email and returns its bearer token.
func (h *harness) signupAndSignin(t *testing.T, email string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"123"}`
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/signup", "", body).Code)

	rr := h.do(t, http.MethodPost, "/auth/signin", "", body)
	require.Equal(t, http.StatusOK, rr.Code)
	var tok handler.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var e handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&e))
	return e
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m
}
