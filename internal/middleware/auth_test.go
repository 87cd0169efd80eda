package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

type stubSessions struct {
	service.SessionService
	lookupFn func(ctx context.Context, token string) (*repository.User, error)
}

func (s *stubSessions) GetUserBySessionToken(ctx context.Context, token string) (*repository.User, error) {
	return s.lookupFn(ctx, token)
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func withUser(r *http.Request, role string) *http.Request {
	user := &repository.User{Email: "u@example.com", Role: role}
	return r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
}

func TestWithUser_ResolvesCookie(t *testing.T) {
	sessions := &stubSessions{lookupFn: func(ctx context.Context, token string) (*repository.User, error) {
		assert.Equal(t, "tok123", token)
		return &repository.User{Email: "u@example.com"}, nil
	}}

	var seen *repository.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok123"})
	WithUser(sessions)(next).ServeHTTP(httptest.NewRecorder(), req)

	if assert.NotNil(t, seen) {
		assert.Equal(t, "u@example.com", seen.Email)
	}
}

func TestWithUser_ContinuesAnonymousOnBadSession(t *testing.T) {
	sessions := &stubSessions{lookupFn: func(ctx context.Context, token string) (*repository.User, error) {
		return nil, service.ErrSessionExpired
	}}

	var seen *repository.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	WithUser(sessions)(next).ServeHTTP(rec, req)

	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	next, called := okHandler()

	rec := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)

	rec = httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/cart", nil), service.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireAdmin(t *testing.T) {
	next, called := okHandler()

	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/orders", nil), service.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)

	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/orders", nil), service.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}
