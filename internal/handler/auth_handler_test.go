//go:build unit

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	"go-blog-app/web"
)

// mockSessionManager records session writes without a backing store.
type mockSessionManager struct {
	values    map[string]interface{}
	renewed   bool
	destroyed bool
}

var _ session.Manager = (*mockSessionManager)(nil)

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{values: make(map[string]interface{})}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }

func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}

func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockSessionManager) GetInt(ctx context.Context, key string) int {
	i, _ := m.values[key].(int)
	return i
}

func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	delete(m.values, key)
	return s
}

func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyed = true
	m.values = make(map[string]interface{})
	return nil
}

func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewed = true
	return nil
}

func (m *mockSessionManager) Remove(ctx context.Context, key string) {
	delete(m.values, key)
}

// loginUserRepo serves a single account to the admin service.
type loginUserRepo struct {
	user *data.User
}

var _ service.UserRepository = (*loginUserRepo)(nil)

func (r *loginUserRepo) List(ctx context.Context) ([]*data.User, error) { return nil, nil }
func (r *loginUserRepo) Get(ctx context.Context, id int64) (*data.User, error) {
	return nil, data.ErrNotFound
}
func (r *loginUserRepo) FindByEmail(ctx context.Context, email string) (*data.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, data.ErrNotFound
}
func (r *loginUserRepo) Save(ctx context.Context, u *data.User, flush bool) error   { return nil }
func (r *loginUserRepo) Remove(ctx context.Context, u *data.User, flush bool) error { return nil }

func newAuthTestHandler(t *testing.T, user *data.User) (*AuthHandler, *mockSessionManager) {
	t.Helper()
	views, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	admin := service.NewAdminService(nil, nil, &loginUserRepo{user: user})
	sessions := newMockSessionManager()
	return NewAuthHandler(admin, sessions, views), sessions
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &data.User{ID: 4, Email: "admin@blog.test", Password: hash,
		Roles: data.RoleList{data.RoleUser, data.RoleAdmin}}
	h, sessions := newAuthTestHandler(t, user)

	rec := httptest.NewRecorder()
	if appErr := h.loginHandler(rec, loginRequest("admin@blog.test", "hunter2")); appErr != nil {
		t.Fatalf("loginHandler returned error: %v", appErr.Error)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/admin" {
		t.Errorf("expected redirect to /admin, got %q", got)
	}
	if !sessions.renewed {
		t.Error("expected the session token to be renewed on login")
	}
	if got := sessions.values[session.KeyUserID]; got != 4 {
		t.Errorf("expected user id 4 in the session, got %v", got)
	}
	if got := sessions.values[session.KeyUserRoles]; got != "ROLE_USER,ROLE_ADMIN" {
		t.Errorf("unexpected roles in the session: %v", got)
	}
}

func TestLoginBadPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &data.User{ID: 4, Email: "admin@blog.test", Password: hash}
	h, sessions := newAuthTestHandler(t, user)

	rec := httptest.NewRecorder()
	if appErr := h.loginHandler(rec, loginRequest("admin@blog.test", "wrong")); appErr != nil {
		t.Fatalf("loginHandler returned error: %v", appErr.Error)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 back to the form, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %q", got)
	}
	if sessions.renewed {
		t.Error("a failed login must not renew the session")
	}
	if _, ok := sessions.values[session.KeyUserID]; ok {
		t.Error("a failed login must not store a user id")
	}
	if sessions.GetString(context.Background(), session.KeyFlash) == "" {
		t.Error("expected a flash message explaining the failure")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newAuthTestHandler(t, nil)

	rec := httptest.NewRecorder()
	if appErr := h.loginHandler(rec, loginRequest("ghost@blog.test", "x")); appErr != nil {
		t.Fatalf("loginHandler returned error: %v", appErr.Error)
	}
	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("expected redirect back to the form, got %q", got)
	}
}

func TestLogout(t *testing.T) {
	h, sessions := newAuthTestHandler(t, nil)
	sessions.Put(context.Background(), session.KeyUserID, 4)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	if appErr := h.logoutHandler(rec, r); appErr != nil {
		t.Fatalf("logoutHandler returned error: %v", appErr.Error)
	}

	if !sessions.destroyed {
		t.Error("expected the session to be destroyed")
	}
	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %q", got)
	}
}
