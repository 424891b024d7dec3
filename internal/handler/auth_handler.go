package handler

import (
	"errors"
	"net/http"
	"strings"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
)

// AuthHandler holds the dependencies for the back-office login handlers.
type AuthHandler struct {
	admin    *service.AdminService
	sessions session.Manager
	view     *view.View
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(admin *service.AdminService, sessions session.Manager, v *view.View) *AuthHandler {
	return &AuthHandler{admin: admin, sessions: sessions, view: v}
}

// loginFormHandler renders the login form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	payload := map[string]interface{}{
		"Flash": h.sessions.PopString(r.Context(), session.KeyFlash),
	}
	if err := h.view.Render(w, "login.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login form", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler verifies the submitted credentials and opens a session.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.admin.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.sessions.Put(r.Context(), session.KeyFlash, "Invalid email or password.")
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Login failed", Code: http.StatusInternalServerError}
	}

	// A fresh token on privilege change keeps the session fixation window shut.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Login failed", Code: http.StatusInternalServerError}
	}
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = string(role)
	}
	h.sessions.Put(r.Context(), session.KeyUserID, int(user.ID))
	h.sessions.Put(r.Context(), session.KeyUserEmail, user.Email)
	h.sessions.Put(r.Context(), session.KeyUserRoles, strings.Join(roles, ","))

	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// logoutHandler destroys the session.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Logout failed", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/admin/login", http.StatusFound)
	return nil
}
