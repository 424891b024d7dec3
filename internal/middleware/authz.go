package middleware

import (
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"

	"go-blog-app/internal/session"
)

// Authorizer creates the back-office authorization middleware. It loads the
// logged-in account from the session, exposes it on the request context and
// asks Casbin whether any of its roles may perform the request.
func Authorizer(e *casbin.Enforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{
				ID:    int64(sm.GetInt(r.Context(), session.KeyUserID)),
				Email: sm.GetString(r.Context(), session.KeyUserEmail),
			}
			if roles := sm.GetString(r.Context(), session.KeyUserRoles); roles != "" {
				userInfo.Roles = strings.Split(roles, ",")
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			subjects := userInfo.Roles
			if len(subjects) == 0 {
				subjects = []string{"anonymous"}
			}

			allowed := false
			for _, subject := range subjects {
				ok, err := e.Enforce(subject, r.URL.Path, r.Method)
				if err != nil {
					http.Error(w, "Authorization error", http.StatusInternalServerError)
					return
				}
				if ok {
					allowed = true
					break
				}
			}

			if !allowed {
				// Send anonymous visitors to the login form instead of a bare 403.
				if userInfo.Anonymous() {
					http.Redirect(w, r, "/admin/login", http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
