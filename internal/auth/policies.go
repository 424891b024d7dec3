package auth

import (
	"fmt"
	"go-blog-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures the application has a baseline set of
// authorization rules for the back-office. It checks each policy before
// adding it, so running it on every start is idempotent.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous visitors may only reach the login form. Editors manage
	// content; administrators additionally manage accounts.
	policies := [][]string{
		{"anonymous", "/admin/login", "GET"},
		{"anonymous", "/admin/login", "POST"},

		// keyMatch2 treats "/admin" and "/admin/" as distinct objects, so
		// the dashboard needs both spellings.
		{"ROLE_USER", "/admin", "GET"},
		{"ROLE_USER", "/admin/", "GET"},
		{"ROLE_USER", "/admin/logout", "POST"},

		{"ROLE_EDITOR", "/admin/articles", "GET"},
		{"ROLE_EDITOR", "/admin/articles/*", "GET"},
		{"ROLE_EDITOR", "/admin/articles", "POST"},
		{"ROLE_EDITOR", "/admin/articles/*", "POST"},
		{"ROLE_EDITOR", "/admin/categories", "GET"},
		{"ROLE_EDITOR", "/admin/categories/*", "GET"},
		{"ROLE_EDITOR", "/admin/categories", "POST"},
		{"ROLE_EDITOR", "/admin/categories/*", "POST"},

		{"ROLE_ADMIN", "/admin/users", "GET"},
		{"ROLE_ADMIN", "/admin/users/*", "GET"},
		{"ROLE_ADMIN", "/admin/users", "POST"},
		{"ROLE_ADMIN", "/admin/users/*", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Role inheritance: admin ⊇ editor ⊇ user ⊇ anonymous.
	groupings := [][2]string{
		{"ROLE_USER", "anonymous"},
		{"ROLE_EDITOR", "ROLE_USER"},
		{"ROLE_ADMIN", "ROLE_EDITOR"},
	}
	for _, g := range groupings {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %s -> %s", g[0], g[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
