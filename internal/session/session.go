package session

import (
	"context"
	"net/http"
)

// Manager abstracts the session management implementation for easier testing
// and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetInt(ctx context.Context, key string) int
	PopString(ctx context.Context, key string) string
	Destroy(ctx context.Context) error
	RenewToken(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

// Keys under which the logged-in account is stored.
const (
	KeyUserID    = "user_id"
	KeyUserEmail = "user_email"
	KeyUserRoles = "user_roles" // comma-separated role values
	KeyFlash     = "flash"
)
