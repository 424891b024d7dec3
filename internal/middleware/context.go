package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo represents the logged-in account as seen by handlers. An
// anonymous visitor has ID 0 and no roles.
type UserInfo struct {
	ID    int64
	Email string
	Roles []string
}

// Anonymous reports whether no account is logged in.
func (u *UserInfo) Anonymous() bool {
	return u.ID == 0
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	return &UserInfo{}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
