package middleware

import (
	"context"

	"studio-site/internal/auth"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo represents the signed-in user as stored in the session and request context.
type UserInfo struct {
	Subject string
	UserID  int64
	Email   string
	Name    string
}

// IsAuthenticated reports whether a back-office user is signed in.
func (u *UserInfo) IsAuthenticated() bool {
	return u != nil && u.UserID > 0
}

// IsAdmin reports whether the user holds the admin role.
func (u *UserInfo) IsAdmin() bool {
	return u != nil && u.Subject == auth.SubjectAdmin
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: auth.SubjectAnonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
