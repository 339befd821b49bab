package userctx

import "context"

type contextKey string

const (
	usernameKey contextKey = "username"
	roleKey     contextKey = "role"
)

// SetUsername adds the authenticated username to the request context
func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsername retrieves the authenticated username from the context.
// Returns "anonymous" when no user is attached.
func GetUsername(ctx context.Context) string {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok || username == "" {
		return "anonymous"
	}
	return username
}

// SetRole adds the authenticated user's role to the request context
func SetRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// GetRole retrieves the authenticated user's role from the context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}
