package auth

import "context"

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the signed-in user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the signed-in user ID, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
