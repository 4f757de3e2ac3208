package auth

import (
	"context"

	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
)

type userIDKey struct{}

// WithUserID returns a context carrying a user ID directly, bypassing token
// verification. Tests and local tooling use it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the Firebase UID of the authenticated user, or empty if the
// request carried no verified identity.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	if tok := firebaseauth.TokenFromContext(ctx); tok != nil {
		return tok.UID
	}
	return ""
}
