package identity

import (
	"context"
	"errors"
	"strings"
)

var ErrUnauthenticated = errors.New("identity: authentication required")

type ctxKey struct{}

// WithUser stores the authenticated user id on ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(userID))
}

// UserFrom returns the authenticated user id, or "" for anonymous callers.
func UserFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
