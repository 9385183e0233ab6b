package middleware

import (
	"context"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
)

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// UserScoped is implemented by messages that act on the caller's own data.
type UserScoped interface {
	RequiresUser() bool
}

// RequireUser rejects user-scoped messages sent without an authenticated user.
type RequireUser struct{}

func (RequireUser) Authorize(ctx context.Context, message any) error {
	scoped, ok := message.(UserScoped)
	if !ok || !scoped.RequiresUser() {
		return nil
	}
	if identity.UserFrom(ctx) == "" {
		return identity.ErrUnauthenticated
	}
	return nil
}

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		return guardCommand(next, a.Authorize)
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		return guardQuery(next, a.Authorize)
	}
}
