package middleware

import (
	"context"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
)

type CommandMiddleware func(next commands.Bus) commands.Bus

type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands wraps base with mws, outermost first.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// ChainQueries wraps base with mws, outermost first.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

type commandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type queryFunc func(ctx context.Context, query queries.Query) (any, error)

func (f queryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}

// guardCommand runs check before handing cmd to next.
func guardCommand(next commands.Bus, check func(ctx context.Context, msg any) error) commands.Bus {
	return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		if err := check(ctx, cmd); err != nil {
			return nil, err
		}
		return next.Dispatch(ctx, cmd)
	})
}

func guardQuery(next queries.Bus, check func(ctx context.Context, msg any) error) queries.Bus {
	return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
		if err := check(ctx, q); err != nil {
			return nil, err
		}
		return next.Ask(ctx, q)
	})
}
