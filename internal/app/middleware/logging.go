package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
)

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logMessage(ctx, logger, "query", q.Key(), start, err)
			return res, err
		})
	}
}

func CommandLogging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logMessage(ctx, logger, "command", cmd.Key(), start, err)
			return res, err
		})
	}
}

func logMessage(ctx context.Context, logger *slog.Logger, kind, key string, start time.Time, err error) {
	attrs := []any{kind, key, "duration_ms", time.Since(start).Milliseconds()}
	if err != nil {
		logger.WarnContext(ctx, kind+" failed", append(attrs, "error", err)...)
		return
	}
	logger.DebugContext(ctx, kind+" handled", attrs...)
}
