package location

import (
	"context"
	"errors"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
)

var (
	ErrPermissionDenied = errors.New("location: permission denied")
	ErrUnavailable      = errors.New("location: provider unavailable")
	ErrTimeout          = errors.New("location: provider timed out")
	ErrNotFound         = errors.New("location: no match for query")
	ErrUserRequired     = errors.New("location: user id is required")
)

// LastKnown stores the most recent coordinate reported by each user.
type LastKnown interface {
	// Get reports false when no location is stored for userID.
	Get(ctx context.Context, userID string) (geo.Coordinate, bool, error)
	Set(ctx context.Context, userID string, coord geo.Coordinate) error
}

// Provider resolves a free-text place into a coordinate.
type Provider interface {
	Locate(ctx context.Context, query string) (geo.Coordinate, error)
}
