package me

import (
	"context"
	"fmt"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
)

const UpdateLocationKey = "location.update"

// UpdateLocationCommand records the device position reported by the client.
type UpdateLocationCommand struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (UpdateLocationCommand) Key() string        { return UpdateLocationKey }
func (UpdateLocationCommand) RequiresUser() bool { return true }

type LocationHandler struct {
	Store location.LastKnown
	Now   func() time.Time
}

func (h *LocationHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (dto.LocationUpdated, error) {
	userID := identity.UserFrom(ctx)
	if userID == "" {
		return dto.LocationUpdated{}, identity.ErrUnauthenticated
	}
	coord, err := geo.NewCoordinate(cmd.Lat, cmd.Lon)
	if err != nil {
		return dto.LocationUpdated{}, err
	}
	if err := h.Store.Set(ctx, userID, coord); err != nil {
		return dto.LocationUpdated{}, fmt.Errorf("location: store: %w", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return dto.LocationUpdated{Location: coord, UpdatedAt: now().UTC()}, nil
}
