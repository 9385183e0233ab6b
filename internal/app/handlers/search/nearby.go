package search

import (
	"context"
	"fmt"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
)

const NearbyKey = "listings.nearby"

// NearbyQuery searches around an explicit point, or around the caller's last
// known location when Lat/Lon are omitted.
type NearbyQuery struct {
	Lat         *float64
	Lon         *float64
	RadiusMiles float64
	Criteria    Criteria
}

func (NearbyQuery) Key() string { return NearbyKey }

type NearbyHandler struct {
	Pipeline      *Pipeline
	LastKnown     location.LastKnown
	DefaultRadius float64
}

func (h *NearbyHandler) Handle(ctx context.Context, q NearbyQuery) (dto.NearbyResults, error) {
	userID := identity.UserFrom(ctx)
	origin, source, err := h.resolveOrigin(ctx, userID, q)
	if err != nil {
		return dto.NearbyResults{}, err
	}
	radius := q.RadiusMiles
	if radius == 0 {
		radius = h.DefaultRadius
	}
	return h.Pipeline.run(ctx, request{
		userID:   userID,
		origin:   origin,
		source:   source,
		radius:   radius,
		criteria: q.Criteria,
	})
}

func (h *NearbyHandler) resolveOrigin(ctx context.Context, userID string, q NearbyQuery) (geo.Coordinate, dto.OriginSource, error) {
	if q.Lat != nil || q.Lon != nil {
		if q.Lat == nil || q.Lon == nil {
			return geo.Coordinate{}, "", fmt.Errorf("%w: lat and lon must be given together", geo.ErrInvalidCoordinate)
		}
		c, err := geo.NewCoordinate(*q.Lat, *q.Lon)
		return c, dto.OriginExplicit, err
	}
	if userID == "" || h.LastKnown == nil {
		return geo.Coordinate{}, "", ErrOriginUnknown
	}
	c, ok, err := h.LastKnown.Get(ctx, userID)
	if err != nil {
		return geo.Coordinate{}, "", fmt.Errorf("search: last known location: %w", err)
	}
	if !ok {
		return geo.Coordinate{}, "", ErrOriginUnknown
	}
	return c, dto.OriginLastKnown, nil
}

var _ queries.Handler[NearbyQuery, dto.NearbyResults] = (*NearbyHandler)(nil)
