package search

import (
	"context"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
)

const LocationSearchKey = "listings.location_search"

// LocationSearchQuery geocodes a free-text place and searches around it.
type LocationSearchQuery struct {
	Query       string `validate:"required,min=2,max=200"`
	RadiusMiles float64
	Criteria    Criteria
}

func (LocationSearchQuery) Key() string { return LocationSearchKey }

type LocationSearchHandler struct {
	Pipeline      *Pipeline
	Provider      location.Provider
	DefaultRadius float64
}

func (h *LocationSearchHandler) Handle(ctx context.Context, q LocationSearchQuery) (dto.NearbyResults, error) {
	if h.Provider == nil {
		return dto.NearbyResults{}, location.ErrUnavailable
	}
	origin, err := h.Provider.Locate(ctx, q.Query)
	if err != nil {
		return dto.NearbyResults{}, err
	}
	radius := q.RadiusMiles
	if radius == 0 {
		radius = h.DefaultRadius
	}
	return h.Pipeline.run(ctx, request{
		userID:   identity.UserFrom(ctx),
		origin:   origin,
		source:   dto.OriginGeocoded,
		radius:   radius,
		criteria: q.Criteria,
	})
}

var _ queries.Handler[LocationSearchQuery, dto.NearbyResults] = (*LocationSearchHandler)(nil)
