package proximity

import (
	"math"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
)

const NearbySearchPerformedName = "search.nearby_performed"

// NearbySearchPerformed records a completed radius search. The origin is
// rounded to two decimals before it leaves the process.
type NearbySearchPerformed struct {
	UserID      string         `json:"user_id,omitempty"`
	Origin      geo.Coordinate `json:"origin"`
	RadiusMiles float64        `json:"radius_miles"`
	ResultCount int            `json:"result_count"`
	Scored      bool           `json:"scored"`
	At          time.Time      `json:"at"`
}

func NewNearbySearchPerformed(userID string, origin geo.Coordinate, radiusMiles float64, count int, scored bool, at time.Time) NearbySearchPerformed {
	return NearbySearchPerformed{
		UserID:      userID,
		Origin:      geo.Coordinate{Latitude: round2(origin.Latitude), Longitude: round2(origin.Longitude)},
		RadiusMiles: radiusMiles,
		ResultCount: count,
		Scored:      scored,
		At:          at.UTC(),
	}
}

func (e NearbySearchPerformed) EventName() string     { return NearbySearchPerformedName }
func (e NearbySearchPerformed) AggregateID() string   { return e.UserID }
func (e NearbySearchPerformed) OccurredAt() time.Time { return e.At }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
