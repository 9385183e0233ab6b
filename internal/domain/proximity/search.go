package proximity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

// MaxRadiusMiles is the largest radius a search accepts.
const MaxRadiusMiles = 500.0

var ErrInvalidRadius = errors.New("proximity: radius must be greater than 0 and at most 500 miles")

// SearchResult pairs a listing with its distance from the search origin.
// MatchScore stays nil until a scorer ranks the result.
type SearchResult struct {
	Listing       *listings.Listing
	DistanceMiles float64
	MatchScore    *int
}

// ValidateRadius rejects non-finite, non-positive and oversized radii.
func ValidateRadius(radiusMiles float64) error {
	if math.IsNaN(radiusMiles) || math.IsInf(radiusMiles, 0) || radiusMiles <= 0 || radiusMiles > MaxRadiusMiles {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, radiusMiles)
	}
	return nil
}

// Search keeps the candidates within radiusMiles of origin, nearest first.
// Candidates without usable coordinates are skipped.
func Search(origin geo.Coordinate, candidates []*listings.Listing, radiusMiles float64) ([]SearchResult, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radiusMiles); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		loc, ok := candidate.Location()
		if !ok {
			continue
		}
		distance := geo.DistanceMiles(origin, loc)
		if distance > radiusMiles {
			continue
		}
		results = append(results, SearchResult{Listing: candidate, DistanceMiles: distance})
	}
	SortByDistance(results)
	return results, nil
}

// SortByDistance orders results by distance, breaking ties by listing id.
func SortByDistance(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DistanceMiles != results[j].DistanceMiles {
			return results[i].DistanceMiles < results[j].DistanceMiles
		}
		return results[i].Listing.ID < results[j].Listing.ID
	})
}

// Listings unwraps results in order.
func Listings(results []SearchResult) []*listings.Listing {
	out := make([]*listings.Listing, 0, len(results))
	for _, r := range results {
		out = append(out, r.Listing)
	}
	return out
}
