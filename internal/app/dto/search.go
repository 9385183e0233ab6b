package dto

import (
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

// OriginSource tells where a search origin came from.
type OriginSource string

const (
	OriginExplicit  OriginSource = "explicit"
	OriginLastKnown OriginSource = "last_known"
	OriginGeocoded  OriginSource = "geocoded"
)

// NearbyResults is the response of every radius search.
type NearbyResults struct {
	Items           []ListingCard                `json:"items"`
	Origin          geo.Coordinate               `json:"origin"`
	OriginSource    OriginSource                 `json:"origin_source"`
	RadiusMiles     float64                      `json:"radius_miles"`
	Count           int                          `json:"count"`
	Total           int                          `json:"total"`
	Scored          bool                         `json:"scored"`
	Preferences     *preferences.UserPreferences `json:"preferences,omitempty"`
	WidenRadiusHint *float64                     `json:"widen_radius_hint,omitempty"`
}

// ListingCard is a search hit as shown in result lists.
type ListingCard struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Kind             string          `json:"kind"`
	PropertyType     string          `json:"property_type"`
	AddressLine      string          `json:"address_line"`
	City             string          `json:"city"`
	Country          string          `json:"country"`
	Location         *geo.Coordinate `json:"location,omitempty"`
	Price            float64         `json:"price"`
	Bedrooms         int             `json:"bedrooms"`
	LifestyleTags    []string        `json:"lifestyle_tags"`
	WalkabilityScore *int            `json:"walkability_score,omitempty"`
	TransitScore     *int            `json:"transit_score,omitempty"`
	NoiseLevel       *int            `json:"noise_level,omitempty"`
	InvestmentScore  *int            `json:"investment_score,omitempty"`
	DistanceMiles    float64         `json:"distance_miles"`
	MatchScore       *int            `json:"match_score,omitempty"`
}

func MapListingCard(r proximity.SearchResult) ListingCard {
	l := r.Listing
	tags := append([]string{}, l.LifestyleTags...)
	return ListingCard{
		ID:               string(l.ID),
		Title:            l.Title,
		Kind:             string(l.Kind),
		PropertyType:     l.PropertyType,
		AddressLine:      l.Address.Line1,
		City:             l.Address.City,
		Country:          l.Address.Country,
		Location:         l.Coordinates,
		Price:            l.Price,
		Bedrooms:         l.Bedrooms,
		LifestyleTags:    tags,
		WalkabilityScore: l.WalkabilityScore,
		TransitScore:     l.TransitScore,
		NoiseLevel:       l.NoiseLevel,
		InvestmentScore:  l.InvestmentScore,
		DistanceMiles:    roundMiles(r.DistanceMiles),
		MatchScore:       r.MatchScore,
	}
}

// MapNearby builds the response, truncating to limit when limit > 0.
func MapNearby(results []proximity.SearchResult, origin geo.Coordinate, source OriginSource, radius float64, limit int, scored bool, prefs *preferences.UserPreferences) NearbyResults {
	total := len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	items := make([]ListingCard, 0, len(results))
	for _, r := range results {
		items = append(items, MapListingCard(r))
	}
	out := NearbyResults{
		Items:        items,
		Origin:       origin,
		OriginSource: source,
		RadiusMiles:  radius,
		Count:        len(items),
		Total:        total,
		Scored:       scored,
	}
	if !prefs.IsEmpty() {
		out.Preferences = prefs
	}
	if total == 0 {
		out.WidenRadiusHint = WidenRadius(radius)
	}
	return out
}

// WidenRadius suggests the next radius to try after an empty search, or nil
// when the radius is already at the maximum.
func WidenRadius(radius float64) *float64 {
	if radius >= proximity.MaxRadiusMiles {
		return nil
	}
	next := radius * 2
	if next > proximity.MaxRadiusMiles {
		next = proximity.MaxRadiusMiles
	}
	return &next
}

func roundMiles(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
