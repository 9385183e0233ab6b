package preferences

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

var ErrInvalidPreferences = errors.New("preferences: invalid preferences")

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint is (Min+Max)/2.
func (r PriceRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// UserPreferences holds optional search criteria. A nil pointer or empty slice
// means the dimension is unconstrained.
type UserPreferences struct {
	PriceRange             *PriceRange `json:"price_range,omitempty"`
	BedroomCounts          []int       `json:"bedrooms,omitempty"`
	PropertyTypes          []string    `json:"property_types,omitempty"`
	MaxNoiseLevel          *int        `json:"max_noise_level,omitempty"`
	MinWalkability         *int        `json:"min_walkability,omitempty"`
	PreferredLifestyleTags []string    `json:"lifestyle_tags,omitempty"`
}

type Repository interface {
	// ByUser returns nil, nil when the user never saved preferences.
	ByUser(ctx context.Context, userID string) (*UserPreferences, error)
	Save(ctx context.Context, userID string, prefs UserPreferences) error
}

func (p *UserPreferences) Validate() error {
	if p == nil {
		return nil
	}
	if r := p.PriceRange; r != nil {
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
			return fmt.Errorf("%w: price range must be finite", ErrInvalidPreferences)
		}
		if r.Min < 0 {
			return fmt.Errorf("%w: price min must be non-negative", ErrInvalidPreferences)
		}
		if r.Min > r.Max {
			return fmt.Errorf("%w: price min exceeds max", ErrInvalidPreferences)
		}
	}
	for _, n := range p.BedroomCounts {
		if n < 0 {
			return fmt.Errorf("%w: bedroom counts must be non-negative", ErrInvalidPreferences)
		}
	}
	if v := p.MaxNoiseLevel; v != nil && (*v < 0 || *v > 100) {
		return fmt.Errorf("%w: max noise level must be between 0 and 100", ErrInvalidPreferences)
	}
	if v := p.MinWalkability; v != nil && (*v < 0 || *v > 100) {
		return fmt.Errorf("%w: min walkability must be between 0 and 100", ErrInvalidPreferences)
	}
	return nil
}

// IsEmpty reports whether no criterion is set.
func (p *UserPreferences) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.PriceRange == nil &&
		len(p.BedroomCounts) == 0 &&
		len(listings.NormalizeTags(p.PropertyTypes)) == 0 &&
		p.MaxNoiseLevel == nil &&
		p.MinWalkability == nil &&
		len(listings.NormalizeTags(p.PreferredLifestyleTags)) == 0
}

// Normalized trims and lowercases the free-text dimensions.
func (p UserPreferences) Normalized() UserPreferences {
	out := p
	out.PropertyTypes = listings.NormalizeTags(p.PropertyTypes)
	out.PreferredLifestyleTags = listings.NormalizeTags(p.PreferredLifestyleTags)
	if len(p.BedroomCounts) > 0 {
		out.BedroomCounts = append([]int(nil), p.BedroomCounts...)
	}
	return out
}

// Merge overlays every criterion set in override on top of base.
func Merge(base *UserPreferences, override UserPreferences) *UserPreferences {
	var out UserPreferences
	if base != nil {
		out = *base
	}
	if override.PriceRange != nil {
		out.PriceRange = override.PriceRange
	}
	if len(override.BedroomCounts) > 0 {
		out.BedroomCounts = override.BedroomCounts
	}
	if len(listings.NormalizeTags(override.PropertyTypes)) > 0 {
		out.PropertyTypes = override.PropertyTypes
	}
	if override.MaxNoiseLevel != nil {
		out.MaxNoiseLevel = override.MaxNoiseLevel
	}
	if override.MinWalkability != nil {
		out.MinWalkability = override.MinWalkability
	}
	if len(listings.NormalizeTags(override.PreferredLifestyleTags)) > 0 {
		out.PreferredLifestyleTags = override.PreferredLifestyleTags
	}
	return &out
}

// Matches reports whether listing satisfies every criterion set in prefs.
// Missing noise or walkability scores never disqualify a listing.
func Matches(listing *listings.Listing, prefs *UserPreferences) bool {
	if listing == nil {
		return false
	}
	if prefs == nil {
		return true
	}
	if r := prefs.PriceRange; r != nil {
		if listing.Price < r.Min || listing.Price > r.Max {
			return false
		}
	}
	if len(prefs.BedroomCounts) > 0 && !containsInt(prefs.BedroomCounts, listing.Bedrooms) {
		return false
	}
	if types := listings.NormalizeTags(prefs.PropertyTypes); len(types) > 0 && !matchesType(listing, types) {
		return false
	}
	if prefs.MaxNoiseLevel != nil && listing.NoiseLevel != nil && *listing.NoiseLevel > *prefs.MaxNoiseLevel {
		return false
	}
	if prefs.MinWalkability != nil && listing.WalkabilityScore != nil && *listing.WalkabilityScore < *prefs.MinWalkability {
		return false
	}
	if wanted := listings.NormalizeTags(prefs.PreferredLifestyleTags); len(wanted) > 0 {
		if TagOverlap(listing.LifestyleTags, wanted) == 0 {
			return false
		}
	}
	return true
}

// Filter returns the candidates matching prefs in their original order.
func Filter(candidates []*listings.Listing, prefs *UserPreferences) []*listings.Listing {
	out := make([]*listings.Listing, 0, len(candidates))
	if prefs.IsEmpty() {
		return append(out, candidates...)
	}
	for _, candidate := range candidates {
		if Matches(candidate, prefs) {
			out = append(out, candidate)
		}
	}
	return out
}

// FilterResults is Filter for proximity results.
func FilterResults(results []proximity.SearchResult, prefs *UserPreferences) []proximity.SearchResult {
	out := make([]proximity.SearchResult, 0, len(results))
	if prefs.IsEmpty() {
		return append(out, results...)
	}
	for _, r := range results {
		if Matches(r.Listing, prefs) {
			out = append(out, r)
		}
	}
	return out
}

// TagOverlap counts the wanted tags present on the listing, case-insensitively.
func TagOverlap(listingTags, wanted []string) int {
	if len(listingTags) == 0 || len(wanted) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(listingTags))
	for _, tag := range listingTags {
		have[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	count := 0
	for _, tag := range listings.NormalizeTags(wanted) {
		if _, ok := have[tag]; ok {
			count++
		}
	}
	return count
}

func matchesType(listing *listings.Listing, types []string) bool {
	kind := strings.ToLower(string(listing.Kind))
	propertyType := strings.ToLower(strings.TrimSpace(listing.PropertyType))
	for _, t := range types {
		if t == kind || t == propertyType {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
