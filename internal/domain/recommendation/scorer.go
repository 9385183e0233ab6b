package recommendation

import (
	"math"
	"sort"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

const (
	minScore = 0
	maxScore = 100
)

// Weights sets the maximum contribution of each scoring component.
type Weights struct {
	Distance    float64
	Lifestyle   float64
	Walkability float64
	Price       float64
	Investment  float64
}

func DefaultWeights() Weights {
	return Weights{
		Distance:    25,
		Lifestyle:   25,
		Walkability: 20,
		Price:       15,
		Investment:  15,
	}
}

func (w Weights) sanitized() Weights {
	nonNeg := func(v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			return 0
		}
		return v
	}
	return Weights{
		Distance:    nonNeg(w.Distance),
		Lifestyle:   nonNeg(w.Lifestyle),
		Walkability: nonNeg(w.Walkability),
		Price:       nonNeg(w.Price),
		Investment:  nonNeg(w.Investment),
	}
}

type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights.sanitized()}
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score rates how well result fits prefs on a 0..100 scale.
func (s *Scorer) Score(result proximity.SearchResult, prefs *preferences.UserPreferences) int {
	w := s.weights
	total := w.Distance * distanceFactor(result.DistanceMiles)

	listing := result.Listing
	if listing == nil {
		return clamp(total)
	}
	if prefs != nil {
		if wanted := listings.NormalizeTags(prefs.PreferredLifestyleTags); len(wanted) > 0 {
			overlap := preferences.TagOverlap(listing.LifestyleTags, wanted)
			total += w.Lifestyle * float64(overlap) / float64(len(wanted))
		}
		if prefs.MinWalkability != nil && listing.WalkabilityScore != nil {
			total += w.Walkability * float64(*listing.WalkabilityScore) / 100
		}
		if prefs.PriceRange != nil {
			total += w.Price * priceFit(listing.Price, prefs.PriceRange.Midpoint())
		}
	}
	if listing.InvestmentScore != nil {
		total += w.Investment * float64(*listing.InvestmentScore) / 100
	}
	return clamp(total)
}

// Rank scores every result and orders them best first. Results without a
// listing are dropped. The input is not modified.
func (s *Scorer) Rank(results []proximity.SearchResult, prefs *preferences.UserPreferences) []proximity.SearchResult {
	ranked := make([]proximity.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Listing == nil {
			continue
		}
		score := s.Score(r, prefs)
		ranked = append(ranked, proximity.SearchResult{
			Listing:       r.Listing,
			DistanceMiles: r.DistanceMiles,
			MatchScore:    &score,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if *a.MatchScore != *b.MatchScore {
			return *a.MatchScore > *b.MatchScore
		}
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		return a.Listing.ID < b.Listing.ID
	})
	return ranked
}

func distanceFactor(miles float64) float64 {
	switch {
	case miles <= 1:
		return 1.0
	case miles <= 3:
		return 0.6
	case miles <= 5:
		return 0.2
	default:
		return 0
	}
}

func priceFit(price, midpoint float64) float64 {
	if midpoint <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(price-midpoint)/midpoint)
}

func clamp(total float64) int {
	if math.IsNaN(total) {
		return minScore
	}
	rounded := math.Round(total)
	if rounded < minScore {
		return minScore
	}
	if rounded > maxScore {
		return maxScore
	}
	return int(rounded)
}
