package listings

import (
	"strings"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
)

const (
	defaultSearchLimit = 500
	maxSearchLimit     = 5000
)

// SearchParams narrows the candidate set a store hands to proximity search.
// Stores treat Bounds as a pre-filter only; the exact radius cutoff happens in
// the proximity package.
type SearchParams struct {
	Bounds     *geo.BoundingBox
	Kinds      []Kind
	City       string
	PriceMin   float64
	PriceMax   float64
	OnlyActive bool
	Limit      int
	Offset     int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.City = strings.TrimSpace(strings.ToLower(normalized.City))
	normalized.Kinds = normalizeKinds(normalized.Kinds)
	if normalized.PriceMin < 0 {
		normalized.PriceMin = 0
	}
	if normalized.PriceMax > 0 && normalized.PriceMax < normalized.PriceMin {
		normalized.PriceMax = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	return normalized
}

// Accepts applies every non-empty filter of already normalized params to listing.
func (p SearchParams) Accepts(listing *Listing) bool {
	if listing == nil {
		return false
	}
	if p.OnlyActive && listing.State != ListingActive {
		return false
	}
	if p.Bounds != nil {
		loc, ok := listing.Location()
		if !ok || !p.Bounds.Contains(loc) {
			return false
		}
	}
	if len(p.Kinds) > 0 && !kindIncluded(listing.Kind, p.Kinds) {
		return false
	}
	if p.City != "" && !strings.EqualFold(listing.Address.City, p.City) {
		return false
	}
	if p.PriceMin > 0 && listing.Price < p.PriceMin {
		return false
	}
	if p.PriceMax > 0 && listing.Price > p.PriceMax {
		return false
	}
	return true
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// NormalizeTags lowercases, trims and de-duplicates free-text tags.
func NormalizeTags(tags []string) []string {
	return normalizeTokens(tags)
}

func normalizeKinds(values []Kind) []Kind {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[Kind]struct{}, len(values))
	out := make([]Kind, 0, len(values))
	for _, value := range values {
		kind, err := ParseKind(string(value))
		if err != nil {
			continue
		}
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, kind)
	}
	return out
}

func kindIncluded(kind Kind, allowed []Kind) bool {
	for _, candidate := range allowed {
		if kind == candidate {
			return true
		}
	}
	return false
}

// SearchResult wraps store hits with meta.
type SearchResult struct {
	Items []*Listing
	Total int
}
