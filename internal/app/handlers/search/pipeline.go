package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/recommendation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/shared/events"
)

var ErrOriginUnknown = errors.New("search: origin unknown, enable location or pass lat/lon")

// Criteria are the per-request filters layered over stored preferences.
type Criteria struct {
	PriceMin       *float64 `validate:"omitempty,gte=0"`
	PriceMax       *float64 `validate:"omitempty,gte=0"`
	Bedrooms       []int    `validate:"omitempty,dive,gte=0,lte=20"`
	PropertyTypes  []string `validate:"omitempty,dive,max=40"`
	LifestyleTags  []string `validate:"omitempty,dive,max=40"`
	MaxNoiseLevel  *int     `validate:"omitempty,gte=0,lte=100"`
	MinWalkability *int     `validate:"omitempty,gte=0,lte=100"`
	Score          bool
	Limit          int `validate:"gte=0,lte=200"`
	// IgnoreStored skips the caller's saved preferences.
	IgnoreStored bool
}

// Overrides turns the inline criteria into a preferences overlay.
func (c Criteria) Overrides() preferences.UserPreferences {
	var out preferences.UserPreferences
	if c.PriceMin != nil || c.PriceMax != nil {
		r := preferences.PriceRange{Max: maxPrice}
		if c.PriceMin != nil {
			r.Min = *c.PriceMin
		}
		if c.PriceMax != nil {
			r.Max = *c.PriceMax
		}
		out.PriceRange = &r
	}
	out.BedroomCounts = c.Bedrooms
	out.PropertyTypes = c.PropertyTypes
	out.PreferredLifestyleTags = c.LifestyleTags
	out.MaxNoiseLevel = c.MaxNoiseLevel
	out.MinWalkability = c.MinWalkability
	return out
}

// an open-ended price_min filter still needs an upper bound for the range
const maxPrice = 1e12

// Pipeline runs proximity search, preference filtering and optional scoring
// over the candidates one listing store returns.
type Pipeline struct {
	Listings    listings.Repository
	Preferences preferences.Repository
	Scorer      *recommendation.Scorer
	Publisher   events.Publisher
	Logger      *slog.Logger
	Now         func() time.Time
}

type request struct {
	userID   string
	origin   geo.Coordinate
	source   dto.OriginSource
	radius   float64
	criteria Criteria
}

func (p *Pipeline) run(ctx context.Context, req request) (dto.NearbyResults, error) {
	if p.Listings == nil {
		return dto.NearbyResults{}, errors.New("search: listing store not configured")
	}
	if err := proximity.ValidateRadius(req.radius); err != nil {
		return dto.NearbyResults{}, err
	}
	if err := req.origin.Validate(); err != nil {
		return dto.NearbyResults{}, err
	}

	var (
		candidates []*listings.Listing
		stored     *preferences.UserPreferences
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := p.loadCandidates(gctx, geo.BoundingBoxAround(req.origin, req.radius))
		if err != nil {
			return err
		}
		candidates = loaded
		return nil
	})
	if req.userID != "" && p.Preferences != nil && !req.criteria.IgnoreStored {
		g.Go(func() error {
			prefs, err := p.Preferences.ByUser(gctx, req.userID)
			if err != nil {
				return fmt.Errorf("search: load preferences: %w", err)
			}
			stored = prefs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.NearbyResults{}, err
	}

	prefs := preferences.Merge(stored, req.criteria.Overrides())
	if err := prefs.Validate(); err != nil {
		return dto.NearbyResults{}, err
	}
	normalized := prefs.Normalized()
	prefs = &normalized

	results, err := proximity.Search(req.origin, candidates, req.radius)
	if err != nil {
		return dto.NearbyResults{}, err
	}
	results = preferences.FilterResults(results, prefs)
	scored := req.criteria.Score && p.Scorer != nil
	if scored {
		results = p.Scorer.Rank(results, prefs)
	}

	out := dto.MapNearby(results, req.origin, req.source, req.radius, req.criteria.Limit, scored, prefs)
	p.publish(ctx, req, out.Total, scored)
	return out, nil
}

const candidatePageSize = 5000

// loadCandidates pages through every active listing inside bounds. Stores
// order pages by id, so stopping early would drop listings regardless of
// their distance.
func (p *Pipeline) loadCandidates(ctx context.Context, bounds geo.BoundingBox) ([]*listings.Listing, error) {
	var out []*listings.Listing
	for offset := 0; ; {
		res, err := p.Listings.Search(ctx, listings.SearchParams{
			Bounds:     &bounds,
			OnlyActive: true,
			Limit:      candidatePageSize,
			Offset:     offset,
		}.Normalized())
		if err != nil {
			return nil, fmt.Errorf("search: load candidates: %w", err)
		}
		out = append(out, res.Items...)
		offset += len(res.Items)
		if len(res.Items) == 0 || offset >= res.Total {
			return out, nil
		}
	}
}

func (p *Pipeline) publish(ctx context.Context, req request, count int, scored bool) {
	if p.Publisher == nil {
		return
	}
	evt := proximity.NewNearbySearchPerformed(req.userID, req.origin, req.radius, count, scored, p.now())
	if err := p.Publisher.Publish(ctx, evt); err != nil && p.Logger != nil {
		p.Logger.WarnContext(ctx, "search event not published", "event", evt.EventName(), "error", err)
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
