package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	domainlistings "github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

var ErrNilListing = errors.New("memory: nil listing")

// ListingRepository keeps listings in a map for dev runs and tests.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// ByID returns a listing or domainlistings.ErrNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil {
		return ErrNilListing
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = listing
	return nil
}

// Search scans every listing; results are ordered by id so pagination is stable.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if err := ctx.Err(); err != nil {
			return domainlistings.SearchResult{}, err
		}
		if opts.Accepts(listing) {
			matches = append(matches, listing)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainlistings.SearchResult{Items: matches[start:end], Total: total}, nil
}

// Len reports how many listings are stored.
func (r *ListingRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// PreferenceRepository keeps saved preferences per user.
type PreferenceRepository struct {
	mu    sync.RWMutex
	items map[string]preferences.UserPreferences
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{items: make(map[string]preferences.UserPreferences)}
}

func (r *PreferenceRepository) ByUser(ctx context.Context, userID string) (*preferences.UserPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, ok := r.items[strings.TrimSpace(userID)]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, userID string, prefs preferences.UserPreferences) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return location.ErrUserRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID] = prefs
	return nil
}

type storedLocation struct {
	coord     geo.Coordinate
	expiresAt time.Time
}

// LocationStore keeps last known locations with an optional TTL.
type LocationStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]storedLocation
}

func NewLocationStore(ttl time.Duration) *LocationStore {
	return &LocationStore{ttl: ttl, now: time.Now, items: make(map[string]storedLocation)}
}

func (s *LocationStore) Get(ctx context.Context, userID string) (geo.Coordinate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.items[userID]
	if !ok {
		return geo.Coordinate{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		return geo.Coordinate{}, false, nil
	}
	return entry.coord, true, nil
}

func (s *LocationStore) Set(ctx context.Context, userID string, coord geo.Coordinate) error {
	if strings.TrimSpace(userID) == "" {
		return location.ErrUserRequired
	}
	if err := coord.Validate(); err != nil {
		return err
	}
	entry := storedLocation{coord: coord}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = entry
	return nil
}

var (
	_ domainlistings.Repository = (*ListingRepository)(nil)
	_ preferences.Repository    = (*PreferenceRepository)(nil)
	_ location.LastKnown        = (*LocationStore)(nil)
)
