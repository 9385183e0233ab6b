package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
)

var (
	ErrIDRequired      = errors.New("listings: id is required")
	ErrTitleRequired   = errors.New("listings: title is required")
	ErrInvalidKind     = errors.New("listings: kind must be RENT or SALE")
	ErrNegativePrice   = errors.New("listings: price must be non-negative")
	ErrNegativeRooms   = errors.New("listings: bedrooms must be non-negative")
	ErrScoreRange      = errors.New("listings: scores must be between 0 and 100")
	ErrInvalidState    = errors.New("listings: invalid state transition")
	ErrAddressRequired = errors.New("listings: address must be provided when activating")
	ErrNotFound        = errors.New("listings: listing not found")
)

type ListingID string

// Kind tells whether Price is a monthly rent or a one-time sale price.
type Kind string

const (
	KindRent Kind = "RENT"
	KindSale Kind = "SALE"
)

// ParseKind accepts rent/sale in any case.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(raw))) {
	case KindRent:
		return KindRent, nil
	case KindSale:
		return KindSale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, raw)
	}
}

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

type Address struct {
	Line1   string
	City    string
	Country string
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Line1) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

// Listing is the searchable unit. Coordinates is nil while the listing has not
// been geocoded; such listings never take part in distance math.
type Listing struct {
	ID               ListingID
	Title            string
	Kind             Kind
	PropertyType     string
	Address          Address
	Coordinates      *geo.Coordinate
	Price            float64
	Bedrooms         int
	LifestyleTags    []string
	WalkabilityScore *int
	TransitScore     *int
	NoiseLevel       *int
	InvestmentScore  *int
	State            ListingState
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Score returns a pointer to v for the optional 0..100 listing scores.
func Score(v int) *int {
	return &v
}

// Location returns the listing coordinates when they are present and valid.
func (l *Listing) Location() (geo.Coordinate, bool) {
	if l == nil || l.Coordinates == nil {
		return geo.Coordinate{}, false
	}
	if err := l.Coordinates.Validate(); err != nil {
		return geo.Coordinate{}, false
	}
	return *l.Coordinates, true
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateListingParams struct {
	ID               ListingID
	Title            string
	Kind             Kind
	PropertyType     string
	Address          Address
	Coordinates      *geo.Coordinate
	Price            float64
	Bedrooms         int
	LifestyleTags    []string
	WalkabilityScore *int
	TransitScore     *int
	NoiseLevel       *int
	InvestmentScore  *int
	Now              time.Time
}

func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.Kind != KindRent && params.Kind != KindSale {
		return nil, ErrInvalidKind
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.Bedrooms < 0 {
		return nil, ErrNegativeRooms
	}
	for _, score := range []*int{params.WalkabilityScore, params.TransitScore, params.NoiseLevel, params.InvestmentScore} {
		if score != nil && (*score < 0 || *score > 100) {
			return nil, ErrScoreRange
		}
	}
	var coords *geo.Coordinate
	if params.Coordinates != nil {
		if err := params.Coordinates.Validate(); err != nil {
			return nil, err
		}
		c := *params.Coordinates
		coords = &c
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &Listing{
		ID:               params.ID,
		Title:            strings.TrimSpace(params.Title),
		Kind:             params.Kind,
		PropertyType:     strings.ToLower(strings.TrimSpace(params.PropertyType)),
		Address:          params.Address,
		Coordinates:      coords,
		Price:            params.Price,
		Bedrooms:         params.Bedrooms,
		LifestyleTags:    normalizeTokens(params.LifestyleTags),
		WalkabilityScore: copyScore(params.WalkabilityScore),
		TransitScore:     copyScore(params.TransitScore),
		NoiseLevel:       copyScore(params.NoiseLevel),
		InvestmentScore:  copyScore(params.InvestmentScore),
		State:            ListingDraft,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}, nil
}

func (l *Listing) Activate(now time.Time) error {
	if l.State == ListingActive {
		return nil
	}
	if !l.Address.Valid() {
		return ErrAddressRequired
	}
	l.State = ListingActive
	l.UpdatedAt = now.UTC()
	return nil
}

func (l *Listing) Suspend(now time.Time) error {
	if l.State != ListingActive {
		return ErrInvalidState
	}
	l.State = ListingSuspended
	l.UpdatedAt = now.UTC()
	return nil
}

// Geocode attaches coordinates resolved after creation.
func (l *Listing) Geocode(c geo.Coordinate, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	l.Coordinates = &c
	l.UpdatedAt = now.UTC()
	return nil
}

func copyScore(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
