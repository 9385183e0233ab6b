// Package fixtures imports listing seed data into a listing store.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

var ErrInvalidFixture = errors.New("fixtures: invalid listing fixture")

// ObjectSource opens seed files kept in object storage.
type ObjectSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Record is one listing as it appears in a fixture file.
type Record struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Kind             string    `json:"kind"`
	PropertyType     string    `json:"property_type"`
	Address          address   `json:"address"`
	Location         *Location `json:"location"`
	Price            float64   `json:"price"`
	Bedrooms         int       `json:"bedrooms"`
	Lifestyle        Tags      `json:"lifestyle"`
	WalkabilityScore *int      `json:"walkability_score"`
	TransitScore     *int      `json:"transit_score"`
	NoiseLevel       *int      `json:"noise_level"`
	InvestmentScore  *int      `json:"investment_score"`
	State            string    `json:"state"`
}

type address struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Location accepts either "lat,lon" or {"lat":..,"lon":..}.
type Location struct {
	geo.Coordinate
}

func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		lat, lon, ok := strings.Cut(raw, ",")
		if !ok {
			return fmt.Errorf("%w: location %q is not \"lat,lon\"", ErrInvalidFixture, raw)
		}
		latV, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return fmt.Errorf("%w: latitude %q", ErrInvalidFixture, lat)
		}
		lonV, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return fmt.Errorf("%w: longitude %q", ErrInvalidFixture, lon)
		}
		l.Coordinate = geo.Coordinate{Latitude: latV, Longitude: lonV}
		return nil
	}
	var obj struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: location: %v", ErrInvalidFixture, err)
	}
	if obj.Lon == nil {
		obj.Lon = obj.Lng
	}
	if obj.Lat == nil || obj.Lon == nil {
		return fmt.Errorf("%w: location needs lat and lon", ErrInvalidFixture)
	}
	l.Coordinate = geo.Coordinate{Latitude: *obj.Lat, Longitude: *obj.Lon}
	return nil
}

// Tags accepts either a JSON array or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = strings.Split(raw, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: lifestyle: %v", ErrInvalidFixture, err)
	}
	*t = list
	return nil
}

// Listing converts the record into a domain listing. Records without a state
// are treated as active.
func (r Record) Listing(now time.Time) (*listings.Listing, error) {
	kind, err := listings.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	var coords *geo.Coordinate
	if r.Location != nil {
		c := r.Location.Coordinate
		coords = &c
	}
	listing, err := listings.NewListing(listings.CreateListingParams{
		ID:               listings.ListingID(strings.TrimSpace(r.ID)),
		Title:            r.Title,
		Kind:             kind,
		PropertyType:     r.PropertyType,
		Address:          listings.Address{Line1: r.Address.Line1, City: r.Address.City, Country: r.Address.Country},
		Coordinates:      coords,
		Price:            r.Price,
		Bedrooms:         r.Bedrooms,
		LifestyleTags:    r.Lifestyle,
		WalkabilityScore: r.WalkabilityScore,
		TransitScore:     r.TransitScore,
		NoiseLevel:       r.NoiseLevel,
		InvestmentScore:  r.InvestmentScore,
		Now:              now,
	})
	if err != nil {
		return nil, err
	}
	switch listings.ListingState(strings.ToUpper(strings.TrimSpace(r.State))) {
	case "", listings.ListingActive:
		err = listing.Activate(now)
	case listings.ListingSuspended:
		if err = listing.Activate(now); err == nil {
			err = listing.Suspend(now)
		}
	case listings.ListingDraft:
	default:
		err = fmt.Errorf("%w: unknown state %q", ErrInvalidFixture, r.State)
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Decode parses a fixture file: a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	return records, nil
}

// Loader saves fixture records into a listing store.
type Loader struct {
	Repo   listings.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

// Report summarises an import.
type Report struct {
	Imported int
	Skipped  int
}

// LoadFile imports the fixture file at path.
func (l Loader) LoadFile(ctx context.Context, path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(ctx, f, path)
}

// LoadObject imports a fixture file kept in object storage.
func (l Loader) LoadObject(ctx context.Context, src ObjectSource, key string) (Report, error) {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return Report{}, err
	}
	defer rc.Close()
	return l.Load(ctx, rc, key)
}

// Load imports every valid record from r. Invalid records are logged and
// skipped; store errors abort the import.
func (l Loader) Load(ctx context.Context, r io.Reader, origin string) (Report, error) {
	records, err := Decode(r)
	if err != nil {
		return Report{}, err
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	var report Report
	for i, rec := range records {
		listing, err := rec.Listing(now())
		if err != nil {
			report.Skipped++
			logger.WarnContext(ctx, "fixture skipped", "origin", origin, "index", i, "id", rec.ID, "error", err)
			continue
		}
		if err := l.Repo.Save(ctx, listing); err != nil {
			return report, fmt.Errorf("fixtures: save %s: %w", listing.ID, err)
		}
		report.Imported++
	}
	logger.InfoContext(ctx, "fixtures imported", "origin", origin, "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}
