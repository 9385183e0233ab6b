package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

const listingsCollection = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(listingsCollection)}
}

// EnsureIndexes creates the indexes the bounding-box pre-filter relies on.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "location.lat", Value: 1}, {Key: "location.lon", Value: 1}}},
		{Keys: bson.D{{Key: "city_lc", Value: 1}}},
	})
	return err
}

func (r *ListingRepository) ByID(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listings.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *listings.Listing) error {
	doc := newListingDocument(l)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Search(ctx context.Context, params listings.SearchParams) (listings.SearchResult, error) {
	opts := params.Normalized()
	filter := searchFilter(opts)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return listings.SearchResult{}, fmt.Errorf("mongo: count listings: %w", err)
	}
	find := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cur, err := r.col.Find(ctx, filter, find)
	if err != nil {
		return listings.SearchResult{}, fmt.Errorf("mongo: find listings: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*listings.Listing, 0, opts.Limit)
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return listings.SearchResult{}, err
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return listings.SearchResult{}, err
	}
	return listings.SearchResult{Items: items, Total: int(total)}, nil
}

// searchFilter translates normalized params into a query document.
func searchFilter(p listings.SearchParams) bson.M {
	filter := bson.M{}
	if p.OnlyActive {
		filter["state"] = string(listings.ListingActive)
	}
	if p.Bounds != nil {
		filter["location.lat"] = bson.M{"$gte": p.Bounds.MinLat, "$lte": p.Bounds.MaxLat}
		filter["location.lon"] = bson.M{"$gte": p.Bounds.MinLon, "$lte": p.Bounds.MaxLon}
	}
	if len(p.Kinds) > 0 {
		kinds := make([]string, 0, len(p.Kinds))
		for _, k := range p.Kinds {
			kinds = append(kinds, string(k))
		}
		filter["kind"] = bson.M{"$in": kinds}
	}
	if p.City != "" {
		filter["city_lc"] = p.City
	}
	price := bson.M{}
	if p.PriceMin > 0 {
		price["$gte"] = p.PriceMin
	}
	if p.PriceMax > 0 {
		price["$lte"] = p.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

type locationDocument struct {
	Lat float64 `bson:"lat"`
	Lon float64 `bson:"lon"`
}

type listingDocument struct {
	ID               string            `bson:"_id"`
	Title            string            `bson:"title"`
	Kind             string            `bson:"kind"`
	PropertyType     string            `bson:"property_type"`
	AddressLine      string            `bson:"address_line"`
	City             string            `bson:"city"`
	CityLC           string            `bson:"city_lc"`
	Country          string            `bson:"country"`
	Location         *locationDocument `bson:"location,omitempty"`
	Price            float64           `bson:"price"`
	Bedrooms         int               `bson:"bedrooms"`
	LifestyleTags    []string          `bson:"lifestyle_tags"`
	WalkabilityScore *int              `bson:"walkability_score,omitempty"`
	TransitScore     *int              `bson:"transit_score,omitempty"`
	NoiseLevel       *int              `bson:"noise_level,omitempty"`
	InvestmentScore  *int              `bson:"investment_score,omitempty"`
	State            string            `bson:"state"`
	CreatedAt        int64             `bson:"created_at"`
	UpdatedAt        int64             `bson:"updated_at"`
}

func newListingDocument(l *listings.Listing) listingDocument {
	doc := listingDocument{
		ID:               string(l.ID),
		Title:            l.Title,
		Kind:             string(l.Kind),
		PropertyType:     l.PropertyType,
		AddressLine:      l.Address.Line1,
		City:             l.Address.City,
		CityLC:           strings.ToLower(strings.TrimSpace(l.Address.City)),
		Country:          l.Address.Country,
		Price:            l.Price,
		Bedrooms:         l.Bedrooms,
		LifestyleTags:    append([]string{}, l.LifestyleTags...),
		WalkabilityScore: l.WalkabilityScore,
		TransitScore:     l.TransitScore,
		NoiseLevel:       l.NoiseLevel,
		InvestmentScore:  l.InvestmentScore,
		State:            string(l.State),
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
	}
	if l.Coordinates != nil {
		doc.Location = &locationDocument{Lat: l.Coordinates.Latitude, Lon: l.Coordinates.Longitude}
	}
	return doc
}

func (d listingDocument) toDomain() *listings.Listing {
	l := &listings.Listing{
		ID:               listings.ListingID(d.ID),
		Title:            d.Title,
		Kind:             listings.Kind(d.Kind),
		PropertyType:     d.PropertyType,
		Address:          listings.Address{Line1: d.AddressLine, City: d.City, Country: d.Country},
		Price:            d.Price,
		Bedrooms:         d.Bedrooms,
		LifestyleTags:    d.LifestyleTags,
		WalkabilityScore: d.WalkabilityScore,
		TransitScore:     d.TransitScore,
		NoiseLevel:       d.NoiseLevel,
		InvestmentScore:  d.InvestmentScore,
		State:            listings.ListingState(d.State),
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
	}
	if d.Location != nil {
		l.Coordinates = &geo.Coordinate{Latitude: d.Location.Lat, Longitude: d.Location.Lon}
	}
	return l
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ listings.Repository = (*ListingRepository)(nil)
