package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

func TestSearchFilter(t *testing.T) {
	box := geo.BoundingBox{MinLat: 51, MaxLat: 52, MinLon: -1, MaxLon: 0}
	filter := searchFilter(listings.SearchParams{
		Bounds:     &box,
		Kinds:      []listings.Kind{"rent"},
		City:       "London",
		PriceMax:   2000,
		OnlyActive: true,
	}.Normalized())

	if filter["state"] != "ACTIVE" || filter["city_lc"] != "london" {
		t.Fatalf("unexpected filter %v", filter)
	}
	lat := filter["location.lat"].(bson.M)
	if lat["$gte"] != 51.0 || lat["$lte"] != 52.0 {
		t.Fatalf("lat filter = %v", lat)
	}
	price := filter["price"].(bson.M)
	if _, ok := price["$gte"]; ok || price["$lte"] != 2000.0 {
		t.Fatalf("price filter = %v", price)
	}
	kinds := filter["kind"].(bson.M)["$in"].([]string)
	if len(kinds) != 1 || kinds[0] != "RENT" {
		t.Fatalf("kinds = %v", kinds)
	}
	if len(searchFilter(listings.SearchParams{}.Normalized())) != 0 {
		t.Fatalf("empty params should give an empty filter")
	}
}

func TestListingDocumentRoundTrip(t *testing.T) {
	c := geo.Coordinate{Latitude: 51.5, Longitude: -0.1}
	at := time.UnixMilli(1700000000000).UTC()
	l := &listings.Listing{
		ID:            "l-1",
		Title:         "Flat",
		Kind:          listings.KindSale,
		Address:       listings.Address{Line1: "1 St", City: "London", Country: "UK"},
		Coordinates:   &c,
		Price:         300000,
		LifestyleTags: []string{"quiet"},
		NoiseLevel:    listings.Score(10),
		State:         listings.ListingActive,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	doc := newListingDocument(l)
	if doc.CityLC != "london" || doc.Location == nil || doc.Location.Lat != 51.5 {
		t.Fatalf("unexpected document %+v", doc)
	}
	back := doc.toDomain()
	if back.Coordinates == nil || *back.Coordinates != c || !back.CreatedAt.Equal(at) || *back.NoiseLevel != 10 {
		t.Fatalf("unexpected listing %+v", back)
	}

	l.Coordinates = nil
	if newListingDocument(l).toDomain().Coordinates != nil {
		t.Fatalf("missing coordinates must stay missing")
	}
}
