package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

func TestSearchWhereNumbersPlaceholders(t *testing.T) {
	box := geo.BoundingBox{MinLat: 1, MaxLat: 2, MinLon: 3, MaxLon: 4}
	where, args := searchWhere(listings.SearchParams{
		Bounds:     &box,
		OnlyActive: true,
		City:       "Leeds",
		PriceMax:   900,
	}.Normalized())

	want := " WHERE state = $1 AND lat BETWEEN $2 AND $3 AND lon BETWEEN $4 AND $5 AND lower(city) = $6 AND price <= $7"
	if where != want {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 7 || args[0] != "ACTIVE" || args[5] != "leeds" || args[6] != 900.0 {
		t.Fatalf("args = %v", args)
	}
}

func TestSearchWhereEmpty(t *testing.T) {
	where, args := searchWhere(listings.SearchParams{}.Normalized())
	if where != "" || args != nil {
		t.Fatalf("where = %q args = %v", where, args)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("no migrations embedded: %v", err)
	}
	raw, err := fs.ReadFile(migrations, files[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "-- +goose Up") || !strings.Contains(string(raw), "CREATE TABLE IF NOT EXISTS listings") {
		t.Fatalf("unexpected migration content")
	}
}
