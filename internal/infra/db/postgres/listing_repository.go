package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
)

const listingColumns = `id, title, kind, property_type, address_line, city, country, lat, lon, price, bedrooms,
	lifestyle_tags, walkability_score, transit_score, noise_level, investment_score, state, created_at, updated_at`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) ByID(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, string(id))
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, listings.ErrNotFound
	}
	return l, err
}

func (r *ListingRepository) Save(ctx context.Context, l *listings.Listing) error {
	var lat, lon *float64
	if l.Coordinates != nil {
		lat, lon = &l.Coordinates.Latitude, &l.Coordinates.Longitude
	}
	tags := l.LifestyleTags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			kind = EXCLUDED.kind,
			property_type = EXCLUDED.property_type,
			address_line = EXCLUDED.address_line,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			lifestyle_tags = EXCLUDED.lifestyle_tags,
			walkability_score = EXCLUDED.walkability_score,
			transit_score = EXCLUDED.transit_score,
			noise_level = EXCLUDED.noise_level,
			investment_score = EXCLUDED.investment_score,
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at`,
		string(l.ID), l.Title, string(l.Kind), l.PropertyType, l.Address.Line1, l.Address.City, l.Address.Country,
		lat, lon, l.Price, l.Bedrooms, tags,
		l.WalkabilityScore, l.TransitScore, l.NoiseLevel, l.InvestmentScore,
		string(l.State), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save listing %s: %w", l.ID, err)
	}
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params listings.SearchParams) (listings.SearchResult, error) {
	opts := params.Normalized()
	where, args := searchWhere(opts)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM listings`+where, args...).Scan(&total); err != nil {
		return listings.SearchResult{}, fmt.Errorf("postgres: count listings: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(`SELECT %s FROM listings%s ORDER BY id LIMIT $%d OFFSET $%d`, listingColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return listings.SearchResult{}, fmt.Errorf("postgres: search listings: %w", err)
	}
	defer rows.Close()

	items := make([]*listings.Listing, 0, opts.Limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return listings.SearchResult{}, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return listings.SearchResult{}, err
	}
	return listings.SearchResult{Items: items, Total: total}, nil
}

// searchWhere builds a WHERE clause with positional args for normalized params.
func searchWhere(p listings.SearchParams) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, values ...any) {
		for _, v := range values {
			args = append(args, v)
			clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses = append(clauses, clause)
	}
	if p.OnlyActive {
		add("state = ?", string(listings.ListingActive))
	}
	if p.Bounds != nil {
		add("lat BETWEEN ? AND ?", p.Bounds.MinLat, p.Bounds.MaxLat)
		add("lon BETWEEN ? AND ?", p.Bounds.MinLon, p.Bounds.MaxLon)
	}
	if len(p.Kinds) > 0 {
		kinds := make([]string, 0, len(p.Kinds))
		for _, k := range p.Kinds {
			kinds = append(kinds, string(k))
		}
		add("kind = ANY(?)", kinds)
	}
	if p.City != "" {
		add("lower(city) = ?", p.City)
	}
	if p.PriceMin > 0 {
		add("price >= ?", p.PriceMin)
	}
	if p.PriceMax > 0 {
		add("price <= ?", p.PriceMax)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanListing(row pgx.Row) (*listings.Listing, error) {
	var (
		l               listings.Listing
		id, kind, state string
		lat, lon        *float64
	)
	err := row.Scan(
		&id, &l.Title, &kind, &l.PropertyType, &l.Address.Line1, &l.Address.City, &l.Address.Country,
		&lat, &lon, &l.Price, &l.Bedrooms, &l.LifestyleTags,
		&l.WalkabilityScore, &l.TransitScore, &l.NoiseLevel, &l.InvestmentScore,
		&state, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = listings.ListingID(id)
	l.Kind = listings.Kind(kind)
	l.State = listings.ListingState(state)
	if lat != nil && lon != nil {
		l.Coordinates = &geo.Coordinate{Latitude: *lat, Longitude: *lon}
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

var _ listings.Repository = (*ListingRepository)(nil)
