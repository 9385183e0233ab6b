package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
)

const keyPrefix = "ftm:location:"

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// LocationStore keeps last known locations as JSON values that expire after ttl.
type LocationStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewLocationStore(client goredis.Cmdable, ttl time.Duration) *LocationStore {
	return &LocationStore{client: client, ttl: ttl}
}

type storedLocation struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	UpdatedAt int64   `json:"updated_at"`
}

func (s *LocationStore) Get(ctx context.Context, userID string) (geo.Coordinate, bool, error) {
	raw, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return geo.Coordinate{}, false, nil
	}
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("redis: get location: %w", err)
	}
	var stored storedLocation
	if err := json.Unmarshal(raw, &stored); err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("redis: decode location: %w", err)
	}
	coord, err := geo.NewCoordinate(stored.Lat, stored.Lon)
	if err != nil {
		// a corrupt entry is treated as absent
		return geo.Coordinate{}, false, nil
	}
	return coord, true, nil
}

func (s *LocationStore) Set(ctx context.Context, userID string, coord geo.Coordinate) error {
	if strings.TrimSpace(userID) == "" {
		return location.ErrUserRequired
	}
	if err := coord.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(storedLocation{Lat: coord.Latitude, Lon: coord.Longitude, UpdatedAt: time.Now().UnixMilli()})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set location: %w", err)
	}
	return nil
}

func key(userID string) string {
	return keyPrefix + strings.TrimSpace(userID)
}

var _ location.LastKnown = (*LocationStore)(nil)
