package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
)

// Config for the Nominatim geocoder.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond defaults to 1, the public Nominatim usage policy.
	RequestsPerSecond float64
}

// Nominatim resolves free-text places with the OpenStreetMap Nominatim API.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *slog.Logger
}

func NewNominatim(cfg Config, log *slog.Logger) *Nominatim {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		log:       log,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Locate(ctx context.Context, query string) (geo.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return geo.Coordinate{}, location.ErrNotFound
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: waiting for rate limiter: %v", location.ErrTimeout, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", location.ErrUnavailable, err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.WarnContext(ctx, "nominatim request failed", "error", err)
		if isTimeout(err) {
			return geo.Coordinate{}, fmt.Errorf("%w: %v", location.ErrTimeout, err)
		}
		return geo.Coordinate{}, fmt.Errorf("%w: %v", location.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return geo.Coordinate{}, fmt.Errorf("%w: upstream status %d", location.ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return geo.Coordinate{}, fmt.Errorf("%w: upstream status %d", location.ErrTimeout, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		n.log.WarnContext(ctx, "nominatim upstream error", "status", resp.StatusCode)
		return geo.Coordinate{}, fmt.Errorf("%w: upstream status %d", location.ErrUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: decode: %v", location.ErrUnavailable, err)
	}
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		coord, err := geo.NewCoordinate(lat, lon)
		if err != nil {
			continue
		}
		return coord, nil
	}
	return geo.Coordinate{}, fmt.Errorf("%w: %q", location.ErrNotFound, query)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ location.Provider = (*Nominatim)(nil)
