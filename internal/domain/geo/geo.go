package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean Earth radius used by every distance in the module.
// All distances and radii are statute miles.
const EarthRadiusMiles = 3959.0

// milesPerDegreeLat is the arc length of one degree of latitude on the same sphere.
const milesPerDegreeLat = EarthRadiusMiles * math.Pi / 180

var ErrInvalidCoordinate = errors.New("geo: invalid coordinate")

// Coordinate is an immutable WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewCoordinate validates lat/lon and returns a Coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate reports whether both components are finite and inside their ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: components must be finite", ErrInvalidCoordinate)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinate)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinate)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// DistanceMiles returns the haversine great-circle distance between a and b.
func DistanceMiles(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundingBox is an axis-aligned lat/lon rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether c falls inside the box (edges inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}

// BoundingBoxAround returns a rectangle that contains every point within
// radiusMiles of origin. It may contain more; callers still apply the exact
// haversine cutoff.
func BoundingBoxAround(origin Coordinate, radiusMiles float64) BoundingBox {
	if radiusMiles < 0 {
		radiusMiles = 0
	}
	dLat := radiusMiles / milesPerDegreeLat
	box := BoundingBox{
		MinLat: math.Max(-90, origin.Latitude-dLat),
		MaxLat: math.Min(90, origin.Latitude+dLat),
		MinLon: -180,
		MaxLon: 180,
	}
	// the widest longitude span is at the box edge closest to a pole
	edgeLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	if edgeLat >= 89.9 {
		return box
	}
	dLon := radiusMiles / (milesPerDegreeLat * math.Cos(toRadians(edgeLat)))
	minLon := origin.Longitude - dLon
	maxLon := origin.Longitude + dLon
	if minLon < -180 || maxLon > 180 {
		// crossing the anti-meridian: keep the full longitude range
		return box
	}
	box.MinLon = minLon
	box.MaxLon = maxLon
	return box
}
