package geo

import (
	"errors"
	"math"
	"testing"
)

var (
	london      = Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	liverpoolSt = Coordinate{Latitude: 51.5155, Longitude: -0.0922}
)

func TestDistanceMilesIdentityIsExactlyZero(t *testing.T) {
	points := []Coordinate{london, liverpoolSt, {0, 0}, {-33.8688, 151.2093}, {90, 0}, {-90, 180}}
	for _, p := range points {
		if d := DistanceMiles(p, p); d != 0 {
			t.Fatalf("distance(%v,%v) = %v, want exactly 0", p, p, d)
		}
	}
}

func TestDistanceMilesIsSymmetric(t *testing.T) {
	points := []Coordinate{
		london, liverpoolSt,
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
		{0, 179.9},
		{0, -179.9},
		{89.5, 10},
	}
	for i := range points {
		for j := range points {
			ab := DistanceMiles(points[i], points[j])
			ba := DistanceMiles(points[j], points[i])
			if ab < 0 {
				t.Fatalf("negative distance %v", ab)
			}
			if diff := math.Abs(ab - ba); diff > 1e-9*math.Max(1, ab) {
				t.Fatalf("asymmetric distance between %v and %v: %v vs %v", points[i], points[j], ab, ba)
			}
		}
	}
}

func TestDistanceMilesKnownPairs(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{"london to liverpool street", london, liverpoolSt, 1.63, 0.01},
		{"new york to los angeles", Coordinate{40.7128, -74.0060}, Coordinate{34.0522, -118.2437}, 2445, 5},
		{"across the anti-meridian", Coordinate{0, 179.5}, Coordinate{0, -179.5}, 69.1, 0.1},
		{"quarter meridian", Coordinate{0, 0}, Coordinate{90, 0}, EarthRadiusMiles * math.Pi / 2, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMiles(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("distance = %.4f, want %.4f ± %v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestNewCoordinateRejectsOutOfRange(t *testing.T) {
	bad := []struct{ lat, lon float64 }{
		{90.0001, 0},
		{-91, 0},
		{0, 180.5},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, b := range bad {
		if _, err := NewCoordinate(b.lat, b.lon); !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("NewCoordinate(%v,%v) err = %v, want ErrInvalidCoordinate", b.lat, b.lon, err)
		}
	}
	c, err := NewCoordinate(-90, 180)
	if err != nil {
		t.Fatalf("boundary coordinate rejected: %v", err)
	}
	if c.Latitude != -90 || c.Longitude != 180 {
		t.Fatalf("unexpected coordinate %v", c)
	}
}

func TestBoundingBoxAroundContainsEveryPointInsideRadius(t *testing.T) {
	origins := []Coordinate{london, {0, 0}, {60, 25}, {-45, 170}, {70, -179}}
	radii := []float64{0.5, 5, 50, 500}
	for _, origin := range origins {
		for _, r := range radii {
			box := BoundingBoxAround(origin, r)
			// sample a ring of points just inside the radius
			for step := 0; step < 72; step++ {
				bearing := float64(step) * 5 * math.Pi / 180
				p := destination(origin, bearing, r*0.999)
				if DistanceMiles(origin, p) > r {
					continue
				}
				if !box.Contains(p) {
					t.Fatalf("box %+v around %v (r=%v) misses %v", box, origin, r, p)
				}
			}
		}
	}
}

func TestBoundingBoxAroundPoleUsesFullLongitudeRange(t *testing.T) {
	box := BoundingBoxAround(Coordinate{89.99, 0}, 10)
	if box.MinLon != -180 || box.MaxLon != 180 || box.MaxLat != 90 {
		t.Fatalf("unexpected polar box %+v", box)
	}
}

// destination walks distance miles from origin along bearing (radians).
func destination(origin Coordinate, bearing, miles float64) Coordinate {
	delta := miles / EarthRadiusMiles
	lat1 := toRadians(origin.Latitude)
	lon1 := toRadians(origin.Longitude)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(delta)*math.Cos(lat1), math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))
	lon := lon2 * 180 / math.Pi
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return Coordinate{Latitude: lat2 * 180 / math.Pi, Longitude: lon}
}
