package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Listing store backends selectable with LISTING_STORE.
const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	ListingStore string
	MongoURI     string
	MongoDB      string
	DatabaseURL  string

	RedisURL    string
	LocationTTL time.Duration

	KafkaBrokers     []string
	KafkaTopicPrefix string

	JWTSecret string

	GeocoderURL       string
	GeocoderTimeout   time.Duration
	GeocoderUserAgent string

	ListingsFixtures string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	AffordabilityRatesPath string
	DefaultRadiusMiles     float64
	SearchRatePerMinute    int
	CORSOrigins            []string
}

// Load reads .env when present, then parses configuration from the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv parses configuration from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:                    getEnv("APP_ENV", "dev"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		ListingStore:           strings.ToLower(getEnv("LISTING_STORE", StoreMemory)),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDB:                getEnv("MONGO_DB", "findthathome"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		KafkaTopicPrefix:       getEnv("KAFKA_TOPIC_PREFIX", ""),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		GeocoderURL:            getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:      getEnv("GEOCODER_USER_AGENT", "find-that-home/1.0"),
		ListingsFixtures:       os.Getenv("LISTINGS_FIXTURES"),
		S3Endpoint:             getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:            getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:            getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:               getEnv("S3_BUCKET", "findthathome-fixtures"),
		AffordabilityRatesPath: os.Getenv("AFFORDABILITY_RATES_PATH"),
		CORSOrigins:            splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))

	var err error
	if cfg.LocationTTL, err = parseDurationEnv("LOCATION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.GeocoderTimeout, err = parseDurationEnv("GEOCODER_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.DefaultRadiusMiles, err = parseFloatEnv("DEFAULT_RADIUS_MILES", 5); err != nil {
		return Config{}, err
	}
	if cfg.SearchRatePerMinute, err = parseIntEnv("SEARCH_RATE_PER_MINUTE", 30); err != nil {
		return Config{}, err
	}

	if cfg.DefaultRadiusMiles <= 0 || cfg.DefaultRadiusMiles > 500 {
		return Config{}, fmt.Errorf("DEFAULT_RADIUS_MILES must be in (0, 500], got %v", cfg.DefaultRadiusMiles)
	}
	if cfg.SearchRatePerMinute <= 0 {
		return Config{}, fmt.Errorf("SEARCH_RATE_PER_MINUTE must be positive")
	}
	switch cfg.ListingStore {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when LISTING_STORE=mongo")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when LISTING_STORE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown LISTING_STORE %q", cfg.ListingStore)
	}
	if cfg.JWTSecret == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("JWT_SECRET is required outside dev")
	}
	return cfg, nil
}

// IsDev reports whether the service runs in a local/dev environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return v, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}
