package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	affordabilityapp "github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/affordability"
	meapp "github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/me"
	searchapp "github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/search"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/middleware"
	appoutbox "github.com/Sani5012/Find-That-Home-sub000/internal/app/outbox"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/affordability"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/listings"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/recommendation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/shared/events"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/broker/kafka"
	redisstore "github.com/Sani5012/Find-That-Home-sub000/internal/infra/cache/redis"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/config"
	mongostore "github.com/Sani5012/Find-That-Home-sub000/internal/infra/db/mongo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/db/postgres"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/fixtures"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/geocoding"
	ginserver "github.com/Sani5012/Find-That-Home-sub000/internal/infra/http/gin"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/obs"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/outbox"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/storage/memory"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(getenv("APP_ENV", "dev")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	if err := app.loadListingFixtures(ctx, cfg, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "source", cfg.ListingsFixtures)
	}

	for _, relay := range app.relays {
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox relay stopped", "error", err)
			}
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "listing_store", cfg.ListingStore)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	listings listings.Repository
	relays   []*outbox.Worker
	closers  []func(context.Context) error
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown hook failed", "error", err)
		}
	}
}

type stores struct {
	listings    listings.Repository
	preferences preferences.Repository
	lastKnown   location.LastKnown
	publisher   events.Publisher
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{health: obs.HealthHandlers{Checks: map[string]obs.Check{}}}
	st, err := app.openStores(ctx, cfg, logger)
	if err != nil {
		app.close(logger)
		return nil, err
	}
	app.listings = st.listings

	engine := affordability.DefaultEngine()
	if cfg.AffordabilityRatesPath != "" {
		if engine, err = affordability.LoadRatesFile(cfg.AffordabilityRatesPath); err != nil {
			app.close(logger)
			return nil, err
		}
	}

	pipeline := &searchapp.Pipeline{
		Listings:    st.listings,
		Preferences: st.preferences,
		Scorer:      recommendation.NewScorer(recommendation.DefaultWeights()),
		Publisher:   st.publisher,
		Logger:      logger,
	}
	geocoder := geocoding.NewNominatim(geocoding.Config{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Timeout:   cfg.GeocoderTimeout,
	}, logger)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[searchapp.NearbyQuery, dto.NearbyResults](queryBus, searchapp.NearbyKey, &searchapp.NearbyHandler{
		Pipeline:      pipeline,
		LastKnown:     st.lastKnown,
		DefaultRadius: cfg.DefaultRadiusMiles,
	})
	queries.RegisterHandler[searchapp.LocationSearchQuery, dto.NearbyResults](queryBus, searchapp.LocationSearchKey, &searchapp.LocationSearchHandler{
		Pipeline:      pipeline,
		Provider:      geocoder,
		DefaultRadius: cfg.DefaultRadiusMiles,
	})
	affordabilityapp.Register(queryBus, &affordabilityapp.Handlers{Engine: engine})
	prefsHandler := &meapp.PreferencesHandler{Repo: st.preferences, Logger: logger}
	queries.RegisterHandler[meapp.GetPreferencesQuery, dto.StoredPreferences](queryBus, meapp.GetPreferencesKey,
		queries.HandlerFunc[meapp.GetPreferencesQuery, dto.StoredPreferences](prefsHandler.Get))

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[meapp.SavePreferencesCommand, dto.StoredPreferences](commandBus, meapp.SavePreferencesKey,
		commands.HandlerFunc[meapp.SavePreferencesCommand, dto.StoredPreferences](prefsHandler.Save))
	commands.RegisterHandler[meapp.UpdateLocationCommand, dto.LocationUpdated](commandBus, meapp.UpdateLocationKey,
		&meapp.LocationHandler{Store: st.lastKnown})

	validator := validation.New()
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryAuthorization(middleware.RequireUser{}),
		middleware.QueryValidation(validator),
	)
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Authorization(middleware.RequireUser{}),
		middleware.Validation(validator),
	)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, all requests are anonymous")
	}
	app.handlers = ginserver.Handlers{
		Search: ginserver.SearchHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Affordability: ginserver.AffordabilityHandler{
			Queries: queryBusWithMiddleware,
			Logger:  logger,
		},
		Me: ginserver.MeHandler{
			Queries:  queryBusWithMiddleware,
			Commands: commandBusWithMiddleware,
			Logger:   logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Secret: []byte(cfg.JWTSecret), Logger: logger}.Handle,
		SearchLimiter:  ginserver.NewIPRateLimiter(cfg.SearchRatePerMinute).Middleware(),
	}
	return app, nil
}

func (a *application) openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	st := stores{
		listings:    memory.NewListingRepository(),
		preferences: memory.NewPreferenceRepository(),
		lastKnown:   memory.NewLocationStore(cfg.LocationTTL),
		publisher:   events.NopPublisher{},
	}

	var mongoDB *mongo.Database
	if cfg.MongoURI != "" {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return st, fmt.Errorf("mongo: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.health.Checks["mongo"] = client.Ping
		mongoDB = client.DB
		st.preferences = mongostore.NewPreferenceRepository(client.DB)
		if cfg.ListingStore == config.StoreMongo {
			repo := mongostore.NewListingRepository(client.DB)
			if err := repo.EnsureIndexes(ctx); err != nil {
				return st, fmt.Errorf("mongo indexes: %w", err)
			}
			st.listings = repo
		}
		logger.Info("mongo connected", "database", cfg.MongoDB)
	}

	if cfg.ListingStore == config.StorePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return st, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		a.health.Checks["postgres"] = pool.Ping
		if err := postgres.Migrate(ctx, pool); err != nil {
			return st, err
		}
		st.listings = postgres.NewListingRepository(pool)
		logger.Info("postgres connected")
	}

	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return st, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.health.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		st.lastKnown = redisstore.NewLocationStore(client, cfg.LocationTTL)
		logger.Info("redis connected")
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			return st, err
		}
		a.closers = append(a.closers, func(context.Context) error { return producer.Close() })
		st.publisher = producer
		if mongoDB != nil {
			store := outbox.NewStore(mongoDB)
			if err := store.EnsureIndexes(ctx); err != nil {
				return st, fmt.Errorf("outbox indexes: %w", err)
			}
			st.publisher = appoutbox.Publisher{Box: store}
			a.relays = append(a.relays, &outbox.Worker{
				Queue:       store,
				Sender:      producer,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     []time.Duration{time.Second, 5 * time.Second, 30 * time.Second, 2 * time.Minute},
				Logger:      logger,
			})
		}
		logger.Info("kafka producer ready", "brokers", cfg.KafkaBrokers, "outbox", mongoDB != nil)
	}
	return st, nil
}

func (a *application) loadListingFixtures(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	loader := fixtures.Loader{Repo: a.listings, Logger: logger}
	source := strings.TrimSpace(cfg.ListingsFixtures)

	if strings.HasPrefix(source, "s3://") {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
		if err != nil {
			return err
		}
		_, err = loader.LoadObject(ctx, client, s3.ObjectKey(source))
		return err
	}

	if source == "" {
		if cfg.ListingStore != config.StoreMemory {
			return nil
		}
		source = defaultListingFixturesPath()
	}
	if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
		logger.Info("listing fixtures file not found, skipping", "path", source)
		return nil
	}
	_, err := loader.LoadFile(ctx, source)
	return err
}

func defaultListingFixturesPath() string {
	candidates := []string{
		filepath.Join("fixtures", "listings.json"),
		filepath.Join("data", "listings.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
