package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/config"
	"github.com/Sani5012/Find-That-Home-sub000/internal/infra/obs"
)

type SearchHTTP interface {
	Nearby(c *gin.Context)
	LocationSearch(c *gin.Context)
}

type AffordabilityHTTP interface {
	Rent(c *gin.Context)
	Buy(c *gin.Context)
	MortgagePayment(c *gin.Context)
}

type MeHTTP interface {
	GetPreferences(c *gin.Context)
	SavePreferences(c *gin.Context)
	UpdateLocation(c *gin.Context)
}

type Handlers struct {
	Search         SearchHTTP
	Affordability  AffordabilityHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
	// SearchLimiter guards the geocoding-backed location search.
	SearchLimiter gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Search != nil {
		api.GET("/listings/nearby", h.Search.Nearby)
		if h.SearchLimiter != nil {
			api.GET("/listings/location-search", h.SearchLimiter, h.Search.LocationSearch)
		} else {
			api.GET("/listings/location-search", h.Search.LocationSearch)
		}
	}
	if h.Affordability != nil {
		group := api.Group("/affordability")
		group.POST("/rent", h.Affordability.Rent)
		group.POST("/buy", h.Affordability.Buy)
		group.POST("/mortgage-payment", h.Affordability.MortgagePayment)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/preferences", h.Me.GetPreferences)
		meGroup.PUT("/preferences", h.Me.SavePreferences)
		meGroup.PUT("/location", h.Me.UpdateLocation)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
