package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	meapp "github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/me"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

type MeHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
	Logger   *slog.Logger
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (h MeHandler) GetPreferences(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	result, err := queries.Ask[meapp.GetPreferencesQuery, dto.StoredPreferences](c.Request.Context(), h.Queries, meapp.GetPreferencesQuery{})
	if err != nil {
		writeError(c, h.Logger, "get preferences", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) SavePreferences(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var prefs preferences.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeError(c, h.Logger, "save preferences", fmt.Errorf("%w: %v", validation.ErrInvalidInput, err))
		return
	}
	result, err := commands.Dispatch[meapp.SavePreferencesCommand, dto.StoredPreferences](c.Request.Context(), h.Commands, meapp.SavePreferencesCommand{Preferences: prefs})
	if err != nil {
		writeError(c, h.Logger, "save preferences", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) UpdateLocation(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, "update location", fmt.Errorf("%w: %v", validation.ErrInvalidInput, err))
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(c, h.Logger, "update location", fmt.Errorf("%w: lat and lon are required", validation.ErrInvalidInput))
		return
	}
	cmd := meapp.UpdateLocationCommand{Lat: *req.Lat, Lon: *req.Lon}
	result, err := commands.Dispatch[meapp.UpdateLocationCommand, dto.LocationUpdated](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, "update location", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
