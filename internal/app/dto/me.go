package dto

import (
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

// StoredPreferences is nil-safe: Configured is false when the user never saved any.
type StoredPreferences struct {
	Configured  bool                        `json:"configured"`
	Preferences preferences.UserPreferences `json:"preferences"`
}

type LocationUpdated struct {
	Location  geo.Coordinate `json:"location"`
	UpdatedAt time.Time      `json:"updated_at"`
}
