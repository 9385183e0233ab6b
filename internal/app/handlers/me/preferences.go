package me

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

const (
	GetPreferencesKey  = "preferences.get"
	SavePreferencesKey = "preferences.save"
)

type GetPreferencesQuery struct{}

func (GetPreferencesQuery) Key() string        { return GetPreferencesKey }
func (GetPreferencesQuery) RequiresUser() bool { return true }

type SavePreferencesCommand struct {
	Preferences preferences.UserPreferences
}

func (SavePreferencesCommand) Key() string        { return SavePreferencesKey }
func (SavePreferencesCommand) RequiresUser() bool { return true }

type PreferencesHandler struct {
	Repo   preferences.Repository
	Logger *slog.Logger
}

func (h *PreferencesHandler) Get(ctx context.Context, _ GetPreferencesQuery) (dto.StoredPreferences, error) {
	userID := identity.UserFrom(ctx)
	if userID == "" {
		return dto.StoredPreferences{}, identity.ErrUnauthenticated
	}
	prefs, err := h.Repo.ByUser(ctx, userID)
	if err != nil {
		return dto.StoredPreferences{}, fmt.Errorf("preferences: load: %w", err)
	}
	if prefs == nil {
		return dto.StoredPreferences{}, nil
	}
	return dto.StoredPreferences{Configured: true, Preferences: *prefs}, nil
}

func (h *PreferencesHandler) Save(ctx context.Context, cmd SavePreferencesCommand) (dto.StoredPreferences, error) {
	userID := identity.UserFrom(ctx)
	if userID == "" {
		return dto.StoredPreferences{}, identity.ErrUnauthenticated
	}
	prefs := cmd.Preferences.Normalized()
	if err := prefs.Validate(); err != nil {
		return dto.StoredPreferences{}, err
	}
	if err := h.Repo.Save(ctx, userID, prefs); err != nil {
		return dto.StoredPreferences{}, fmt.Errorf("preferences: save: %w", err)
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "preferences saved", "user_id", userID, "empty", prefs.IsEmpty())
	}
	return dto.StoredPreferences{Configured: true, Preferences: prefs}, nil
}
