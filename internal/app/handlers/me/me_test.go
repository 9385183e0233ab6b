package me

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/commands"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/middleware"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

type memPrefs map[string]preferences.UserPreferences

func (m memPrefs) ByUser(_ context.Context, userID string) (*preferences.UserPreferences, error) {
	p, ok := m[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m memPrefs) Save(_ context.Context, userID string, p preferences.UserPreferences) error {
	m[userID] = p
	return nil
}

type memLocations map[string]geo.Coordinate

func (m memLocations) Get(_ context.Context, userID string) (geo.Coordinate, bool, error) {
	c, ok := m[userID]
	return c, ok, nil
}

func (m memLocations) Set(_ context.Context, userID string, c geo.Coordinate) error {
	m[userID] = c
	return nil
}

func TestPreferencesRoundTrip(t *testing.T) {
	h := &PreferencesHandler{Repo: memPrefs{}}
	ctx := identity.WithUser(context.Background(), "u-1")

	got, err := h.Get(ctx, GetPreferencesQuery{})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Configured {
		t.Fatalf("fresh user reported configured preferences")
	}

	noise := 30
	saved, err := h.Save(ctx, SavePreferencesCommand{Preferences: preferences.UserPreferences{
		MaxNoiseLevel:          &noise,
		PreferredLifestyleTags: []string{" Quiet", "quiet"},
	}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(saved.Preferences.PreferredLifestyleTags) != 1 || saved.Preferences.PreferredLifestyleTags[0] != "quiet" {
		t.Fatalf("tags not normalized: %v", saved.Preferences.PreferredLifestyleTags)
	}

	got, err = h.Get(ctx, GetPreferencesQuery{})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Configured || *got.Preferences.MaxNoiseLevel != 30 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestSavePreferencesRejectsInvalid(t *testing.T) {
	h := &PreferencesHandler{Repo: memPrefs{}}
	ctx := identity.WithUser(context.Background(), "u-1")
	_, err := h.Save(ctx, SavePreferencesCommand{Preferences: preferences.UserPreferences{
		PriceRange: &preferences.PriceRange{Min: 10, Max: 1},
	}})
	if !errors.Is(err, preferences.ErrInvalidPreferences) {
		t.Fatalf("err = %v", err)
	}
}

func TestUserScopedCommandsNeedIdentity(t *testing.T) {
	bus := commands.NewInMemoryBus()
	loc := &LocationHandler{Store: memLocations{}}
	commands.RegisterHandler[UpdateLocationCommand, dto.LocationUpdated](bus, UpdateLocationKey, loc)
	guarded := middleware.ChainCommands(bus, middleware.Authorization(middleware.RequireUser{}))

	_, err := commands.Dispatch[UpdateLocationCommand, dto.LocationUpdated](context.Background(), guarded, UpdateLocationCommand{Lat: 1, Lon: 1})
	if !errors.Is(err, identity.ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v", err)
	}
}

func TestUpdateLocationStoresCoordinate(t *testing.T) {
	store := memLocations{}
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	h := &LocationHandler{Store: store, Now: func() time.Time { return at }}
	ctx := identity.WithUser(context.Background(), "u-9")

	res, err := h.Handle(ctx, UpdateLocationCommand{Lat: 51.5, Lon: -0.12})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.UpdatedAt.Equal(at) || store["u-9"].Latitude != 51.5 {
		t.Fatalf("unexpected %+v / %+v", res, store)
	}
	if _, err := h.Handle(ctx, UpdateLocationCommand{Lat: 91}); !errors.Is(err, geo.ErrInvalidCoordinate) {
		t.Fatalf("invalid coordinate err = %v", err)
	}
}
