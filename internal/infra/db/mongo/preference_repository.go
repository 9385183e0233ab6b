package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

const preferencesCollection = "user_preferences"

type PreferenceRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewPreferenceRepository(db *mongo.Database) *PreferenceRepository {
	return &PreferenceRepository{col: db.Collection(preferencesCollection), now: time.Now}
}

type preferenceDocument struct {
	UserID      string                      `bson:"_id"`
	Preferences preferences.UserPreferences `bson:"preferences"`
	UpdatedAt   int64                       `bson:"updated_at"`
}

func (r *PreferenceRepository) ByUser(ctx context.Context, userID string) (*preferences.UserPreferences, error) {
	var doc preferenceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc.Preferences, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, userID string, prefs preferences.UserPreferences) error {
	doc := preferenceDocument{UserID: userID, Preferences: prefs, UpdatedAt: r.now().UnixMilli()}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	return err
}

var _ preferences.Repository = (*PreferenceRepository)(nil)
