package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var preferencesWritable = map[string]struct{}{
	"preferred_personality_types": {},
	"seeking_relationship_types":  {},
	"preferred_age_min":           {},
	"preferred_age_max":           {},
	"preferred_distances":         {},
	"preferred_body_types":        {},
	"preferred_heights":           {},
	"preferred_genders":           {},
	"location":                    {},
}

type preferencesRepository struct {
	db *sqlx.DB
}

func NewPreferencesRepository(db *sqlx.DB) repository.PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	var prefs domain.Preferences
	query := `
		SELECT id, user_id, preferred_personality_types, seeking_relationship_types,
		       preferred_age_min, preferred_age_max, preferred_distances,
		       preferred_body_types, preferred_heights, preferred_genders,
		       location, created_at, updated_at
		FROM user_preferences WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, userID uuid.UUID, fields repository.Fields) error {
	return upsertByUserID(ctx, r.db, "user_preferences", preferencesWritable, userID, fields)
}
