package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, user_id, display_name, profile_photo_url, gender, birth_date,
	personal_definition, appearance_importance, location_city, location_country,
	latitude, longitude, personality_traits, height_cm, body_type, attracted_to_types,
	COALESCE(age_confirmed, false) AS age_confirmed, profile_visibility, photo_visibility,
	COALESCE(profile_completed, false) AS profile_completed, created_at, updated_at`

var profileWritable = map[string]struct{}{
	"display_name":          {},
	"profile_photo_url":     {},
	"gender":                {},
	"birth_date":            {},
	"personal_definition":   {},
	"appearance_importance": {},
	"location_city":         {},
	"location_country":      {},
	"latitude":              {},
	"longitude":             {},
	"personality_traits":    {},
	"height_cm":             {},
	"body_type":             {},
	"attracted_to_types":    {},
	"age_confirmed":         {},
	"profile_visibility":    {},
	"photo_visibility":      {},
	"profile_completed":     {},
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, userID uuid.UUID, fields repository.Fields) error {
	return upsertByUserID(ctx, r.db, "profiles", profileWritable, userID, fields)
}

func (r *profileRepository) SearchCandidates(ctx context.Context, filter domain.CandidateFilter) ([]*domain.Profile, error) {
	var profiles []*domain.Profile

	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE profile_completed = true AND user_id <> $1
		  AND latitude IS NOT NULL AND longitude IS NOT NULL`
	args := []interface{}{filter.ExcludeUserID}
	argCount := 2

	if len(filter.Genders) > 0 {
		query += fmt.Sprintf(" AND gender = ANY($%d)", argCount)
		args = append(args, pq.Array(filter.Genders))
		argCount++
	}

	if filter.BornAfter != nil {
		query += fmt.Sprintf(" AND birth_date >= $%d", argCount)
		args = append(args, *filter.BornAfter)
		argCount++
	}

	if filter.BornBefore != nil {
		query += fmt.Sprintf(" AND birth_date <= $%d", argCount)
		args = append(args, *filter.BornBefore)
		argCount++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", argCount)
	args = append(args, limit)

	err := r.db.SelectContext(ctx, &profiles, query, args...)
	return profiles, err
}

func (r *profileRepository) ListCompleted(ctx context.Context, limit, offset int) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE profile_completed = true
		ORDER BY created_at
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &profiles, query, limit, offset)
	return profiles, err
}
