package postgres

import (
	"context"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles) AS total_profiles,
			(SELECT COUNT(*) FROM profiles WHERE profile_completed = true) AS completed_profiles,
			(SELECT COUNT(*) FROM crushes) AS total_crushes,
			(SELECT COUNT(*) FROM crushes WHERE email_sent = true) AS crush_emails_sent,
			(SELECT COUNT(*) FROM profiles WHERE created_at >= NOW() - INTERVAL '7 days') AS new_profiles_week
	`
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}
