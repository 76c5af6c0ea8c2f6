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

type crushRepository struct {
	db *sqlx.DB
}

func NewCrushRepository(db *sqlx.DB) repository.CrushRepository {
	return &crushRepository{db: db}
}

func (r *crushRepository) Create(ctx context.Context, crush *domain.Crush) error {
	query := `
		INSERT INTO crushes (sender_user_id, recipient_email, email_sent)
		VALUES ($1, $2, false)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, crush.SenderUserID, crush.RecipientEmail).
		Scan(&crush.ID, &crush.CreatedAt, &crush.UpdatedAt)
}

func (r *crushRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Crush, error) {
	var crush domain.Crush
	query := `
		SELECT id, sender_user_id, recipient_email, email_sent, email_id,
		       error_message, created_at, updated_at
		FROM crushes WHERE id = $1
	`
	err := r.db.GetContext(ctx, &crush, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCrushNotFound
		}
		return nil, err
	}
	return &crush, nil
}

func (r *crushRepository) MarkSent(ctx context.Context, id uuid.UUID, emailID string) error {
	query := `
		UPDATE crushes
		SET email_sent = true, email_id = $1, error_message = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	return r.execOne(ctx, query, emailID, id)
}

func (r *crushRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE crushes
		SET email_sent = false, error_message = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	return r.execOne(ctx, query, reason, id)
}

func (r *crushRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCrushNotFound
	}
	return nil
}
