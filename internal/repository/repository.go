package repository

import (
	"context"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/google/uuid"
)

// Fields is a column -> value set for an upsert. Only the listed columns are
// written; everything else on an existing row is left untouched.
type Fields map[string]interface{}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	HasRole(ctx context.Context, id uuid.UUID, role string) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, fields Fields) error
	SearchCandidates(ctx context.Context, filter domain.CandidateFilter) ([]*domain.Profile, error)
	ListCompleted(ctx context.Context, limit, offset int) ([]*domain.Profile, error)
}

type PreferencesRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error)
	Upsert(ctx context.Context, userID uuid.UUID, fields Fields) error
}

type CrushRepository interface {
	Create(ctx context.Context, crush *domain.Crush) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Crush, error)
	MarkSent(ctx context.Context, id uuid.UUID, emailID string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type StatsRepository interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}
