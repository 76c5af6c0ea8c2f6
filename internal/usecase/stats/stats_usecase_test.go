package stats

import (
	"context"
	"testing"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleUsers struct {
	admins map[uuid.UUID]bool
}

func (r *roleUsers) Create(context.Context, *domain.User) error { return nil }
func (r *roleUsers) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *roleUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *roleUsers) SetPasswordHash(context.Context, uuid.UUID, string) error { return nil }
func (r *roleUsers) HasRole(_ context.Context, id uuid.UUID, role string) (bool, error) {
	return role == RoleAdmin && r.admins[id], nil
}

type fixedStats struct{ calls int }

func (f *fixedStats) Collect(context.Context) (*domain.Stats, error) {
	f.calls++
	return &domain.Stats{TotalProfiles: 12, CompletedProfiles: 7, TotalCrushes: 3, CrushEmailsSent: 2, NewProfilesWeek: 4}, nil
}

func TestCollect(t *testing.T) {
	admin, member := uuid.New(), uuid.New()
	repo := &fixedStats{}
	uc := NewStatsUseCase(&roleUsers{admins: map[uuid.UUID]bool{admin: true}}, repo)

	s, err := uc.Collect(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 7, s.CompletedProfiles)

	_, err = uc.Collect(context.Background(), member)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, repo.calls)
}
