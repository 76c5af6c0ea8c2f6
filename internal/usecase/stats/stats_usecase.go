package stats

import (
	"context"
	"fmt"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

type StatsUseCase struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
}

func NewStatsUseCase(userRepo repository.UserRepository, statsRepo repository.StatsRepository) *StatsUseCase {
	return &StatsUseCase{userRepo: userRepo, statsRepo: statsRepo}
}

// Collect returns the platform counters. Only admins may read them.
func (uc *StatsUseCase) Collect(ctx context.Context, userID uuid.UUID) (*domain.Stats, error) {
	ok, err := uc.userRepo.HasRole(ctx, userID, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	stats, err := uc.statsRepo.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}
