package matches

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
)

const candidateLimit = 200

type MatchesUseCase struct {
	profileRepo     repository.ProfileRepository
	preferencesRepo repository.PreferencesRepository
	log             *logger.Logger
	now             func() time.Time
}

func NewMatchesUseCase(
	profileRepo repository.ProfileRepository,
	preferencesRepo repository.PreferencesRepository,
	log *logger.Logger,
) *MatchesUseCase {
	return &MatchesUseCase{
		profileRepo:     profileRepo,
		preferencesRepo: preferencesRepo,
		log:             log.With("usecase", "matches"),
		now:             time.Now,
	}
}

// Location is the searcher's position, echoed back with the results.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FindResponse represents the matches of one user
type FindResponse struct {
	Matches       []domain.MatchCandidate `json:"matches"`
	UserLocation  Location                `json:"user_location"`
	MaxDistanceKm int                     `json:"max_distance_km"`
}

// Find returns completed profiles of the preferred genders and age range
// within the preferred distance, nearest first.
func (uc *MatchesUseCase) Find(ctx context.Context, userID uuid.UUID) (*FindResponse, error) {
	me, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user profile: %w", err)
	}
	prefs, err := uc.preferencesRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user preferences: %w", err)
	}
	if !me.HasCoordinates() {
		return nil, domain.ErrLocationNotSet
	}

	now := uc.now()
	maxKm := prefs.MaxDistanceKm()
	filter := domain.CandidateFilter{
		ExcludeUserID: userID,
		Genders:       prefs.PreferredGenders,
		Limit:         candidateLimit,
	}
	// Someone is at most max years old until the day before their
	// (max+1)th birthday.
	if prefs.PreferredAgeMax != nil {
		after := now.AddDate(-(*prefs.PreferredAgeMax + 1), 0, 1)
		filter.BornAfter = &after
	}
	if prefs.PreferredAgeMin != nil {
		before := now.AddDate(-*prefs.PreferredAgeMin, 0, 0)
		filter.BornBefore = &before
	}

	candidates, err := uc.profileRepo.SearchCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	found := make([]domain.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == userID || !c.HasCoordinates() {
			continue
		}
		distance := calculateDistance(*me.Latitude, *me.Longitude, *c.Latitude, *c.Longitude)
		if distance > float64(maxKm) {
			continue
		}

		m := domain.MatchCandidate{
			UserID:     c.UserID,
			Age:        c.Age(now),
			DistanceKm: math.Round(distance*10) / 10,
			BodyType:   c.BodyType,
			HeightCm:   c.HeightCm,
		}
		if c.DisplayName != nil {
			m.DisplayName = *c.DisplayName
		}
		if c.Gender != nil {
			m.Gender = string(*c.Gender)
		}
		found = append(found, m)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DistanceKm < found[j].DistanceKm
	})

	uc.log.Debug("matches found", "user_id", userID, "count", len(found), "max_distance_km", maxKm)
	return &FindResponse{
		Matches:       found,
		UserLocation:  Location{Latitude: *me.Latitude, Longitude: *me.Longitude},
		MaxDistanceKm: maxKm,
	}, nil
}

// calculateDistance returns the haversine distance in km.
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
