package matches

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeProfiles struct {
	me         *domain.Profile
	candidates []*domain.Profile
	filter     domain.CandidateFilter
}

func (f *fakeProfiles) GetByUserID(context.Context, uuid.UUID) (*domain.Profile, error) {
	if f.me == nil {
		return nil, domain.ErrProfileNotFound
	}
	return f.me, nil
}
func (f *fakeProfiles) Upsert(context.Context, uuid.UUID, repository.Fields) error { return nil }
func (f *fakeProfiles) SearchCandidates(_ context.Context, filter domain.CandidateFilter) ([]*domain.Profile, error) {
	f.filter = filter
	return f.candidates, nil
}
func (f *fakeProfiles) ListCompleted(context.Context, int, int) ([]*domain.Profile, error) {
	return nil, nil
}

type fakePreferences struct {
	prefs *domain.Preferences
}

func (f *fakePreferences) GetByUserID(context.Context, uuid.UUID) (*domain.Preferences, error) {
	if f.prefs == nil {
		return nil, domain.ErrPreferencesNotFound
	}
	return f.prefs, nil
}
func (f *fakePreferences) Upsert(context.Context, uuid.UUID, repository.Fields) error { return nil }

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func located(name string, lat, lon float64) *domain.Profile {
	birth := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Profile{
		UserID:      uuid.New(),
		DisplayName: ptr(name),
		Gender:      ptr(domain.GenderWoman),
		BirthDate:   &birth,
		Latitude:    ptr(lat),
		Longitude:   ptr(lon),
	}
}

func newUseCase(p *fakeProfiles, q *fakePreferences) *MatchesUseCase {
	uc := NewMatchesUseCase(p, q, logger.NewNop())
	uc.now = func() time.Time { return now }
	return uc
}

func TestFind_SortsByDistanceWithinRadius(t *testing.T) {
	paris := located("me", 48.8566, 2.3522)
	versailles := located("Versailles", 48.8049, 2.1204)
	orleans := located("Orléans", 47.9029, 1.9093)
	meaux := located("Meaux", 48.9601, 2.8788)
	p := &fakeProfiles{me: paris, candidates: []*domain.Profile{orleans, meaux, versailles}}
	q := &fakePreferences{prefs: &domain.Preferences{PreferredDistances: []string{"0-50"}}}

	resp, err := newUseCase(p, q).Find(context.Background(), paris.UserID)
	require.NoError(t, err)

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "Versailles", resp.Matches[0].DisplayName)
	assert.Equal(t, "Meaux", resp.Matches[1].DisplayName)
	assert.InDelta(t, 18.2, resp.Matches[0].DistanceKm, 1)
	assert.Equal(t, 30, resp.Matches[0].Age)
	assert.Equal(t, 50, resp.MaxDistanceKm)
	assert.Equal(t, Location{Latitude: 48.8566, Longitude: 2.3522}, resp.UserLocation)
}

func TestFind_WideBucketIncludesFarProfiles(t *testing.T) {
	paris := located("me", 48.8566, 2.3522)
	orleans := located("Orléans", 47.9029, 1.9093)
	p := &fakeProfiles{me: paris, candidates: []*domain.Profile{orleans}}
	q := &fakePreferences{prefs: &domain.Preferences{PreferredDistances: []string{"0-50", "50-200"}}}

	resp, err := newUseCase(p, q).Find(context.Background(), paris.UserID)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.MaxDistanceKm)
	assert.Len(t, resp.Matches, 1)
}

func TestFind_BuildsCandidateFilter(t *testing.T) {
	me := located("me", 45.76, 4.83)
	p := &fakeProfiles{me: me}
	q := &fakePreferences{prefs: &domain.Preferences{
		PreferredGenders: []string{"man"},
		PreferredAgeMin:  ptr(25),
		PreferredAgeMax:  ptr(35),
	}}

	_, err := newUseCase(p, q).Find(context.Background(), me.UserID)
	require.NoError(t, err)

	assert.Equal(t, me.UserID, p.filter.ExcludeUserID)
	assert.Equal(t, []string{"man"}, []string(p.filter.Genders))
	require.NotNil(t, p.filter.BornAfter)
	require.NotNil(t, p.filter.BornBefore)
	assert.Equal(t, time.Date(1989, 6, 16, 10, 0, 0, 0, time.UTC), *p.filter.BornAfter)
	assert.Equal(t, time.Date(2000, 6, 15, 10, 0, 0, 0, time.UTC), *p.filter.BornBefore)
}

func TestFind_RequiresLocationAndPreferences(t *testing.T) {
	me := located("me", 0, 0)
	me.Latitude = nil

	_, err := newUseCase(&fakeProfiles{me: me}, &fakePreferences{prefs: &domain.Preferences{}}).
		Find(context.Background(), me.UserID)
	assert.ErrorIs(t, err, domain.ErrLocationNotSet)

	_, err = newUseCase(&fakeProfiles{me: located("me", 1, 1)}, &fakePreferences{}).
		Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)

	_, err = newUseCase(&fakeProfiles{}, &fakePreferences{}).Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestCalculateDistance(t *testing.T) {
	assert.InDelta(t, 0, calculateDistance(10, 10, 10, 10), 1e-9)
	// Paris to Lyon
	assert.InDelta(t, 392, calculateDistance(48.8566, 2.3522, 45.7640, 4.8357), 5)
}
