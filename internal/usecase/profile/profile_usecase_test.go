package profile

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/geocoding"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertLog struct {
	calls []repository.Fields
}

func (u *upsertLog) last() repository.Fields {
	if len(u.calls) == 0 {
		return nil
	}
	return u.calls[len(u.calls)-1]
}

type recProfiles struct{ upsertLog }

func (r *recProfiles) GetByUserID(context.Context, uuid.UUID) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}
func (r *recProfiles) Upsert(_ context.Context, _ uuid.UUID, f repository.Fields) error {
	r.calls = append(r.calls, f)
	return nil
}
func (r *recProfiles) SearchCandidates(context.Context, domain.CandidateFilter) ([]*domain.Profile, error) {
	return nil, nil
}
func (r *recProfiles) ListCompleted(context.Context, int, int) ([]*domain.Profile, error) {
	return nil, nil
}

type recPreferences struct{ upsertLog }

func (r *recPreferences) GetByUserID(context.Context, uuid.UUID) (*domain.Preferences, error) {
	return nil, domain.ErrPreferencesNotFound
}
func (r *recPreferences) Upsert(_ context.Context, _ uuid.UUID, f repository.Fields) error {
	r.calls = append(r.calls, f)
	return nil
}

type staticLoader struct {
	rc  *onboarding.RoutingContext
	err error
}

func (s *staticLoader) LoadRoutingContext(context.Context, uuid.UUID) (*onboarding.RoutingContext, error) {
	return s.rc, s.err
}

type fakeGeocoder struct {
	place *geocoding.Place
	err   error
	query string
}

func (g *fakeGeocoder) Search(_ context.Context, address string) (*geocoding.Place, error) {
	g.query = address
	return g.place, g.err
}
func (g *fakeGeocoder) Reverse(_ context.Context, lat, lon float64) (*geocoding.Place, error) {
	g.query = "reverse"
	return g.place, g.err
}

type memBlobs struct {
	key  string
	data []byte
}

func (m *memBlobs) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.key, m.data = key, b
	return m.PublicURL(key), nil
}
func (m *memBlobs) PublicURL(key string) string { return "https://cdn.test/" + key }

type fixture struct {
	uc       *ProfileUseCase
	profiles *recProfiles
	prefs    *recPreferences
	loader   *staticLoader
	geo      *fakeGeocoder
	blobs    *memBlobs
}

func newFixture() *fixture {
	f := &fixture{
		profiles: &recProfiles{},
		prefs:    &recPreferences{},
		loader:   &staticLoader{rc: &onboarding.RoutingContext{}},
		geo:      &fakeGeocoder{},
		blobs:    &memBlobs{},
	}
	f.uc = NewProfileUseCase(f.profiles, f.prefs, f.loader, f.blobs, f.geo, nil, logger.NewNop())
	f.uc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func ptr[T any](v T) *T { return &v }

func TestSaveStep_WritesOnlyOwnedColumns(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := uuid.New()

	require.NoError(t, f.uc.SaveStep(ctx, uid, domain.StepGender, &StepAnswer{
		Gender:      ptr("woman"),
		DisplayName: ptr(" Léa "),
		HeightCm:    ptr(170),
	}))
	assert.Equal(t, repository.Fields{"gender": "woman", "display_name": "Léa"}, f.profiles.last())
	assert.Empty(t, f.prefs.calls)

	require.NoError(t, f.uc.SaveStep(ctx, uid, domain.StepTargetAge, &StepAnswer{
		PreferredAgeMin: ptr(25),
		PreferredAgeMax: ptr(35),
	}))
	assert.Equal(t, repository.Fields{"preferred_age_min": 25, "preferred_age_max": 35}, f.prefs.last())
	assert.Len(t, f.profiles.calls, 1)
}

func TestSaveStep_Validation(t *testing.T) {
	tests := []struct {
		name string
		step domain.Step
		ans  StepAnswer
	}{
		{"unknown gender", domain.StepGender, StepAnswer{Gender: ptr("robot")}},
		{"minor", domain.StepAge, StepAnswer{BirthDate: ptr("2010-01-01")}},
		{"bad date", domain.StepAge, StepAnswer{BirthDate: ptr("01/01/1990")}},
		{"no tags", domain.StepAppearance, StepAnswer{PersonalDefinition: []string{" "}}},
		{"inverted age range", domain.StepTargetAge, StepAnswer{PreferredAgeMin: ptr(40), PreferredAgeMax: ptr(30)}},
		{"age range below 18", domain.StepTargetAge, StepAnswer{PreferredAgeMin: ptr(16), PreferredAgeMax: ptr(30)}},
		{"unknown distance", domain.StepDistance, StepAnswer{PreferredDistances: []string{"1000"}}},
		{"too short", domain.StepHeight, StepAnswer{HeightCm: ptr(80)}},
		{"not confirmed", domain.StepHeightConfirmation, StepAnswer{AgeConfirmed: ptr(false)}},
		{"unknown height pref", domain.StepHeightPreferences, StepAnswer{PreferredHeights: []string{"giant"}}},
		{"bad visibility", domain.StepVisibility, StepAnswer{ProfileVisibility: ptr("friends")}},
		{"bad preferred gender", domain.StepArchetypePreferences, StepAnswer{
			PreferredPersonalityTypes: []string{"sage"}, PreferredGenders: []string{"robot"},
		}},
		{"photo via json", domain.StepPhotoUpload, StepAnswer{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.uc.SaveStep(context.Background(), uuid.New(), tt.step, &tt.ans)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.profiles.calls)
			assert.Empty(t, f.prefs.calls)
		})
	}
}

func TestSaveStep_AgeAndMorphology(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := uuid.New()

	require.NoError(t, f.uc.SaveStep(ctx, uid, domain.StepAge, &StepAnswer{BirthDate: ptr("2007-03-01")}))
	assert.Equal(t, time.Date(2007, 3, 1, 0, 0, 0, 0, time.UTC), f.profiles.last()["birth_date"])

	require.NoError(t, f.uc.SaveStep(ctx, uid, domain.StepMorphologyPreferences, &StepAnswer{
		PreferredBodyTypes: []string{"athletic", "indifferent"},
	}))
	assert.Equal(t, []string{"indifferent"}, f.prefs.last()["preferred_body_types"])
}

func TestSaveStep_LocationFromAddress(t *testing.T) {
	f := newFixture()
	f.geo.place = &geocoding.Place{Latitude: 48.85, Longitude: 2.35, City: "Paris", Country: "France"}

	err := f.uc.SaveStep(context.Background(), uuid.New(), domain.StepLocation, &StepAnswer{Address: ptr(" 10 rue de Rivoli ")})
	require.NoError(t, err)
	assert.Equal(t, "10 rue de Rivoli", f.geo.query)
	assert.Equal(t, repository.Fields{
		"location_city":    "Paris",
		"location_country": "France",
		"latitude":         48.85,
		"longitude":        2.35,
	}, f.profiles.last())
}

func TestSaveStep_LocationFromCoordinatesKeepsDevicePosition(t *testing.T) {
	f := newFixture()
	f.geo.place = &geocoding.Place{Latitude: 45.0, Longitude: 4.0, City: "Lyon", Country: "France"}

	err := f.uc.SaveStep(context.Background(), uuid.New(), domain.StepLocation, &StepAnswer{
		Latitude: ptr(45.764), Longitude: ptr(4.8357),
	})
	require.NoError(t, err)
	assert.Equal(t, "reverse", f.geo.query)
	assert.Equal(t, 45.764, f.profiles.last()["latitude"])
	assert.Equal(t, "Lyon", f.profiles.last()["location_city"])
}

func TestSaveStep_LocationNotFound(t *testing.T) {
	f := newFixture()
	f.geo.err = domain.ErrGeocodeNotFound

	err := f.uc.SaveStep(context.Background(), uuid.New(), domain.StepLocation, &StepAnswer{Address: ptr("nowhere")})
	assert.ErrorIs(t, err, domain.ErrGeocodeNotFound)

	err = f.uc.SaveStep(context.Background(), uuid.New(), domain.StepLocation, &StepAnswer{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.profiles.calls)
}

func completeRecords() (*domain.Profile, *domain.Preferences) {
	birth := time.Date(1994, 5, 17, 0, 0, 0, 0, time.UTC)
	p := &domain.Profile{
		ProfilePhotoURL:      ptr("https://cdn.test/p.jpg"),
		Gender:               ptr(domain.GenderMan),
		BirthDate:            &birth,
		PersonalDefinition:   []string{"calme"},
		AppearanceImportance: ptr(domain.AppearanceFirst),
		LocationCity:         ptr("Nantes"),
		PersonalityTraits:    []string{"sage"},
		HeightCm:             ptr(180),
		AgeConfirmed:         true,
		ProfileVisibility:    ptr(domain.VisibilityAll),
	}
	q := &domain.Preferences{
		PreferredPersonalityTypes: []string{"explorateur"},
		SeekingRelationshipTypes:  []string{"serious"},
		PreferredAgeMin:           ptr(25),
		PreferredAgeMax:           ptr(40),
		PreferredDistances:        []string{"0-50"},
		PreferredBodyTypes:        []string{"indifferent"},
		PreferredHeights:          []string{"no_preference"},
	}
	return p, q
}

func TestCompleteProfile(t *testing.T) {
	f := newFixture()
	p, q := completeRecords()
	f.loader.rc = &onboarding.RoutingContext{Profile: p, Preferences: q}

	require.NoError(t, f.uc.SaveStep(context.Background(), uuid.New(), domain.StepComplete, nil))
	assert.Equal(t, repository.Fields{"profile_completed": true}, f.profiles.last())
}

func TestCompleteProfile_RefusesWhenAnswersMissing(t *testing.T) {
	f := newFixture()
	p, q := completeRecords()
	q.PreferredHeights = nil
	f.loader.rc = &onboarding.RoutingContext{Profile: p, Preferences: q}

	err := f.uc.CompleteProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrStepNotReached)
	assert.Contains(t, err.Error(), "height-preferences")
	assert.Empty(t, f.profiles.calls)
}

func TestCompleteProfile_AlreadyDoneIsNoop(t *testing.T) {
	f := newFixture()
	p, q := completeRecords()
	p.ProfileCompleted = true
	f.loader.rc = &onboarding.RoutingContext{Profile: p, Preferences: q}

	require.NoError(t, f.uc.CompleteProfile(context.Background(), uuid.New()))
	assert.Empty(t, f.profiles.calls)
}

func TestCompleteProfile_FetchFailure(t *testing.T) {
	f := newFixture()
	f.loader.err = &onboarding.FetchError{Record: onboarding.RecordProfile, Err: io.ErrUnexpectedEOF}

	err := f.uc.CompleteProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture()
	uid := uuid.New()
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	url, err := f.uc.UploadPhoto(context.Background(), uid, int64(len(png)), bytes.NewReader(png))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(f.blobs.key, "profiles/"+uid.String()+"/"))
	assert.True(t, strings.HasSuffix(f.blobs.key, ".png"))
	assert.Equal(t, png, f.blobs.data)
	assert.Equal(t, repository.Fields{"profile_photo_url": url}, f.profiles.last())
}

func TestUploadPhoto_Rejects(t *testing.T) {
	f := newFixture()
	uid := uuid.New()

	_, err := f.uc.UploadPhoto(context.Background(), uid, MaxPhotoBytes+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UploadPhoto(context.Background(), uid, 10, strings.NewReader("plain text!"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UploadPhoto(context.Background(), uid, 0, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.profiles.calls)
}

func TestGetSummaryAndPortrait(t *testing.T) {
	f := newFixture()
	p, q := completeRecords()
	p.DisplayName = ptr("Tom")
	q.PreferredDistances = nil
	f.loader.rc = &onboarding.RoutingContext{Profile: p, Preferences: q}

	s, err := f.uc.GetSummary(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 30, s.Age)
	assert.Equal(t, "distance", s.NextStep)

	text, err := f.uc.Portrait(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, gemini.FallbackPortrait(gemini.PortraitInput{
		DisplayName:          "Tom",
		PersonalityTraits:    []string{"sage"},
		PersonalDefinition:   []string{"calme"},
		AppearanceImportance: "appearance-first",
		Objectives:           []string{"serious"},
	}), text)
}
