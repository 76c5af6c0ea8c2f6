package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/geocoding"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Geocoder interface {
	Search(ctx context.Context, address string) (*geocoding.Place, error)
	Reverse(ctx context.Context, lat, lon float64) (*geocoding.Place, error)
}

type PortraitGenerator interface {
	GeneratePortrait(ctx context.Context, in gemini.PortraitInput) string
}

type ProfileUseCase struct {
	profileRepo     repository.ProfileRepository
	preferencesRepo repository.PreferencesRepository
	loader          onboarding.ContextLoader
	blobs           storage.BlobStore
	geocoder        Geocoder
	portraits       PortraitGenerator
	validate        *validator.Validate
	log             *logger.Logger
	now             func() time.Time
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	preferencesRepo repository.PreferencesRepository,
	loader onboarding.ContextLoader,
	blobs storage.BlobStore,
	geocoder Geocoder,
	portraits PortraitGenerator,
	log *logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:     profileRepo,
		preferencesRepo: preferencesRepo,
		loader:          loader,
		blobs:           blobs,
		geocoder:        geocoder,
		portraits:       portraits,
		validate:        validator.New(),
		log:             log.With("usecase", "profile"),
		now:             time.Now,
	}
}

// Summary is the signed-in user's full onboarding state.
type Summary struct {
	Profile     *domain.Profile     `json:"profile"`
	Preferences *domain.Preferences `json:"preferences"`
	Age         int                 `json:"age,omitempty"`
	NextStep    string              `json:"next_step,omitempty"`
}

// SaveStep validates and persists the answers of one onboarding screen.
// Only the columns the step owns are written.
func (uc *ProfileUseCase) SaveStep(ctx context.Context, userID uuid.UUID, step domain.Step, ans *StepAnswer) error {
	if ans == nil {
		ans = &StepAnswer{}
	}

	switch step {
	case domain.StepComplete:
		return uc.CompleteProfile(ctx, userID)
	case domain.StepLocation:
		fields, err := uc.resolveLocation(ctx, ans)
		if err != nil {
			return err
		}
		return uc.profileRepo.Upsert(ctx, userID, fields)
	}

	w, err := buildWrites(uc.validate, step, ans, uc.now())
	if err != nil {
		return err
	}
	if len(w.profile) > 0 {
		if err := uc.profileRepo.Upsert(ctx, userID, w.profile); err != nil {
			return fmt.Errorf("failed to save %s: %w", step, err)
		}
	}
	if len(w.preferences) > 0 {
		if err := uc.preferencesRepo.Upsert(ctx, userID, w.preferences); err != nil {
			return fmt.Errorf("failed to save %s: %w", step, err)
		}
	}
	uc.log.Debug("onboarding step saved", "user_id", userID, "step", step.String())
	return nil
}

// CompleteProfile sets profile_completed, but only when the router would
// send the user to the completion screen, so the flag never contradicts the
// answers on record.
func (uc *ProfileUseCase) CompleteProfile(ctx context.Context, userID uuid.UUID) error {
	rc, err := uc.loader.LoadRoutingContext(ctx, userID)
	if err != nil {
		return err
	}
	decision := onboarding.Evaluate(rc.Profile, rc.Preferences, true)
	switch decision.Target {
	case domain.StepTarget(domain.StepComplete):
	case domain.Done():
		return nil
	default:
		return fmt.Errorf("%w: next step is %s", domain.ErrStepNotReached, decision.Target)
	}
	return uc.profileRepo.Upsert(ctx, userID, repository.Fields{"profile_completed": true})
}

func (uc *ProfileUseCase) resolveLocation(ctx context.Context, ans *StepAnswer) (repository.Fields, error) {
	if err := uc.validate.Struct(ans); err != nil {
		return nil, invalid("%v", err)
	}

	var (
		place *geocoding.Place
		err   error
	)
	switch {
	case ans.Latitude != nil && ans.Longitude != nil:
		place, err = uc.geocoder.Reverse(ctx, *ans.Latitude, *ans.Longitude)
		if err == nil {
			// Keep the device's coordinates rather than the matched address.
			place.Latitude, place.Longitude = *ans.Latitude, *ans.Longitude
		}
	case ans.Address != nil && strings.TrimSpace(*ans.Address) != "":
		place, err = uc.geocoder.Search(ctx, strings.TrimSpace(*ans.Address))
	default:
		return nil, invalid("address or latitude/longitude is required")
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(place.City) == "" {
		return nil, domain.ErrGeocodeNotFound
	}

	return repository.Fields{
		"location_city":    strings.TrimSpace(place.City),
		"location_country": strings.TrimSpace(place.Country),
		"latitude":         place.Latitude,
		"longitude":        place.Longitude,
	}, nil
}

// GetSummary returns the user's records. Missing records are returned as nil.
func (uc *ProfileUseCase) GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	rc, err := uc.loader.LoadRoutingContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &Summary{Profile: rc.Profile, Preferences: rc.Preferences}
	if rc.Profile != nil {
		s.Age = rc.Profile.Age(uc.now())
	}
	if target := onboarding.DecideNextStep(rc.Profile, rc.Preferences, true); target.Kind == domain.TargetStep {
		s.NextStep = target.Step.String()
	}
	return s, nil
}

// Portrait returns the short text shown on the completion screen.
func (uc *ProfileUseCase) Portrait(ctx context.Context, userID uuid.UUID) (string, error) {
	rc, err := uc.loader.LoadRoutingContext(ctx, userID)
	if err != nil {
		return "", err
	}
	if rc.Profile == nil {
		return "", domain.ErrProfileNotFound
	}

	in := gemini.PortraitInput{
		PersonalityTraits:  rc.Profile.PersonalityTraits,
		PersonalDefinition: rc.Profile.PersonalDefinition,
	}
	if rc.Profile.DisplayName != nil {
		in.DisplayName = *rc.Profile.DisplayName
	}
	if rc.Profile.AppearanceImportance != nil {
		in.AppearanceImportance = string(*rc.Profile.AppearanceImportance)
	}
	if rc.Preferences != nil {
		in.Objectives = rc.Preferences.SeekingRelationshipTypes
	}
	if uc.portraits == nil {
		return gemini.FallbackPortrait(in), nil
	}
	return uc.portraits.GeneratePortrait(ctx, in), nil
}
