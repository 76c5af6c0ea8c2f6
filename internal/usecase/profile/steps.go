package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/go-playground/validator/v10"
)

const (
	MinAge       = 18
	MaxTargetAge = 99
	MinHeightCm  = 100
	MaxHeightCm  = 250
	maxTags      = 10
)

// StepAnswer carries the answers of one onboarding screen. Only the fields
// owned by the saved step are read.
type StepAnswer struct {
	DisplayName               *string  `json:"display_name" validate:"omitempty,min=1,max=100"`
	Gender                    *string  `json:"gender"`
	BirthDate                 *string  `json:"birth_date"`
	AttractedToTypes          []string `json:"attracted_to_types" validate:"omitempty,max=10,dive,min=1,max=50"`
	PersonalDefinition        []string `json:"personal_definition"`
	BodyType                  *string  `json:"body_type" validate:"omitempty,min=1,max=50"`
	AppearanceImportance      *string  `json:"appearance_importance"`
	Address                   *string  `json:"address" validate:"omitempty,min=2,max=300"`
	Latitude                  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude                 *float64 `json:"longitude" validate:"omitempty,longitude"`
	PersonalityTraits         []string `json:"personality_traits"`
	PreferredPersonalityTypes []string `json:"preferred_personality_types"`
	PreferredGenders          []string `json:"preferred_genders" validate:"omitempty,dive,oneof=man woman other"`
	SeekingRelationshipTypes  []string `json:"seeking_relationship_types"`
	PreferredAgeMin           *int     `json:"preferred_age_min"`
	PreferredAgeMax           *int     `json:"preferred_age_max"`
	PreferredDistances        []string `json:"preferred_distances"`
	PreferredBodyTypes        []string `json:"preferred_body_types"`
	HeightCm                  *int     `json:"height_cm"`
	AgeConfirmed              *bool    `json:"age_confirmed"`
	PreferredHeights          []string `json:"preferred_heights"`
	ProfileVisibility         *string  `json:"profile_visibility"`
	PhotoVisibility           *string  `json:"photo_visibility"`
}

// writes is the pair of column sets a step persists.
type writes struct {
	profile     repository.Fields
	preferences repository.Fields
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireTags(v *validator.Validate, name string, tags []string) ([]string, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if err := v.Var(cleaned, "required,min=1,max=10,dive,max=50"); err != nil {
		return nil, invalid("%s needs between 1 and %d values", name, maxTags)
	}
	return cleaned, nil
}

func requireEnum(v *validator.Validate, name string, value *string, allowed string) (string, error) {
	if value == nil {
		return "", invalid("%s is required", name)
	}
	if err := v.Var(*value, "required,oneof="+allowed); err != nil {
		return "", invalid("%s must be one of %s", name, allowed)
	}
	return *value, nil
}

// buildWrites validates ans for step and returns the columns to upsert.
// Location is resolved separately because it needs the geocoder.
func buildWrites(v *validator.Validate, step domain.Step, ans *StepAnswer, now time.Time) (*writes, error) {
	if err := v.Struct(ans); err != nil {
		return nil, invalid("%v", err)
	}

	w := &writes{profile: repository.Fields{}, preferences: repository.Fields{}}
	if ans.DisplayName != nil && (step == domain.StepGender || step == domain.StepAge) {
		w.profile["display_name"] = strings.TrimSpace(*ans.DisplayName)
	}

	switch step {
	case domain.StepGender:
		g, err := requireEnum(v, "gender", ans.Gender, "man woman other")
		if err != nil {
			return nil, err
		}
		w.profile["gender"] = g

	case domain.StepAge:
		if ans.BirthDate == nil {
			return nil, invalid("birth_date is required")
		}
		birth, err := time.Parse("2006-01-02", *ans.BirthDate)
		if err != nil {
			return nil, invalid("birth_date must be YYYY-MM-DD")
		}
		if birth.After(now) || domain.YearsBetween(birth, now) < MinAge {
			return nil, invalid("you must be at least %d years old", MinAge)
		}
		w.profile["birth_date"] = birth
		if len(ans.AttractedToTypes) > 0 {
			w.profile["attracted_to_types"] = ans.AttractedToTypes
		}

	case domain.StepAppearance:
		tags, err := requireTags(v, "personal_definition", ans.PersonalDefinition)
		if err != nil {
			return nil, err
		}
		w.profile["personal_definition"] = tags
		if ans.BodyType != nil {
			w.profile["body_type"] = strings.TrimSpace(*ans.BodyType)
		}

	case domain.StepAppearanceImportance:
		a, err := requireEnum(v, "appearance_importance", ans.AppearanceImportance,
			"appearance-first body-mind-balance inner-energy")
		if err != nil {
			return nil, err
		}
		w.profile["appearance_importance"] = a

	case domain.StepArchetype:
		tags, err := requireTags(v, "personality_traits", ans.PersonalityTraits)
		if err != nil {
			return nil, err
		}
		w.profile["personality_traits"] = tags

	case domain.StepArchetypePreferences:
		tags, err := requireTags(v, "preferred_personality_types", ans.PreferredPersonalityTypes)
		if err != nil {
			return nil, err
		}
		w.preferences["preferred_personality_types"] = tags
		if len(ans.PreferredGenders) > 0 {
			w.preferences["preferred_genders"] = ans.PreferredGenders
		}

	case domain.StepObjectives:
		tags, err := requireTags(v, "seeking_relationship_types", ans.SeekingRelationshipTypes)
		if err != nil {
			return nil, err
		}
		w.preferences["seeking_relationship_types"] = tags

	case domain.StepTargetAge:
		if ans.PreferredAgeMin == nil || ans.PreferredAgeMax == nil {
			return nil, invalid("preferred_age_min and preferred_age_max are required")
		}
		lo, hi := *ans.PreferredAgeMin, *ans.PreferredAgeMax
		if lo < MinAge || hi > MaxTargetAge || lo > hi {
			return nil, invalid("age range must satisfy %d <= min <= max <= %d", MinAge, MaxTargetAge)
		}
		w.preferences["preferred_age_min"] = lo
		w.preferences["preferred_age_max"] = hi

	case domain.StepDistance:
		if len(ans.PreferredDistances) == 0 {
			return nil, invalid("preferred_distances is required")
		}
		for _, d := range ans.PreferredDistances {
			if !domain.DistanceBucket(d).Valid() {
				return nil, invalid("unknown distance %q", d)
			}
		}
		w.preferences["preferred_distances"] = ans.PreferredDistances

	case domain.StepMorphologyPreferences:
		tags, err := requireTags(v, "preferred_body_types", ans.PreferredBodyTypes)
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			if t == domain.BodyTypeIndifferent {
				tags = []string{domain.BodyTypeIndifferent}
				break
			}
		}
		w.preferences["preferred_body_types"] = tags

	case domain.StepHeight:
		if ans.HeightCm == nil || *ans.HeightCm < MinHeightCm || *ans.HeightCm > MaxHeightCm {
			return nil, invalid("height_cm must be between %d and %d", MinHeightCm, MaxHeightCm)
		}
		w.profile["height_cm"] = *ans.HeightCm

	case domain.StepHeightConfirmation:
		if ans.AgeConfirmed == nil || !*ans.AgeConfirmed {
			return nil, invalid("age_confirmed must be true")
		}
		w.profile["age_confirmed"] = true

	case domain.StepHeightPreferences:
		if len(ans.PreferredHeights) == 0 {
			return nil, invalid("preferred_heights is required")
		}
		for _, h := range ans.PreferredHeights {
			if !domain.HeightPreference(h).Valid() {
				return nil, invalid("unknown height preference %q", h)
			}
		}
		w.preferences["preferred_heights"] = ans.PreferredHeights

	case domain.StepVisibility:
		vis, err := requireEnum(v, "profile_visibility", ans.ProfileVisibility, "all high-match very-high-match")
		if err != nil {
			return nil, err
		}
		w.profile["profile_visibility"] = vis
		if ans.PhotoVisibility != nil {
			pv, err := requireEnum(v, "photo_visibility", ans.PhotoVisibility, "all high-match very-high-match")
			if err != nil {
				return nil, err
			}
			w.profile["photo_visibility"] = pv
		}

	case domain.StepPhotoUpload:
		return nil, invalid("photos are uploaded with the photo endpoint")

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStep, step)
	}
	return w, nil
}
