package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
	GenderOther Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMan, GenderWoman, GenderOther:
		return true
	}
	return false
}

type AppearanceImportance string

const (
	AppearanceFirst      AppearanceImportance = "appearance-first"
	AppearanceBalance    AppearanceImportance = "body-mind-balance"
	AppearanceInnerFirst AppearanceImportance = "inner-energy"
)

func (a AppearanceImportance) Valid() bool {
	switch a {
	case AppearanceFirst, AppearanceBalance, AppearanceInnerFirst:
		return true
	}
	return false
}

type ProfileVisibility string

const (
	VisibilityAll           ProfileVisibility = "all"
	VisibilityHighMatch     ProfileVisibility = "high-match"
	VisibilityVeryHighMatch ProfileVisibility = "very-high-match"
)

func (v ProfileVisibility) Valid() bool {
	switch v {
	case VisibilityAll, VisibilityHighMatch, VisibilityVeryHighMatch:
		return true
	}
	return false
}

// Profile is the per-user onboarding record stored in the profiles table.
type Profile struct {
	ID                   uuid.UUID             `json:"id" db:"id"`
	UserID               uuid.UUID             `json:"user_id" db:"user_id"`
	DisplayName          *string               `json:"display_name" db:"display_name"`
	ProfilePhotoURL      *string               `json:"profile_photo_url" db:"profile_photo_url"`
	Gender               *Gender               `json:"gender" db:"gender"`
	BirthDate            *time.Time            `json:"birth_date" db:"birth_date"`
	PersonalDefinition   pq.StringArray        `json:"personal_definition" db:"personal_definition"`
	AppearanceImportance *AppearanceImportance `json:"appearance_importance" db:"appearance_importance"`
	LocationCity         *string               `json:"location_city" db:"location_city"`
	LocationCountry      *string               `json:"location_country" db:"location_country"`
	Latitude             *float64              `json:"latitude" db:"latitude"`
	Longitude            *float64              `json:"longitude" db:"longitude"`
	PersonalityTraits    pq.StringArray        `json:"personality_traits" db:"personality_traits"`
	HeightCm             *int                  `json:"height_cm" db:"height_cm"`
	BodyType             *string               `json:"body_type" db:"body_type"`
	AttractedToTypes     pq.StringArray        `json:"attracted_to_types" db:"attracted_to_types"`
	AgeConfirmed         bool                  `json:"age_confirmed" db:"age_confirmed"`
	ProfileVisibility    *ProfileVisibility    `json:"profile_visibility" db:"profile_visibility"`
	PhotoVisibility      *string               `json:"photo_visibility" db:"photo_visibility"`
	ProfileCompleted     bool                  `json:"profile_completed" db:"profile_completed"`
	CreatedAt            time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at" db:"updated_at"`
}

// HasProfilePhoto reports whether a non-blank photo URL is stored.
func (p *Profile) HasProfilePhoto() bool {
	return p.ProfilePhotoURL != nil && strings.TrimSpace(*p.ProfilePhotoURL) != ""
}

func (p *Profile) HasLocationCity() bool {
	return p.LocationCity != nil && strings.TrimSpace(*p.LocationCity) != ""
}

func (p *Profile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Age returns the age in whole years at now, or 0 when no birth date is set.
func (p *Profile) Age(now time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	return YearsBetween(*p.BirthDate, now)
}

func YearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
