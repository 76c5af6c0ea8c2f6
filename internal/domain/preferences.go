package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DistanceBucket string

const (
	DistanceUpTo50   DistanceBucket = "0-50"
	Distance50To200  DistanceBucket = "50-200"
	DistanceOver200  DistanceBucket = "+200"
	DistanceAnything DistanceBucket = "peu-importe"
)

// BodyTypeIndifferent is stored alone in preferred_body_types when the user
// has no body type preference.
const BodyTypeIndifferent = "indifferent"

func (d DistanceBucket) Valid() bool {
	switch d {
	case DistanceUpTo50, Distance50To200, DistanceOver200, DistanceAnything:
		return true
	}
	return false
}

// MaxKm is the upper bound of the bucket. Open-ended buckets return 10000.
func (d DistanceBucket) MaxKm() int {
	switch d {
	case DistanceUpTo50:
		return 50
	case Distance50To200:
		return 200
	case DistanceOver200, DistanceAnything:
		return 10000
	}
	return 0
}

type HeightPreference string

const (
	HeightSmaller      HeightPreference = "smaller"
	HeightSame         HeightPreference = "same"
	HeightTaller       HeightPreference = "taller"
	HeightNoPreference HeightPreference = "no_preference"
)

func (h HeightPreference) Valid() bool {
	switch h {
	case HeightSmaller, HeightSame, HeightTaller, HeightNoPreference:
		return true
	}
	return false
}

// Preferences is the per-user matching record stored in user_preferences.
type Preferences struct {
	ID                        uuid.UUID      `json:"id" db:"id"`
	UserID                    uuid.UUID      `json:"user_id" db:"user_id"`
	PreferredPersonalityTypes pq.StringArray `json:"preferred_personality_types" db:"preferred_personality_types"`
	SeekingRelationshipTypes  pq.StringArray `json:"seeking_relationship_types" db:"seeking_relationship_types"`
	PreferredAgeMin           *int           `json:"preferred_age_min" db:"preferred_age_min"`
	PreferredAgeMax           *int           `json:"preferred_age_max" db:"preferred_age_max"`
	PreferredDistances        pq.StringArray `json:"preferred_distances" db:"preferred_distances"`
	PreferredBodyTypes        pq.StringArray `json:"preferred_body_types" db:"preferred_body_types"`
	PreferredHeights          pq.StringArray `json:"preferred_heights" db:"preferred_heights"`
	PreferredGenders          pq.StringArray `json:"preferred_genders" db:"preferred_genders"`
	Location                  *string        `json:"location" db:"location"`
	CreatedAt                 time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at" db:"updated_at"`
}

func (p *Preferences) HasAgeRange() bool {
	return p.PreferredAgeMin != nil && p.PreferredAgeMax != nil
}

// MaxDistanceKm folds the selected buckets into one search radius, never
// below 50 km.
func (p *Preferences) MaxDistanceKm() int {
	maxKm := 50
	for _, d := range p.PreferredDistances {
		if km := DistanceBucket(d).MaxKm(); km > maxKm {
			maxKm = km
		}
	}
	return maxKm
}
