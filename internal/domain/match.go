package domain

import (
	"time"

	"github.com/google/uuid"
)

// Crush is an anonymous "someone thinks of you" invitation sent by a user to
// an email address or phone number.
type Crush struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SenderUserID   uuid.UUID `json:"sender_user_id" db:"sender_user_id"`
	RecipientEmail string    `json:"recipient_email" db:"recipient_email"`
	EmailSent      bool      `json:"email_sent" db:"email_sent"`
	EmailID        *string   `json:"email_id" db:"email_id"`
	ErrorMessage   *string   `json:"error_message" db:"error_message"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MatchCandidate is a profile returned by the distance search.
type MatchCandidate struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	DistanceKm  float64   `json:"distance_km"`
	BodyType    *string   `json:"body_type,omitempty"`
	HeightCm    *int      `json:"height_cm,omitempty"`
}

// CandidateFilter narrows the candidate profile search.
type CandidateFilter struct {
	ExcludeUserID uuid.UUID
	Genders       []string
	BornAfter     *time.Time
	BornBefore    *time.Time
	Limit         int
}

type Stats struct {
	TotalProfiles     int `json:"total_profiles" db:"total_profiles"`
	CompletedProfiles int `json:"completed_profiles" db:"completed_profiles"`
	TotalCrushes      int `json:"total_crushes" db:"total_crushes"`
	CrushEmailsSent   int `json:"crush_emails_sent" db:"crush_emails_sent"`
	NewProfilesWeek   int `json:"new_profiles_week" db:"new_profiles_week"`
}
