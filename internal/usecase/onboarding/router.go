package onboarding

import "github.com/gdugdh24/fabdive-backend/internal/domain"

// guard fires when onboarding is still incomplete at step. Guards run in
// table order and every guard may assume all earlier guards passed, so the
// profile is never nil inside a guard.
type guard struct {
	step    domain.Step
	pending func(p *domain.Profile, q *domain.Preferences) bool
}

var guards = []guard{
	{domain.StepGender, func(p *domain.Profile, _ *domain.Preferences) bool {
		return p.Gender == nil
	}},
	{domain.StepAge, func(p *domain.Profile, _ *domain.Preferences) bool {
		return p.BirthDate == nil
	}},
	{domain.StepAppearance, func(p *domain.Profile, _ *domain.Preferences) bool {
		return len(p.PersonalDefinition) == 0
	}},
	{domain.StepAppearanceImportance, func(p *domain.Profile, _ *domain.Preferences) bool {
		return p.AppearanceImportance == nil
	}},
	{domain.StepLocation, func(p *domain.Profile, _ *domain.Preferences) bool {
		return !p.HasLocationCity()
	}},
	{domain.StepArchetype, func(p *domain.Profile, _ *domain.Preferences) bool {
		return len(p.PersonalityTraits) == 0
	}},
	{domain.StepArchetypePreferences, func(_ *domain.Profile, q *domain.Preferences) bool {
		return len(q.PreferredPersonalityTypes) == 0
	}},
	{domain.StepObjectives, func(_ *domain.Profile, q *domain.Preferences) bool {
		return len(q.SeekingRelationshipTypes) == 0
	}},
	{domain.StepTargetAge, func(_ *domain.Profile, q *domain.Preferences) bool {
		return !q.HasAgeRange()
	}},
	{domain.StepDistance, func(_ *domain.Profile, q *domain.Preferences) bool {
		return len(q.PreferredDistances) == 0
	}},
	{domain.StepMorphologyPreferences, func(_ *domain.Profile, q *domain.Preferences) bool {
		return len(q.PreferredBodyTypes) == 0
	}},
	{domain.StepHeight, func(p *domain.Profile, _ *domain.Preferences) bool {
		return p.HeightCm == nil
	}},
	{domain.StepHeightConfirmation, func(p *domain.Profile, _ *domain.Preferences) bool {
		return !p.AgeConfirmed
	}},
	{domain.StepHeightPreferences, func(_ *domain.Profile, q *domain.Preferences) bool {
		return len(q.PreferredHeights) == 0
	}},
	{domain.StepVisibility, func(p *domain.Profile, _ *domain.Preferences) bool {
		return p.ProfileVisibility == nil
	}},
	{domain.StepComplete, func(p *domain.Profile, _ *domain.Preferences) bool {
		return !p.ProfileCompleted
	}},
}

// Decision is a routing target plus whether the records contradicted
// themselves (profile_completed set while an upstream field is missing).
type Decision struct {
	Target    domain.RouteTarget
	Ambiguous bool
}

// DecideNextStep returns where a user with the given records should be sent.
// It is total and pure. A nil preferences record is treated as empty.
func DecideNextStep(profile *domain.Profile, preferences *domain.Preferences, hasActiveSession bool) domain.RouteTarget {
	return Evaluate(profile, preferences, hasActiveSession).Target
}

func Evaluate(profile *domain.Profile, preferences *domain.Preferences, hasActiveSession bool) Decision {
	if !hasActiveSession {
		return Decision{Target: domain.SignedOut()}
	}
	if profile == nil || !profile.HasProfilePhoto() {
		return Decision{
			Target:    domain.StepTarget(domain.StepPhotoUpload),
			Ambiguous: profile != nil && profile.ProfileCompleted,
		}
	}
	if preferences == nil {
		preferences = &domain.Preferences{}
	}
	for _, g := range guards {
		if g.pending(profile, preferences) {
			return Decision{
				Target:    domain.StepTarget(g.step),
				Ambiguous: profile.ProfileCompleted && g.step != domain.StepComplete,
			}
		}
	}
	return Decision{Target: domain.Done()}
}
