package domain

import "fmt"

// Step identifies one screen of the onboarding wizard.
type Step int

const (
	StepPhotoUpload Step = iota + 1
	StepGender
	StepAge
	StepAppearance
	StepAppearanceImportance
	StepLocation
	StepArchetype
	StepArchetypePreferences
	StepObjectives
	StepTargetAge
	StepDistance
	StepMorphologyPreferences
	StepHeight
	StepHeightConfirmation
	StepHeightPreferences
	StepVisibility
	StepComplete
)

var stepNames = map[Step]string{
	StepPhotoUpload:           "photo-upload",
	StepGender:                "gender",
	StepAge:                   "age",
	StepAppearance:            "appearance",
	StepAppearanceImportance:  "appearance-importance",
	StepLocation:              "location",
	StepArchetype:             "archetype",
	StepArchetypePreferences:  "archetype-preferences",
	StepObjectives:            "objectives",
	StepTargetAge:             "target-age",
	StepDistance:              "distance",
	StepMorphologyPreferences: "morphology-preferences",
	StepHeight:                "height",
	StepHeightConfirmation:    "height-confirmation",
	StepHeightPreferences:     "height-preferences",
	StepVisibility:            "visibility",
	StepComplete:              "complete",
}

// Steps lists every step in wizard order.
func Steps() []Step {
	steps := make([]Step, 0, len(stepNames))
	for s := StepPhotoUpload; s <= StepComplete; s++ {
		steps = append(steps, s)
	}
	return steps
}

func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Path is the client route that renders the step.
func (s Step) Path() string {
	return "/profile-" + s.String()
}

func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, name)
}

type TargetKind int

const (
	TargetSignedOut TargetKind = iota
	TargetStep
	TargetDone
)

func (k TargetKind) String() string {
	switch k {
	case TargetSignedOut:
		return "signed_out"
	case TargetStep:
		return "step"
	case TargetDone:
		return "done"
	}
	return "unknown"
}

// RouteTarget is the outcome of one routing decision. Step is only set when
// Kind is TargetStep.
type RouteTarget struct {
	Kind TargetKind
	Step Step
}

func SignedOut() RouteTarget        { return RouteTarget{Kind: TargetSignedOut} }
func Done() RouteTarget             { return RouteTarget{Kind: TargetDone} }
func StepTarget(s Step) RouteTarget { return RouteTarget{Kind: TargetStep, Step: s} }

func (t RouteTarget) String() string {
	if t.Kind == TargetStep {
		return t.Step.String()
	}
	return t.Kind.String()
}
