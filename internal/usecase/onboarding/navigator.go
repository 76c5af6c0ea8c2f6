package onboarding

import (
	"context"
	"errors"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/google/uuid"
)

// EntryPoint names the place in the client that asked for a routing decision.
type EntryPoint string

const (
	EntryColdStart    EntryPoint = "cold_start"
	EntryAuthCallback EntryPoint = "auth_callback"
	EntryLogin        EntryPoint = "login"
	EntryStepSaved    EntryPoint = "step_saved"
)

const ReasonFetchFailed = "fetch_failed"

// Navigation is the instruction sent back to the client. Replace is always
// true: the client must not keep the previous screen on its history stack.
type Navigation struct {
	Entry   EntryPoint         `json:"entry"`
	Kind    string             `json:"kind"`
	Step    string             `json:"step,omitempty"`
	Path    string             `json:"path"`
	Replace bool               `json:"replace"`
	Reason  string             `json:"reason,omitempty"`
	Target  domain.RouteTarget `json:"-"`
}

type Paths struct {
	SignedOut string
	Done      string
}

type ContextLoader interface {
	LoadRoutingContext(ctx context.Context, userID uuid.UUID) (*RoutingContext, error)
}

// Navigator is the only place that turns persisted records into a
// navigation. Every entry point goes through Resolve.
type Navigator struct {
	loader  ContextLoader
	paths   Paths
	metrics *metrics.Routing
	log     *logger.Logger
}

func NewNavigator(loader ContextLoader, paths Paths, m *metrics.Routing, log *logger.Logger) *Navigator {
	if paths.SignedOut == "" {
		paths.SignedOut = "/home"
	}
	if paths.Done == "" {
		paths.Done = "/matches"
	}
	return &Navigator{
		loader:  loader,
		paths:   paths,
		metrics: m,
		log:     log.With("component", "onboarding.Navigator"),
	}
}

// Resolve loads the session owner's records, runs the router and returns a
// replace-navigation. A failed lookup routes to the signed-out entry.
func (n *Navigator) Resolve(ctx context.Context, entry EntryPoint, session *domain.Session) Navigation {
	if !session.Active() {
		return n.finish(entry, domain.SignedOut(), "")
	}

	rc, err := n.loader.LoadRoutingContext(ctx, session.UserID)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			n.metrics.FetchFailure(fe.Record)
		}
		n.log.Warn("routing context unavailable, routing to signed-out entry",
			"entry", entry, "user_id", session.UserID, "error", err)
		return n.finish(entry, domain.SignedOut(), ReasonFetchFailed)
	}

	decision := Evaluate(rc.Profile, rc.Preferences, true)
	if decision.Ambiguous {
		n.metrics.Ambiguous()
		n.log.Warn("profile marked completed with missing answers",
			"user_id", session.UserID, "step", decision.Target.Step.String())
	}
	return n.finish(entry, decision.Target, "")
}

func (n *Navigator) finish(entry EntryPoint, target domain.RouteTarget, reason string) Navigation {
	n.metrics.Decision(string(entry), target.String())
	nav := Navigation{
		Entry:   entry,
		Kind:    target.Kind.String(),
		Path:    n.Path(target),
		Replace: true,
		Reason:  reason,
		Target:  target,
	}
	if target.Kind == domain.TargetStep {
		nav.Step = target.Step.String()
	}
	n.log.Debug("routing decision", "entry", entry, "target", target.String(), "path", nav.Path)
	return nav
}

func (n *Navigator) Path(target domain.RouteTarget) string {
	switch target.Kind {
	case domain.TargetStep:
		return target.Step.Path()
	case domain.TargetDone:
		return n.paths.Done
	default:
		return n.paths.SignedOut
	}
}
