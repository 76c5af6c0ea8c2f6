package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	RecordProfile     = "profiles"
	RecordPreferences = "user_preferences"
)

// RoutingContext is one snapshot of a user's records. A nil record means the
// row does not exist yet.
type RoutingContext struct {
	Profile     *domain.Profile
	Preferences *domain.Preferences
}

// FetchError reports a record lookup that failed for any reason other than
// the row being absent.
type FetchError struct {
	Record string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Record, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{domain.ErrFetchFailed, e.Err}
}

type Loader struct {
	profileRepo     repository.ProfileRepository
	preferencesRepo repository.PreferencesRepository
	retries         int
}

func NewLoader(profileRepo repository.ProfileRepository, preferencesRepo repository.PreferencesRepository) *Loader {
	return &Loader{
		profileRepo:     profileRepo,
		preferencesRepo: preferencesRepo,
		retries:         1,
	}
}

// LoadRoutingContext fetches both records concurrently and returns only once
// both lookups finished.
func (l *Loader) LoadRoutingContext(ctx context.Context, userID uuid.UUID) (*RoutingContext, error) {
	var rc RoutingContext

	// Not WithContext: a failed lookup must not cancel the other one.
	var g errgroup.Group
	g.Go(func() error {
		profile, err := fetch(ctx, l.retries, domain.ErrProfileNotFound, func(ctx context.Context) (*domain.Profile, error) {
			return l.profileRepo.GetByUserID(ctx, userID)
		})
		if err != nil {
			return &FetchError{Record: RecordProfile, Err: err}
		}
		rc.Profile = profile
		return nil
	})
	g.Go(func() error {
		prefs, err := fetch(ctx, l.retries, domain.ErrPreferencesNotFound, func(ctx context.Context) (*domain.Preferences, error) {
			return l.preferencesRepo.GetByUserID(ctx, userID)
		})
		if err != nil {
			return &FetchError{Record: RecordPreferences, Err: err}
		}
		rc.Preferences = prefs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// fetch runs get, maps notFound to a nil record and retries other failures
// immediately up to retries times.
func fetch[T any](ctx context.Context, retries int, notFound error, get func(context.Context) (*T, error)) (*T, error) {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		var rec *T
		rec, err = get(ctx)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, notFound) {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, err
}
