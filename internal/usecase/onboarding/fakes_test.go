package onboarding

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
)

// stubProfiles returns the queued errors in order, then profile.
type stubProfiles struct {
	mu      sync.Mutex
	errs    []error
	profile *domain.Profile
	calls   atomic.Int32
	gate    chan struct{}
}

func (s *stubProfiles) GetByUserID(ctx context.Context, _ uuid.UUID) (*domain.Profile, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if s.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.profile, nil
}

func (s *stubProfiles) Upsert(context.Context, uuid.UUID, repository.Fields) error { return nil }

func (s *stubProfiles) SearchCandidates(context.Context, domain.CandidateFilter) ([]*domain.Profile, error) {
	return nil, nil
}

func (s *stubProfiles) ListCompleted(context.Context, int, int) ([]*domain.Profile, error) {
	return nil, nil
}

type stubPreferences struct {
	mu    sync.Mutex
	errs  []error
	prefs *domain.Preferences
	calls atomic.Int32
}

func (s *stubPreferences) GetByUserID(context.Context, uuid.UUID) (*domain.Preferences, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if s.prefs == nil {
		return nil, domain.ErrPreferencesNotFound
	}
	return s.prefs, nil
}

func (s *stubPreferences) Upsert(context.Context, uuid.UUID, repository.Fields) error { return nil }
