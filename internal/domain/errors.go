package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrCrushNotFound       = errors.New("crush not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidStep         = errors.New("invalid onboarding step")
	ErrStepNotReached      = errors.New("onboarding step not reached")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrLocationNotSet      = errors.New("user location not set")
	ErrGeocodeNotFound     = errors.New("address not found")
	ErrForbidden           = errors.New("forbidden")

	// ErrFetchFailed marks a record lookup that failed for a reason other than
	// the row being absent.
	ErrFetchFailed = errors.New("record fetch failed")
)
