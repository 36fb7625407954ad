// Package profile loads the full profile of a single user.
//
// A Loader moves through idle, loading, and then loaded or failed. Only an
// idle loader fetches, so repeated Fetch calls while a request is out or
// after it finished are no-ops; Reset makes the loader fetchable again.
package profile

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/gitexplore/github"
)

// Status is the loader position
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a snapshot of a Loader. User is set only when loaded, Err only
// when failed.
type State struct {
	Status Status
	User   *github.UserDetails
	Err    *github.Error
}

// UserFetcher is the part of github.API the loader needs
type UserFetcher interface {
	User(ctx context.Context, username string) (*github.UserDetails, error)
}

// Loader fetches one user's profile
type Loader struct {
	api      UserFetcher
	username string
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	// resets invalidates a request that was in flight during Reset
	resets uint64
}

// NewLoader creates a loader for username
func NewLoader(api UserFetcher, username string, logger zerolog.Logger) *Loader {
	return &Loader{
		api:      api,
		username: username,
		logger:   logger.With().Str("username", username).Logger(),
	}
}

// Username returns the user this loader is bound to
func (l *Loader) Username() string {
	return l.username
}

// State returns the current state
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Fetch loads the profile if the loader is idle and returns the resulting
// state. In any other status it returns the current state unchanged.
func (l *Loader) Fetch(ctx context.Context) State {
	l.mu.Lock()
	if l.state.Status != StatusIdle {
		st := l.state
		l.mu.Unlock()
		return st
	}
	l.state = State{Status: StatusLoading}
	resets := l.resets
	l.mu.Unlock()

	l.logger.Debug().Msg("Loading profile")
	user, err := l.api.User(ctx, l.username)

	l.mu.Lock()
	defer l.mu.Unlock()

	if resets != l.resets {
		return l.state
	}
	if err != nil {
		apiErr := github.AsError(err)
		l.logger.Warn().Err(apiErr).Msg("Profile fetch failed")
		l.state = State{Status: StatusFailed, Err: apiErr}
	} else {
		l.state = State{Status: StatusLoaded, User: user}
	}
	return l.state
}

// Reset returns the loader to idle so Fetch can run again
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resets++
	l.state = State{}
}
