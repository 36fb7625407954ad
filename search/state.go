package search

import (
	"slices"

	"github.com/s0up4200/gitexplore/github"
)

// Item is a search result with a stable provider identity
type Item interface {
	Identity() int64
}

// Phase is the externally visible state of a session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingInitial
	PhaseReady
	PhaseLoadingMore
	PhaseErrored
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseLoadingInitial:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

// State is one search session. Items only grow within a generation.
type State[T Item] struct {
	Query            Query
	Items            []T
	NextPage         int
	TotalCount       int
	IsLoadingInitial bool
	IsFetchingPage   bool
	LastError        *github.Error

	// Generation identifies the session; every accepted submit bumps it.
	Generation uint64
	// Version bumps on every change so subscribers can drop stale snapshots.
	Version uint64
}

// NewState returns an empty session
func NewState[T Item]() State[T] {
	return State[T]{NextPage: 1}
}

// ReachedEnd reports whether no further pages exist for the query
func (s State[T]) ReachedEnd() bool {
	return s.TotalCount > 0 && len(s.Items) >= s.TotalCount
}

// Last returns the last loaded item
func (s State[T]) Last() (T, bool) {
	var zero T
	if len(s.Items) == 0 {
		return zero, false
	}
	return s.Items[len(s.Items)-1], true
}

// Phase derives the state machine position from the flags
func (s State[T]) Phase() Phase {
	switch {
	case s.IsLoadingInitial:
		return PhaseLoadingInitial
	case s.IsFetchingPage:
		return PhaseLoadingMore
	case s.LastError != nil:
		return PhaseErrored
	case s.Generation == 0:
		return PhaseIdle
	default:
		return PhaseReady
	}
}

// Event is an input to Reduce
type Event interface {
	event()
}

// Submitted starts a new session for Query
type Submitted struct {
	Query Query
}

// FetchStarted marks a page request as dispatched
type FetchStarted struct {
	Generation uint64
	Page       int
}

// PageLoaded delivers a successful page
type PageLoaded[T Item] struct {
	Generation uint64
	Page       int
	Result     github.Page[T]
}

// FetchFailed delivers a classified failure
type FetchFailed struct {
	Generation uint64
	Page       int
	Err        *github.Error
}

// ErrorCleared acknowledges LastError
type ErrorCleared struct{}

func (Submitted) event() {}
func (FetchStarted) event() {}
func (PageLoaded[T]) event() {}
func (FetchFailed) event() {}
func (ErrorCleared) event() {}

// Reduce applies ev to s. Events tagged with another generation, and page
// results for a page other than NextPage, leave s untouched.
func Reduce[T Item](s State[T], ev Event) State[T] {
	switch ev := ev.(type) {
	case Submitted:
		q := ev.Query.Normalize()
		if q.Term == "" {
			return s
		}
		return State[T]{
			Query:      q,
			NextPage:   1,
			Generation: s.Generation + 1,
			Version:    s.Version + 1,
		}

	case FetchStarted:
		if ev.Generation != s.Generation || ev.Page != s.NextPage || s.IsFetchingPage {
			return s
		}
		s.IsFetchingPage = true
		s.IsLoadingInitial = ev.Page == 1 && len(s.Items) == 0
		s.LastError = nil

	case PageLoaded[T]:
		if ev.Generation != s.Generation || ev.Page != s.NextPage || !s.IsFetchingPage {
			return s
		}
		s.TotalCount = ev.Result.TotalCount
		// Clip so the caller's backing array is never written
		s.Items = append(slices.Clip(s.Items), ev.Result.Items...)
		s.NextPage++
		s.IsFetchingPage = false
		s.IsLoadingInitial = false

	case FetchFailed:
		if ev.Generation != s.Generation || ev.Page != s.NextPage || !s.IsFetchingPage {
			return s
		}
		s.LastError = ev.Err
		s.IsFetchingPage = false
		s.IsLoadingInitial = false

	case ErrorCleared:
		if s.LastError == nil {
			return s
		}
		s.LastError = nil

	default:
		return s
	}

	s.Version++
	return s
}
