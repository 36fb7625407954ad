package search

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/gitexplore/github"
)

// Fetcher loads one page for a query. It must be free of side effects so a
// failed page can be requested again.
type Fetcher[T Item] func(ctx context.Context, q Query, page int) (github.Page[T], error)

// Engine owns one search session and grows it page by page.
//
// All state changes go through Reduce while holding mu, so no two mutations
// interleave. Only the fetch itself runs outside the lock. At most one page
// request is in flight per generation; a result whose generation no longer
// matches the session is dropped.
type Engine[T Item] struct {
	fetch  Fetcher[T]
	logger zerolog.Logger

	mu     sync.Mutex
	state  State[T]
	subs   map[uint64]func(State[T])
	nextID uint64

	inflight sync.WaitGroup
}

// NewEngine creates an engine around fetch
func NewEngine[T Item](fetch Fetcher[T], logger zerolog.Logger) *Engine[T] {
	return &Engine[T]{
		fetch:  fetch,
		logger: logger,
		state:  NewState[T](),
		subs:   make(map[uint64]func(State[T])),
	}
}

// NewUserSearch binds an engine to user search
func NewUserSearch(api github.API, logger zerolog.Logger) *Engine[github.UserSummary] {
	return NewEngine[github.UserSummary](func(ctx context.Context, q Query, page int) (github.Page[github.UserSummary], error) {
		return api.SearchUsers(ctx, q.Term, page, q.Sort, q.Order)
	}, logger.With().Str("search", "users").Logger())
}

// NewRepositorySearch binds an engine to repository search. Sort options are ignored.
func NewRepositorySearch(api github.API, logger zerolog.Logger) *Engine[github.RepositorySummary] {
	return NewEngine[github.RepositorySummary](func(ctx context.Context, q Query, page int) (github.Page[github.RepositorySummary], error) {
		return api.SearchRepositories(ctx, q.Term, page)
	}, logger.With().Str("search", "repositories").Logger())
}

// SubmitSearch resets the session for q and fetches page 1. A blank term is
// ignored and leaves the current results alone. Returns whether the query
// was accepted.
func (e *Engine[T]) SubmitSearch(ctx context.Context, q Query) bool {
	q = q.Normalize()
	if !q.Valid() {
		return false
	}

	e.mu.Lock()
	e.state = Reduce(e.state, Submitted{Query: q})
	e.startFetchLocked(ctx)
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Debug().Str("term", q.Term).Uint64("generation", snap.Generation).Msg("Search submitted")
	e.notify(snap, subs)
	return true
}

// LoadMoreIfNeeded fetches the next page when observed is the last loaded
// item, nothing is in flight, and the end has not been reached.
func (e *Engine[T]) LoadMoreIfNeeded(ctx context.Context, observed *T) bool {
	if observed == nil {
		return false
	}

	e.mu.Lock()
	last, ok := e.state.Last()
	if !ok || e.state.IsFetchingPage || e.state.ReachedEnd() || last.Identity() != (*observed).Identity() {
		e.mu.Unlock()
		return false
	}
	started := e.startFetchLocked(ctx)
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	if started {
		e.notify(snap, subs)
	}
	return started
}

// Retry requests NextPage again, typically after a failure
func (e *Engine[T]) Retry(ctx context.Context) bool {
	e.mu.Lock()
	if e.state.Generation == 0 || e.state.IsFetchingPage || e.state.ReachedEnd() {
		e.mu.Unlock()
		return false
	}
	started := e.startFetchLocked(ctx)
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	if started {
		e.notify(snap, subs)
	}
	return started
}

// ClearError acknowledges the last error. Loaded items are kept.
func (e *Engine[T]) ClearError() {
	e.mu.Lock()
	before := e.state.Version
	e.state = Reduce(e.state, ErrorCleared{})
	changed := e.state.Version != before
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	if changed {
		e.notify(snap, subs)
	}
}

// Snapshot returns a copy of the current state
func (e *Engine[T]) Snapshot() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, _ := e.snapshotLocked()
	return snap
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs on the goroutine that made the change and must not block.
func (e *Engine[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// Wait blocks until every dispatched fetch has completed
func (e *Engine[T]) Wait() {
	e.inflight.Wait()
}

// startFetchLocked dispatches a request for NextPage. The guard is checked
// before any goroutine starts, so two pages can never race.
func (e *Engine[T]) startFetchLocked(ctx context.Context) bool {
	if e.state.IsFetchingPage {
		return false
	}

	gen, page, q := e.state.Generation, e.state.NextPage, e.state.Query
	e.state = Reduce(e.state, FetchStarted{Generation: gen, Page: page})
	if !e.state.IsFetchingPage {
		return false
	}

	e.logger.Debug().Str("term", q.Term).Int("page", page).Uint64("generation", gen).Msg("Fetching page")

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		result, err := e.fetch(ctx, q, page)
		e.complete(gen, page, result, err)
	}()
	return true
}

func (e *Engine[T]) complete(gen uint64, page int, result github.Page[T], err error) {
	e.mu.Lock()
	if gen != e.state.Generation {
		e.mu.Unlock()
		e.logger.Debug().Uint64("generation", gen).Int("page", page).Msg("Dropping result of superseded search")
		return
	}

	if err != nil {
		apiErr := github.AsError(err)
		e.state = Reduce(e.state, FetchFailed{Generation: gen, Page: page, Err: apiErr})
		e.logger.Warn().Err(apiErr).Int("page", page).Msg("Page fetch failed")
	} else {
		e.state = Reduce(e.state, PageLoaded[T]{Generation: gen, Page: page, Result: result})
	}
	snap, subs := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Debug().
		Int("page", page).
		Int("items", len(snap.Items)).
		Int("total", snap.TotalCount).
		Msg("Page fetch completed")
	e.notify(snap, subs)
}

func (e *Engine[T]) snapshotLocked() (State[T], []func(State[T])) {
	snap := e.state
	snap.Items = slices.Clone(e.state.Items)

	subs := make([]func(State[T]), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func (e *Engine[T]) notify(snap State[T], subs []func(State[T])) {
	for _, fn := range subs {
		fn(snap)
	}
}
