package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/s0up4200/gitexplore/github"
)

// stubAPI implements github.API for testing
type stubAPI struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubAPI) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubAPI) SearchUsers(ctx context.Context, term string, page int, sort github.UserSort, order github.SortOrder) (github.Page[github.UserSummary], error) {
	s.record("users:%s:%d:%s:%s", term, page, sort, order)
	return github.Page[github.UserSummary]{TotalCount: 1, Items: []github.UserSummary{{ID: 1, Login: term}}}, nil
}

func (s *stubAPI) SearchRepositories(ctx context.Context, term string, page int) (github.Page[github.RepositorySummary], error) {
	s.record("repos:%s:%d", term, page)
	return github.Page[github.RepositorySummary]{TotalCount: 1, Items: []github.RepositorySummary{{ID: 1, Name: term}}}, nil
}

func (s *stubAPI) User(ctx context.Context, username string) (*github.UserDetails, error) {
	return nil, &github.Error{Kind: github.KindServer, StatusCode: 404}
}

func (s *stubAPI) Followers(ctx context.Context, username string, page int) ([]github.UserSummary, error) {
	return nil, nil
}

func (s *stubAPI) Following(ctx context.Context, username string, page int) ([]github.UserSummary, error) {
	return nil, nil
}

func (s *stubAPI) Repos(ctx context.Context, username string, page int) ([]github.RepositorySummary, error) {
	return nil, nil
}

func (s *stubAPI) Starred(ctx context.Context, username string, page int) ([]github.RepositorySummary, error) {
	return nil, nil
}
