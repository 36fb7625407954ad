package github

import (
	"context"
)

// Service maps each API operation to its endpoint. It holds no state of its
// own, so every call is repeatable with the same arguments.
type Service struct {
	client    *Client
	endpoints *Endpoints
}

var _ API = (*Service)(nil)

// NewService creates a new Service
func NewService(client *Client, endpoints *Endpoints) *Service {
	return &Service{
		client:    client,
		endpoints: endpoints,
	}
}

// SearchUsers searches users. order is ignored when sort is SortBestMatch.
func (s *Service) SearchUsers(ctx context.Context, term string, page int, sort UserSort, order SortOrder) (Page[UserSummary], error) {
	return get[Page[UserSummary]](ctx, s.client, s.endpoints.SearchUsers(term, page, sort, order))
}

// SearchRepositories searches repositories
func (s *Service) SearchRepositories(ctx context.Context, term string, page int) (Page[RepositorySummary], error) {
	return get[Page[RepositorySummary]](ctx, s.client, s.endpoints.SearchRepositories(term, page))
}

// User fetches a user profile
func (s *Service) User(ctx context.Context, username string) (*UserDetails, error) {
	user, err := get[UserDetails](ctx, s.client, s.endpoints.UserProfile(username))
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Followers lists a page of the user's followers
func (s *Service) Followers(ctx context.Context, username string, page int) ([]UserSummary, error) {
	return get[[]UserSummary](ctx, s.client, s.endpoints.Followers(username, page))
}

// Following lists a page of the accounts the user follows
func (s *Service) Following(ctx context.Context, username string, page int) ([]UserSummary, error) {
	return get[[]UserSummary](ctx, s.client, s.endpoints.Following(username, page))
}

// Repos lists a page of the user's repositories, most recently updated first
func (s *Service) Repos(ctx context.Context, username string, page int) ([]RepositorySummary, error) {
	return get[[]RepositorySummary](ctx, s.client, s.endpoints.UserRepos(username, page))
}

// Starred lists a page of repositories the user starred
func (s *Service) Starred(ctx context.Context, username string, page int) ([]RepositorySummary, error) {
	return get[[]RepositorySummary](ctx, s.client, s.endpoints.Starred(username, page))
}
