package github

import (
	"context"
)

// API defines the GitHub operations the rest of the application depends on
type API interface {
	// SearchUsers fetches one page of user search results
	SearchUsers(ctx context.Context, term string, page int, sort UserSort, order SortOrder) (Page[UserSummary], error)

	// SearchRepositories fetches one page of repository search results
	SearchRepositories(ctx context.Context, term string, page int) (Page[RepositorySummary], error)

	// User fetches a full user profile
	User(ctx context.Context, username string) (*UserDetails, error)

	Followers(ctx context.Context, username string, page int) ([]UserSummary, error)
	Following(ctx context.Context, username string, page int) ([]UserSummary, error)
	Repos(ctx context.Context, username string, page int) ([]RepositorySummary, error)
	Starred(ctx context.Context, username string, page int) ([]RepositorySummary, error)
}
