package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// UserSort is the sort key for user search
type UserSort string

const (
	// SortBestMatch leaves ordering to the provider
	SortBestMatch UserSort = ""
	// SortFollowers sorts by follower count
	SortFollowers UserSort = "followers"
	// SortRepositories sorts by public repository count
	SortRepositories UserSort = "repositories"
	// SortJoined sorts by account creation date
	SortJoined UserSort = "joined"
)

// UserSorts lists the selectable sort keys in menu order
var UserSorts = []UserSort{SortBestMatch, SortJoined, SortRepositories, SortFollowers}

// ParseUserSort parses a sort key. Empty and "best-match" mean no sort.
func ParseUserSort(s string) (UserSort, error) {
	switch s {
	case "", "best-match":
		return SortBestMatch, nil
	case string(SortFollowers), string(SortRepositories), string(SortJoined):
		return UserSort(s), nil
	}
	return SortBestMatch, fmt.Errorf("invalid sort %q (must be followers, repositories or joined)", s)
}

// Label returns a human readable name
func (s UserSort) Label() string {
	switch s {
	case SortFollowers:
		return "Followers"
	case SortRepositories:
		return "Repositories"
	case SortJoined:
		return "Joined"
	default:
		return "Best match"
	}
}

// SortOrder is the sort direction, only meaningful with a sort key
type SortOrder string

const (
	// OrderDefault leaves the direction to the provider (descending)
	OrderDefault SortOrder = ""
	// OrderAsc sorts ascending
	OrderAsc SortOrder = "asc"
	// OrderDesc sorts descending
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder parses a sort direction
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "":
		return OrderDefault, nil
	case string(OrderAsc), string(OrderDesc):
		return SortOrder(s), nil
	}
	return OrderDefault, fmt.Errorf("invalid order %q (must be asc or desc)", s)
}

// UserSummary is a user as returned by search and follower listings
type UserSummary struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Identity returns the provider's stable numeric id
func (u UserSummary) Identity() int64 {
	return u.ID
}

// RepositorySummary is a repository as returned by search and repo listings
type RepositorySummary struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
	HTMLURL         string `json:"html_url"`
}

// Identity returns the provider's stable numeric id
func (r RepositorySummary) Identity() int64 {
	return r.ID
}

// Page is one page of search results
type Page[T any] struct {
	TotalCount int `json:"total_count"`
	Items      []T `json:"items"`
}

// UnmarshalJSON rejects bodies missing total_count or items
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		TotalCount *int `json:"total_count"`
		Items      *[]T `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.TotalCount == nil || raw.Items == nil {
		return errors.New("search response missing total_count or items")
	}
	if *raw.TotalCount < 0 {
		return fmt.Errorf("negative total_count %d", *raw.TotalCount)
	}
	p.TotalCount = *raw.TotalCount
	p.Items = *raw.Items
	return nil
}

// UserDetails is a full user profile
type UserDetails struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName returns the best available name for the user
func (u *UserDetails) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

func (u *UserDetails) validate() error {
	if u.Login == "" {
		return errors.New("user response missing login")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("user response missing created_at")
	}
	return nil
}
