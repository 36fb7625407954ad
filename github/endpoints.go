package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public GitHub REST API host
const DefaultBaseURL = "https://api.github.com"

// Endpoints builds request targets for the GitHub API.
// Query parameters are emitted in the order given, never sorted, so the
// same call always yields the same target.
type Endpoints struct {
	root string
}

// NewEndpoints validates the static host configuration once
func NewEndpoints(baseURL string) (*Endpoints, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: host is required", baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("invalid base URL %q: query and fragment are not allowed", baseURL)
	}

	return &Endpoints{root: strings.TrimRight(u.String(), "/")}, nil
}

type queryParam struct {
	key   string
	value string
}

// encodeQuery joins params in order, dropping those without a value
func encodeQuery(params []queryParam) string {
	var sb strings.Builder
	for _, p := range params {
		if p.value == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

func (e *Endpoints) build(path string, params ...queryParam) string {
	target := e.root + path
	if q := encodeQuery(params); q != "" {
		target += "?" + q
	}
	return target
}

func pageParam(page int) queryParam {
	return queryParam{key: "page", value: strconv.Itoa(page)}
}

func userPath(username, suffix string) string {
	return "/users/" + url.PathEscape(username) + suffix
}

// SearchUsers returns /search/users?q=&page=[&sort=&order=].
// order is only emitted together with sort.
func (e *Endpoints) SearchUsers(term string, page int, sort UserSort, order SortOrder) string {
	params := []queryParam{
		{key: "q", value: term},
		pageParam(page),
	}
	if sort != SortBestMatch {
		params = append(params,
			queryParam{key: "sort", value: string(sort)},
			queryParam{key: "order", value: string(order)},
		)
	}
	return e.build("/search/users", params...)
}

// SearchRepositories returns /search/repositories?q=&page=
func (e *Endpoints) SearchRepositories(term string, page int) string {
	return e.build("/search/repositories",
		queryParam{key: "q", value: term},
		pageParam(page),
	)
}

// UserProfile returns /users/{username}
func (e *Endpoints) UserProfile(username string) string {
	return e.build(userPath(username, ""))
}

// Followers returns /users/{username}/followers?page=
func (e *Endpoints) Followers(username string, page int) string {
	return e.build(userPath(username, "/followers"), pageParam(page))
}

// Following returns /users/{username}/following?page=
func (e *Endpoints) Following(username string, page int) string {
	return e.build(userPath(username, "/following"), pageParam(page))
}

// UserRepos returns /users/{username}/repos?page=&sort=updated
func (e *Endpoints) UserRepos(username string, page int) string {
	return e.build(userPath(username, "/repos"),
		pageParam(page),
		queryParam{key: "sort", value: "updated"},
	)
}

// Starred returns /users/{username}/starred?page=
func (e *Endpoints) Starred(username string, page int) string {
	return e.build(userPath(username, "/starred"), pageParam(page))
}
