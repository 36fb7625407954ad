package github

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpoints(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{name: "default host", baseURL: DefaultBaseURL},
		{name: "trailing slash", baseURL: "https://api.github.com/"},
		{name: "enterprise prefix", baseURL: "https://ghe.example.com/api/v3"},
		{name: "missing scheme", baseURL: "api.github.com", wantErr: true, errMsg: "scheme"},
		{name: "ftp scheme", baseURL: "ftp://api.github.com", wantErr: true, errMsg: "scheme"},
		{name: "missing host", baseURL: "https://", wantErr: true, errMsg: "host"},
		{name: "query not allowed", baseURL: "https://api.github.com?x=1", wantErr: true, errMsg: "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEndpoints(tt.baseURL)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}

func TestEndpointsSearchUsers(t *testing.T) {
	e, err := NewEndpoints(DefaultBaseURL)
	require.NoError(t, err)

	tests := []struct {
		name  string
		term  string
		page  int
		sort  UserSort
		order SortOrder
		want  string
	}{
		{
			name:  "sort and order in fixed order",
			term:  "ada",
			page:  2,
			sort:  SortFollowers,
			order: OrderDesc,
			want:  "https://api.github.com/search/users?q=ada&page=2&sort=followers&order=desc",
		},
		{
			name: "no sort omits sort and order",
			term: "ada",
			page: 1,
			want: "https://api.github.com/search/users?q=ada&page=1",
		},
		{
			name:  "order without sort is dropped",
			term:  "ada",
			page:  1,
			order: OrderAsc,
			want:  "https://api.github.com/search/users?q=ada&page=1",
		},
		{
			name: "sort without order",
			term: "ada",
			page: 3,
			sort: SortJoined,
			want: "https://api.github.com/search/users?q=ada&page=3&sort=joined",
		},
		{
			name: "term is percent-encoded",
			term: "ada lovelace&location:uk",
			page: 1,
			want: "https://api.github.com/search/users?q=ada+lovelace%26location%3Auk&page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.SearchUsers(tt.term, tt.page, tt.sort, tt.order)
			assert.Equal(t, tt.want, got)

			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, "/search/users", u.Path)
			assert.Equal(t, tt.term, u.Query().Get("q"))
		})
	}
}

func TestEndpointsNeverEmitEmptyValues(t *testing.T) {
	e, err := NewEndpoints(DefaultBaseURL)
	require.NoError(t, err)

	got := e.SearchUsers("", 1, SortBestMatch, OrderDefault)
	assert.Equal(t, "https://api.github.com/search/users?page=1", got)
	assert.NotContains(t, got, "q=")
}

func TestEndpointsUserResources(t *testing.T) {
	e, err := NewEndpoints("https://ghe.example.com/api/v3/")
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3/search/repositories?q=bubbletea&page=4",
		e.SearchRepositories("bubbletea", 4))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/torvalds", e.UserProfile("torvalds"))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/torvalds/followers?page=2", e.Followers("torvalds", 2))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/torvalds/following?page=1", e.Following("torvalds", 1))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/torvalds/repos?page=1&sort=updated", e.UserRepos("torvalds", 1))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/torvalds/starred?page=5", e.Starred("torvalds", 5))
	assert.Equal(t, "https://ghe.example.com/api/v3/users/a%2Fb", e.UserProfile("a/b"))
}
