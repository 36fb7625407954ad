package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/gitexplore/config"
	"github.com/s0up4200/gitexplore/github"
	"github.com/s0up4200/gitexplore/search"
)

// fakeGitHub serves a small slice of the GitHub API
type fakeGitHub struct {
	mu       sync.Mutex
	requests []string
	// total reported by user search; pages past the data are empty
	total     int
	userCount int
	failUsers bool
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	f.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/search/users":
		if f.failUsers {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"message": "unavailable"})
			return
		}
		items := []github.UserSummary{}
		for i := (page-1)*30 + 1; i <= min(page*30, f.userCount); i++ {
			items = append(items, github.UserSummary{ID: int64(i), Login: fmt.Sprintf("user%d", i)})
		}
		json.NewEncoder(w).Encode(map[string]any{"total_count": f.total, "items": items})

	case "/search/repositories":
		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 2,
			"items": []github.RepositorySummary{
				{ID: 1, Name: "cobra", StargazersCount: 38000, Language: "Go"},
				{ID: 2, Name: "linux", StargazersCount: 180000, Language: "C"},
			},
		})

	case "/users/torvalds":
		json.NewEncoder(w).Encode(map[string]any{
			"id":           1024025,
			"login":        "torvalds",
			"name":         "Linus Torvalds",
			"avatar_url":   "https://avatars.githubusercontent.com/u/1024025",
			"followers":    200000,
			"public_repos": 7,
			"created_at":   "2011-09-03T15:26:22Z",
		})

	case "/users/torvalds/followers":
		json.NewEncoder(w).Encode([]github.UserSummary{{ID: 2, Login: "fan"}})

	case "/users/torvalds/repos":
		json.NewEncoder(w).Encode([]github.RepositorySummary{{ID: 3, Name: "linux"}})

	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}
}

func (f *fakeGitHub) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newFakeGitHub(t *testing.T, fake *fakeGitHub) *github.Service {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	svc, err := newAPI(config.GitHubConfig{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

// execute runs the root command against fake with a temp config
func execute(t *testing.T, fake *fakeGitHub, args ...string) (string, error) {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
github:
  base_url: %s
favorites:
  path: %s
filters:
  go: language == "Go"
logging:
  level: error
`, server.URL, filepath.Join(dir, "favorites.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	return executeWithConfig(t, cfgPath, args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", cfgPath))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	l := setupLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	l.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])

	buf.Reset()
	l = setupLogger(config.LoggingConfig{Level: "warn", Format: "console", Color: true}, &buf)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "\x1b[", "no colour when not a terminal")

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestCollectPages(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		userCount    int
		pages        int
		wantItems    int
		wantRequests int
	}{
		{name: "single page", total: 1, userCount: 1, pages: 5, wantItems: 1, wantRequests: 1},
		{name: "two pages to the end", total: 45, userCount: 45, pages: 5, wantItems: 45, wantRequests: 2},
		{name: "page limit", total: 100, userCount: 100, pages: 2, wantItems: 60, wantRequests: 2},
		{name: "provider stops short", total: 100, userCount: 30, pages: 5, wantItems: 30, wantRequests: 2},
		{name: "no results", total: 0, userCount: 0, pages: 3, wantItems: 0, wantRequests: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGitHub{total: tt.total, userCount: tt.userCount}
			engine := search.NewUserSearch(newFakeGitHub(t, fake), zerolog.Nop())

			state, err := collectPages(context.Background(), engine, search.Query{Term: "x"}, tt.pages, zerolog.Nop())
			require.NoError(t, err)
			assert.Len(t, state.Items, tt.wantItems)
			assert.Len(t, fake.Requests(), tt.wantRequests)
		})
	}
}

func TestCollectPagesErrors(t *testing.T) {
	fake := &fakeGitHub{failUsers: true}
	engine := search.NewUserSearch(newFakeGitHub(t, fake), zerolog.Nop())

	_, err := collectPages(context.Background(), engine, search.Query{Term: "x"}, 1, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, github.ErrServer)

	_, err = collectPages(context.Background(), engine, search.Query{Term: "  "}, 1, zerolog.Nop())
	assert.EqualError(t, err, "search term is required")
}

func TestFetchUserReport(t *testing.T) {
	logger = zerolog.Nop()
	svc := newFakeGitHub(t, &fakeGitHub{})

	report, err := fetchUserReport(context.Background(), svc, "torvalds", listings{followers: true, repos: true, page: 1})
	require.NoError(t, err)
	assert.Equal(t, "Linus Torvalds", report.profile.Name)
	assert.Equal(t, int64(1024025), report.profile.ID)
	require.Len(t, report.followers, 1)
	require.Len(t, report.repos, 1)
	assert.Nil(t, report.starred)

	_, err = fetchUserReport(context.Background(), svc, "ghost", listings{page: 1})
	require.Error(t, err)
	assert.True(t, github.AsError(err).IsNotFound())
}

func TestUsersCommand(t *testing.T) {
	out, err := execute(t, &fakeGitHub{total: 45, userCount: 45}, "users", "linus", "--pages", "3", "--sort", "", "--order", "", "--filter", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Users (45):")
	assert.Contains(t, out, "user45")

	fake := &fakeGitHub{total: 45, userCount: 45}
	_, err = execute(t, fake, "users", "linus", "--pages", "1", "--sort", "followers", "--order", "asc", "--filter", "id <= 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"/search/users?q=linus&page=1&sort=followers&order=asc"}, fake.Requests())

	_, err = execute(t, &fakeGitHub{}, "users", "linus", "--sort", "", "--order", "asc", "--filter", "")
	assert.Error(t, err)
}

func TestUsersCommandServerError(t *testing.T) {
	_, err := execute(t, &fakeGitHub{failUsers: true}, "users", "linus", "--pages", "1", "--sort", "", "--order", "", "--filter", "")
	require.Error(t, err)
	assert.Equal(t, "Server error (503). Please try again.", err.Error())
}

func TestReposCommandNamedFilter(t *testing.T) {
	out, err := execute(t, &fakeGitHub{}, "repos", "kernel", "--pages", "1", "--filter", "@go")
	require.NoError(t, err)
	assert.Contains(t, out, "cobra")
	assert.NotContains(t, out, "linux")
}

func TestUserCommand(t *testing.T) {
	out, err := execute(t, &fakeGitHub{}, "user", "torvalds", "--followers", "--repos", "--page", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Linus Torvalds (@torvalds)")
	assert.Contains(t, out, "Joined: 03 Sep 2011")
	assert.Contains(t, out, "== Followers, page 1 ==")
	assert.Contains(t, out, "fan")
	assert.Contains(t, out, "== Repositories, page 1 ==")
}

func TestFavoritesCommands(t *testing.T) {
	fake := &fakeGitHub{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("github:\n  base_url: %s\nfavorites:\n  path: %s\nlogging:\n  level: error\n",
		server.URL, filepath.Join(dir, "favorites.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	out, err := executeWithConfig(t, cfgPath, "fav", "add", "torvalds")
	require.NoError(t, err)
	assert.Contains(t, out, "Added torvalds")

	_, err = executeWithConfig(t, cfgPath, "fav", "add", "ghost")
	assert.EqualError(t, err, "user ghost not found")

	out, err = executeWithConfig(t, cfgPath, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Favorite (1):")
	assert.Contains(t, out, "torvalds")

	out, err = executeWithConfig(t, cfgPath, "fav", "rm", "TORVALDS")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed TORVALDS")

	_, err = executeWithConfig(t, cfgPath, "fav", "rm", "torvalds")
	assert.EqualError(t, err, "torvalds is not a favorite")

	out, err = executeWithConfig(t, cfgPath, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites yet")
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "2025-01-01")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "gitexplore 1.2.3 (built 2025-01-01")
}
