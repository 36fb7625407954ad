package filter

import (
	"strings"

	"github.com/s0up4200/gitexplore/github"
)

// Target selects the item type a filter is evaluated against
type Target int

const (
	TargetUsers Target = iota
	TargetRepositories
)

// String returns the string representation of a Target
func (t Target) String() string {
	if t == TargetRepositories {
		return "repositories"
	}
	return "users"
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	env["hasText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	// startsWith and endsWith are expr operators and case-sensitive
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
}

// UserEnv builds the evaluation environment for a user
func UserEnv(u github.UserSummary) map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	env["id"] = u.ID
	env["login"] = u.Login
	env["avatar_url"] = u.AvatarURL
	return env
}

// RepositoryEnv builds the evaluation environment for a repository
func RepositoryEnv(r github.RepositorySummary) map[string]any {
	env := make(map[string]any, 12)
	addHelperFunctions(env)
	env["id"] = r.ID
	env["name"] = r.Name
	env["description"] = r.Description
	env["stars"] = r.StargazersCount
	env["forks"] = r.ForksCount
	env["language"] = r.Language
	env["url"] = r.HTMLURL
	return env
}

// compileEnv returns a zero-valued environment used to type-check expressions
func compileEnv(target Target) map[string]any {
	if target == TargetRepositories {
		return RepositoryEnv(github.RepositorySummary{})
	}
	return UserEnv(github.UserSummary{})
}

// envOf returns the environment, a display label and the target of a
// supported item
func envOf(item any) (map[string]any, string, Target, bool) {
	switch v := item.(type) {
	case github.UserSummary:
		return UserEnv(v), v.Login, TargetUsers, true
	case github.RepositorySummary:
		return RepositoryEnv(v), v.Name, TargetRepositories, true
	default:
		return nil, "", 0, false
	}
}
