package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/gitexplore/github"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		target      Target
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid user expression",
			expression: `hasText(login, "tor")`,
			target:     TargetUsers,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			target:      TargetUsers,
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasText(login, "unclosed`,
			target:     TargetUsers,
			wantErr:    true,
		},
		{
			name:       "repository field on user target",
			expression: `stars > 10`,
			target:     TargetUsers,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `stars + 1`,
			target:     TargetRepositories,
			wantErr:    true,
		},
		{
			name:       "complex repository expression",
			expression: `stars > 100 and language == "Go" and not hasPrefix(name, "awesome")`,
			target:     TargetRepositories,
		},
	}

	c := NewCompiler(DefaultCacheSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression, tt.target)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, f.Target())
		})
	}
}

func TestCompilerCache(t *testing.T) {
	c := NewCompiler(2)

	first, err := c.Compile(`id > 1`, TargetUsers)
	require.NoError(t, err)
	again, err := c.Compile(`  id > 1  `, TargetUsers)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Size())

	// Same text, different target is a separate entry.
	_, err = c.Compile(`id > 1`, TargetRepositories)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	_, err = c.Compile(`id > 2`, TargetUsers)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Zero(t, c.Size())

	uncached := NewCompiler(0)
	a, err := uncached.Compile(`id > 1`, TargetUsers)
	require.NoError(t, err)
	b, err := uncached.Compile(`id > 1`, TargetUsers)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Zero(t, uncached.Size())
}

func TestApplyUsers(t *testing.T) {
	users := []github.UserSummary{
		{ID: 1024025, Login: "torvalds"},
		{ID: 2, Login: "dependabot"},
		{ID: 3, Login: "TorBot"},
	}

	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{name: "case insensitive text", expression: `hasText(login, "TOR")`, want: []string{"torvalds", "TorBot"}},
		{name: "suffix", expression: `hasSuffix(login, "bot")`, want: []string{"dependabot", "TorBot"}},
		{name: "prefix", expression: `hasPrefix(login, "TOR")`, want: []string{"torvalds", "TorBot"}},
		{name: "builtin lower", expression: `lower(login) == "torbot"`, want: []string{"TorBot"}},
		{name: "numeric", expression: `id > 1000`, want: []string{"torvalds"}},
		{name: "no match", expression: `login == "nobody"`, want: []string{}},
	}

	c := NewCompiler(DefaultCacheSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression, TargetUsers)
			require.NoError(t, err)

			got, err := Apply(f, users)
			require.NoError(t, err)

			logins := make([]string, 0, len(got))
			for _, u := range got {
				logins = append(logins, u.Login)
			}
			assert.Equal(t, tt.want, logins)
		})
	}
}

func TestApplyRepositories(t *testing.T) {
	repos := []github.RepositorySummary{
		{ID: 1, Name: "linux", StargazersCount: 180000, Language: "C"},
		{ID: 2, Name: "cobra", StargazersCount: 38000, ForksCount: 2800, Language: "Go"},
		{ID: 3, Name: "toy", StargazersCount: 3, Language: "Go", Description: "A toy project"},
	}

	f, err := NewCompiler(DefaultCacheSize).Compile(`language == "Go" and stars >= 1000`, TargetRepositories)
	require.NoError(t, err)

	got, err := Apply(f, repos)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cobra", got[0].Name)

	f, err = NewCompiler(DefaultCacheSize).Compile(`hasText(description, "toy")`, TargetRepositories)
	require.NoError(t, err)
	got, err = Apply(f, repos)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestApplyNilFilter(t *testing.T) {
	users := []github.UserSummary{{ID: 1}, {ID: 2}}
	got, err := Apply(nil, users)
	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestApplyTargetMismatch(t *testing.T) {
	f, err := NewCompiler(0).Compile(`id > 0`, TargetUsers)
	require.NoError(t, err)

	_, err = Apply(f, []github.RepositorySummary{{ID: 1}})
	assert.Error(t, err)

	_, err = Apply(f, []string{"x"})
	assert.Error(t, err)
}

func TestCompilationErrorMessage(t *testing.T) {
	withPos := &CompilationError{Expression: "a ==", Reason: "unexpected end", Position: 4}
	assert.Equal(t, "compilation error at position 4 in 'a ==': unexpected end", withPos.Error())

	cause := errors.New("cause")
	noPos := &CompilationError{Expression: "", Reason: "empty expression", Position: -1, Err: cause}
	assert.Equal(t, "compilation error in '': empty expression", noPos.Error())
	assert.ErrorIs(t, noPos, cause)
}
