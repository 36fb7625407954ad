// Package filter narrows search results with boolean expressions such as
//
//	stars > 100 and language == "Go"
//	hasText(login, "bot") == false
//	hasPrefix(name, "go-") or lower(language) == "rust"
//
// hasText, hasPrefix and hasSuffix ignore case. Expressions are compiled
// once with expr-lang and evaluated per item.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled programs kept by NewCompiler
const DefaultCacheSize = 64

// Filter is a compiled expression bound to one Target
type Filter struct {
	expression string
	target     Target
	program    *vm.Program
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Target returns the item type the filter was compiled for
func (f *Filter) Target() Target {
	return f.target
}

// Match evaluates the filter against an environment built by UserEnv or
// RepositoryEnv
func (f *Filter) Match(env map[string]any) (bool, error) {
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, err
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

type cacheKey struct {
	target     Target
	expression string
}

// Compiler compiles expressions and caches the programs
type Compiler struct {
	cache *lru.Cache[cacheKey, *Filter]
}

// NewCompiler creates a compiler keeping up to cacheSize programs. A size
// below one disables caching.
func NewCompiler(cacheSize int) *Compiler {
	c := &Compiler{}
	if cacheSize > 0 {
		// New only fails for non-positive sizes
		c.cache, _ = lru.New[cacheKey, *Filter](cacheSize)
	}
	return c
}

// Compile compiles an expression for target. Unknown identifiers and
// non-boolean results are rejected here rather than at evaluation time.
func (c *Compiler) Compile(expression string, target Target) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	key := cacheKey{target: target, expression: expression}
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnv(target)),
		expr.AsBool(),
	)
	if err != nil {
		compErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			compErr.Reason = fileErr.Message
			compErr.Position = fileErr.Column
		}
		return nil, compErr
	}

	f := &Filter{
		expression: expression,
		target:     target,
		program:    program,
	}
	if c.cache != nil {
		c.cache.Add(key, f)
	}
	return f, nil
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Clear removes all cached programs
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Apply returns the items matching f, in their original order. A nil filter
// matches everything.
func Apply[T any](f *Filter, items []T) ([]T, error) {
	if f == nil {
		return items, nil
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		env, label, target, ok := envOf(item)
		if !ok {
			return nil, fmt.Errorf("filter: unsupported item type %T", item)
		}
		if target != f.target {
			return nil, fmt.Errorf("filter: compiled for %s, applied to %s", f.target, target)
		}
		ok, err := f.Match(env)
		if err != nil {
			return nil, &EvaluationError{
				Expression: f.expression,
				Item:       label,
				Reason:     "evaluation failed",
				Err:        err,
			}
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}
