package search

import (
	"strings"

	"github.com/s0up4200/gitexplore/github"
)

// Query is the input of one search session
type Query struct {
	Term  string
	Sort  github.UserSort
	Order github.SortOrder
}

// Normalize trims the term and drops the order when no sort key is set
func (q Query) Normalize() Query {
	q.Term = strings.TrimSpace(q.Term)
	if q.Sort == github.SortBestMatch {
		q.Order = github.OrderDefault
	}
	return q
}

// Valid reports whether the query has a non-blank term
func (q Query) Valid() bool {
	return strings.TrimSpace(q.Term) != ""
}
