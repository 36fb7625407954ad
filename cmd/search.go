package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/gitexplore/filter"
	"github.com/s0up4200/gitexplore/github"
	"github.com/s0up4200/gitexplore/search"
)

var (
	// Command flags
	sortFlag   string
	orderFlag  string
	pagesFlag  int
	filterExpr string
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users <term...>",
	Short: "Search GitHub users",
	Long: `Search GitHub users by login, name or email. Results are loaded page by
page; use --pages to load more than the first page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUsers,
}

// reposCmd represents the repos command
var reposCmd = &cobra.Command{
	Use:   "repos <term...>",
	Short: "Search GitHub repositories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRepos,
}

func init() {
	usersCmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "sort by followers, repositories or joined (default best match)")
	usersCmd.Flags().StringVarP(&orderFlag, "order", "o", "", "sort order asc or desc (requires --sort)")
	usersCmd.Flags().IntVarP(&pagesFlag, "pages", "n", 1, "number of pages to load")
	usersCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")

	reposCmd.Flags().IntVarP(&pagesFlag, "pages", "n", 1, "number of pages to load")
	reposCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or @name of a configured filter")
}

func runUsers(cmd *cobra.Command, args []string) error {
	sort, err := github.ParseUserSort(sortFlag)
	if err != nil {
		return err
	}
	order, err := github.ParseSortOrder(orderFlag)
	if err != nil {
		return err
	}
	if order != github.OrderDefault && sort == github.SortBestMatch {
		return fmt.Errorf("--order requires --sort")
	}

	f, err := compileFilter(filterExpr, filter.TargetUsers)
	if err != nil {
		return err
	}

	q := search.Query{Term: strings.Join(args, " "), Sort: sort, Order: order}
	logger.Info().Str("term", q.Term).Str("sort", string(sort)).Int("pages", pagesFlag).Msg("Searching users")

	engine := search.NewUserSearch(api, logger)
	state, err := collectPages(cmd.Context(), engine, q, pagesFlag, logger)
	if err != nil {
		return userFacing(err)
	}

	users, err := filter.Apply(f, state.Items)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users, displayTotal(f, state.TotalCount)))
	return nil
}

func runRepos(cmd *cobra.Command, args []string) error {
	f, err := compileFilter(filterExpr, filter.TargetRepositories)
	if err != nil {
		return err
	}

	q := search.Query{Term: strings.Join(args, " ")}
	logger.Info().Str("term", q.Term).Int("pages", pagesFlag).Msg("Searching repositories")

	engine := search.NewRepositorySearch(api, logger)
	state, err := collectPages(cmd.Context(), engine, q, pagesFlag, logger)
	if err != nil {
		return userFacing(err)
	}

	repos, err := filter.Apply(f, state.Items)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRepositories(repos, displayTotal(f, state.TotalCount)))
	return nil
}

// collectPages submits q and keeps asking for the next page while the last
// loaded item is the newest one, up to pages pages. A failure after the
// first page keeps what was loaded; a failure on the first page is returned.
func collectPages[T search.Item](ctx context.Context, e *search.Engine[T], q search.Query, pages int, logger zerolog.Logger) (search.State[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !e.SubmitSearch(ctx, q) {
		return search.State[T]{}, errors.New("search term is required")
	}
	e.Wait()

	for loaded := 1; loaded < pages; loaded++ {
		snap := e.Snapshot()
		if snap.LastError != nil {
			break
		}
		last, ok := snap.Last()
		if !ok || !e.LoadMoreIfNeeded(ctx, &last) {
			break
		}
		e.Wait()

		// An empty page means the provider stopped short of total_count
		if len(e.Snapshot().Items) == len(snap.Items) {
			break
		}
	}

	state := e.Snapshot()
	if state.LastError != nil {
		if len(state.Items) == 0 {
			return state, state.LastError
		}
		logger.Warn().Err(state.LastError).Int("loaded", len(state.Items)).Msg("Stopped loading pages")
	}
	return state, nil
}

// displayTotal hides the provider total once results were filtered locally
func displayTotal(f *filter.Filter, total int) int {
	if f != nil {
		return 0
	}
	return total
}
