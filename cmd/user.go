package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/gitexplore/github"
	"github.com/s0up4200/gitexplore/profile"
)

// maxConcurrentRequests bounds the listings fetched alongside a profile
const maxConcurrentRequests = 4

var (
	showFollowers bool
	showFollowing bool
	showRepos     bool
	showStarred   bool
	listPage      int
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Show a user profile",
	Long: `Show a user's profile. Followers, following, repositories and starred
repositories can be listed alongside it; they are fetched concurrently.`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

func init() {
	userCmd.Flags().BoolVar(&showFollowers, "followers", false, "list followers")
	userCmd.Flags().BoolVar(&showFollowing, "following", false, "list followed users")
	userCmd.Flags().BoolVar(&showRepos, "repos", false, "list repositories, most recently updated first")
	userCmd.Flags().BoolVar(&showStarred, "starred", false, "list starred repositories")
	userCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page of the listings to show")
}

// userReport collects everything shown by the user command
type userReport struct {
	profile   *github.UserDetails
	followers []github.UserSummary
	following []github.UserSummary
	repos     []github.RepositorySummary
	starred   []github.RepositorySummary
}

// listings selects which listings to fetch with the profile
type listings struct {
	followers, following, repos, starred bool
	page                                 int
}

func runUser(cmd *cobra.Command, args []string) error {
	opts := listings{
		followers: showFollowers,
		following: showFollowing,
		repos:     showRepos,
		starred:   showStarred,
		page:      listPage,
	}
	if opts.page < 1 {
		return fmt.Errorf("--page must be at least 1")
	}

	report, err := fetchUserReport(cmd.Context(), api, args[0], opts)
	if err != nil {
		return userFacing(err)
	}

	writeUserReport(cmd.OutOrStdout(), report, opts)
	return nil
}

// fetchUserReport loads the profile and the requested listings with bounded
// concurrency. The first failure cancels the remaining requests.
func fetchUserReport(ctx context.Context, client github.API, username string, opts listings) (*userReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Create error group with limited concurrency
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)

	// Use mutex to protect concurrent writes
	var mu sync.Mutex
	report := &userReport{}

	g.Go(func() error {
		st := profile.NewLoader(client, username, logger).Fetch(ctx)
		if st.Status == profile.StatusFailed {
			return st.Err
		}
		mu.Lock()
		report.profile = st.User
		mu.Unlock()
		return nil
	})

	if opts.followers {
		g.Go(func() error {
			users, err := client.Followers(ctx, username, opts.page)
			if err != nil {
				return err
			}
			mu.Lock()
			report.followers = users
			mu.Unlock()
			return nil
		})
	}
	if opts.following {
		g.Go(func() error {
			users, err := client.Following(ctx, username, opts.page)
			if err != nil {
				return err
			}
			mu.Lock()
			report.following = users
			mu.Unlock()
			return nil
		})
	}
	if opts.repos {
		g.Go(func() error {
			repos, err := client.Repos(ctx, username, opts.page)
			if err != nil {
				return err
			}
			mu.Lock()
			report.repos = repos
			mu.Unlock()
			return nil
		})
	}
	if opts.starred {
		g.Go(func() error {
			repos, err := client.Starred(ctx, username, opts.page)
			if err != nil {
				return err
			}
			mu.Lock()
			report.starred = repos
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func writeUserReport(w io.Writer, r *userReport, opts listings) {
	fmt.Fprint(w, formatter.FormatProfile(r.profile))

	if opts.followers {
		writeSection(w, fmt.Sprintf("Followers, page %d", opts.page), formatter.FormatUsers(r.followers, 0))
	}
	if opts.following {
		writeSection(w, fmt.Sprintf("Following, page %d", opts.page), formatter.FormatUsers(r.following, 0))
	}
	if opts.repos {
		writeSection(w, fmt.Sprintf("Repositories, page %d", opts.page), formatter.FormatRepositories(r.repos, 0))
	}
	if opts.starred {
		writeSection(w, fmt.Sprintf("Starred, page %d", opts.page), formatter.FormatRepositories(r.starred, 0))
	}
}

func writeSection(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
	body = strings.TrimLeft(body, "\n")
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	fmt.Fprint(w, body)
}
