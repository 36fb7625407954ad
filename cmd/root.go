package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/gitexplore/config"
	"github.com/s0up4200/gitexplore/filter"
	"github.com/s0up4200/gitexplore/format"
	"github.com/s0up4200/gitexplore/github"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	api       github.API
	compiler  = filter.NewCompiler(filter.DefaultCacheSize)
	formatter = format.NewConsoleFormatter()

	// Set by main at build time
	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gitexplore",
	Short: "Search GitHub users and repositories from the terminal",
	Long: `gitexplore searches GitHub users and repositories, shows user profiles
with their followers, following, repositories and starred repositories,
and keeps a local list of favorite users.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records the build version shown by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.gitexplore/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging, os.Stderr)

	// Create GitHub client
	api, err = newAPI(cfg.GitHub, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return nil
}

// newAPI builds the resource service from configuration
func newAPI(c config.GitHubConfig, logger zerolog.Logger) (*github.Service, error) {
	endpoints, err := github.NewEndpoints(c.BaseURL)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(logger,
		github.WithTimeout(c.Timeout),
		github.WithUserAgent(c.UserAgent),
		github.WithAPIVersion(c.APIVersion),
		github.WithAccept(c.Accept),
		github.WithToken(c.Token),
	)
	return github.NewService(client, endpoints), nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// compileFilter resolves and compiles a --filter argument. An empty
// argument yields a nil filter, which matches everything.
func compileFilter(arg string, target filter.Target) (*filter.Filter, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	expression, err := cfg.ResolveFilter(arg)
	if err != nil {
		return nil, err
	}
	f, err := compiler.Compile(expression, target)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}

// userFacing replaces client errors with their display message. The
// underlying error is logged at debug level.
func userFacing(err error) error {
	var apiErr *github.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	logger.Debug().Err(err).Msg("Request failed")
	return errors.New(format.ErrorMessage(apiErr))
}
