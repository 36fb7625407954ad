package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/gitexplore/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui [term...]",
	Short: "Interactive search",
	Long: `Interactive search over users and repositories. Results load as you
scroll; users can be opened, sorted and marked as favorites.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	// Logs would corrupt the screen, so they go to a file or nowhere
	l, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	logger = l

	client, err := newAPI(cfg.GitHub, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	store, err := openFavorites()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.New(ctx, tui.Options{
		API:       client,
		Favorites: store,
		Logger:    logger,
		Term:      strings.Join(args, " "),
	})
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func tuiLogger() (zerolog.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return zerolog.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return setupLogger(cfg.Logging, f), func() { f.Close() }, nil
}
