package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/gitexplore/favorites"
	"github.com/s0up4200/gitexplore/profile"
)

// favCmd represents the fav command
var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favorites"},
	Short:   "Manage favorite users",
}

var favAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a user to favorites",
	Long:  `Look up a user and add them to favorites. Adding an existing favorite moves it to the top of the list.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFavAdd,
}

var favRmCmd = &cobra.Command{
	Use:     "rm <username>",
	Aliases: []string{"remove"},
	Short:   "Remove a user from favorites",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavRm,
}

var favListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List favorite users, most recently added first",
	Args:    cobra.NoArgs,
	RunE:    runFavList,
}

func init() {
	favCmd.AddCommand(favAddCmd)
	favCmd.AddCommand(favRmCmd)
	favCmd.AddCommand(favListCmd)
}

func openFavorites() (*favorites.Store, error) {
	store, err := favorites.Open(cfg.Favorites.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites: %w", err)
	}
	return store, nil
}

func runFavAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st := profile.NewLoader(api, args[0], logger).Fetch(ctx)
	if st.Status == profile.StatusFailed {
		if st.Err.IsNotFound() {
			return fmt.Errorf("user %s not found", args[0])
		}
		return userFacing(st.Err)
	}

	store, err := openFavorites()
	if err != nil {
		return err
	}
	defer store.Close()

	fav, err := store.Upsert(ctx, favorites.Favorite{
		Username:  st.User.Login,
		AvatarURL: st.User.AvatarURL,
		UserID:    st.User.ID,
	})
	if err != nil {
		return err
	}

	logger.Info().Str("username", fav.Username).Msg("Added favorite")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to favorites\n", fav.Username)
	return nil
}

func runFavRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openFavorites()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, favorites.ErrNotFound) {
			return fmt.Errorf("%s is not a favorite", args[0])
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from favorites\n", args[0])
	return nil
}

func runFavList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openFavorites()
	if err != nil {
		return err
	}
	defer store.Close()

	favs, err := store.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFavorites(favs))
	if len(favs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
