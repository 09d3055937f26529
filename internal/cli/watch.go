package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/watch"
)

// NewWatchCmd returns the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reapply edits whenever the game writes a save",
		Long: `Watch every detected save and reapply the given edits each time the game
writes it, until interrupted.`,
		Example: `  ets-vibes watch --money 50000000`,
		Args:    cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			opts, err := editOptions(cc)
			if err != nil {
				return err
			}

			debounce, err := cc.Flags().GetDuration("debounce")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			a, err := newApp(cc)
			if err != nil {
				return err
			}

			saves, err := a.detector.AllSaves()
			if err != nil {
				return fmt.Errorf("find saves: %w", err)
			}

			if len(saves) == 0 {
				fmt.Fprintln(cc.OutOrStdout(), "No saves found.")

				return nil
			}

			w, err := watch.New(saves, func(ctx context.Context, s *profile.SaveFile) error {
				_, err := a.runner.EditSave(ctx, s, opts)
				if err != nil {
					return err //nolint:wrapcheck // Logged by the watcher.
				}

				slog.Info("reapplied edits", slog.String("save", s.Key()))
				fmt.Fprintf(cc.OutOrStdout(), "%s %s updated.\n", time.Now().Format(time.TimeOnly), s.Key())

				return nil
			}, watch.WithDebounce(debounce))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cc.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cc.OutOrStdout(), "Watching %d saves. Press Ctrl+C to stop.\n", len(saves))

			return w.Run(ctx)
		},
	}

	cmd.Flags().Int64P("money", "m", 0, "Money value to keep")
	cmd.Flags().Int64P("xp", "x", 0, "XP value to keep")
	cmd.Flags().Duration("debounce", 2*time.Second, "Time a save must be unchanged before edits are reapplied")

	return cmd
}

