package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRestoreCmd returns the restore command.
func NewRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <save>",
		Short: "Restore a save from the backup made before its first edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			profileFilter, err := cc.Flags().GetString("profile")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			a, err := newApp(cc)
			if err != nil {
				return err
			}

			_, save, err := a.detector.Find(args[0], profileFilter)
			if err != nil {
				return err
			}

			if err := a.runner.Restore(save); err != nil {
				return err
			}

			fmt.Fprintf(cc.OutOrStdout(), "Restored %s from backup.\n", save.Key())

			return nil
		},
	}

	cmd.Flags().StringP("profile", "p", "", "Only search profiles whose name contains this")

	return cmd
}
