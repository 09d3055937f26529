package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/pkg/editor"
)

// NewQuickCmd returns the quick command, which sets money on every save.
func NewQuickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick [money]",
		Short: "Set money for all saves",
		Long: `Set money for all saves of every detected profile.

Without an argument, quick.money from the config file is used (default 50000000).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			a, err := newApp(cc)
			if err != nil {
				return err
			}

			money, err := quickValue(args, a.cfg.Quick.Money)
			if err != nil {
				return err
			}

			n, err := a.editAll(cc, editor.Options{Money: &money})

			fmt.Fprintf(cc.OutOrStdout(), "%d saves updated.\n", n)

			return err
		},
	}
}

// NewQuickXPCmd returns the quick-xp command, which sets XP on every save.
func NewQuickXPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick-xp [xp]",
		Short: "Set XP for all saves",
		Long: `Set XP for all saves of every detected profile.

Without an argument, quick.xp from the config file is used (default 10000000).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			a, err := newApp(cc)
			if err != nil {
				return err
			}

			xp, err := quickValue(args, a.cfg.Quick.XP)
			if err != nil {
				return err
			}

			n, err := a.editAll(cc, editor.Options{XP: &xp})

			fmt.Fprintf(cc.OutOrStdout(), "%d saves updated with %s XP.\n", n, formatNumber(xp))

			return err
		},
	}
}

func quickValue(args []string, fallback int64) (int64, error) {
	if len(args) == 0 {
		return fallback, nil
	}

	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: expected a non-negative integer, got %q", ErrInvalidArgument, args[0])
	}

	return v, nil
}

// editAll applies opts to every detected save. Failed saves do not stop the
// others; their errors are returned together.
func (a *app) editAll(cc *cobra.Command, opts editor.Options) (int, error) {
	saves, err := a.detector.AllSaves()
	if err != nil {
		return 0, fmt.Errorf("find saves: %w", err)
	}

	if len(saves) == 0 {
		return 0, nil
	}

	ed, err := a.newEditor()
	if err != nil {
		return 0, err
	}

	n, err := ed.EditAll(cc.Context(), saves, opts)
	if err != nil {
		return n, fmt.Errorf("edit failed: %w", err)
	}

	return n, nil
}
