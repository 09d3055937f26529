package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/internal/config"
)

// NewConfigCmd returns the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config file utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			b, err := config.Schema()
			if err != nil {
				return err
			}

			fmt.Fprintln(cc.OutOrStdout(), string(b))

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}

			fmt.Fprintln(cc.OutOrStdout(), p)

			return nil
		},
	})

	return cmd
}
