package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/internal/version"
	"github.com/etsvibes/ets-vibes/pkg/games"
)

// NewVersionCmd returns the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			w := cc.OutOrStdout()

			fmt.Fprintf(w, "ETS-Vibes v%s\n", version.Get())

			// Detection is informational; a broken config must not hide the version.
			a, err := newApp(cc)
			if err != nil {
				slog.Warn("skipping game detection", slog.Any("err", err))
				fmt.Fprintf(w, "Platform: %s\n", games.CurrentPlatform())

				return nil
			}

			fmt.Fprintf(w, "Platform: %s\n", a.detector.Platform())

			detected := a.detector.Games()
			if len(detected) > 0 {
				names := make([]string, 0, len(detected))
				for _, g := range detected {
					names = append(names, g.Name)
				}

				fmt.Fprintf(w, "Detected games: %s\n", strings.Join(names, ", "))
			}

			return nil
		},
	}
}
