package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/pkg/compression"
	"github.com/etsvibes/ets-vibes/pkg/editor"
	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/sii"
)

var (
	titleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	profileStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	moneyStyle   = cellStyle.Foreground(lipgloss.Color("2")).Align(lipgloss.Right)
	xpStyle      = cellStyle.Foreground(lipgloss.Color("3")).Align(lipgloss.Right)
	dimStyle     = cellStyle.Faint(true)
)

const (
	colMoney = 1
	colXP    = 2
	colMod   = 3
)

// NewListCmd returns the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all found profiles and saves",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			a, err := newApp(cc)
			if err != nil {
				return err
			}

			profiles, err := a.detector.Profiles()
			if err != nil {
				return fmt.Errorf("list profiles: %w", err)
			}

			w := cc.OutOrStdout()

			fmt.Fprintln(w, titleStyle.Render("ETS-Vibes - Save Editor"))
			fmt.Fprintln(w)

			if len(profiles) == 0 {
				fmt.Fprintln(w, "No profiles found.")

				return nil
			}

			for _, p := range profiles {
				saves, err := a.detector.Saves(p)
				if err != nil {
					return fmt.Errorf("list saves: %w", err)
				}

				if len(saves) == 0 {
					continue
				}

				writeProfileTable(w, p, saves, a.codec)
			}

			return nil
		},
	}
}

func writeProfileTable(w io.Writer, p *profile.Profile, saves []*profile.SaveFile, codec *compression.Codec) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Save", "Money", "XP", "Modified").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colMoney:
				return moneyStyle
			case col == colXP:
				return xpStyle
			case col == colMod:
				return dimStyle
			}

			return cellStyle
		})

	for _, s := range saves {
		t.Row(saveRow(s, codec)...)
	}

	fmt.Fprintln(w, "Profile: "+profileStyle.Render(p.DisplayName()))
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
}

// saveRow returns the table cells for s. Unreadable saves are reported in
// the row rather than failing the listing.
func saveRow(s *profile.SaveFile, codec *compression.Codec) []string {
	errRow := []string{s.Name, "error", "-", "-"}

	data, err := s.ReadGameSII()
	if err != nil {
		slog.Debug("could not read save", slog.String("save", s.Key()), slog.Any("err", err))

		return errRow
	}

	content, err := codec.Decode(data)
	if err != nil {
		slog.Debug("could not decode save", slog.String("save", s.Key()), slog.Any("err", err))

		return errRow
	}

	mod, err := s.ModTime()
	if err != nil {
		return errRow
	}

	doc := sii.NewDocument(content)

	money, ok := doc.Get(editor.PropertyMoney)
	if !ok {
		money = "?"
	}

	xp, ok := doc.Get(editor.PropertyXP)
	if !ok {
		xp = "?"
	}

	return []string{
		s.Name,
		formatValue(editor.PropertyMoney, money),
		formatValue(editor.PropertyXP, xp),
		mod.Local().Format(modifiedLayout),
	}
}
