package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/etsvibes/ets-vibes/pkg/editor"
	"github.com/etsvibes/ets-vibes/pkg/sii"
)

const editExample = `  # Set money and XP of save "1"
  ets-vibes edit 1 --money 50000000 --xp 10000000

  # Only look in profiles whose name contains "alice"
  ets-vibes edit autosave --money 1000000 --profile alice

  # Set any other property
  ets-vibes edit 1 --set hq_city=berlin
`

// NewEditCmd returns the edit command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <save>",
		Short:   "Edit a specific save",
		Example: editExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			opts, err := editOptions(cc)
			if err != nil {
				return err
			}

			var merr error

			profileFilter, err := cc.Flags().GetString("profile")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			a, err := newApp(cc)
			if err != nil {
				return err
			}

			_, save, err := a.detector.Find(args[0], profileFilter)
			if err != nil {
				return err
			}

			ed, err := a.newEditor()
			if err != nil {
				return err
			}

			res, err := ed.EditSave(cc.Context(), save, opts)
			if err != nil {
				return fmt.Errorf("edit failed: %w", err)
			}

			writeResult(cc.OutOrStdout(), res)

			return nil
		},
	}

	cmd.Flags().Int64P("money", "m", 0, "New money value")
	cmd.Flags().Int64P("xp", "x", 0, "New XP value")
	cmd.Flags().StringP("profile", "p", "", "Only search profiles whose name contains this")
	cmd.Flags().StringArray("set", nil, "Set a property, as key=value (repeatable)")

	return cmd
}

// editOptions reads the edit flags shared by edit and watch. At least one
// edit is required.
func editOptions(cc *cobra.Command) (editor.Options, error) {
	var merr error

	opts := editor.Options{}
	flags := cc.Flags()

	if flags.Changed("money") {
		money, err := flags.GetInt64("money")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		opts.Money = &money
	}

	if flags.Changed("xp") {
		xp, err := flags.GetInt64("xp")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		opts.XP = &xp
	}

	if flags.Lookup("set") != nil {
		sets, err := flags.GetStringArray("set")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		props, err := parseSets(sets)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		opts.Properties = props
	}

	if merr != nil {
		return editor.Options{}, fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
	}

	if opts.Empty() {
		return editor.Options{}, fmt.Errorf("%w: specify --money, --xp or --set", ErrInvalidArgument)
	}

	return opts, nil
}

// parseSets parses key=value pairs. Keys are normalized to SII property
// names.
func parseSets(sets []string) (map[string]string, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	props := make(map[string]string, len(sets))

	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		name := sii.PropertyName(k)

		if !ok || name == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", s)
		}

		props[name] = strings.TrimSpace(v)
	}

	return props, nil
}

func writeResult(w io.Writer, res editor.Result) {
	fmt.Fprintln(w, "Save updated successfully.")

	for _, c := range res.Changes {
		label := propertyLabel(c.Property)
		if !c.Modified {
			fmt.Fprintf(w, "   %s: not found\n", label)

			continue
		}

		fmt.Fprintf(w, "   %s: %s -> %s\n", label,
			formatValue(c.Property, c.Old), formatValue(c.Property, c.New))
	}
}
