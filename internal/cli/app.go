package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/etsvibes/ets-vibes/internal/config"
	"github.com/etsvibes/ets-vibes/pkg/compression"
	"github.com/etsvibes/ets-vibes/pkg/editcmd"
	"github.com/etsvibes/ets-vibes/pkg/editor"
	"github.com/etsvibes/ets-vibes/pkg/edittui"
	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/syncs"
)

// saveEditor is implemented by [editcmd.Runner] and [edittui.EditTUI].
type saveEditor interface {
	EditSave(ctx context.Context, save *profile.SaveFile, opts editor.Options) (editor.Result, error)
	EditAll(ctx context.Context, saves []*profile.SaveFile, opts editor.Options) (int, error)
}

// app holds what every save command needs, built from the persistent flags
// and the config file.
type app struct {
	cfg      *config.Config
	codec    *compression.Codec
	detector *profile.Detector
	runner   *editcmd.Runner
	locks    *syncs.PathLock
	logLevel string
	quiet    bool
}

func newApp(cc *cobra.Command) (*app, error) {
	var merr error

	flags := cc.Flags()
	cfgPath, err := flags.GetString("config")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	maxSize, err := flags.GetString("max_save_size")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	logLevel, err := flags.GetString("log_level")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
	}

	q, err := resource.ParseQuantity(maxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: max_save_size: %w", ErrInvalidArgument, err)
	}
	if q.Sign() <= 0 {
		return nil, fmt.Errorf("%w: max_save_size must be positive, got %s", ErrInvalidArgument, maxSize)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.DetectorOpts()
	if err != nil {
		return nil, err
	}

	locks := syncs.NewPathLock()
	codec := compression.NewCodec(compression.WithMaxSize(q.Value()))

	return &app{
		cfg:      cfg,
		codec:    codec,
		detector: profile.NewDetector(opts...),
		runner:   editcmd.NewRunner(editcmd.WithCodec(codec), editcmd.WithLocker(locks)),
		locks:    locks,
		logLevel: logLevel,
		quiet:    quiet,
	}, nil
}

// newEditor returns the TUI when stdout is an interactive terminal, otherwise
// the plain runner.
//
//nolint:ireturn
func (a *app) newEditor() (saveEditor, error) {
	if a.quiet || tuiDisabled() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return a.runner, nil
	}

	et, err := edittui.NewEditTUI(os.Stdout, a.logLevel, a.runner)
	if err != nil {
		return nil, fmt.Errorf("failed to create tui: %w", err)
	}

	return et, nil
}

func tuiDisabled() bool {
	return envTrue("ETS_VIBES_NO_TUI")
}

func envTrue(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}
