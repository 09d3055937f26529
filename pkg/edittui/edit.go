package edittui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/etsvibes/ets-vibes/pkg/editcmd"
	"github.com/etsvibes/ets-vibes/pkg/editor"
	"github.com/etsvibes/ets-vibes/pkg/log"
	"github.com/etsvibes/ets-vibes/pkg/profile"
)

// EditCommander runs save edits. See [editcmd.Runner].
type EditCommander interface {
	EditSave(ctx context.Context, save *profile.SaveFile, opts editor.Options) (editor.Result, error)
	EditAll(ctx context.Context, saves []*profile.SaveFile, opts editor.Options) (int, error)
	Subscribe(f func(any))
}

// EditTUI runs an [EditCommander] behind a Bubble Tea program.
// Create instances with [NewEditTUI].
type EditTUI struct {
	cmd EditCommander
	p   *tea.Program
	w   io.Writer
}

// NewEditTUI creates an [EditTUI] writing to w. The default [slog] logger is
// replaced so that log records are printed above the TUI.
func NewEditTUI(w io.Writer, logLevel string, cmd EditCommander) (*EditTUI, error) {
	c := &EditTUI{
		cmd: cmd,
		w:   w,
	}

	c.cmd.Subscribe(c.broadcastEvent)

	h, err := log.CreateHandler(c, logLevel, log.FormatText)
	if err != nil {
		return nil, fmt.Errorf("failed to create log handler: %w", err)
	}

	slog.SetDefault(slog.New(h))

	return c, nil
}

func (c *EditTUI) broadcastEvent(evt any) {
	if c.p != nil {
		c.p.Send(evt)
	}
}

// Write implements [io.Writer] by forwarding p to the TUI as a log line.
func (c *EditTUI) Write(p []byte) (int, error) {
	c.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

func (c *EditTUI) Subscribe(f func(any)) {
	c.cmd.Subscribe(f)
}

func (c *EditTUI) EditSave(ctx context.Context, save *profile.SaveFile, opts editor.Options) (editor.Result, error) {
	c.p = tea.NewProgram(NewActionModel("edit", "editing", save.Key()), tea.WithOutput(c.w), tea.WithInput(nil))

	var (
		res    editor.Result
		runErr error
	)

	done := make(chan struct{})

	go func() {
		defer close(done)

		res, runErr = c.cmd.EditSave(ctx, save, opts)
		c.broadcastEvent(editcmd.EventDone{Err: runErr})
	}()

	_, err := c.p.Run()

	<-done

	if err != nil {
		return editor.Result{}, fmt.Errorf("failed to launch tui: %w", err)
	}

	return res, runErr
}

func (c *EditTUI) EditAll(ctx context.Context, saves []*profile.SaveFile, opts editor.Options) (int, error) {
	c.p = tea.NewProgram(NewUpdateModel(), tea.WithOutput(c.w), tea.WithInput(nil))

	var (
		n      int
		runErr error
	)

	done := make(chan struct{})

	go func() {
		defer close(done)

		n, runErr = c.cmd.EditAll(ctx, saves, opts)
		c.broadcastEvent(editcmd.EventDone{Err: runErr})
	}()

	_, err := c.p.Run()

	<-done

	if err != nil {
		return n, fmt.Errorf("failed to launch tui: %w", err)
	}

	return n, runErr
}
