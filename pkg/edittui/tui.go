package edittui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	saveNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	doneStyle     = lipgloss.NewStyle().Margin(1, 2)
	errStyle      = lipgloss.NewStyle().Margin(1, 2)
	progressStyle = lipgloss.NewStyle().Margin(1, 2)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	checkMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).SetString("✓")
	errorMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).SetString("✗")
)

// preQuitDelay is the time to wait after work completes before quitting,
// allowing previously sent messages to be rendered.
const preQuitDelay = 100 * time.Millisecond

type (
	// Sent to write a log message.
	teaMsgWriteLog string
)

func teaQuit() tea.Cmd {
	return tea.Sequence(
		tea.Tick(time.Millisecond*300, func(_ time.Time) tea.Msg {
			return nil
		}),
		tea.Quit,
	)
}

func keyExits(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return true
	}

	return false
}

func writeLog(msg teaMsgWriteLog, width int) tea.Cmd {
	logMsg := string(msg)
	logMsg = strings.Trim(logMsg, "\r\n")
	logMsg = lipgloss.NewStyle().Width(max(0, width-2)).Render(logMsg)

	return tea.Println(logMsg)
}

func getErrorMessage(err error, width int, total int) string {
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) <= 1 {
		errMsg := fmt.Sprintf("%v", err)
		errMsg = strings.Trim(errMsg, "\r\n")

		return errStyle.Width(max(0, width-2)).Render(errMsg + "\n")
	}

	lines := make([]string, 0, len(merr.Errors)+1)
	for _, e := range merr.Errors {
		line := fmt.Sprintf("%s %s", errorMark, e)
		lines = append(lines, lipgloss.NewStyle().MaxWidth(max(0, width-2)).Render(line))
	}

	lines = append(lines, fmt.Sprintf("%d of %d saves failed", len(merr.Errors), max(total, len(merr.Errors))))

	return errStyle.Render(strings.Join(lines, "\n") + "\n")
}
