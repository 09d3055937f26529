package edittui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/etsvibes/ets-vibes/pkg/editcmd"
)

// UpdateModel displays the progress of editing one or more saves, including
// per-save spinners, a progress bar, and a final summary.
// Create instances with [NewUpdateModel].
type UpdateModel struct {
	err          error
	startedSaves []string
	editedSaves  []string
	failedSaves  map[string]bool
	spinner      spinner.Model
	progress     progress.Model
	totalSaves   int
	width        int
	height       int
	mu           sync.RWMutex
	done         bool
}

func NewUpdateModel() *UpdateModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Style = spinnerStyle

	return &UpdateModel{
		startedSaves: []string{},
		editedSaves:  []string{},
		failedSaves:  map[string]bool{},
		spinner:      s,
		progress:     p,
	}
}

func (m *UpdateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.setPercent(0))
}

//nolint:ireturn // Third-party.
func (m *UpdateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case editcmd.EventSetSaveTotal:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.totalSaves = int(msg)

	case editcmd.EventEditingSave:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.startedSaves = append(m.startedSaves, string(msg))

	case editcmd.EventEditedSave:
		m.mu.Lock()
		defer m.mu.Unlock()

		icon := checkMark
		if msg.Err != nil {
			m.failedSaves[msg.Save] = true
			icon = errorMark
		}

		m.editedSaves = append(m.editedSaves, msg.Save)

		return m, tea.Batch(
			m.setPercent(m.percent()),
			tea.Printf("%s %s", icon, msg.Save),
		)

	case editcmd.EventDone:
		preQuitCmd := tea.Tick(preQuitDelay, func(_ time.Time) tea.Msg {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.err = msg.Err
			m.done = true

			return nil
		})

		return m, tea.Sequence(preQuitCmd, teaQuit())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}

		return m, cmd
	}

	return m, nil
}

func (m *UpdateModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width, m.totalSaves)
	}

	succeeded := len(m.editedSaves) - len(m.failedSaves)

	if m.done {
		return doneStyle.Render(fmt.Sprintf("Done! Updated %d saves.\n", succeeded))
	}

	w := lipgloss.Width(strconv.Itoa(m.totalSaves))
	saveCount := fmt.Sprintf(" %*d/%*d", w, len(m.editedSaves), w, m.totalSaves)

	progRendered := progressStyle.Render(m.progress.View() + saveCount)
	progCellsRemaining := max(0, m.width-lipgloss.Width(progRendered))
	progOut := progRendered + strings.Repeat(" ", progCellsRemaining) + "\n"

	spinners := []string{}

	for _, save := range differenceStringSlices(m.startedSaves, m.editedSaves) {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render("Editing " + saveNameStyle.Render(save))

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		spinners = append(spinners, spin+info+strings.Repeat(" ", cellsRemaining))
	}

	return strings.Join(spinners, "\n") + "\n" + progOut
}

// setPercent animates the bar towards v. The returned command's frame
// closure captures a copy of the bar, never the stored field.
func (m *UpdateModel) setPercent(v float64) tea.Cmd {
	p := m.progress
	cmd := p.SetPercent(v)
	m.progress = p

	return cmd
}

func (m *UpdateModel) percent() float64 {
	if m.totalSaves == 0 {
		return 1
	}

	return float64(len(m.editedSaves)) / float64(m.totalSaves)
}

func differenceStringSlices(a, b []string) []string {
	difference := []string{}

	for _, x := range a {
		if !slices.Contains(b, x) {
			difference = append(difference, x)
		}
	}

	return difference
}
