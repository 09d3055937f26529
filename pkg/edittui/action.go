package edittui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/etsvibes/ets-vibes/pkg/editcmd"
)

// ActionModel displays the status of a single action with a spinner that is
// replaced with a result. Create instances with [NewActionModel].
type ActionModel struct {
	err     error
	noun    string
	verb    string
	target  string
	spinner spinner.Model
	width   int
	height  int
	mu      sync.RWMutex
	working bool
	done    bool
}

// NewActionModel creates an [ActionModel].
// `noun`: the outcome of the action (e.g., "edit").
// `verb`: the ongoing action in present participle tense (e.g., "editing").
// `target`: what the action applies to (e.g., a save key).
func NewActionModel(noun, verb, target string) *ActionModel {
	caser := cases.Title(language.English)

	s := spinner.New()
	s.Style = spinnerStyle

	return &ActionModel{
		noun:    caser.String(noun),
		verb:    caser.String(verb),
		target:  target,
		spinner: s,
	}
}

func (m *ActionModel) Init() tea.Cmd {
	m.working = true

	return m.spinner.Tick
}

//nolint:ireturn // Third-party.
func (m *ActionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case editcmd.EventDone:
		// Allow previously sent messages to be drawn.
		preQuitCmd := tea.Tick(preQuitDelay, func(_ time.Time) tea.Msg {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.working = false
			m.err = msg.Err
			m.done = true

			return nil
		})

		return m, tea.Sequence(preQuitCmd, teaQuit())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *ActionModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width, 1)
	}

	if m.done {
		return doneStyle.Render(m.noun + " complete.\n")
	}

	if m.working {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render(m.verb + " " + saveNameStyle.Render(m.target))

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining) + "\n"

		return spin + info + gap
	}

	return ""
}
