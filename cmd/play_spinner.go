package cmd

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/gametime-cli/internal/domain"
)

type childDoneMsg struct {
	err error
}

type playtimeMsg struct {
	snapshot domain.GameTime
}

type playSpinnerModel struct {
	spinner  spinner.Model
	gameID   domain.GameID
	interval time.Duration
	observe  observeFunc
	wait     tea.Cmd
	played   string
	err      error
	done     bool
}

func newPlaySpinnerModel(gameID domain.GameID, interval time.Duration, observe observeFunc, wait tea.Cmd) playSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return playSpinnerModel{
		spinner:  s,
		gameID:   gameID,
		interval: interval,
		observe:  observe,
		wait:     wait,
	}
}

func (m playSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait, m.observeTick())
}

func (m playSpinnerModel) observeTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		snapshot, err := m.observe()
		if err != nil {
			return playtimeMsg{}
		}
		return playtimeMsg{snapshot: snapshot}
	})
}

func (m playSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case playtimeMsg:
		if msg.snapshot.GameID != "" {
			m.played = msg.snapshot.PlayedCompact()
		}
		return m, m.observeTick()
	case childDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m playSpinnerModel) View() string {
	if m.done {
		return ""
	}

	label := fmt.Sprintf("Tracking %s...", m.gameID)
	if m.played != "" {
		label = fmt.Sprintf("Tracking %s (%s played)", m.gameID, m.played)
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), label)
}

// runTrackedChildSpinner runs the child process behind a live spinner that
// shows the accumulating playtime.
func runTrackedChildSpinner(ctx context.Context, output io.Writer, child *exec.Cmd, gameID domain.GameID, interval time.Duration, observe observeFunc) error {
	waitCmd := func() tea.Msg {
		return childDoneMsg{err: child.Run()}
	}

	p := tea.NewProgram(
		newPlaySpinnerModel(gameID, interval, observe, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(playSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
