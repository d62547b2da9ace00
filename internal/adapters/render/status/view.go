package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/gametime-cli/internal/application"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(statuses []application.GameStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Tracked Game Time"),
		s.header.Render(fmt.Sprintf("games: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No playtime recorded yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderGame(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderGame(status application.GameStatus, opts RenderOptions, s styles) string {
	title := string(status.GameID)
	if status.Running {
		title += " " + s.running.Render("● running")
	}

	parts := []string{
		s.game.Render(title),
		s.detail.Render(fmt.Sprintf("played: %s", status.Record.PlayedCompact())),
		s.meta.Render(fmt.Sprintf("last played: %s", lastPlayedLabel(status.Record.LastPlayed, opts.Now))),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func lastPlayedLabel(lastPlayed int64, now time.Time) string {
	if lastPlayed == 0 {
		return "never"
	}

	at := time.Unix(lastPlayed, 0)
	if now.IsZero() {
		return at.UTC().Format("2006-01-02 15:04")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return at.UTC().Format("2006-01-02 15:04")
	}
}
