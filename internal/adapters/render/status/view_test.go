package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/gametime-cli/internal/application"
	"github.com/bnema/gametime-cli/internal/domain"
)

func TestRenderEmpty(t *testing.T) {
	out, err := Render(nil, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "games: 0")
	assert.Contains(t, out, "No playtime recorded yet.")
}

func TestRenderGameDetails(t *testing.T) {
	now := time.Date(2026, 8, 25, 21, 0, 0, 0, time.UTC)
	statuses := []application.GameStatus{
		{
			GameID:  "witcher-3",
			Record:  domain.PlaytimeRecord{MinutesPlayed: 125, LastPlayed: now.Add(-30 * time.Minute).Unix()},
			Running: true,
		},
		{
			GameID: "stardew-valley",
			Record: domain.PlaytimeRecord{MinutesPlayed: 45, LastPlayed: now.Add(-72 * time.Hour).Unix()},
		},
	}

	out, err := Render(statuses, RenderOptions{Now: now})
	require.NoError(t, err)
	assert.Contains(t, out, "games: 2")
	assert.Contains(t, out, "witcher-3")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "played: 2h05m")
	assert.Contains(t, out, "30m ago")
	assert.Contains(t, out, "played: 45m")
	assert.Contains(t, out, "2026-08-22")
}

func TestLastPlayedLabel(t *testing.T) {
	now := time.Date(2026, 8, 25, 21, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "just now", at: now.Add(-20 * time.Second), want: "just now"},
		{name: "minutes", at: now.Add(-5 * time.Minute), want: "5m ago"},
		{name: "hours", at: now.Add(-26 * time.Hour), want: "26h ago"},
		{name: "date", at: now.Add(-30 * 24 * time.Hour), want: "2026-07-26 21:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastPlayedLabel(tt.at.Unix(), now))
		})
	}
}

func TestLastPlayedLabelNever(t *testing.T) {
	assert.Equal(t, "never", lastPlayedLabel(0, time.Now()))
}
