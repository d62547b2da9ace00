package domain

import (
	"fmt"
	"time"
)

type GameID string

// PlaytimeRecord is the durable per-game total. MinutesPlayed only ever grows
// and LastPlayed (unix seconds) only ever advances within a process lifetime.
type PlaytimeRecord struct {
	MinutesPlayed float64
	LastPlayed    int64
}

// GameTime is the integer snapshot handed back to callers after a query.
type GameTime struct {
	GameID         GameID
	MinutesPlayed  int64
	LastPlayedTime int64
}

type Session struct {
	GameID    GameID
	StartedAt time.Time
}

func (g GameTime) PlayedDuration() time.Duration {
	return time.Duration(g.MinutesPlayed) * time.Minute
}

// PlayedCompact renders a played total as "45m", "2h05m" or "31h".
func (g GameTime) PlayedCompact() string {
	return compactMinutes(g.MinutesPlayed)
}

func (r PlaytimeRecord) PlayedCompact() string {
	return compactMinutes(int64(r.MinutesPlayed))
}

func compactMinutes(v int64) string {
	if v < 60 {
		return fmt.Sprintf("%dm", v)
	}

	if v < 600 {
		return fmt.Sprintf("%dh%02dm", v/60, v%60)
	}

	return fmt.Sprintf("%dh", v/60)
}
