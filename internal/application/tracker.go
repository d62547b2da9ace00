package application

import (
	"sort"
	"sync"
	"time"

	"github.com/bnema/gametime-cli/internal/domain"
	"github.com/bnema/gametime-cli/internal/ports"
)

// Tracker accumulates played minutes for concurrently running games. It keeps
// two maps: the sessions map holds games that are currently open, the cache map
// holds the durable per-game totals that survive restarts via the cache blob.
// One lock covers every public operation; they are all O(1) map work.
type Tracker struct {
	mu       sync.Mutex
	sessions map[domain.GameID]domain.Session
	cache    map[domain.GameID]domain.PlaytimeRecord
	clock    ports.Clock
}

// NewTracker builds a tracker, optionally seeded from a previously exported
// cache blob. A corrupt blob never aborts construction: the tracker starts
// with an empty cache and the returned error (wrapping
// domain.ErrCorruptTimeCache) is left for the caller to log.
func NewTracker(blob []byte, clock ports.Clock) (*Tracker, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	t := &Tracker{
		sessions: map[domain.GameID]domain.Session{},
		cache:    map[domain.GameID]domain.PlaytimeRecord{},
		clock:    clock,
	}

	if len(blob) == 0 {
		return t, nil
	}

	if err := t.RestoreCache(blob); err != nil {
		return t, err
	}

	return t, nil
}

// StartTracking opens a session for a game. A first sighting lazily creates
// its cache record with zero minutes and LastPlayed set to the session start.
// Starting an already tracked game only resets the session start time.
func (t *Tracker) StartTracking(id domain.GameID, start time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if start.IsZero() {
		start = t.clock.Now()
	}

	if _, ok := t.cache[id]; !ok {
		t.cache[id] = domain.PlaytimeRecord{LastPlayed: start.Unix()}
	}

	t.sessions[id] = domain.Session{GameID: id, StartedAt: start}
}

// StopTracking closes a game's session. The cache record is untouched, so a
// later StartTracking resumes accumulation where the last query left it.
func (t *Tracker) StopTracking(id domain.GameID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[id]; !ok {
		return domain.ErrGameNotTracked
	}

	delete(t.sessions, id)
	return nil
}

// TrackedTime folds the time elapsed since the last observation into the
// game's total and returns the updated snapshot. Only meaningful while a
// session is open. A clock that moved backwards contributes zero minutes
// rather than ever shrinking the total.
func (t *Tracker) TrackedTime(id domain.GameID) (domain.GameTime, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[id]; !ok {
		return domain.GameTime{}, domain.ErrGameNotTracked
	}

	record := t.cache[id]
	now := t.clock.Now()

	// Delta and stored timestamp share the same whole-second basis; mixing
	// fractional now with the truncated LastPlayed would re-count each
	// observation's sub-second remainder on the next query.
	delta := float64(now.Unix() - record.LastPlayed)
	if delta < 0 {
		delta = 0
	}

	record.MinutesPlayed += delta / 60
	if now.Unix() > record.LastPlayed {
		record.LastPlayed = now.Unix()
	}
	t.cache[id] = record

	return domain.GameTime{
		GameID:         id,
		MinutesPlayed:  int64(record.MinutesPlayed),
		LastPlayedTime: record.LastPlayed,
	}, nil
}

// IsTracking reports whether the game currently has an open session.
func (t *Tracker) IsTracking(id domain.GameID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.sessions[id]
	return ok
}

// TimeCache returns a copy of the accumulated records.
func (t *Tracker) TimeCache() map[domain.GameID]domain.PlaytimeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	cache := make(map[domain.GameID]domain.PlaytimeRecord, len(t.cache))
	for id, record := range t.cache {
		cache[id] = record
	}

	return cache
}

// CacheBlob exports the accumulated records as an opaque blob suitable for
// a later NewTracker or RestoreCache.
func (t *Tracker) CacheBlob() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return encodeTimeCache(t.cache)
}

// RestoreCache replaces the accumulated records with the decoded contents of
// blob. On failure the cache is reset to empty, never left partially loaded.
func (t *Tracker) RestoreCache(blob []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cache, err := decodeTimeCache(blob)
	if err != nil {
		t.cache = map[domain.GameID]domain.PlaytimeRecord{}
		return err
	}

	t.cache = cache
	return nil
}

// GameStatus pairs a cache record with its live session state for rendering.
type GameStatus struct {
	GameID  domain.GameID
	Record  domain.PlaytimeRecord
	Running bool
}

// Statuses returns one entry per known game, sorted by id for stable output.
func (t *Tracker) Statuses() []GameStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	statuses := make([]GameStatus, 0, len(t.cache))
	for id, record := range t.cache {
		_, running := t.sessions[id]
		statuses = append(statuses, GameStatus{GameID: id, Record: record, Running: running})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].GameID < statuses[j].GameID
	})

	return statuses
}
