package application

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/gametime-cli/internal/domain"
)

const currentCacheVersion = 1

// cacheSchema is the on-the-wire shape of the exported time cache. The format
// is deliberately self-describing so the blob is portable across hosts; it
// replaces the hex-encoded object dump the Galaxy plugin used to emit.
type cacheSchema struct {
	Version int                          `toml:"version"`
	Games   map[string]gameRecordSchema `toml:"games,omitempty"`
}

type gameRecordSchema struct {
	MinutesPlayed float64 `toml:"minutes_played"`
	LastPlayed    int64   `toml:"last_played"`
}

func (s *cacheSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentCacheVersion
	}
	if s.Games == nil {
		s.Games = map[string]gameRecordSchema{}
	}
}

func (s cacheSchema) validate() error {
	if s.Version > currentCacheVersion {
		return fmt.Errorf("unsupported time cache version %d (current %d)", s.Version, currentCacheVersion)
	}

	for id, record := range s.Games {
		if record.MinutesPlayed < 0 || record.LastPlayed < 0 {
			return fmt.Errorf("negative playtime fields for game %q", id)
		}
	}

	return nil
}

func encodeTimeCache(cache map[domain.GameID]domain.PlaytimeRecord) ([]byte, error) {
	file := cacheSchema{
		Version: currentCacheVersion,
		Games:   make(map[string]gameRecordSchema, len(cache)),
	}

	for id, record := range cache {
		file.Games[string(id)] = gameRecordSchema{
			MinutesPlayed: record.MinutesPlayed,
			LastPlayed:    record.LastPlayed,
		}
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode time cache: %w", err)
	}

	return data, nil
}

func decodeTimeCache(blob []byte) (map[domain.GameID]domain.PlaytimeRecord, error) {
	var file cacheSchema
	if err := toml.Unmarshal(blob, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptTimeCache, err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptTimeCache, err)
	}
	file.applyDefaults()

	cache := make(map[domain.GameID]domain.PlaytimeRecord, len(file.Games))
	for id, record := range file.Games {
		cache[domain.GameID(id)] = domain.PlaytimeRecord{
			MinutesPlayed: record.MinutesPlayed,
			LastPlayed:    record.LastPlayed,
		}
	}

	return cache, nil
}
