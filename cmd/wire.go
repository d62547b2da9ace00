package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	filecache "github.com/bnema/gametime-cli/internal/adapters/cache/file"
	statusadapter "github.com/bnema/gametime-cli/internal/adapters/render/status"
	"github.com/bnema/gametime-cli/internal/application"
	"github.com/bnema/gametime-cli/internal/config"
	"github.com/bnema/gametime-cli/internal/domain"
	"github.com/bnema/gametime-cli/internal/ports"
)

const (
	optionPollInterval = "poll_interval_seconds"
	optionAutosave     = "autosave"
)

type app struct {
	repo           *filecache.Repository
	clock          ports.Clock
	statusRenderer func([]application.GameStatus, statusadapter.RenderOptions) (string, error)
	options        config.Options
	logger         zerolog.Logger
	now            func() time.Time
}

func wireApp() (*app, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	repo, err := filecache.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire time cache repository: %w", err)
	}

	options, err := loadOptions(logger)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	return &app{
		repo:           repo,
		clock:          ports.SystemClock{},
		statusRenderer: statusadapter.Render,
		options:        options,
		logger:         logger,
		now:            time.Now,
	}, nil
}

func optionSchema() []config.Option {
	return []config.Option{
		{Name: optionPollInterval, DefaultValue: 60, AllowedValues: []any{15, 30, 60, 120, 300}},
		{Name: optionAutosave, DefaultValue: true, AllowedValues: []any{true, false}},
	}
}

func loadOptions(logger zerolog.Logger) (config.Options, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".gametime")
	configPath := filepath.Join(dir, "config.cfg")
	defaultPath := filepath.Join(dir, "default_config.cfg")

	if !fileExists(configPath) && !fileExists(defaultPath) {
		return config.Defaults(optionSchema())
	}

	return config.NewLoader(configPath, defaultPath, logger).Load(optionSchema())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadTracker builds a tracker from the persisted cache blob. A corrupt blob
// is logged and the tracker starts with an empty cache.
func (a *app) loadTracker(ctx context.Context) (*application.Tracker, error) {
	blob, err := a.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load time cache: %w", err)
	}

	tracker, err := application.NewTracker(blob, a.clock)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptTimeCache) {
			return nil, err
		}
		a.logger.Warn().Err(err).Msg("time cache is corrupt, starting with an empty cache")
	}

	return tracker, nil
}

func (a *app) saveTracker(ctx context.Context, tracker *application.Tracker) error {
	blob, err := tracker.CacheBlob()
	if err != nil {
		return fmt.Errorf("export time cache: %w", err)
	}

	if err := a.repo.Save(ctx, blob); err != nil {
		return fmt.Errorf("save time cache: %w", err)
	}

	return nil
}

func (a *app) pollInterval() time.Duration {
	seconds := a.options.Int(optionPollInterval)
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}
