package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/gametime-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	cachePathKey    = "cache.path"
	cacheFileMode   = 0o600
	cacheDirMode    = 0o700
	cacheConfigDir  = ".gametime"
	cacheFileName   = "timecache.toml"
	tempFilePattern = ".timecache-*.toml.tmp"
)

// Repository stores the tracker's exported cache blob on disk. The blob stays
// opaque here; writes go through a temp file and rename so a crash never
// leaves a torn cache behind.
type Repository struct {
	cachePath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TimeCacheRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, cacheConfigDir, cacheFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, cacheConfigDir))
	cfg.SetDefault(cachePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cachePath := cfg.GetString(cachePathKey)
	if cachePath == "" {
		return nil, errors.New("cache path is empty")
	}
	cachePath, err = normalizeCachePath(cachePath)
	if err != nil {
		return nil, err
	}

	return &Repository{cachePath: cachePath, mu: lockForPath(cachePath)}, nil
}

// Load returns the stored blob, or an empty blob when none exists yet.
func (r *Repository) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.cachePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read time cache file: %w", err)
	}

	return data, nil
}

func (r *Repository) Save(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.cachePath), cacheDirMode); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.cachePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(blob); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}

	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp cache file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tempName, r.cachePath); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.cachePath, cacheFileMode); err != nil {
		return fmt.Errorf("chmod cache file: %w", err)
	}

	return nil
}

// Path exposes the resolved cache location for diagnostics.
func (r *Repository) Path() string {
	return r.cachePath
}

func normalizeCachePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve cache path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
