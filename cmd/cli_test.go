package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	return executeCLIWithInput(t, home, nil, args...)
}

func executeCLIWithInput(t *testing.T, home string, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	if stdin != nil {
		root.SetIn(bytes.NewReader(stdin))
	}
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTimeCacheFixture(t *testing.T, home string) {
	t.Helper()

	cacheDir := filepath.Join(home, ".gametime")
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))

	cache := `version = 1

[games.witcher-3]
minutes_played = 125.5
last_played = 1787200000

[games.stardew-valley]
minutes_played = 45.0
last_played = 1787100000
`

	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "timecache.toml"), []byte(cache), 0o644))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestStatusListsAllGames(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "games: 2")
	assert.Contains(t, stdout, "witcher-3")
	assert.Contains(t, stdout, "stardew-valley")
}

func TestStatusByGameHappyPath(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	stdout, _, err := executeCLI(t, home, "status", "--game", "witcher-3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "games: 1")
	assert.Contains(t, stdout, "witcher-3")
	assert.Contains(t, stdout, "2h05m")
	assert.NotContains(t, stdout, "stardew-valley")
}

func TestStatusByGameJSONOutput(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	stdout, _, err := executeCLI(t, home, "status", "--game", "witcher-3", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"GameID\": \"witcher-3\"")
	assert.Contains(t, stdout, "\"MinutesPlayed\": 125.5")
}

func TestStatusUnknownGameFails(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	_, _, err := executeCLI(t, home, "status", "--game", "cyberpunk-2077")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no playtime recorded")
}

func TestStatusCorruptCacheStartsEmpty(t *testing.T) {
	home := t.TempDir()
	cacheDir := filepath.Join(home, ".gametime")
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "timecache.toml"), []byte("{not toml"), 0o644))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "games: 0")
}

func TestCachePathPointsIntoHome(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "cache", "path")
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(".gametime", "timecache.toml"))
}

func TestCacheExportRoundTripsFixture(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	stdout, _, err := executeCLI(t, home, "cache", "export")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version = 1")
	assert.Contains(t, stdout, "[games.witcher-3]")
	assert.Contains(t, stdout, "last_played = 1787200000")
}

func TestCacheImportReplacesPersistedCache(t *testing.T) {
	home := t.TempDir()
	writeTimeCacheFixture(t, home)

	blob := []byte("version = 1\n\n[games.alan-wake-2]\nminutes_played = 10.0\nlast_played = 1787300000\n")

	_, _, err := executeCLIWithInput(t, home, blob, "cache", "import")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "games: 1")
	assert.Contains(t, stdout, "alan-wake-2")
	assert.NotContains(t, stdout, "witcher-3")
}

func TestCacheImportRejectsMalformedBlob(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLIWithInput(t, home, []byte("{junk"), "cache", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt time cache")
}

func TestPlayRequiresGameIDAndCommand(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "play", "witcher-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a game id and a command")
}

func TestPlayQuietTracksChildProcess(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "play", "witcher-3", "--quiet", "--", "true")
	require.NoError(t, err)
	assert.Contains(t, stdout, "witcher-3: 0m played in total")

	cache, err := os.ReadFile(filepath.Join(home, ".gametime", "timecache.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cache), "[games.witcher-3]")
}

func TestPlayFailingChildStillPersistsPlaytime(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "play", "witcher-3", "--quiet", "--", "false")
	require.Error(t, err)

	cache, err := os.ReadFile(filepath.Join(home, ".gametime", "timecache.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cache), "[games.witcher-3]")
}
