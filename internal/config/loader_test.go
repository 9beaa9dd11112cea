package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faves.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  mode: test
snapshot:
  source: csv
  dir: /var/lib/faves/snapshot
matcher:
  pattern_timeout: 500ms
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "/var/lib/faves/snapshot", cfg.Snapshot.Dir)
	assert.Equal(t, 500*time.Millisecond, cfg.Matcher.PatternTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	// unset fields fall back to defaults
	assert.Equal(t, DefaultMaxCandidateAtoms, cfg.Matcher.MaxCandidateAtoms)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  mode: production
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FAVES_SERVER_PORT", "7070")
	t.Setenv("FAVES_SNAPSHOT_DIR", "/tmp/snap")
	t.Setenv("FAVES_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/snap", cfg.Snapshot.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestWatchDeliversReparsedConfig(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: info\n")

	changed := make(chan *Config, 4)
	Watch(path, func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	// give the viper watcher goroutine a moment to start
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	select {
	case cfg := <-changed:
		assert.Equal(t, "debug", cfg.Log.Level)
		// unset fields still pass through defaults
		assert.Equal(t, DefaultSnapshotSource, cfg.Snapshot.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not fire after config change")
	}
}

func TestWatchSkipsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: info\n")

	changed := make(chan *Config, 4)
	Watch(path, func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: production\n"), 0o600))

	select {
	case cfg := <-changed:
		t.Fatalf("watch delivered a config that fails validation: %+v", cfg)
	case <-time.After(time.Second):
	}
}

func TestMustLoadPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
