package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }},
		{"bad snapshot source", func(c *Config) { c.Snapshot.Source = "ftp" }},
		{"csv source without dir", func(c *Config) { c.Snapshot.Dir = "" }},
		{"postgres source disabled db", func(c *Config) { c.Snapshot.Source = "postgres" }},
		{"minio source without bucket", func(c *Config) { c.Snapshot.Source = "minio" }},
		{"zero pattern timeout", func(c *Config) { c.Matcher.PatternTimeout = 0 }},
		{"zero candidate cap", func(c *Config) { c.Matcher.MaxCandidateAtoms = 0 }},
		{"enabled db without host", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Host = ""
		}},
		{"enabled redis without addr", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Addr = ""
		}},
		{"enabled kafka without topic", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Topic = ""
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "text" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateEnabledSections(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Enabled = true
	cfg.Database.User = "faves"
	cfg.Redis.Enabled = true
	cfg.Kafka.Enabled = true
	require.NoError(t, cfg.Validate())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultSnapshotSource, cfg.Snapshot.Source)
	assert.Equal(t, DefaultPatternTimeout, cfg.Matcher.PatternTimeout)
	assert.Equal(t, DefaultMaxCandidateAtoms, cfg.Matcher.MaxCandidateAtoms)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)

	// explicit values win
	cfg = &Config{}
	cfg.Server.Port = 9999
	cfg.Matcher.PatternTimeout = time.Second
	ApplyDefaults(cfg)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Matcher.PatternTimeout)

	// nil is a no-op
	ApplyDefaults(nil)
}
