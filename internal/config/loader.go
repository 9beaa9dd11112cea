package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "FAVES"

// newViper builds a pre-configured Viper instance with the engine's
// standard settings: YAML file type, FAVES_ env prefix, automatic env
// binding, and a key replacer that maps "." to "_" so that nested keys
// like "snapshot.dir" resolve to "FAVES_SNAPSHOT_DIR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees keys viper knows about, so every env-overridable
	// key is bound explicitly.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// envKeys lists every configuration key that may be set through the
// environment.
var envKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout",
	"snapshot.source", "snapshot.dir", "snapshot.version", "snapshot.watch",
	"matcher.pattern_timeout", "matcher.max_candidate_atoms", "matcher.pattern_file",
	"database.enabled", "database.host", "database.port", "database.user",
	"database.password", "database.db_name", "database.ssl_mode",
	"database.max_conns", "database.min_conns", "database.conn_max_lifetime",
	"database.migration_path",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"redis.default_ttl", "redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.producer_retries",
	"kafka.batch_size", "kafka.async",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.use_ssl", "minio.prefix",
	"metrics.enabled", "metrics.path",
	"log.level", "log.format", "log.enable_caller", "log.enable_stacktrace",
}

// Load reads the YAML file at configPath, merges any FAVES_* environment
// variable overrides, applies engine defaults for unset fields, and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from FAVES_* environment variables,
// with no config file required. This is the preferred loading strategy for
// containerised deployments.
//
// Environment variable naming convention:
//
//	FAVES_<SECTION>_<FIELD>   e.g.  FAVES_SERVER_PORT, FAVES_SNAPSHOT_DIR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct,
// applies defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk. It is intended for
// hot-reloading non-critical settings such as the log level; callers are
// responsible for applying only the safe subset of changes at runtime.
// A change that fails to parse or validate is skipped.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error. It is intended for use in
// main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
