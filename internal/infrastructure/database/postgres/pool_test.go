package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
)

func TestBuildDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "faves",
		Password: "s3cret",
		DBName:   "reference",
		SSLMode:  "require",
	}

	dsn := BuildDSN(cfg)
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "faves:s3cret@db.internal:5433")
	assert.Contains(t, dsn, "/reference")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestBuildDSNWithoutCredentials(t *testing.T) {
	dsn := BuildDSN(config.DatabaseConfig{Host: "localhost", Port: 5432, DBName: "faves"})
	assert.Equal(t, "postgres://localhost:5432/faves", dsn)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("postgres://u:p@h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}
