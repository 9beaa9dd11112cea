package snapshot

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// PostgresSource loads a snapshot from the reference tables created by the
// schema migrations.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource builds a source over an existing pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Name() string { return "postgres" }

// Load reads the snapshot version and both reference lists.
func (s *PostgresSource) Load(ctx context.Context) (*compliance.Snapshot, error) {
	snap := &compliance.Snapshot{}

	// The single-row metadata table carries the active snapshot version.
	err := s.pool.QueryRow(ctx,
		`SELECT version FROM snapshot_meta ORDER BY loaded_at DESC LIMIT 1`,
	).Scan(&snap.Version)
	if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"read snapshot version")
	}

	snap.Whitelist, err = s.queryList(ctx,
		`SELECT name, smiles, COALESCE(canonical, ''), COALESCE(fingerprint, '')
		 FROM whitelist_substances`, false)
	if err != nil {
		return nil, err
	}

	snap.Controlled, err = s.queryList(ctx,
		`SELECT name, smiles, COALESCE(canonical, ''), COALESCE(fingerprint, ''),
		        COALESCE(schedule, ''), fda_banned, cwc_scheduled
		 FROM controlled_substances`, true)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresSource) queryList(ctx context.Context, sql string, controlled bool) ([]compliance.RecordInput, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"query reference list")
	}
	defer rows.Close()

	var out []compliance.RecordInput
	for rows.Next() {
		var rec compliance.RecordInput
		if controlled {
			err = rows.Scan(&rec.Name, &rec.SMILES, &rec.Canonical, &rec.FingerprintHex,
				&rec.Schedule, &rec.FDABanned, &rec.CWCScheduled)
		} else {
			err = rows.Scan(&rec.Name, &rec.SMILES, &rec.Canonical, &rec.FingerprintHex)
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "scan reference row")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable, "iterate reference rows")
	}
	return out, nil
}
