// Package snapshot loads reference datasets (whitelist, controlled list,
// optional scaffold pattern overrides) from CSV directories, PostgreSQL,
// or S3-compatible object storage.
package snapshot

import (
	"context"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
)

// Source produces a reference snapshot. Implementations must be safe for
// repeated Load calls; reload flows call Load again and swap the resulting
// index in.
type Source interface {
	// Load fetches and parses the full snapshot.
	Load(ctx context.Context) (*compliance.Snapshot, error)
	// Name identifies the source kind for logs.
	Name() string
}
