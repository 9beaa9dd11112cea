package snapshot

import (
	"context"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// MinIOSource loads the snapshot CSV files from an S3-compatible bucket.
// Object keys are <prefix>/whitelist.csv and <prefix>/controlled.csv.
type MinIOSource struct {
	client  *minio.Client
	bucket  string
	prefix  string
	version string
}

// NewMinIOSource connects to the object store described by cfg.
func NewMinIOSource(cfg config.MinIOConfig, version string) (*MinIOSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService,
			"create object storage client")
	}
	return &MinIOSource{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		version: version,
	}, nil
}

func (s *MinIOSource) Name() string { return "minio" }

// Load fetches and parses both snapshot objects. When no explicit version
// is configured, the whitelist object's ETag labels the snapshot.
func (s *MinIOSource) Load(ctx context.Context) (*compliance.Snapshot, error) {
	snap := &compliance.Snapshot{Version: s.version}

	wl, etag, err := s.loadObject(ctx, WhitelistFile, parseWhitelistRow)
	if err != nil {
		return nil, err
	}
	snap.Whitelist = wl
	if snap.Version == "" {
		snap.Version = etag
	}

	ctl, _, err := s.loadObject(ctx, ControlledFile, parseControlledRow)
	if err != nil {
		return nil, err
	}
	snap.Controlled = ctl
	return snap, nil
}

func (s *MinIOSource) loadObject(ctx context.Context, name string, parse rowParser) ([]compliance.RecordInput, string, error) {
	key := path.Join(s.prefix, name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"fetch snapshot object "+key)
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"stat snapshot object "+key)
	}

	recs, err := readRecords(ctx, obj, parse)
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "parse "+key)
	}
	return recs, stat.ETag, nil
}
