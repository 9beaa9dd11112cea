package snapshot

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// File names expected inside a CSV snapshot directory.
const (
	WhitelistFile  = "whitelist.csv"
	ControlledFile = "controlled.csv"
	PatternsFile   = "patterns.csv"
)

// CSVSource loads a snapshot from a directory of CSV files. The directory
// must contain whitelist.csv (name,smiles) and controlled.csv
// (name,smiles,schedule,fda_banned,cwc_scheduled); both files carry a
// header row.
type CSVSource struct {
	dir     string
	version string
}

// NewCSVSource builds a CSVSource over dir. version labels the snapshot;
// when empty, the directory's modification time is used.
func NewCSVSource(dir, version string) *CSVSource {
	return &CSVSource{dir: dir, version: version}
}

func (s *CSVSource) Name() string { return "csv" }

// Load reads and parses both snapshot files.
func (s *CSVSource) Load(ctx context.Context) (*compliance.Snapshot, error) {
	version := s.version
	if version == "" {
		if fi, err := os.Stat(s.dir); err == nil {
			version = fi.ModTime().UTC().Format("20060102T150405Z")
		}
	}
	snap := &compliance.Snapshot{Version: version}

	wl, err := s.loadFile(ctx, WhitelistFile, parseWhitelistRow)
	if err != nil {
		return nil, err
	}
	snap.Whitelist = wl

	ctl, err := s.loadFile(ctx, ControlledFile, parseControlledRow)
	if err != nil {
		return nil, err
	}
	snap.Controlled = ctl

	return snap, nil
}

type rowParser func(header map[string]int, row []string) (compliance.RecordInput, error)

func (s *CSVSource) loadFile(ctx context.Context, name string, parse rowParser) ([]compliance.RecordInput, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"open snapshot file "+path)
	}
	defer f.Close()
	recs, err := readRecords(ctx, f, parse)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "parse "+name)
	}
	return recs, nil
}

func readRecords(ctx context.Context, r io.Reader, parse rowParser) ([]compliance.RecordInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	headerRow, err := cr.Read()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "read header")
	}
	header := make(map[string]int, len(headerRow))
	for i, col := range headerRow {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := header["smiles"]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeIndexLoadFailed,
			"snapshot file has no smiles column")
	}

	var out []compliance.RecordInput
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeIndexLoadFailed, "line %d", line)
		}
		rec, err := parse(header, row)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeIndexRecordInvalid, "line %d", line)
		}
		out = append(out, rec)
	}
	return out, nil
}

func cell(header map[string]int, row []string, col string) string {
	i, ok := header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseWhitelistRow(header map[string]int, row []string) (compliance.RecordInput, error) {
	rec := compliance.RecordInput{
		Name:           cell(header, row, "name"),
		SMILES:         cell(header, row, "smiles"),
		Canonical:      cell(header, row, "canonical"),
		FingerprintHex: cell(header, row, "fingerprint"),
	}
	if rec.SMILES == "" && rec.Canonical == "" {
		return rec, apperrors.New(apperrors.ErrCodeIndexRecordInvalid, "empty smiles")
	}
	return rec, nil
}

func parseControlledRow(header map[string]int, row []string) (compliance.RecordInput, error) {
	rec, err := parseWhitelistRow(header, row)
	if err != nil {
		return rec, err
	}
	rec.Schedule = strings.ToUpper(cell(header, row, "schedule"))
	switch rec.Schedule {
	case "", compliance.ScheduleI, compliance.ScheduleII, compliance.ScheduleIII,
		compliance.ScheduleIV, compliance.ScheduleV:
	default:
		return rec, apperrors.Newf(apperrors.ErrCodeIndexRecordInvalid,
			"unknown schedule %q", rec.Schedule)
	}
	if rec.FDABanned, err = parseBool(cell(header, row, "fda_banned")); err != nil {
		return rec, err
	}
	if rec.CWCScheduled, err = parseBool(cell(header, row, "cwc_scheduled")); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperrors.Newf(apperrors.ErrCodeIndexRecordInvalid,
			"invalid boolean %q", s)
	}
	return b, nil
}

// LoadPatternDefinitions reads a scaffold pattern override file
// (id,name,class,query) with a header row.
func LoadPatternDefinitions(path string) ([]pattern.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"open pattern file "+path)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	headerRow, err := cr.Read()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodePatternCompileFailed, "read header")
	}
	header := make(map[string]int, len(headerRow))
	for i, col := range headerRow {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var defs []pattern.Definition
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodePatternCompileFailed, "read row")
		}
		defs = append(defs, pattern.Definition{
			ID:    cell(header, row, "id"),
			Name:  cell(header, row, "name"),
			Class: pattern.Class(cell(header, row, "class")),
			Query: cell(header, row, "query"),
		})
	}
	return defs, nil
}
