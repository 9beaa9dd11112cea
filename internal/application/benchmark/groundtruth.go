// Package benchmark evaluates classification accuracy against a labelled
// ground-truth compound set and renders the results as a markdown report.
package benchmark

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Ground-truth category labels.
const (
	CategoryControlled      = "controlled"
	CategoryFDAApproved     = "fda_approved"
	CategoryNegativeControl = "negative_control"
)

// GroundTruthRow is one labelled compound.
type GroundTruthRow struct {
	Name               string
	SMILES             string
	Category           string
	Schedule           string
	ExpectedControlled bool
}

// LoadGroundTruth reads a labelled compound CSV. Required columns are name,
// smiles, category and expected_controlled; schedule is optional.
func LoadGroundTruth(ctx context.Context, path string) ([]GroundTruthRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeBenchGroundTruth,
			"open ground truth %s", path)
	}
	defer f.Close()
	return readGroundTruth(ctx, f)
}

func readGroundTruth(ctx context.Context, r io.Reader) ([]GroundTruthRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBenchGroundTruth,
			"ground truth header missing")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "smiles", "category", "expected_controlled"} {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.Newf(apperrors.ErrCodeBenchGroundTruth,
				"ground truth is missing the %q column", required)
		}
	}

	cell := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var rows []GroundTruthRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeBenchGroundTruth,
				"ground truth read cancelled")
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeBenchGroundTruth, "line %d", line)
		}

		smiles := cell(rec, "smiles")
		if smiles == "" {
			continue
		}
		expected, err := strconv.ParseBool(cell(rec, "expected_controlled"))
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeBenchGroundTruth,
				"line %d: expected_controlled", line)
		}
		rows = append(rows, GroundTruthRow{
			Name:               cell(rec, "name"),
			SMILES:             smiles,
			Category:           cell(rec, "category"),
			Schedule:           cell(rec, "schedule"),
			ExpectedControlled: expected,
		})
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeBenchGroundTruth,
			"ground truth contains no usable rows")
	}
	return rows, nil
}
