package compliance

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Classifier runs the three-tier pipeline. The exact-match index can be
// swapped at runtime when a new snapshot loads; in-flight classifications
// keep the index they started with.
type Classifier struct {
	index   atomic.Pointer[Index]
	matcher *pattern.Matcher
	logger  logging.Logger
}

// NewClassifier builds a Classifier over idx and matcher.
func NewClassifier(idx *Index, matcher *pattern.Matcher, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Classifier{matcher: matcher, logger: logger}
	c.index.Store(idx)
	return c
}

// SwapIndex atomically replaces the exact-match index.
func (c *Classifier) SwapIndex(idx *Index) {
	c.index.Store(idx)
}

// Index returns the currently active index.
func (c *Classifier) Index() *Index {
	return c.index.Load()
}

// Classify normalizes input and runs it through the tiers.
//
// Tier 1 checks the whitelist; a hit is authoritative and short-circuits
// the remaining tiers. Tier 2 checks the controlled list. Tier 3 scans the
// scaffold library and runs for every non-whitelisted candidate, including
// controlled ones. An ambiguous exact-match hit (canonical collision with
// differing fingerprints) is scored as a non-match with a warning.
func (c *Classifier) Classify(ctx context.Context, input string) (*Result, error) {
	idx := c.index.Load()
	if idx == nil {
		return nil, apperrors.New(apperrors.ErrCodeIndexNotLoaded,
			"classification requested before a snapshot was loaded")
	}
	start := time.Now()

	mol, err := chem.ParseSMILES(input)
	if err != nil {
		return nil, err
	}
	canonical := chem.CanonicalSMILES(mol)
	fp := chem.CircularFingerprint(mol)

	res := &Result{
		Input:           input,
		Canonical:       canonical,
		SnapshotVersion: idx.Version(),
	}

	// Tier 1: whitelist.
	wl, err := idx.LookupWhitelist(canonical, fp)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeIndexHashAmbiguous) {
			return nil, err
		}
		res.Warnings = append(res.Warnings, err.Error())
		c.logger.Warn("ambiguous whitelist hit treated as non-match",
			logging.String("canonical", canonical), logging.Err(err))
	}
	if wl != nil {
		res.IsWhitelisted = true
		res.MatchedName = wl.Name
		res.finalize()
		res.Elapsed = time.Since(start)
		return res, nil
	}

	// Tier 2: controlled exact match.
	ctl, err := idx.LookupControlled(canonical, fp)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeIndexHashAmbiguous) {
			return nil, err
		}
		res.Warnings = append(res.Warnings, err.Error())
		c.logger.Warn("ambiguous controlled hit treated as non-match",
			logging.String("canonical", canonical), logging.Err(err))
	}
	if ctl != nil {
		res.IsDEAControlled = ctl.Schedule != ""
		res.Schedule = ctl.Schedule
		res.IsFDABanned = ctl.FDABanned
		res.IsCWCScheduled = ctl.CWCScheduled
		res.MatchedName = ctl.Name
	}

	// Tier 3: scaffold scan.
	scan, err := c.matcher.Scan(ctx, mol)
	if err != nil {
		return nil, err
	}
	res.IsScaffoldMatch = scan.Matched()
	res.ScaffoldHits = scan.Hits
	res.Degraded = scan.Degraded
	if scan.Degraded {
		res.Warnings = append(res.Warnings,
			"scaffold scan degraded: "+strings.Join(scan.TimedOut, ", ")+" timed out")
		c.logger.Warn("scaffold scan degraded",
			logging.String("canonical", canonical),
			logging.Strings("timed_out", scan.TimedOut))
	}

	res.finalize()
	res.Elapsed = time.Since(start)
	return res, nil
}
