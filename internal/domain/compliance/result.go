package compliance

import (
	"time"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
)

// Status is the overall disposition of a classified structure.
type Status string

const (
	// StatusCleared means the structure is whitelisted; the whitelist is
	// authoritative and overrides every other tier.
	StatusCleared Status = "cleared"
	// StatusControlled means an exact match against the controlled list.
	StatusControlled Status = "controlled"
	// StatusReview means no exact match but at least one scaffold hit.
	StatusReview Status = "review"
	// StatusNone means no tier flagged the structure.
	StatusNone Status = "none"
)

// Result is the full classification outcome for one candidate.
type Result struct {
	QueryID   string `json:"query_id,omitempty"`
	Input     string `json:"input"`
	Canonical string `json:"canonical"`

	IsWhitelisted   bool   `json:"is_whitelisted"`
	IsDEAControlled bool   `json:"is_dea_controlled"`
	Schedule        string `json:"schedule,omitempty"`
	IsScaffoldMatch bool   `json:"is_scaffold_match"`
	IsFDABanned     bool   `json:"is_fda_banned"`
	IsCWCScheduled  bool   `json:"is_cwc_scheduled"`

	// FlagCount counts the set flags among is_dea_controlled,
	// is_scaffold_match, is_fda_banned and is_cwc_scheduled.
	FlagCount int    `json:"faves_flag_count"`
	Status    Status `json:"status"`

	MatchedName  string        `json:"matched_name,omitempty"`
	ScaffoldHits []pattern.Hit `json:"scaffold_hits,omitempty"`

	// Degraded is set when a scaffold search timed out and was scored as
	// a non-match.
	Degraded bool     `json:"degraded,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	SnapshotVersion string        `json:"snapshot_version,omitempty"`
	Elapsed         time.Duration `json:"elapsed_ns,omitempty"`
}

// finalize derives FlagCount and Status from the individual flags.
func (r *Result) finalize() {
	r.FlagCount = 0
	for _, f := range []bool{r.IsDEAControlled, r.IsScaffoldMatch, r.IsFDABanned, r.IsCWCScheduled} {
		if f {
			r.FlagCount++
		}
	}
	switch {
	case r.IsWhitelisted:
		r.Status = StatusCleared
	case r.IsDEAControlled || r.IsFDABanned || r.IsCWCScheduled:
		r.Status = StatusControlled
	case r.FlagCount > 0:
		r.Status = StatusReview
	default:
		r.Status = StatusNone
	}
}
