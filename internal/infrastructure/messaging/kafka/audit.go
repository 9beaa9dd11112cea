package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
)

// AuditEvent is the wire form of a classification audit record. One event is
// published per classification so downstream consumers can reconstruct the
// full decision trail without access to the service's logs.
type AuditEvent struct {
	EventID         string    `json:"event_id"`
	OccurredAt      time.Time `json:"occurred_at"`
	Canonical       string    `json:"canonical"`
	Status          string    `json:"status"`
	FlagCount       int       `json:"faves_flag_count"`
	IsWhitelisted   bool      `json:"is_whitelisted"`
	IsDEAControlled bool      `json:"is_dea_controlled"`
	IsScaffoldMatch bool      `json:"is_scaffold_match"`
	IsFDABanned     bool      `json:"is_fda_banned"`
	IsCWCScheduled  bool      `json:"is_cwc_scheduled"`
	MatchedPatterns []string  `json:"matched_patterns,omitempty"`
	Warnings        []string  `json:"warnings,omitempty"`
	SnapshotVersion string    `json:"snapshot_version"`
	ElapsedNs       int64     `json:"elapsed_ns"`
	CacheHit        bool      `json:"cache_hit"`
}

// NewAuditEvent converts a classification result into an audit event with a
// fresh event identifier.
func NewAuditEvent(result *compliance.Result, cacheHit bool) *AuditEvent {
	var patterns []string
	for _, hit := range result.ScaffoldHits {
		patterns = append(patterns, hit.PatternID)
	}
	return &AuditEvent{
		EventID:         uuid.NewString(),
		OccurredAt:      time.Now().UTC(),
		Canonical:       result.Canonical,
		Status:          string(result.Status),
		FlagCount:       result.FlagCount,
		IsWhitelisted:   result.IsWhitelisted,
		IsDEAControlled: result.IsDEAControlled,
		IsScaffoldMatch: result.IsScaffoldMatch,
		IsFDABanned:     result.IsFDABanned,
		IsCWCScheduled:  result.IsCWCScheduled,
		MatchedPatterns: patterns,
		Warnings:        result.Warnings,
		SnapshotVersion: result.SnapshotVersion,
		ElapsedNs:       int64(result.Elapsed),
		CacheHit:        cacheHit,
	}
}
