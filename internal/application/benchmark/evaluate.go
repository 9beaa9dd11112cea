package benchmark

import (
	"context"
	"time"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
)

// Outcome is the per-compound evaluation record. DetectedControlled mirrors
// the detection rule of the validation harness: an exact controlled match or
// a scaffold hit both count as a detection.
type Outcome struct {
	Name               string `json:"name"`
	SMILES             string `json:"smiles"`
	Category           string `json:"category"`
	ExpectedSchedule   string `json:"expected_schedule,omitempty"`
	ExpectedControlled bool   `json:"expected_controlled"`

	DetectedControlled  bool   `json:"detected_controlled"`
	DetectedWhitelisted bool   `json:"detected_whitelisted"`
	DetectedSchedule    string `json:"detected_schedule,omitempty"`
	Status              string `json:"status,omitempty"`
	FlagCount           int    `json:"faves_flag_count"`

	Correct bool   `json:"correct"`
	Err     string `json:"error,omitempty"`
}

// Metrics aggregates a full evaluation run.
type Metrics struct {
	TotalTested         int `json:"total_tested"`
	ControlledTested    int `json:"controlled_tested"`
	NonControlledTested int `json:"non_controlled_tested"`
	Errors              int `json:"errors"`

	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`

	Sensitivity      float64 `json:"sensitivity"`
	Specificity      float64 `json:"specificity"`
	Precision        float64 `json:"precision"`
	F1Score          float64 `json:"f1_score"`
	Accuracy         float64 `json:"accuracy"`
	ScheduleAccuracy float64 `json:"schedule_accuracy"`
	WhitelistRate    float64 `json:"whitelist_rate"`
}

// Report bundles outcomes and derived metrics.
type Report struct {
	GeneratedAt     time.Time `json:"generated_at"`
	SnapshotVersion string    `json:"snapshot_version"`
	Outcomes        []Outcome `json:"outcomes"`
	Metrics         Metrics   `json:"metrics"`
}

// Evaluator runs ground-truth rows through the classification service.
type Evaluator struct {
	svc    appcompliance.Service
	logger logging.Logger
}

// NewEvaluator builds an Evaluator over an initialized service.
func NewEvaluator(svc appcompliance.Service, logger logging.Logger) *Evaluator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Evaluator{svc: svc, logger: logger}
}

// Run classifies every row and derives metrics. A per-compound failure is
// recorded on its outcome and excluded from the metrics; only a cancelled
// context aborts the run.
func (e *Evaluator) Run(ctx context.Context, rows []GroundTruthRow) (*Report, error) {
	report := &Report{
		GeneratedAt:     time.Now().UTC(),
		SnapshotVersion: e.svc.SnapshotVersion(),
		Outcomes:        make([]Outcome, 0, len(rows)),
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := Outcome{
			Name:               row.Name,
			SMILES:             row.SMILES,
			Category:           row.Category,
			ExpectedSchedule:   row.Schedule,
			ExpectedControlled: row.ExpectedControlled,
		}

		result, err := e.svc.Classify(ctx, &appcompliance.ClassifyInput{SMILES: row.SMILES})
		if err != nil {
			out.Err = err.Error()
			e.logger.Warn("benchmark compound failed",
				logging.String("name", row.Name), logging.Err(err))
			report.Outcomes = append(report.Outcomes, out)
			continue
		}

		out.DetectedControlled = result.IsDEAControlled || result.IsScaffoldMatch
		out.DetectedWhitelisted = result.IsWhitelisted
		out.DetectedSchedule = result.Schedule
		out.Status = string(result.Status)
		out.FlagCount = result.FlagCount
		out.Correct = out.DetectedControlled == row.ExpectedControlled
		report.Outcomes = append(report.Outcomes, out)
	}

	report.Metrics = computeMetrics(report.Outcomes)
	return report, nil
}

func computeMetrics(outcomes []Outcome) Metrics {
	var m Metrics
	var scheduleHits int
	var fdaApproved, fdaWhitelisted int

	for _, out := range outcomes {
		if out.Err != "" {
			m.Errors++
			continue
		}
		m.TotalTested++
		if out.ExpectedControlled {
			m.ControlledTested++
			if out.DetectedControlled {
				m.TruePositives++
				if out.ExpectedSchedule != "" && out.DetectedSchedule == out.ExpectedSchedule {
					scheduleHits++
				}
			} else {
				m.FalseNegatives++
			}
		} else {
			m.NonControlledTested++
			if out.DetectedControlled {
				m.FalsePositives++
			} else {
				m.TrueNegatives++
			}
		}
		if out.Category == CategoryFDAApproved {
			fdaApproved++
			if out.DetectedWhitelisted {
				fdaWhitelisted++
			}
		}
	}

	m.Sensitivity = ratio(m.TruePositives, m.TruePositives+m.FalseNegatives)
	m.Specificity = ratio(m.TrueNegatives, m.TrueNegatives+m.FalsePositives)
	m.Precision = ratio(m.TruePositives, m.TruePositives+m.FalsePositives)
	if m.Precision+m.Sensitivity > 0 {
		m.F1Score = 2 * m.Precision * m.Sensitivity / (m.Precision + m.Sensitivity)
	}
	m.Accuracy = ratio(m.TruePositives+m.TrueNegatives, m.TotalTested)
	m.ScheduleAccuracy = ratio(scheduleHits, m.TruePositives)
	m.WhitelistRate = ratio(fdaWhitelisted, fdaApproved)
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
