package benchmark

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Markdown renders the report in the layout operators review: headline
// metrics, confusion matrix, per-schedule detection and the individual
// misses.
func Markdown(r *Report) string {
	m := r.Metrics
	var sb strings.Builder

	sb.WriteString("# Regulatory Detection Benchmark\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Snapshot:** %s\n\n", r.SnapshotVersion)

	fmt.Fprintf(&sb, "Validated %d compounds: %d controlled, %d non-controlled",
		m.TotalTested, m.ControlledTested, m.NonControlledTested)
	if m.Errors > 0 {
		fmt.Fprintf(&sb, " (%d failed to classify)", m.Errors)
	}
	sb.WriteString(".\n\n")

	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Sensitivity | %.1f%% |\n", m.Sensitivity*100)
	fmt.Fprintf(&sb, "| Specificity | %.1f%% |\n", m.Specificity*100)
	fmt.Fprintf(&sb, "| Precision | %.1f%% |\n", m.Precision*100)
	fmt.Fprintf(&sb, "| F1 Score | %.3f |\n", m.F1Score)
	fmt.Fprintf(&sb, "| Accuracy | %.1f%% |\n", m.Accuracy*100)
	fmt.Fprintf(&sb, "| Schedule Accuracy | %.1f%% |\n", m.ScheduleAccuracy*100)
	fmt.Fprintf(&sb, "| Whitelist Coverage | %.1f%% |\n\n", m.WhitelistRate*100)

	sb.WriteString("## Confusion Matrix\n\n")
	sb.WriteString("|  | Predicted Controlled | Predicted Safe |\n")
	sb.WriteString("|--|---------------------|----------------|\n")
	fmt.Fprintf(&sb, "| Actually Controlled | %d | %d |\n", m.TruePositives, m.FalseNegatives)
	fmt.Fprintf(&sb, "| Actually Safe | %d | %d |\n\n", m.FalsePositives, m.TrueNegatives)

	writeScheduleBreakdown(&sb, r.Outcomes)
	writeMisses(&sb, r.Outcomes)
	return sb.String()
}

func writeScheduleBreakdown(sb *strings.Builder, outcomes []Outcome) {
	schedules := []string{"I", "II", "III", "IV", "V"}
	wrote := false
	for _, schedule := range schedules {
		var tested, detected int
		for _, out := range outcomes {
			if out.Err != "" || out.ExpectedSchedule != schedule {
				continue
			}
			tested++
			if out.DetectedControlled {
				detected++
			}
		}
		if tested == 0 {
			continue
		}
		if !wrote {
			sb.WriteString("## Detection by Schedule\n\n")
			wrote = true
		}
		fmt.Fprintf(sb, "- Schedule %s: %d/%d detected (%.1f%%)\n",
			schedule, detected, tested, ratio(detected, tested)*100)
	}
	if wrote {
		sb.WriteString("\n")
	}
}

func writeMisses(sb *strings.Builder, outcomes []Outcome) {
	var fps, fns []Outcome
	for _, out := range outcomes {
		if out.Err != "" {
			continue
		}
		switch {
		case !out.ExpectedControlled && out.DetectedControlled:
			fps = append(fps, out)
		case out.ExpectedControlled && !out.DetectedControlled:
			fns = append(fns, out)
		}
	}

	if len(fps) > 0 {
		sb.WriteString("## False Positives\n\n")
		sb.WriteString("| Compound | Category | Status | Flags |\n")
		sb.WriteString("|----------|----------|--------|-------|\n")
		for _, out := range fps {
			fmt.Fprintf(sb, "| %s | %s | %s | %d |\n",
				out.Name, out.Category, out.Status, out.FlagCount)
		}
		sb.WriteString("\n")
	}
	if len(fns) > 0 {
		sb.WriteString("## False Negatives\n\n")
		sb.WriteString("| Compound | Expected Schedule |\n")
		sb.WriteString("|----------|-------------------|\n")
		for _, out := range fns {
			fmt.Fprintf(sb, "| %s | %s |\n", out.Name, out.ExpectedSchedule)
		}
		sb.WriteString("\n")
	}
}

// WriteMarkdown writes the rendered report to path.
func WriteMarkdown(r *Report, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(r)), 0o644); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeBenchReportFailed, "write report %s", path)
	}
	return nil
}
