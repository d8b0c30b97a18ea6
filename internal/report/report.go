package report

import (
	"fmt"
	"strings"

	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/output"
)

// NoDataMarker is rendered when a methodology has no energy samples.
// An absent average is reported explicitly, never as a zero.
const NoDataMarker = "no data"

// Render formats methodology aggregates into a human-readable report.
// Deterministic given identical input; blocks appear in input order.
func Render(stats []*models.MethodologyStats) string {
	var b strings.Builder

	b.WriteString("=== Session Analysis Report ===\n\n")

	if len(stats) == 0 {
		b.WriteString("No closed sessions found for analysis.\n")
		return b.String()
	}

	total := 0
	for _, s := range stats {
		total += s.SessionCount
	}
	fmt.Fprintf(&b, "Closed sessions analyzed: %d\n", total)

	for _, s := range stats {
		fmt.Fprintf(&b, "\n%s\n", output.Cyan(s.Methodology.Display()))
		fmt.Fprintf(&b, "  Sessions:          %d\n", s.SessionCount)
		fmt.Fprintf(&b, "  Total duration:    %s\n", formatDuration(s.TotalDuration))
		fmt.Fprintf(&b, "  Average duration:  %s\n", formatDuration(s.AverageDuration))
		fmt.Fprintf(&b, "  Average energy:    %s\n", formatEnergy(s.AverageEnergy, len(s.EnergySamples)))

		b.WriteString("  Conversation metrics (totals):\n")
		fmt.Fprintf(&b, "    Exchanges:             %d\n", s.Metrics.Exchanges)
		fmt.Fprintf(&b, "    Code blocks:           %d\n", s.Metrics.CodeBlocks)
		fmt.Fprintf(&b, "    Questions asked:       %d\n", s.Metrics.QuestionsAsked)
		fmt.Fprintf(&b, "    Enthusiasm markers:    %d\n", s.Metrics.EnthusiasmMarkers)
		fmt.Fprintf(&b, "    Confusion markers:     %d\n", s.Metrics.ConfusionMarkers)
		fmt.Fprintf(&b, "    Compaction indicators: %d\n", s.Metrics.CompactionIndicators)

		analyzed := s.SessionCount - s.SkippedTranscripts
		if analyzed > 0 {
			fmt.Fprintf(&b, "  Per session: %.1f exchanges, %.1f code blocks\n",
				float64(s.Metrics.Exchanges)/float64(analyzed),
				float64(s.Metrics.CodeBlocks)/float64(analyzed))
		}
		if s.SkippedTranscripts > 0 {
			fmt.Fprintf(&b, "  %s\n", output.Yellow(fmt.Sprintf("%d transcript(s) unreadable, excluded from metrics", s.SkippedTranscripts)))
		}
	}

	renderComparison(&b, stats)
	renderRecommendations(&b, stats)

	return b.String()
}

// renderComparison emits a head-to-head section when both tracked
// methodologies are present.
func renderComparison(b *strings.Builder, stats []*models.MethodologyStats) {
	var ctx, cmd *models.MethodologyStats
	for _, s := range stats {
		switch s.Methodology {
		case models.MethodologyContextDriven:
			ctx = s
		case models.MethodologyCommandBased:
			cmd = s
		}
	}
	if ctx == nil || cmd == nil {
		return
	}

	b.WriteString("\n=== Direct Comparison ===\n")

	if ctx.AverageEnergy != nil && cmd.AverageEnergy != nil {
		diff := *ctx.AverageEnergy - *cmd.AverageEnergy
		switch {
		case diff > 0:
			fmt.Fprintf(b, "Context-driven shows %.1f higher creative energy\n", diff)
		case diff < 0:
			fmt.Fprintf(b, "Command-based shows %.1f higher creative energy\n", -diff)
		default:
			b.WriteString("Both approaches show equal creative energy\n")
		}
	}

	rows := []struct {
		label    string
		ctx, cmd int
	}{
		{"Conversation depth", ctx.Metrics.Exchanges, cmd.Metrics.Exchanges},
		{"Code generation", ctx.Metrics.CodeBlocks, cmd.Metrics.CodeBlocks},
		{"Enthusiasm", ctx.Metrics.EnthusiasmMarkers, cmd.Metrics.EnthusiasmMarkers},
		{"Confusion", ctx.Metrics.ConfusionMarkers, cmd.Metrics.ConfusionMarkers},
		{"Context loss", ctx.Metrics.CompactionIndicators, cmd.Metrics.CompactionIndicators},
	}
	for _, r := range rows {
		switch {
		case r.ctx > r.cmd:
			fmt.Fprintf(b, "%s: context-driven higher (%d vs %d)\n", r.label, r.ctx, r.cmd)
		case r.cmd > r.ctx:
			fmt.Fprintf(b, "%s: command-based higher (%d vs %d)\n", r.label, r.cmd, r.ctx)
		default:
			fmt.Fprintf(b, "%s: equal in both approaches (%d)\n", r.label, r.ctx)
		}
	}
}

func renderRecommendations(b *strings.Builder, stats []*models.MethodologyStats) {
	var recs []string

	var best *models.MethodologyStats
	for _, s := range stats {
		if s.AverageEnergy == nil {
			continue
		}
		if best == nil || *s.AverageEnergy > *best.AverageEnergy {
			best = s
		}
	}
	if best != nil && *best.AverageEnergy > 2.0 {
		recs = append(recs, fmt.Sprintf("Continue using %s - it shows high creative energy (%.1f/3)",
			best.Methodology.Display(), *best.AverageEnergy))
	}

	for _, s := range stats {
		analyzed := s.SessionCount - s.SkippedTranscripts
		if analyzed == 0 {
			continue
		}
		if rate := float64(s.Metrics.ConfusionMarkers) / float64(analyzed); rate > 2.0 {
			recs = append(recs, fmt.Sprintf("Consider clearer requirements with %s - high confusion rate (%.1f per session)",
				s.Methodology.Display(), rate))
		}
		if rate := float64(s.Metrics.CodeBlocks) / float64(analyzed); rate > 5.0 {
			recs = append(recs, fmt.Sprintf("%s shows high code productivity (%.1f blocks per session)",
				s.Methodology.Display(), rate))
		}
	}

	b.WriteString("\n=== Recommendations ===\n")
	if len(recs) == 0 {
		b.WriteString("No specific recommendations - keep logging sessions for better insights.\n")
		return
	}
	for i, r := range recs {
		fmt.Fprintf(b, "%d. %s\n", i+1, r)
	}
}

func formatDuration(seconds float64) string {
	if seconds >= 60 {
		return fmt.Sprintf("%.1f min", seconds/60)
	}
	return fmt.Sprintf("%.0f sec", seconds)
}

func formatEnergy(avg *float64, samples int) string {
	if avg == nil {
		return NoDataMarker
	}
	return fmt.Sprintf("%.1f/3 (%d sample(s))", *avg, samples)
}
