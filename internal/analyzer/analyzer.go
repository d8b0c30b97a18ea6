package analyzer

import (
	"errors"
	"fmt"
	"os"

	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/patterns"
	"github.com/joescharf/claudelog/internal/report"
	"github.com/joescharf/claudelog/internal/store"
)

// ErrTranscriptUnreadable marks a missing or unreadable transcript file.
// A missing file is a data-integrity problem, never "no activity".
var ErrTranscriptUnreadable = errors.New("transcript unreadable")

// Logger receives warnings for transcripts skipped during batch analysis.
type Logger interface {
	Warning(format string, a ...any)
}

// Analyzer joins transcript metrics with session metadata to produce
// per-methodology aggregates.
type Analyzer struct {
	log Logger
}

// New creates an Analyzer. log may be nil to discard warnings.
func New(log Logger) *Analyzer {
	if log == nil {
		log = nopLogger{}
	}
	return &Analyzer{log: log}
}

// AnalyzeFile reads one transcript and scores it. The error wraps
// ErrTranscriptUnreadable when the file is missing or unreadable.
func (a *Analyzer) AnalyzeFile(path string) (models.AnalysisMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AnalysisMetrics{}, fmt.Errorf("%w: %s: %v", ErrTranscriptUnreadable, path, err)
	}
	return patterns.Score(string(data)), nil
}

// CompareMethodologies aggregates all closed sessions grouped by
// methodology, in the order methodologies are first encountered. Open
// sessions are excluded: their duration is undefined. A record whose
// transcript cannot be read is warned about and skipped; it still counts
// toward the group's durations and energy, which come from metadata.
func (a *Analyzer) CompareMethodologies(s store.Store) []*models.MethodologyStats {
	var order []models.Methodology
	groups := make(map[models.Methodology]*models.MethodologyStats)

	for _, rec := range s.ListSessions() {
		if !rec.Closed() {
			continue
		}

		stats, ok := groups[rec.Methodology]
		if !ok {
			stats = &models.MethodologyStats{Methodology: rec.Methodology}
			groups[rec.Methodology] = stats
			order = append(order, rec.Methodology)
		}

		stats.SessionCount++
		stats.TotalDuration += *rec.DurationSeconds
		if rec.CreativeEnergy != nil {
			stats.EnergySamples = append(stats.EnergySamples, *rec.CreativeEnergy)
		}

		metrics, err := a.AnalyzeFile(rec.LogFilePath)
		if err != nil {
			a.log.Warning("skipping transcript for session %s: %v", rec.ID, err)
			stats.SkippedTranscripts++
			continue
		}
		stats.Metrics.Add(metrics)
	}

	result := make([]*models.MethodologyStats, 0, len(order))
	for _, m := range order {
		stats := groups[m]
		stats.AverageDuration = stats.TotalDuration / float64(stats.SessionCount)
		if n := len(stats.EnergySamples); n > 0 {
			sum := 0
			for _, e := range stats.EnergySamples {
				sum += e
			}
			avg := float64(sum) / float64(n)
			stats.AverageEnergy = &avg
		}
		result = append(result, stats)
	}
	return result
}

// GenerateReport runs the comparison and renders it. Pure composition.
func (a *Analyzer) GenerateReport(s store.Store) string {
	return report.Render(a.CompareMethodologies(s))
}

type nopLogger struct{}

func (nopLogger) Warning(format string, a ...any) {}
