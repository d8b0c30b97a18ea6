package models

import "time"

// Methodology is the development approach a session is attributed to.
// It is fixed when the session record is created and never reclassified.
type Methodology string

const (
	MethodologyContextDriven Methodology = "context-driven"
	MethodologyCommandBased  Methodology = "command-based"
	MethodologyUnknown       Methodology = "unknown"
)

// Display returns the human-readable form used in reports.
func (m Methodology) Display() string {
	switch m {
	case MethodologyContextDriven:
		return "Context-Driven"
	case MethodologyCommandBased:
		return "Command-Based"
	default:
		return "Unknown"
	}
}

// SessionRecord is the durable metadata for one logged conversation.
// A record is open while DurationSeconds is nil and closed once it is set;
// a closed record is never reopened.
type SessionRecord struct {
	ID               string      `json:"id"`
	Timestamp        time.Time   `json:"timestamp"`
	Project          string      `json:"project"`
	Methodology      Methodology `json:"methodology"`
	WorkingDirectory string      `json:"working_directory"`
	Command          string      `json:"command"`
	LogFilePath      string      `json:"log_file"`

	// Set once at session close. Omitted from the document while open so
	// open vs closed stays unambiguous on disk.
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`

	// 1..3, set at most once and only when energy tracking was requested.
	CreativeEnergy *int `json:"creative_energy,omitempty"`
}

// Closed reports whether the session has ended.
func (r *SessionRecord) Closed() bool {
	return r.DurationSeconds != nil
}

// AnalysisMetrics are the pattern counts scored over one transcript.
// Derived on demand, never persisted.
type AnalysisMetrics struct {
	Exchanges            int
	CodeBlocks           int
	QuestionsAsked       int
	EnthusiasmMarkers    int
	ConfusionMarkers     int
	CompactionIndicators int
}

// Add element-wise sums other into m.
func (m *AnalysisMetrics) Add(other AnalysisMetrics) {
	m.Exchanges += other.Exchanges
	m.CodeBlocks += other.CodeBlocks
	m.QuestionsAsked += other.QuestionsAsked
	m.EnthusiasmMarkers += other.EnthusiasmMarkers
	m.ConfusionMarkers += other.ConfusionMarkers
	m.CompactionIndicators += other.CompactionIndicators
}

// MethodologyStats aggregates all closed sessions of one methodology.
// Computed fresh on each analysis request.
type MethodologyStats struct {
	Methodology     Methodology
	SessionCount    int
	TotalDuration   float64 // seconds
	AverageDuration float64 // seconds

	// EnergySamples holds only the energy values actually present.
	// AverageEnergy is nil when no session in the group carried one --
	// "no samples" is reported as absent, never as zero.
	EnergySamples []int
	AverageEnergy *float64

	Metrics AnalysisMetrics

	// SkippedTranscripts counts records whose log file could not be read
	// and was therefore excluded from Metrics.
	SkippedTranscripts int
}
