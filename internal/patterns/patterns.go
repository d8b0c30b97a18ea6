package patterns

import (
	"regexp"
	"strings"

	"github.com/joescharf/claudelog/internal/models"
)

// Compiled once at package init and shared by every Score call.
var (
	enthusiasmRe = regexp.MustCompile(`(?i)(excellent!|great!|perfect!|fantastic!|amazing!|love it|this is great)|😊|🎉`)
	confusionRe  = regexp.MustCompile(`(?i)that's not|hmm|wait|actually no|let me clarify|i meant|not quite`)
	compactionRe = regexp.MustCompile(`(?i)as we discussed|as mentioned|remember when|earlier you said|previously we`)
	exchangeRe   = regexp.MustCompile(`(?im)^(?:human|user|you):`)
)

const codeFence = "```"

// Score extracts conversation metrics from raw transcript text.
// Pure and deterministic; empty text yields the zero value.
func Score(text string) models.AnalysisMetrics {
	return models.AnalysisMetrics{
		Exchanges:            len(exchangeRe.FindAllStringIndex(text, -1)),
		CodeBlocks:           countCodeBlocks(text),
		QuestionsAsked:       strings.Count(text, "?"),
		EnthusiasmMarkers:    len(enthusiasmRe.FindAllStringIndex(text, -1)),
		ConfusionMarkers:     len(confusionRe.FindAllStringIndex(text, -1)),
		CompactionIndicators: len(compactionRe.FindAllStringIndex(text, -1)),
	}
}

// countCodeBlocks counts paired fence delimiters. An unterminated trailing
// fence is a boundary, not a block: an odd delimiter count yields
// floor(count/2) blocks.
func countCodeBlocks(text string) int {
	return strings.Count(text, codeFence) / 2
}

// Quality holds 0-100 heuristic scores derived from one transcript's metrics.
type Quality struct {
	Engagement   float64
	Clarity      float64
	Productivity float64
	Overall      float64
}

// QualityFromMetrics converts raw pattern counts into quality scores.
func QualityFromMetrics(m models.AnalysisMetrics) Quality {
	engagement := clamp(50 +
		min64(float64(m.EnthusiasmMarkers)*10, 30) +
		min64(float64(m.Exchanges)/10*20, 20) -
		min64(float64(m.ConfusionMarkers)*5, 20))

	clarity := 70 - min64(float64(m.ConfusionMarkers)*10, 40)
	if m.QuestionsAsked > m.Exchanges {
		clarity -= min64(float64(m.QuestionsAsked-m.Exchanges)*2, 20)
	}
	clarity = clamp(clarity)

	productivity := clamp(40 +
		min64(float64(m.CodeBlocks)*15, 40) +
		min64(float64(m.CompactionIndicators)*5, 20))

	return Quality{
		Engagement:   engagement,
		Clarity:      clarity,
		Productivity: productivity,
		Overall:      (engagement + clarity + productivity) / 3,
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
