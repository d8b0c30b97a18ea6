package methodology

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joescharf/claudelog/internal/models"
)

// Classify maps project instruction text to a methodology. Matching is
// case-insensitive and purely literal.
func Classify(content string) models.Methodology {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "context-driven"):
		return models.MethodologyContextDriven
	case strings.Contains(lower, "command-based"), strings.Contains(lower, "spec-driven"):
		return models.MethodologyCommandBased
	default:
		return models.MethodologyUnknown
	}
}

// Detect inspects dir's .claude/CLAUDE.md and classifies its contents.
// A project without the marker file is Unknown, not an error.
func Detect(dir string) models.Methodology {
	data, err := os.ReadFile(filepath.Join(dir, ".claude", "CLAUDE.md"))
	if err != nil {
		return models.MethodologyUnknown
	}
	return Classify(string(data))
}
