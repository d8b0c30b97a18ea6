package methodology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/claudelog/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Methodology
	}{
		{"context driven", "# Context-Driven Development\nrules...", models.MethodologyContextDriven},
		{"case insensitive", "this project uses CONTEXT-DRIVEN workflows", models.MethodologyContextDriven},
		{"command based", "# Command-Based workflow", models.MethodologyCommandBased},
		{"spec driven maps to command based", "# Spec-Driven Development", models.MethodologyCommandBased},
		{"no marker", "just a readme", models.MethodologyUnknown},
		{"empty", "", models.MethodologyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.content))
		})
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	claudeDir := filepath.Join(dir, ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "CLAUDE.md"), []byte("# Context-Driven"), 0644))

	assert.Equal(t, models.MethodologyContextDriven, Detect(dir))
}

func TestDetect_MissingFile(t *testing.T) {
	assert.Equal(t, models.MethodologyUnknown, Detect(t.TempDir()))
}
