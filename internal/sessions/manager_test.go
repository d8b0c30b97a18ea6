package sessions

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/output"
	"github.com/joescharf/claudelog/internal/store"
)

func newTestManager(t *testing.T, stdin string) (*Manager, *store.FileStore, string) {
	t.Helper()
	logsDir := t.TempDir()
	s, err := store.Load(filepath.Join(logsDir, "sessions_metadata.json"))
	require.NoError(t, err)

	ui := &output.UI{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}
	m := NewManager(s, ui, Options{
		LogsDir:   logsDir,
		ClaudeBin: "claude",
		Stdin:     strings.NewReader(stdin),
	})
	// Don't spawn real processes in tests.
	m.runCommand = func(cmd *exec.Cmd) error { return nil }
	return m, s, logsDir
}

func TestRunLogged_CreatesClosedSession(t *testing.T) {
	m, s, logsDir := newTestManager(t, "")

	err := m.RunLogged(nil, false)
	require.NoError(t, err)

	records := s.ListSessions()
	require.Len(t, records, 1)
	rec := records[0]

	assert.True(t, rec.Closed())
	assert.Nil(t, rec.CreativeEnergy)
	assert.Equal(t, "claude", rec.Command)
	assert.Equal(t, models.MethodologyUnknown, rec.Methodology)

	// Metadata document was saved.
	_, err = os.Stat(filepath.Join(logsDir, "sessions_metadata.json"))
	assert.NoError(t, err)

	// Transcript header and footer were written.
	data, err := os.ReadFile(rec.LogFilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Session Started")
	assert.Contains(t, string(data), "Session Ended")
}

func TestRunLogged_TracksEnergy(t *testing.T) {
	m, s, _ := newTestManager(t, "3\n")

	err := m.RunLogged([]string{"--resume"}, true)
	require.NoError(t, err)

	rec := s.ListSessions()[0]
	require.NotNil(t, rec.CreativeEnergy)
	assert.Equal(t, 3, *rec.CreativeEnergy)
	assert.Equal(t, "claude --resume", rec.Command)
}

func TestPromptEnergy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"one", "1\n", intPtr(1)},
		{"three", "3\n", intPtr(3)},
		{"skip on empty", "\n", nil},
		{"skip on eof", "", nil},
		{"retry until valid", "7\nbanana\n2\n", intPtr(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			got, err := PromptEnergy(strings.NewReader(tt.input), out)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func intPtr(i int) *int { return &i }
