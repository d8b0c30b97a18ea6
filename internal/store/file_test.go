package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/claudelog/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions_metadata.json")
	s, err := Load(path)
	require.NoError(t, err)
	return s
}

func TestLoad_MissingFileBootstrapsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.ListSessions())
}

func TestLoad_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCreateSession(t *testing.T) {
	s := newTestStore(t)

	r := s.CreateSession("myproj", "/work/myproj", "claude --resume", models.MethodologyContextDriven, "/logs/a.log")
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Timestamp.IsZero())
	assert.Equal(t, models.MethodologyContextDriven, r.Methodology)
	assert.Nil(t, r.DurationSeconds, "new session must be open")
	assert.Nil(t, r.CreativeEnergy)

	r2 := s.CreateSession("myproj", "/work/myproj", "claude", models.MethodologyUnknown, "/logs/b.log")
	assert.NotEqual(t, r.ID, r2.ID)
}

func TestCloseSession(t *testing.T) {
	s := newTestStore(t)
	r := s.CreateSession("p", "/p", "claude", models.MethodologyCommandBased, "/logs/a.log")

	energy := 2
	err := s.CloseSession(r.ID, 120.5, &energy)
	require.NoError(t, err)

	got, err := s.GetSession(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, 120.5, *got.DurationSeconds)
	require.NotNil(t, got.CreativeEnergy)
	assert.Equal(t, 2, *got.CreativeEnergy)
}

func TestCloseSession_DoubleCloseRejected(t *testing.T) {
	s := newTestStore(t)
	r := s.CreateSession("p", "/p", "claude", models.MethodologyCommandBased, "/logs/a.log")

	require.NoError(t, s.CloseSession(r.ID, 10, nil))

	err := s.CloseSession(r.ID, 20, nil)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// The first close must stand.
	got, _ := s.GetSession(r.ID)
	assert.Equal(t, 10.0, *got.DurationSeconds)
}

func TestCloseSession_UnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.CloseSession("nope", 10, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetSession_UnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions_metadata.json")
	s, err := Load(path)
	require.NoError(t, err)

	open := s.CreateSession("proj-a", "/work/a", "claude", models.MethodologyContextDriven, "/logs/a.log")
	closed := s.CreateSession("proj-b", "/work/b", "claude -c", models.MethodologyCommandBased, "/logs/b.log")
	energy := 3
	require.NoError(t, s.CloseSession(closed.ID, 300, &energy))
	require.NoError(t, s.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)

	records := reloaded.ListSessions()
	require.Len(t, records, 2)

	// Insertion order survives the round trip.
	assert.Equal(t, open.ID, records[0].ID)
	assert.Equal(t, closed.ID, records[1].ID)

	gotOpen := records[0]
	assert.Equal(t, "proj-a", gotOpen.Project)
	assert.Equal(t, "/work/a", gotOpen.WorkingDirectory)
	assert.Equal(t, "claude", gotOpen.Command)
	assert.Equal(t, "/logs/a.log", gotOpen.LogFilePath)
	assert.Equal(t, models.MethodologyContextDriven, gotOpen.Methodology)
	assert.True(t, open.Timestamp.Equal(gotOpen.Timestamp))
	assert.Nil(t, gotOpen.DurationSeconds)
	assert.Nil(t, gotOpen.CreativeEnergy)

	gotClosed := records[1]
	require.NotNil(t, gotClosed.DurationSeconds)
	assert.Equal(t, 300.0, *gotClosed.DurationSeconds)
	require.NotNil(t, gotClosed.CreativeEnergy)
	assert.Equal(t, 3, *gotClosed.CreativeEnergy)
}

func TestSave_OpenSessionOmitsOptionalFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions_metadata.json")
	s, err := Load(path)
	require.NoError(t, err)

	s.CreateSession("p", "/p", "claude", models.MethodologyUnknown, "/logs/a.log")
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Open records must omit the fields entirely, not encode null.
	assert.NotContains(t, string(data), "duration_seconds")
	assert.NotContains(t, string(data), "creative_energy")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "sessions")
}

func TestSave_FailureLeavesMemoryValid(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "sub", "sessions_metadata.json"))
	require.NoError(t, err)
	r := s.CreateSession("p", "/p", "claude", models.MethodologyUnknown, "/logs/a.log")

	// Make the parent directory un-creatable by shadowing it with a file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), []byte("x"), 0644))
	assert.Error(t, s.Save())

	// In-memory state is intact for retry.
	got, err := s.GetSession(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions_metadata.json")
	s, err := Load(path)
	require.NoError(t, err)
	s.CreateSession("p", "/p", "claude", models.MethodologyUnknown, "/logs/a.log")
	require.NoError(t, s.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sessions_metadata.json", entries[0].Name())
}
