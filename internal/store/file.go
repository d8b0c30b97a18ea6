package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/claudelog/internal/models"
)

// document is the on-disk shape: a single JSON object holding every
// session record in insertion order.
type document struct {
	Sessions []*models.SessionRecord `json:"sessions"`
}

// FileStore keeps the full session document in memory and persists it as
// one JSON file. It assumes a single writer per process; cross-process
// concurrent session creation is not coordinated (no file locking).
type FileStore struct {
	path    string
	records []*models.SessionRecord
	byID    map[string]*models.SessionRecord

	// now and entropy are injectable for tests.
	now     func() time.Time
	entropy *rand.Rand
}

// Load reads the document at path. A missing file is first-run bootstrap
// and yields an empty store, not an error.
func Load(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		byID: make(map[string]*models.SessionRecord),
		now:  time.Now,
	}
	s.entropy = rand.New(rand.NewSource(time.Now().UnixNano()))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read metadata document: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata document %s: %w", path, err)
	}

	s.records = doc.Sessions
	for _, r := range s.records {
		s.byID[r.ID] = r
	}
	return s, nil
}

// newID generates a ULID: timestamp-ordered with a random suffix, so ids
// from independent runs stay unique and roughly chronological.
func (s *FileStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), ulid.Monotonic(s.entropy, 0)).String()
}

// CreateSession implements Store.
func (s *FileStore) CreateSession(project, workingDirectory, command string, methodology models.Methodology, logFilePath string) *models.SessionRecord {
	r := &models.SessionRecord{
		ID:               s.newID(),
		Timestamp:        s.now().UTC(),
		Project:          project,
		Methodology:      methodology,
		WorkingDirectory: workingDirectory,
		Command:          command,
		LogFilePath:      logFilePath,
	}
	s.records = append(s.records, r)
	s.byID[r.ID] = r
	return r
}

// CloseSession implements Store.
func (s *FileStore) CloseSession(id string, durationSeconds float64, creativeEnergy *int) error {
	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("close session %s: %w", id, ErrSessionNotFound)
	}
	if r.Closed() {
		return fmt.Errorf("close session %s: %w", id, ErrSessionClosed)
	}
	r.DurationSeconds = &durationSeconds
	if creativeEnergy != nil {
		e := *creativeEnergy
		r.CreativeEnergy = &e
	}
	return nil
}

// GetSession implements Store.
func (s *FileStore) GetSession(id string) (*models.SessionRecord, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	return r, nil
}

// ListSessions implements Store.
func (s *FileStore) ListSessions() []*models.SessionRecord {
	out := make([]*models.SessionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Path returns the location of the metadata document.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the document to a temp file in the same directory and
// renames it over the target, so a crash mid-write never corrupts the
// previously good document.
func (s *FileStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(document{Sessions: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sessions_metadata-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp metadata file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write metadata document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp metadata file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace metadata document: %w", err)
	}
	return nil
}
