package store

import (
	"errors"

	"github.com/joescharf/claudelog/internal/models"
)

var (
	// ErrSessionNotFound is returned when a session id has no record.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned when closing an already-closed session.
	// Double-close is an integration bug and is rejected, not ignored.
	ErrSessionClosed = errors.New("session already closed")
)

// Store is the persistence interface for session metadata.
type Store interface {
	// CreateSession allocates a fresh record with a unique id and inserts
	// it in memory. It does not persist; call Save.
	CreateSession(project, workingDirectory, command string, methodology models.Methodology, logFilePath string) *models.SessionRecord

	// CloseSession marks the session ended. Fails with ErrSessionNotFound
	// for an unknown id and ErrSessionClosed for a second close.
	CloseSession(id string, durationSeconds float64, creativeEnergy *int) error

	// GetSession returns the record for id or ErrSessionNotFound.
	GetSession(id string) (*models.SessionRecord, error)

	// ListSessions returns all records in insertion order.
	ListSessions() []*models.SessionRecord

	// Save persists the whole document atomically. On failure the
	// in-memory state is untouched and safe to retry.
	Save() error
}
