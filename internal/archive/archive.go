package archive

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joescharf/claudelog/internal/models"
)

// Repo archives session logs and metadata in a git repository rooted at
// the logs directory. It is invoked only after the metadata document has
// been saved successfully.
type Repo struct {
	path string
}

func gitCmd(path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// InitOrOpen opens the archive repo at path, initializing it with an
// initial commit on first use.
func InitOrOpen(path string) (*Repo, error) {
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		return &Repo{path: path}, nil
	}

	if _, err := gitCmd(path, "init"); err != nil {
		return nil, fmt.Errorf("init archive repo: %w", err)
	}

	gitignore := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignore, []byte("*.tmp\n*.swp\n.DS_Store\n"), 0644); err != nil {
		return nil, fmt.Errorf("write archive gitignore: %w", err)
	}

	if _, err := gitCmd(path, "add", ".gitignore"); err != nil {
		return nil, fmt.Errorf("stage archive gitignore: %w", err)
	}
	if _, err := gitCmd(path, "commit", "-m", "Initialize session log archive"); err != nil {
		return nil, fmt.Errorf("create initial archive commit: %w", err)
	}

	return &Repo{path: path}, nil
}

// Path returns the archive repository root.
func (r *Repo) Path() string {
	return r.path
}

// CommitSession stages the session's log file and the metadata document
// and commits them. Returns the short commit hash.
func (r *Repo) CommitSession(rec *models.SessionRecord, metadataFile string) (string, error) {
	logName := filepath.Base(rec.LogFilePath)
	metaName := filepath.Base(metadataFile)

	if _, err := gitCmd(r.path, "add", logName, metaName); err != nil {
		return "", fmt.Errorf("stage session files: %w", err)
	}

	if _, err := gitCmd(r.path, "commit", "-m", CommitMessage(rec)); err != nil {
		return "", fmt.Errorf("commit session: %w", err)
	}

	hash, err := gitCmd(r.path, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("read commit hash: %w", err)
	}
	return hash, nil
}

// CommitMessage builds the archive commit subject for a closed session.
func CommitMessage(rec *models.SessionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", rec.Methodology.Display(), rec.Project)

	if rec.DurationSeconds != nil {
		fmt.Fprintf(&b, " (%.1fmin)", *rec.DurationSeconds/60)
	}
	if rec.CreativeEnergy != nil {
		fmt.Fprintf(&b, " | Energy: %d/3", *rec.CreativeEnergy)
	}

	fmt.Fprintf(&b, "\n\nSession ID: %s\nCommand: %s\n", rec.ID, rec.Command)
	return b.String()
}

// Log prints the recent archive history in one-line form.
func (r *Repo) Log(count int) (string, error) {
	return gitCmd(r.path, "log", "--oneline", "--decorate", fmt.Sprintf("-%d", count))
}

// RecentCommits returns up to count "hash|subject|date" lines.
func (r *Repo) RecentCommits(count int) ([]string, error) {
	out, err := gitCmd(r.path, "log", "--pretty=format:%h|%s|%ad", "--date=short", fmt.Sprintf("-%d", count))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
