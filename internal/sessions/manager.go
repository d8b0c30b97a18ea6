package sessions

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/joescharf/claudelog/internal/archive"
	"github.com/joescharf/claudelog/internal/methodology"
	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/output"
	"github.com/joescharf/claudelog/internal/store"
)

// Options configures a Manager.
type Options struct {
	LogsDir   string
	ClaudeBin string // binary to run, default "claude"

	// Archive is nil when git archiving is disabled.
	Archive *archive.Repo

	// Stdin is the source for the interactive energy prompt.
	Stdin io.Reader
}

// Manager orchestrates one logged session run: record creation, transcript
// capture, close, persist, archive.
type Manager struct {
	store store.Store
	ui    *output.UI
	opts  Options

	// runCommand is swappable in tests.
	runCommand func(cmd *exec.Cmd) error
}

// NewManager creates a sessions manager.
func NewManager(s store.Store, ui *output.UI, opts Options) *Manager {
	if opts.ClaudeBin == "" {
		opts.ClaudeBin = "claude"
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	return &Manager{
		store: s,
		ui:    ui,
		opts:  opts,
		runCommand: func(cmd *exec.Cmd) error {
			return cmd.Run()
		},
	}
}

// RunLogged runs the claude CLI under script(1), capturing the transcript,
// and records the session lifecycle around it. claudeArgs are passed
// through verbatim.
func (m *Manager) RunLogged(claudeArgs []string, trackEnergy bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	project := filepath.Base(cwd)
	method := methodology.Detect(cwd)

	command := m.opts.ClaudeBin
	if len(claudeArgs) > 0 {
		command += " " + strings.Join(claudeArgs, " ")
	}

	rec := m.store.CreateSession(project, cwd, command, method, "")
	logFile := filepath.Join(m.opts.LogsDir,
		fmt.Sprintf("claude_%s_%s_%s.log", project, method, rec.ID))
	rec.LogFilePath = logFile

	if err := m.writeHeader(logFile, rec); err != nil {
		return err
	}

	m.ui.Info("Logging session to %s", logFile)
	m.ui.VerboseLog("methodology: %s", method)

	start := time.Now()
	runErr := m.runCaptured(logFile, claudeArgs)
	duration := time.Since(start).Seconds()

	if err := m.appendFooter(logFile, duration); err != nil {
		m.ui.Warning("append session footer: %v", err)
	}

	var energy *int
	if trackEnergy {
		energy, err = PromptEnergy(m.opts.Stdin, m.ui.Out)
		if err != nil {
			m.ui.Warning("skipping energy tracking: %v", err)
		}
	}

	if err := m.store.CloseSession(rec.ID, duration, energy); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := m.store.Save(); err != nil {
		return fmt.Errorf("persist session metadata: %w", err)
	}

	// Archive only after the metadata document is durably saved.
	if m.opts.Archive != nil {
		metaPath := filepath.Join(m.opts.LogsDir, "sessions_metadata.json")
		if fs, ok := m.store.(*store.FileStore); ok {
			metaPath = fs.Path()
		}
		hash, err := m.opts.Archive.CommitSession(rec, metaPath)
		if err != nil {
			m.ui.Warning("archive commit failed: %v", err)
		} else {
			m.ui.Success("Archived as commit %s", hash)
		}
	}

	m.ui.Success("Session %s logged (%.1f min)", rec.ID, duration/60)
	if energy != nil {
		m.ui.Info("Creative energy: %s", output.EnergyColor(*energy))
	}
	return runErr
}

// runCaptured runs the claude CLI under script(1) so the full interactive
// terminal session lands in logFile.
func (m *Manager) runCaptured(logFile string, claudeArgs []string) error {
	inner := m.opts.ClaudeBin
	if len(claudeArgs) > 0 {
		inner += " " + strings.Join(claudeArgs, " ")
	}

	cmd := exec.Command("script", "-q", "-a", logFile, "-c", inner)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := m.runCommand(cmd); err != nil {
		return fmt.Errorf("run claude session: %w", err)
	}
	return nil
}

func (m *Manager) writeHeader(logFile string, rec *models.SessionRecord) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("=== Claude CLI Session Started ===\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", rec.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Project: %s\n", rec.Project)
	fmt.Fprintf(&b, "Methodology: %s\n", rec.Methodology)
	fmt.Fprintf(&b, "Working Directory: %s\n", rec.WorkingDirectory)
	fmt.Fprintf(&b, "Command: %s\n", rec.Command)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if err := os.WriteFile(logFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write session header: %w", err)
	}
	return nil
}

func (m *Manager) appendFooter(logFile string, duration float64) error {
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "\n\n%s\n=== Claude CLI Session Ended ===\nDuration: %.2f seconds\n%s\n",
		strings.Repeat("=", 50), duration, strings.Repeat("=", 50))
	return err
}

// PromptEnergy asks for a 1-3 creative energy rating. Empty input skips
// tracking and returns nil.
func PromptEnergy(in io.Reader, out io.Writer) (*int, error) {
	fmt.Fprintln(out, "\nHow would you rate your creative energy after this session?")
	fmt.Fprintln(out, "  1 - Depleted")
	fmt.Fprintln(out, "  2 - Neutral")
	fmt.Fprintln(out, "  3 - Energized")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Energy level (1-3, Enter to skip): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read energy input: %w", err)
			}
			return nil, nil
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "":
			return nil, nil
		case "1":
			e := 1
			return &e, nil
		case "2":
			e := 2
			return &e, nil
		case "3":
			e := 3
			return &e, nil
		}
		fmt.Fprintln(out, "Please enter 1, 2, or 3")
	}
}
