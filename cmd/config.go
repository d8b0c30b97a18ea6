package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "claudelog"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage claudelog configuration.

Running bare 'claudelog config' is the same as 'claudelog config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# claudelog configuration
# See: claudelog config show (for effective values)

# Directory holding transcripts and the session metadata document
# (default: ~/.claude-logs)
# logs_dir: {{ .LogsDir }}

# Claude CLI binary to run (default: "claude")
# claude_bin: {{ .ClaudeBin }}

# Git archiving of finished sessions
git:
  # Commit each finished session's log and metadata (default: true)
  auto_commit: {{ .GitAutoCommit }}

# Creative energy tracking
energy:
  # Always prompt for an energy rating after each session (default: false)
  track: {{ .EnergyTrack }}
`

type configTemplateData struct {
	LogsDir       string
	ClaudeBin     string
	GitAutoCommit bool
	EnergyTrack   bool
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("parse config template: %w", err)
	}

	var buf bytes.Buffer
	data := configTemplateData{
		LogsDir:       viper.GetString("logs_dir"),
		ClaudeBin:     viper.GetString("claude_bin"),
		GitAutoCommit: viper.GetBool("git.auto_commit"),
		EnergyTrack:   viper.GetBool("energy.track"),
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render config template: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	ui.Success("Created %s", cfgPath)
	return nil
}

func configShowRun() error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("render settings: %w", err)
	}

	if viper.ConfigFileUsed() != "" {
		ui.Info("Config file: %s", viper.ConfigFileUsed())
	} else {
		ui.Info("No config file found (using defaults); run 'claudelog config init'")
	}
	fmt.Fprint(ui.Out, string(out))
	return nil
}
