package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/claudelog/internal/archive"
	"github.com/joescharf/claudelog/internal/output"
	"github.com/joescharf/claudelog/internal/sessions"
	"github.com/joescharf/claudelog/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore *store.FileStore

	verbose     bool
	trackEnergy bool
)

var rootCmd = &cobra.Command{
	Use:   "claudelog [-- claude arguments]",
	Short: "Log and analyze Claude CLI sessions by methodology",
	Long: `claudelog wraps the claude CLI, capturing each conversation to a
transcript file and recording session metadata. Logged sessions can be
listed, inspected, and compared across development methodologies
(context-driven vs command-based).`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootRun(args)
	},
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/claudelog/config.yaml)")
	rootCmd.Flags().BoolVarP(&trackEnergy, "track-energy", "e", false, "Prompt for creative energy level after the session")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "claudelog")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLAUDELOG")
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()

	viper.SetDefault("logs_dir", filepath.Join(home, ".claude-logs"))
	viper.SetDefault("claude_bin", "claude")
	viper.SetDefault("git.auto_commit", true)
	viper.SetDefault("energy.track", false)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// The metadata store is loaded lazily so config/version commands work
	// even when the logs directory is unreadable.
}

func logsDir() string {
	return viper.GetString("logs_dir")
}

func metadataPath() string {
	return filepath.Join(logsDir(), "sessions_metadata.json")
}

// getStore returns the shared store, loading the metadata document on
// first call.
func getStore() (*store.FileStore, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	s, err := store.Load(metadataPath())
	if err != nil {
		return nil, fmt.Errorf("load session metadata: %w", err)
	}
	dataStore = s
	return dataStore, nil
}

// rootRun handles `claudelog` with no subcommand: run a logged session,
// passing any remaining arguments to the claude CLI.
func rootRun(claudeArgs []string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(logsDir(), 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	var repo *archive.Repo
	if viper.GetBool("git.auto_commit") {
		repo, err = archive.InitOrOpen(logsDir())
		if err != nil {
			ui.Warning("git archive disabled: %v", err)
			repo = nil
		}
	}

	mgr := sessions.NewManager(s, ui, sessions.Options{
		LogsDir:   logsDir(),
		ClaudeBin: viper.GetString("claude_bin"),
		Archive:   repo,
	})

	return mgr.RunLogged(claudeArgs, trackEnergy || viper.GetBool("energy.track"))
}
