package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/claudelog/internal/archive"
)

var gitLogCount int

var gitLogCmd = &cobra.Command{
	Use:   "git-log",
	Short: "Show the git history of archived sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return gitLogRun()
	},
}

func init() {
	gitLogCmd.Flags().IntVarP(&gitLogCount, "count", "c", 20, "Number of commits to show")
	rootCmd.AddCommand(gitLogCmd)
}

func gitLogRun() error {
	repo, err := archive.InitOrOpen(logsDir())
	if err != nil {
		return fmt.Errorf("open session archive: %w", err)
	}

	out, err := repo.Log(gitLogCount)
	if err != nil {
		return err
	}
	fmt.Fprintln(ui.Out, out)
	return nil
}
