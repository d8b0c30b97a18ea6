package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/claudelog/internal/analyzer"
	"github.com/joescharf/claudelog/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare methodologies across all closed sessions",
	Long: `Analyze every closed session's transcript and aggregate the results
per methodology: durations, creative energy, and conversation metrics.
Open sessions and unreadable transcripts are excluded; the latter are
reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeRun()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	a := analyzer.New(ui)
	stats := a.CompareMethodologies(s)
	fmt.Fprint(ui.Out, report.Render(stats))
	return nil
}
