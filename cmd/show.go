package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/claudelog/internal/analyzer"
	"github.com/joescharf/claudelog/internal/output"
	"github.com/joescharf/claudelog/internal/patterns"
)

var showFull bool

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one session's metadata and transcript metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(args[0])
	},
}

func init() {
	showCmd.Flags().BoolVar(&showFull, "full", false, "Print the full transcript")
	rootCmd.AddCommand(showCmd)
}

func showRun(id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	rec, err := s.GetSession(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Session %s\n", output.Cyan(rec.ID))
	fmt.Fprintf(ui.Out, "  Date:        %s\n", rec.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(ui.Out, "  Project:     %s\n", rec.Project)
	fmt.Fprintf(ui.Out, "  Methodology: %s\n", output.MethodologyColor(string(rec.Methodology)))
	fmt.Fprintf(ui.Out, "  Directory:   %s\n", rec.WorkingDirectory)
	fmt.Fprintf(ui.Out, "  Command:     %s\n", rec.Command)
	fmt.Fprintf(ui.Out, "  Log file:    %s\n", rec.LogFilePath)

	if rec.DurationSeconds != nil {
		fmt.Fprintf(ui.Out, "  Duration:    %.1f min\n", *rec.DurationSeconds/60)
	} else {
		fmt.Fprintf(ui.Out, "  Duration:    %s\n", output.Yellow("open"))
	}
	if rec.CreativeEnergy != nil {
		fmt.Fprintf(ui.Out, "  Energy:      %s\n", output.EnergyColor(*rec.CreativeEnergy))
	}

	a := analyzer.New(ui)
	metrics, err := a.AnalyzeFile(rec.LogFilePath)
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, "\nConversation metrics:")
	fmt.Fprintf(ui.Out, "  Exchanges:             %d\n", metrics.Exchanges)
	fmt.Fprintf(ui.Out, "  Code blocks:           %d\n", metrics.CodeBlocks)
	fmt.Fprintf(ui.Out, "  Questions asked:       %d\n", metrics.QuestionsAsked)
	fmt.Fprintf(ui.Out, "  Enthusiasm markers:    %d\n", metrics.EnthusiasmMarkers)
	fmt.Fprintf(ui.Out, "  Confusion markers:     %d\n", metrics.ConfusionMarkers)
	fmt.Fprintf(ui.Out, "  Compaction indicators: %d\n", metrics.CompactionIndicators)

	q := patterns.QualityFromMetrics(metrics)
	fmt.Fprintln(ui.Out, "\nQuality scores:")
	fmt.Fprintf(ui.Out, "  Engagement:   %.1f/100\n", q.Engagement)
	fmt.Fprintf(ui.Out, "  Clarity:      %.1f/100\n", q.Clarity)
	fmt.Fprintf(ui.Out, "  Productivity: %.1f/100\n", q.Productivity)
	fmt.Fprintf(ui.Out, "  Overall:      %.1f/100\n", q.Overall)

	if showFull {
		data, err := os.ReadFile(rec.LogFilePath)
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		fmt.Fprintln(ui.Out, "\n--- Transcript ---")
		fmt.Fprintln(ui.Out, string(data))
	}

	return nil
}
