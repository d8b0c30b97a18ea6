package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/output"
)

var (
	listMethodology string
	listLimit       int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listMethodology, "methodology", "m", "", "Filter by methodology: context-driven, command-based, unknown")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "Maximum sessions to show")
	rootCmd.AddCommand(listCmd)
}

func listRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	records := s.ListSessions()
	if listMethodology != "" {
		filtered := records[:0]
		for _, r := range records {
			if string(r.Methodology) == listMethodology {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	// Newest first.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if listLimit > 0 && len(records) > listLimit {
		records = records[:listLimit]
	}

	if len(records) == 0 {
		ui.Info("No sessions found")
		return nil
	}

	table := ui.Table([]string{"ID", "DATE", "PROJECT", "METHODOLOGY", "DURATION", "ENERGY"})
	for _, r := range records {
		table.Append([]string{
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Project,
			output.MethodologyColor(string(r.Methodology)),
			formatRecordDuration(r),
			formatRecordEnergy(r),
		})
	}
	return table.Render()
}

func formatRecordDuration(r *models.SessionRecord) string {
	if r.DurationSeconds == nil {
		return output.Yellow("open")
	}
	return fmt.Sprintf("%.1fm", *r.DurationSeconds/60)
}

func formatRecordEnergy(r *models.SessionRecord) string {
	if r.CreativeEnergy == nil {
		return "-"
	}
	return output.EnergyColor(*r.CreativeEnergy)
}
