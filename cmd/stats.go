package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixwell/mrt/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate request statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := getService()
		if err != nil {
			return err
		}

		stats, err := svc.Stats(context.Background())
		if err != nil {
			return err
		}

		category := "-"
		if stats.MostCommonCategory != nil {
			category = output.Cyan(*stats.MostCommonCategory)
		}

		fmt.Fprintf(ui.Out, "Total requests:       %d\n", stats.TotalRequests)
		fmt.Fprintf(ui.Out, "Most common category: %s\n", category)
		fmt.Fprintf(ui.Out, "High priority:        %d\n", stats.HighPriorityCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
