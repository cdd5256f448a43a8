package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show appointment statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	stats := e.manager.Snapshot()

	if statsFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Appointments: %d\n", stats.Total)
	fmt.Printf("Companies:    %d\n", stats.Companies)
	fmt.Printf("Reports:      %d\n", stats.Reports)
	fmt.Printf("Evaluations:  %d\n", stats.Evaluations)

	if len(stats.ByModality) > 0 {
		fmt.Println("\nBy modality:")
		for _, row := range stats.ByModality {
			fmt.Printf("  %-12s %d\n", row.Label, row.Count)
		}
	}
	if len(stats.ByStatus) > 0 {
		fmt.Println("\nBy status:")
		for _, row := range stats.ByStatus {
			fmt.Printf("  %-12s %d\n", row.Label, row.Count)
		}
	}
	return nil
}
