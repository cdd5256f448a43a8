package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe store connectivity",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if !e.db.HealthCheck() {
		fmt.Println("unhealthy")
		os.Exit(1)
	}

	version, err := e.db.SchemaVersion()
	if err != nil {
		return err
	}
	fmt.Printf("healthy (schema v%d, %s)\n", version, e.db.Path())
	return nil
}
