package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory",
	Long:  "Create the database schema, uploads directory, and a default config.json in the data directory",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	// Opening the store already ensured the schema; running init twice is
	// harmless.
	if err := e.db.EnsureSchema(); err != nil {
		return err
	}

	if err := e.cfg.Save(e.cfg.DataRoot); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Initialized clinic store at %s\n", e.db.Path())
	return nil
}
