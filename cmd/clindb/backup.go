package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a compressed copy of the database",
	Long:  "Checkpoint the write-ahead log and write a gzip-compressed, standalone copy of the database file",
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "Destination file (default: clinica-<timestamp>.db.gz)")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	out := backupOutput
	if out == "" {
		out = fmt.Sprintf("clinica-%s.db.gz", time.Now().Format("20060102-150405"))
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if err := e.db.Backup(f); err != nil {
		os.Remove(out)
		return err
	}

	fmt.Printf("Backup written to %s\n", out)
	return nil
}
