package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clindb/internal/storage"
	"clindb/internal/uploads"
)

var (
	uploadAppointment int64
	uploadKind        string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Store a PDF document",
	Long:  "Screen and store a PDF in the uploads directory, optionally attaching it to an appointment as its report or evaluation",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().Int64Var(&uploadAppointment, "appointment", 0, "Appointment id to attach the document to")
	uploadCmd.Flags().StringVar(&uploadKind, "kind", "report", "Document kind when attaching (report, evaluation)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	store, err := uploads.NewStore(e.cfg.UploadsDir(), e.cfg.Uploads.MaxSizeBytes, e.auditor, e.logger)
	if err != nil {
		return err
	}

	name, err := store.Save(filepath.Base(args[0]), data)
	if err != nil {
		return err
	}
	fmt.Printf("Stored %s\n", name)

	if uploadAppointment == 0 {
		return nil
	}

	var patch storage.Patch
	switch uploadKind {
	case "report":
		patch.ReportPDF = &name
	case "evaluation":
		patch.EvaluationPDF = &name
	default:
		return fmt.Errorf("unknown document kind %q", uploadKind)
	}

	ok, err := e.manager.Update(uploadAppointment, patch)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Appointment %d not found; document stored but not attached\n", uploadAppointment)
		return nil
	}
	fmt.Printf("Attached to appointment %d as %s\n", uploadAppointment, uploadKind)
	return nil
}
