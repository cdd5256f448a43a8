package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clindb/internal/storage"
)

var (
	updCompany  string
	updPatient  string
	updModality string
	updDate     string
	updTime     string
	updStatus   string
	updNotes    string
	updReport   string
	updEval     string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an appointment",
	Long:  "Update only the supplied fields of an existing appointment; everything else keeps its prior value",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updCompany, "company", "", "New company")
	updateCmd.Flags().StringVar(&updPatient, "patient", "", "New patient name")
	updateCmd.Flags().StringVar(&updModality, "modality", "", "New modality")
	updateCmd.Flags().StringVar(&updDate, "date", "", "New date (DD/MM/YYYY)")
	updateCmd.Flags().StringVar(&updTime, "time", "", "New time (HH:MM)")
	updateCmd.Flags().StringVar(&updStatus, "status", "", "New status: Agendado, Concluído, Cancelado")
	updateCmd.Flags().StringVar(&updNotes, "notes", "", "New notes")
	updateCmd.Flags().StringVar(&updReport, "report", "", "Report document reference")
	updateCmd.Flags().StringVar(&updEval, "evaluation", "", "Evaluation document reference")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	var patch storage.Patch
	pick := func(name string, value string, dest **string) {
		if cmd.Flags().Changed(name) {
			v := value
			*dest = &v
		}
	}
	pick("company", updCompany, &patch.Company)
	pick("patient", updPatient, &patch.PatientName)
	pick("modality", updModality, &patch.Modality)
	pick("date", updDate, &patch.Date)
	pick("time", updTime, &patch.Time)
	pick("status", updStatus, &patch.Status)
	pick("notes", updNotes, &patch.Notes)
	pick("report", updReport, &patch.ReportPDF)
	pick("evaluation", updEval, &patch.EvaluationPDF)

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ok, err := e.manager.Update(id, patch)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Appointment %d not found (or nothing to change)\n", id)
		return nil
	}

	fmt.Printf("Appointment %d updated\n", id)
	return nil
}
