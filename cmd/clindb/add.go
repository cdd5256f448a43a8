package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clindb/internal/storage"
)

var (
	addCompany  string
	addPatient  string
	addModality string
	addDate     string
	addTime     string
	addNotes    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new appointment",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCompany, "company", "", "Organization the patient belongs to")
	addCmd.Flags().StringVar(&addPatient, "patient", "", "Patient name")
	addCmd.Flags().StringVar(&addModality, "modality", "", "Visit modality: Admissional, Periódico, Demissional, Retorno")
	addCmd.Flags().StringVar(&addDate, "date", "", "Visit date (DD/MM/YYYY)")
	addCmd.Flags().StringVar(&addTime, "time", "", "Visit time (HH:MM)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-text notes")

	for _, flag := range []string{"company", "patient", "modality", "date", "time"} {
		_ = addCmd.MarkFlagRequired(flag)
	}

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	id, err := e.manager.Add(storage.NewAppointment{
		Company:     addCompany,
		PatientName: addPatient,
		Modality:    addModality,
		Date:        addDate,
		Time:        addTime,
		Notes:       addNotes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Appointment %d recorded\n", id)
	return nil
}
