package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clindb/internal/storage"
)

var (
	listCompany  string
	listPatient  string
	listModality string
	listDate     string
	listFormat   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCompany, "company", "", "Filter by company substring")
	listCmd.Flags().StringVar(&listPatient, "patient", "", "Filter by patient substring")
	listCmd.Flags().StringVar(&listModality, "modality", "", "Filter by exact modality")
	listCmd.Flags().StringVar(&listDate, "date", "", "Filter by exact date (DD/MM/YYYY)")
	listCmd.Flags().StringVar(&listFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	rows := e.manager.List(storage.Filter{
		Company:  listCompany,
		Patient:  listPatient,
		Modality: listModality,
		Date:     listDate,
	})

	if listFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No appointments found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tPATIENT\tCOMPANY\tMODALITY\tSTATUS\tDOCS")
	for _, a := range rows {
		docs := ""
		if a.ReportPDF != nil {
			docs += "R"
		}
		if a.EvaluationPDF != nil {
			docs += "E"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Date, a.Time, a.PatientName, a.Company, a.Modality, a.Status, docs)
	}
	return w.Flush()
}
