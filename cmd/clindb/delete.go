package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an appointment",
	Long:  "Hard-delete an appointment by id; the id is never reused",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ok, err := e.manager.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Appointment %d not found\n", id)
		return nil
	}

	fmt.Printf("Appointment %d deleted\n", id)
	return nil
}
