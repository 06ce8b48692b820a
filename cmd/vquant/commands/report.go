package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the latest persisted report",
	Long: `Loads the most recent decision report from the database and
prints it with its integrity accounting.

Example:
  go run ./cmd/vquant report`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Report ===")

	rt, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer rt.close()

	rows, integrity, err := rt.decisionRepo.GetLatestReport(cmd.Context())
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	printReport(rows)
	printIntegrity(integrity)
	return nil
}
