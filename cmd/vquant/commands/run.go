package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vquant/backend/internal/brain"
	"github.com/wonny/vquant/backend/internal/contracts"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full scoring pipeline",
	Long: `Runs the complete pipeline and prints the fused report.

Stages:
- S0: Market fundamentals base
- S1: Universe ranking and sector profiles
- S2: F-Score / M-Score over the candidate slice
- S3: News and forum sentiment for the target list
- S4: Decision fusion and final ranking

Example:
  go run ./cmd/vquant run
  go run ./cmd/vquant run --date 2026-03-02 --skip-persist`,
	RunE: runPipeline,
}

var (
	runDate        string
	runSkipPersist bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "run date (YYYY-MM-DD, default: today)")
	runCmd.Flags().BoolVar(&runSkipPersist, "skip-persist", false, "run without writing to the database")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Pipeline ===")

	var date time.Time
	if runDate != "" {
		parsed, err := time.Parse("2006-01-02", runDate)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
		date = parsed
	} else {
		date = time.Now()
	}

	rt, err := initRuntime(!runSkipPersist)
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Printf("\n📅 Run Date: %s\n\n", date.Format("2006-01-02"))

	result, err := rt.orchestrator.Run(cmd.Context(), brain.RunConfig{
		Date:        date,
		Candidates:  rt.cfg.Pipeline.Candidates,
		SkipPersist: runSkipPersist,
		Progress: func(stage, detail string) {
			fmt.Printf("  ▸ %-14s %s\n", stage, detail)
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	printReport(result.Report)
	printIntegrity(result.Integrity)
	PrintSuccess(fmt.Sprintf("Pipeline completed in %s", result.Duration.Round(time.Millisecond)))
	return nil
}

func printReport(rows []contracts.ReportRow) {
	if len(rows) == 0 {
		PrintWarning("Report is empty")
		return
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("  Final Report")
	PrintSeparator()

	widths := []int{8, 28, 7, 10, 10, 14, 6}
	PrintTableHeader([]string{"TICKER", "ACTION", "ALPHA", "PRICE", "RSI", "TREND", "RISK"}, widths)
	for _, row := range rows {
		risk := "-"
		if row.AccountingRisk == contracts.RiskHigh {
			risk = "HIGH"
		}
		PrintTableRow([]string{
			row.Ticker,
			string(row.FinalAction),
			fmt.Sprintf("%.1f", row.AlphaScore),
			fmt.Sprintf("%.0f", row.CurrentPrice),
			fmt.Sprintf("%.1f", row.RSI14),
			string(row.TechnicalState),
			risk,
		}, widths)
	}
}

func printIntegrity(integrity contracts.IntegrityReport) {
	fmt.Println()
	PrintSeparator()
	PrintKeyValue("Scored", fmt.Sprintf("%d/%d", integrity.Succeeded, integrity.Total), 10)
	PrintKeyValue("Failures", fmt.Sprintf("%d", integrity.Failed), 10)
	for _, f := range integrity.Failures {
		fmt.Printf("     - %s (%s): %s\n", f.Ticker, f.Phase, f.Cause)
	}
	PrintSeparator()
}
