package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// technicalCmd represents the technical command
var technicalCmd = &cobra.Command{
	Use:   "technical [ticker...]",
	Short: "Classify trend structure for tickers",
	Long: `Fetches daily price history and prints RSI(14), SMA(50/200)
and the resulting trend state for the given tickers.

Example:
  go run ./cmd/vquant technical VNM
  go run ./cmd/vquant technical VNM HPG SSI`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTechnical,
}

func init() {
	rootCmd.AddCommand(technicalCmd)
}

func runTechnical(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Technicals ===")

	rt, err := initRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	tickers := make([]string, len(args))
	for i, a := range args {
		tickers[i] = strings.ToUpper(a)
	}

	snapshots, failures := rt.scoreBuilder.TechnicalSnapshots(cmd.Context(), tickers)

	fmt.Println()
	widths := []int{8, 10, 8, 10, 10, 16}
	PrintTableHeader([]string{"TICKER", "PRICE", "RSI", "SMA50", "SMA200", "STATE"}, widths)
	for _, t := range tickers {
		s, ok := snapshots[t]
		if !ok {
			continue
		}
		rsi := fmt.Sprintf("%.1f", s.DisplayRSI())
		if s.RSIEstimated {
			rsi += "*"
		}
		PrintTableRow([]string{
			t,
			fmt.Sprintf("%.0f", s.Price),
			rsi,
			fmt.Sprintf("%.0f", s.SMA50),
			fmt.Sprintf("%.0f", s.SMA200),
			string(s.State),
		}, widths)
	}
	fmt.Println("   * estimated (insufficient history)")

	for _, f := range failures {
		PrintWarning(fmt.Sprintf("%s: %s", f.Ticker, f.Cause))
	}
	return nil
}
