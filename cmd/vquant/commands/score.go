package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [ticker...]",
	Short: "Compute F-Score and M-Score for tickers",
	Long: `Fetches financial statements and computes the Piotroski
F-Score and Beneish M-Score for the given tickers.

Statements come from the local store when fresh, from the provider
otherwise. Runs without a database.

Example:
  go run ./cmd/vquant score VNM
  go run ./cmd/vquant score VNM HPG FPT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Accounting Scores ===")

	rt, err := initRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	tickers := make([]string, len(args))
	for i, a := range args {
		tickers[i] = strings.ToUpper(a)
	}

	scores, failures := rt.scoreBuilder.FundamentalScores(cmd.Context(), tickers)

	fmt.Println()
	widths := []int{8, 9, 9, 12, 11}
	PrintTableHeader([]string{"TICKER", "F-SCORE", "M-SCORE", "RISK", "VALID"}, widths)
	for _, t := range tickers {
		s, ok := scores[t]
		if !ok {
			continue
		}
		mValue := "-"
		if s.MScore.Valid {
			mValue = fmt.Sprintf("%.2f", s.MScore.Value)
		}
		fValue := "-"
		if s.FScore.Valid {
			fValue = fmt.Sprintf("%d/9", s.FScore.Value)
		}
		PrintTableRow([]string{
			t,
			fValue,
			mValue,
			string(s.MScore.Flag()),
			fmt.Sprintf("%v", s.FScore.Valid),
		}, widths)
	}

	for _, f := range failures {
		PrintWarning(fmt.Sprintf("%s: %s", f.Ticker, f.Cause))
	}
	if len(failures) == 0 {
		fmt.Println()
		PrintSuccess(fmt.Sprintf("Scored %d ticker(s)", len(scores)))
	}
	return nil
}
