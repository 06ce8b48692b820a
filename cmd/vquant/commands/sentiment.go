package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/vquant/backend/internal/s3_sentiment"
)

// sentimentCmd represents the sentiment command
var sentimentCmd = &cobra.Command{
	Use:   "sentiment [ticker...]",
	Short: "Gather and blend sentiment for tickers",
	Long: `Scans exchange news and the retail forum for the given
tickers, classifies every unique text and prints the blended score.

Tickers on HNX/UPCOM additionally pull per-ticker related news; mark
them with a suffix, e.g. PVS:HNX.

Example:
  go run ./cmd/vquant sentiment VNM HPG
  go run ./cmd/vquant sentiment PVS:HNX VGT:UPCOM`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSentiment,
}

func init() {
	rootCmd.AddCommand(sentimentCmd)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Sentiment ===")

	rt, err := initRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	targets := make([]s3_sentiment.TargetInfo, 0, len(args))
	for _, a := range args {
		ticker, exchange := strings.ToUpper(a), "HOSE"
		if i := strings.IndexByte(ticker, ':'); i >= 0 {
			ticker, exchange = ticker[:i], ticker[i+1:]
		}
		targets = append(targets, s3_sentiment.TargetInfo{Ticker: ticker, Exchange: exchange})
	}

	items := rt.gatherer.Gather(cmd.Context(), targets)
	combined := s3_sentiment.Aggregate(items)

	fmt.Printf("\n📰 %d classified item(s)\n\n", len(items))
	widths := []int{8, 10, 7, 10, 7, 9}
	PrintTableHeader([]string{"TICKER", "NEWS", "N", "FORUM", "N", "FINAL"}, widths)
	for _, t := range targets {
		c, ok := combined[t.Ticker]
		if !ok {
			PrintTableRow([]string{t.Ticker, "-", "0", "-", "0", "0.00"}, widths)
			continue
		}
		PrintTableRow([]string{
			t.Ticker,
			fmt.Sprintf("%.2f", c.NewsMean),
			fmt.Sprintf("%d", c.NewsCount),
			fmt.Sprintf("%.2f", c.ForumMean),
			fmt.Sprintf("%d", c.ForumCount),
			fmt.Sprintf("%.2f", c.Final),
		}, widths)
	}
	return nil
}
