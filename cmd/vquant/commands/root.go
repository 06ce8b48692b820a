package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vquant",
	Short: "VQuant - multi-source equity scoring for the Vietnamese market",
	Long: `VQuant Unified CLI

Fuses fundamental forensics, sector-relative value, crowd sentiment and
trend structure into one ranked daily report.

Pipeline stages:
- S0: Market fundamentals base (screener + statement store)
- S1: Universe ranking and sector profiles
- S2: Piotroski F-Score / Beneish M-Score / technicals
- S3: News and forum sentiment
- S4: Decision fusion and final report

Usage:
  go run ./cmd/vquant [command]

Examples:
  go run ./cmd/vquant run
  go run ./cmd/vquant score VNM HPG
  go run ./cmd/vquant api
  go run ./cmd/vquant scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
