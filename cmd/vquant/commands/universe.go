package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vquant/backend/internal/s1_universe"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Build and print the ranked universe",
	Long: `Fetches the market screener, cleans and ranks the universe,
and prints the composite-value leaders with their sector context.

Runs without a database; use --save to persist the snapshot.

Example:
  go run ./cmd/vquant universe
  go run ./cmd/vquant universe --top 30 --save`,
	RunE: runUniverse,
}

var (
	universeTop  int
	universeSave bool
)

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().IntVar(&universeTop, "top", 20, "how many leaders to print")
	universeCmd.Flags().BoolVar(&universeSave, "save", false, "persist the snapshot to the database")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Universe ===")

	rt, err := initRuntime(universeSave)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	rows, err := rt.vciClient.Screener(ctx, nil)
	if err != nil {
		return fmt.Errorf("screener fetch: %w", err)
	}
	fmt.Printf("\n📊 %d raw screener rows\n\n", len(rows))

	universe := s1_universe.NewBuilder(rt.log).Build(rows, time.Now())

	type entry struct {
		ticker string
		rank   int
	}
	ranked := make([]entry, 0, len(universe.Ranks))
	for t, r := range universe.Ranks {
		ranked = append(ranked, entry{ticker: t, rank: r.FinalRank})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].rank < ranked[j].rank })
	if universeTop < len(ranked) {
		ranked = ranked[:universeTop]
	}

	widths := []int{6, 8, 20, 8, 8, 8, 10}
	PrintTableHeader([]string{"RANK", "TICKER", "INDUSTRY", "PE", "PB", "ROE", "SECTOR_PE"}, widths)
	for _, e := range ranked {
		row, _ := universe.Row(e.ticker)
		sectorPE := 0.0
		if sector, ok := universe.SectorFor(e.ticker); ok {
			sectorPE = sector.MedianPE
		}
		PrintTableRow([]string{
			fmt.Sprintf("%d", e.rank),
			e.ticker,
			row.Industry,
			fmt.Sprintf("%.2f", row.PE),
			fmt.Sprintf("%.2f", row.PB),
			fmt.Sprintf("%.1f", row.ROE),
			fmt.Sprintf("%.2f", sectorPE),
		}, widths)
	}

	if universeSave {
		if err := rt.universeRepo.SaveUniverse(ctx, universe); err != nil {
			return fmt.Errorf("save universe: %w", err)
		}
		PrintSuccess("Universe snapshot saved")
	}
	return nil
}
