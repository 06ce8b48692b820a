package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system health",
	Long: `Checks the database, the local statement store and the
fundamentals base, and prints a short summary.

Example:
  go run ./cmd/vquant status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Status ===")

	rt, err := initRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Println()
	PrintSeparator()

	// Local statement store
	count, err := rt.store.Count()
	if err != nil {
		PrintWarning(fmt.Sprintf("Statement store: %v", err))
	} else {
		PrintKeyValue("Statements", fmt.Sprintf("%d ticker(s) cached", count), 12)
	}

	baseState := "stale (will refetch on next run)"
	if rt.store.BaseValid(time.Now()) {
		baseState = "fresh"
	}
	PrintKeyValue("Base", baseState, 12)

	// Redis
	redisState := "disabled"
	if rt.rdb.Enabled() {
		redisState = "connected"
	}
	PrintKeyValue("Redis", redisState, 12)

	// Database is optional for this command; report reachability only.
	dbState := "not configured"
	if rt.cfg.Database.URL != "" {
		dbState = "configured"
	}
	PrintKeyValue("Database", dbState, 12)

	PrintSeparator()
	return nil
}
