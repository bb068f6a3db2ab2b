// Command ledgerctl runs ledger operations from the terminal: recompute or
// refresh summaries, close and reopen days, materialize a week of planned
// events, and print summaries. It reads the same environment as the API
// server; --db points it at a local sqlite file instead.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lg/energy-ledger/internal/config"
	"lg/energy-ledger/internal/ledger"
	"lg/energy-ledger/internal/store"
)

var (
	dbPath string
	userID int64

	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:          "ledgerctl",
	Short:        "ledgerctl operates on the daily energy ledger",
	Long:         "ledgerctl recomputes daily summaries, closes and reopens days, and materializes weekly plans for one user.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite database (overrides DB_DRIVER/DB_URL)")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 0, "User id to operate on")
}

// withService opens the configured store, hands fn a service over it and
// closes the store afterwards.
func withService(ctx context.Context, fn func(svc *ledger.Service) error) error {
	if userID <= 0 {
		return fmt.Errorf("--user is required")
	}
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBDriver = config.DriverSQLite
		cfg.SQLitePath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(ledger.NewService(backend))
}
