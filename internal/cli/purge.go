package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vietddude/liveboard/internal/core/config"
	"github.com/vietddude/liveboard/internal/infra/storage/postgres"
)

var purgeCmd = &cobra.Command{
	Use:   "purge-reports [feature] [keep_days]",
	Short: "Delete stored error reports for a panel older than the given number of days",
	Args:  cobra.ExactArgs(2),
	Run:   runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) {
	feature := args[0]
	keepDays, err := strconv.Atoi(args[1])
	if err != nil || keepDays < 0 {
		fmt.Printf("Invalid keep_days: %v\n", args[1])
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	// Direct SQL keeps this admin override simple.
	query := "DELETE FROM error_reports WHERE feature = $1 AND created_at < now() - ($2 || ' days')::interval"
	res, err := db.ExecContext(ctx, query, feature, keepDays)
	if err != nil {
		slog.Error("Failed to purge error reports", "error", err)
		os.Exit(1)
	}

	deleted, _ := res.RowsAffected()
	fmt.Printf("Deleted %d error reports for %s older than %d days\n", deleted, feature, keepDays)
}
