package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/liveboard/internal/core/config"
	"github.com/vietddude/liveboard/internal/infra/storage/postgres"
)

var reportsLimit int

var reportsCmd = &cobra.Command{
	Use:   "reports [feature]",
	Short: "Show the newest stored error reports for a panel",
	Args:  cobra.ExactArgs(1),
	Run:   runReports,
}

func init() {
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 20, "maximum number of reports to show")
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) {
	feature := args[0]

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

	repo := postgres.NewReportRepo(db)
	reports, err := repo.Recent(ctx, feature, reportsLimit)
	if err != nil {
		slog.Error("Failed to query error reports", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "CREATED\tCATEGORY\tSTATUS\tATTEMPTS\tMESSAGE")

	for _, r := range reports {
		msg := r.Message
		if len(msg) > 80 {
			msg = msg[:77] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Category, r.Status, r.Attempts, msg)
	}
	_ = w.Flush()
}
