package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/modeldiff/internal/history"
)

// NewHistoryCommand creates the 'modeldiff history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Comparison run archive commands",
		Long: `Commands for reviewing and managing archived comparison runs.

Every compare invocation records its outcome in a local database (unless
--no-history is given), so model drift between revisions can be reviewed
later.`,
	}

	// Add subcommands
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// openStore resolves the database path from flag or configuration.
func openStore(cmd *cobra.Command, dbPathOverride string) (*history.Store, error) {
	dbPath := dbPathOverride
	if dbPath == "" {
		cfg, _, err := loadEnvironment(cmd)
		if err != nil {
			return nil, err
		}
		dbPath = cfg.History.DBPath
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no history database at %s", dbPath)
	}
	return history.NewStore(dbPath)
}

// newHistoryListCommand creates the 'modeldiff history list' command
func newHistoryListCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived comparison runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(context.Background(), limit)
			if err != nil {
				return err
			}

			output := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(output, "No archived runs.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(output, "%s  %s  %s -> %s  (%s vs %s)  real=%d score=%.2f\n",
					r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.VersionA, r.VersionB, r.PathA, r.PathB,
					r.RealDifferences, r.WeightedScore)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")

	return cmd
}

// newHistoryShowCommand creates the 'modeldiff history show' command
func newHistoryShowCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the full report of an archived run",
		Long: `Print the archived JSON report of one run. The run ID may be a unique
prefix, as printed by 'modeldiff history list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(context.Background(), args[0])
			if err != nil {
				return err
			}

			output := cmd.OutOrStdout()
			fmt.Fprintf(output, "Run %s (%s)\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(output, "  %s (%s) vs %s (%s)\n", run.PathA, run.VersionA, run.PathB, run.VersionB)
			fmt.Fprintf(output, "  real=%d version=%d onlyA=%d onlyB=%d score=%.2f policy=%s\n\n",
				run.RealDifferences, run.VersionDifferences, run.OnlyA, run.OnlyB,
				run.WeightedScore, run.Policy)
			fmt.Fprintln(output, run.Report)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")

	return cmd
}

// newHistoryClearCommand creates the 'modeldiff history clear' command
func newHistoryClearCommand() *cobra.Command {
	var dbPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintln(output, "This deletes every archived run. Re-run with --yes to confirm.")
				return nil
			}

			store, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(output, "History cleared.")
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
