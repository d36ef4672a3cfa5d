package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/goldwatch/history"
)

var historyCmd = &cobra.Command{
	Use:   "history CODE",
	Short: "Show persisted price history for an instrument",
	Long: `Show the price history recorded for one instrument.

Example:
  goldwatch history ALTIN --db ./history.db --days 7`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	historyDBPath string
	historyDays   int
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "db", "./history.db", "path to the history database")
	historyCmd.Flags().IntVar(&historyDays, "days", 7, "lookback window in days")
}

func runHistory(cmd *cobra.Command, args []string) error {
	code := args[0]

	store, err := history.NewSQLite(historyDBPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	since := time.Now().AddDate(0, 0, -historyDays)
	rows, err := store.Query(code, since)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Printf("no history for %s in the last %d days\n", code, historyDays)
		return nil
	}

	fmt.Printf("%-20s %12s %12s %12s %12s\n", "observed", "buy", "sell", "low", "high")
	for _, row := range rows {
		fmt.Printf("%-20s %12s %12s %12s %12s\n",
			row.ObservedAt.Local().Format("2006-01-02 15:04:05"),
			row.Sample.Buy, row.Sample.Sell,
			row.Sample.DayLow, row.Sample.DayHigh)
	}
	fmt.Printf("%d samples\n", len(rows))

	return nil
}
