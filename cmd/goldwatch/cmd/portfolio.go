package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/goldwatch/market"
	"github.com/rustyeddy/goldwatch/subs"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Manage portfolio records",
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add CODE AMOUNT BUY_PRICE DATE",
	Short: "Record a holding",
	Long: `Record a holding for later valuation.

Example:
  goldwatch portfolio add ALTIN 2.5 3800 2024-01-02 --subscriber 100`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("bad amount %q: %w", args[1], err)
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("bad buy price %q: %w", args[2], err)
		}

		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.AddPortfolioItem(subs.PortfolioItem{
			SubscriberID: subsSubscriberID,
			Code:         args[0],
			Amount:       amount,
			BuyPrice:     price,
			Date:         args[3],
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded %s\n", id)
		return nil
	},
}

var portfolioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one subscriber's holdings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.Portfolio(subsSubscriberID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("portfolio is empty")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%s  %-14s %10s @ %-10s %s  (%s)\n",
				item.ID, item.Code, item.Amount, item.BuyPrice,
				item.Date, market.Name(item.Code))
		}
		return nil
	},
}

var portfolioRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a holding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.RemovePortfolioItem(subsSubscriberID, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no holding %s for subscriber %d", args[0], subsSubscriberID)
		}
		fmt.Println("removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioAddCmd, portfolioListCmd, portfolioRmCmd)

	portfolioCmd.PersistentFlags().StringVar(&subsDBPath, "db", "./subs.db", "path to the subscription database")
	portfolioCmd.PersistentFlags().Int64Var(&subsSubscriberID, "subscriber", 0, "subscriber id (required)")
	portfolioCmd.MarkPersistentFlagRequired("subscriber")
}
