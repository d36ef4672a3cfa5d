package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/goldwatch/market"
	"github.com/rustyeddy/goldwatch/subs"
)

var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Manage instrument subscriptions",
}

var subsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one subscriber's instruments",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		codes, err := store.Subscriptions(subsSubscriberID)
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			fmt.Println("no subscriptions")
			return nil
		}
		for _, code := range codes {
			fmt.Printf("%-14s %s\n", code, market.Name(code))
		}
		return nil
	},
}

var subsAddCmd = &cobra.Command{
	Use:   "add CODE",
	Short: "Subscribe to an instrument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Subscribe(subsSubscriberID, args[0]); err != nil {
			return err
		}
		fmt.Printf("subscribed to %s\n", args[0])
		return nil
	},
}

var subsRmCmd = &cobra.Command{
	Use:   "rm CODE",
	Short: "Unsubscribe from an instrument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Unsubscribe(subsSubscriberID, args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("not subscribed to %s\n", args[0])
			return nil
		}
		fmt.Printf("unsubscribed from %s\n", args[0])
		return nil
	},
}

var subsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all of one subscriber's subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSubsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.UnsubscribeAll(subsSubscriberID)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d subscriptions\n", n)
		return nil
	},
}

var (
	subsDBPath       string
	subsSubscriberID int64
)

func init() {
	rootCmd.AddCommand(subsCmd)
	subsCmd.AddCommand(subsListCmd, subsAddCmd, subsRmCmd, subsClearCmd)

	subsCmd.PersistentFlags().StringVar(&subsDBPath, "db", "./subs.db", "path to the subscription database")
	subsCmd.PersistentFlags().Int64Var(&subsSubscriberID, "subscriber", 0, "subscriber id (required)")
	subsCmd.MarkPersistentFlagRequired("subscriber")
}

func openSubsStore() (*subs.SQLite, error) {
	store, err := subs.NewSQLite(subsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open subscription store: %w", err)
	}
	return store, nil
}
