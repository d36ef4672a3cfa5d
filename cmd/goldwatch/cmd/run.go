package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/goldwatch/cache"
	"github.com/rustyeddy/goldwatch/config"
	"github.com/rustyeddy/goldwatch/feed"
	"github.com/rustyeddy/goldwatch/history"
	"github.com/rustyeddy/goldwatch/notify"
	"github.com/rustyeddy/goldwatch/subs"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the price sync service from a config file",
	Long: `Run the live price synchronization service.

The service connects to the configured feed, keeps the price cache
current, persists every accepted observation, and notifies subscribers
of price changes.

Example:
  goldwatch run -f goldwatch.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

// logSink writes notifications to the service log. The chat front-end
// plugs in its own notify.Sink; this one keeps the service observable
// without it.
type logSink struct {
	log *slog.Logger
}

func (s *logSink) Deliver(subscriberID int64, message string) error {
	s.log.Info("notification", "subscriber", subscriberID, "message", message)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	hist, err := history.NewSQLite(cfg.Store.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hist.Close()

	directory, err := subs.NewSQLite(cfg.Store.SubsDB)
	if err != nil {
		return fmt.Errorf("open subscription store: %w", err)
	}
	defer directory.Close()

	client := feed.NewClient(feed.Options{
		URL:               cfg.Feed.URL,
		DialTimeout:       cfg.DialTimeout(),
		MaxReconnects:     cfg.Feed.MaxReconnects,
		ReconnectDelay:    cfg.ReconnectDelay(),
		ReconnectDelayMax: cfg.ReconnectDelayMax(),
	}, log)

	prices := cache.New(client, cfg.FetchTimeout(), log)
	fanout := notify.NewFanout(directory, &logSink{log: log}, log)
	syncer := feed.NewSyncer(prices, hist, fanout, log)

	client.Start(syncer)
	defer client.Close()

	log.Info("goldwatch running", "feed", cfg.Feed.URL)

	if len(cfg.Watch) > 0 {
		go watchLoop(cmd.Context(), log, prices, cfg.Watch, cfg.StaleAfter())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	return nil
}

// watchLoop periodically reports fresh prices for the configured watch
// list. It doubles as a liveness probe for the cache once the feed has
// given up reconnecting.
func watchLoop(ctx context.Context, log *slog.Logger, prices *cache.PriceCache, codes []string, staleAfter time.Duration) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, code := range codes {
				entry, err := prices.Fresh(ctx, code, staleAfter)
				if err != nil {
					log.Warn("watch", "instrument", code, "error", err)
					continue
				}
				log.Info("watch",
					"instrument", code,
					"buy", entry.Sample.Buy,
					"sell", entry.Sample.Sell,
					"observed_at", entry.ObservedAt)
			}
		}
	}
}
