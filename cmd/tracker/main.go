// Command tracker follows one cross-chain message through a lookup gateway
// until it is delivered, fails or the retry ceiling is reached.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/explorer"
	"github.com/chainsafe/bridge-tracker/pkg/fetcher"
	"github.com/chainsafe/bridge-tracker/pkg/session"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (defaults are used when empty)")
	messageID  = flag.String("id", "", "Message id (GUID) or source transaction hash to track")
	gatewayURL = flag.String("gateway", "", "Lookup gateway base URL, overrides fetcher.gateway_url")
	provider   = flag.String("provider", "", "Gateway provider, overrides fetcher.provider")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := tracker.ValidateID(*messageID); err != nil {
		return fmt.Errorf("-id: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine := tracker.NewEngine(
		fetcher.NewClient(&cfg.Fetcher, logger),
		tracker.OptionsFromConfig(&cfg.Tracker),
		logger)

	done := make(chan session.Snapshot, 1)
	adapter := session.NewAdapter(engine, logger,
		session.WithTickInterval(cfg.Session.TickInterval),
		session.OnChange(func(s session.Snapshot) {
			logger.Info(s.Message,
				zap.String("phase", string(s.Phase)),
				zap.Bool("active", s.Active),
				zap.Int("attempts", s.Attempts),
				zap.Int("elapsed_seconds", s.ElapsedSeconds))
		}),
		session.OnFinish(func(s session.Snapshot) { done <- s }))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter.Start(*messageID)

	var final session.Snapshot
	select {
	case final = <-done:
	case <-ctx.Done():
		adapter.Stop()
		final = adapter.Snapshot()
	}
	adapter.Wait()

	links := explorer.NewLinks(&cfg.Explorer)
	var dest string
	if final.LastResult != nil {
		dest = final.LastResult.DestinationTxHash
	}

	out := session.Response{Snapshot: final, Links: links.For(*messageID, dest)}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if final.Phase == session.PhaseFailed {
		return fmt.Errorf("message %s: %s", *messageID, final.Message)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if *gatewayURL != "" {
		cfg.Fetcher.GatewayURL = *gatewayURL
	}
	if *provider != "" {
		cfg.Fetcher.Provider = *provider
	}
	return cfg, nil
}
