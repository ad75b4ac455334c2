package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/adapters/amazon"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/adapters/mint"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/cli"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/reconciler"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/config"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/logging"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/storage"
)

func main() {
	opts := cli.ParseFlags()
	ctx := context.Background()

	cli.PrintHeader(opts.DryRun)

	// Load configuration, with flag overrides
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}
	if opts.Days > 0 {
		cfg.Amazon.LookbackDays = opts.Days
	}
	if opts.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	logger := logging.NewLogger(cfg.Observability.Logging)

	cli.PrintConfig(cfg.Amazon.OrdersPath, cfg.Amazon.ReturnsPath,
		cfg.Storage.DatabasePath, cfg.Amazon.LookbackDays)

	// Initialize storage
	store, err := storage.New(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Load Amazon reports
	loader := amazon.NewLoader(logger)
	orders, err := loader.LoadOrders(cfg.Amazon.OrdersPath)
	if err != nil {
		log.Fatalf("❌ Failed to load orders: %v", err)
	}
	logger.Info("loaded orders", slog.Int("count", len(orders)))

	returns, unresolvedReturns, err := loader.LoadReturns(cfg.Amazon.ReturnsPath, orders)
	if err != nil {
		log.Fatalf("❌ Failed to load returns: %v", err)
	}
	if len(unresolvedReturns) > 0 {
		logger.Warn("returns could not be resolved to order items",
			slog.Int("count", len(unresolvedReturns)))
	}

	// Fetch ledger transactions
	creds := mint.NewStaticProvider(cfg.Mint.APIToken, cfg.Mint.Cookie)
	client := mint.New(cfg.Mint.BaseURL, creds, logger)

	since := time.Now().AddDate(0, 0, -cfg.Amazon.LookbackDays)
	transactions, err := client.GetTransactions(ctx, since)
	if err != nil {
		log.Fatalf("❌ Failed to fetch transactions: %v", err)
	}
	logger.Info("fetched transactions", slog.Int("count", len(transactions)))

	// Reconcile
	runID, err := store.StartRun(opts.DryRun)
	if err != nil {
		log.Fatalf("❌ Failed to record run: %v", err)
	}

	result := reconciler.New(logger).Run(transactions, orders, returns)
	result.RemainingReturns = append(result.RemainingReturns, unresolvedReturns...)

	cli.PrintSummary(result)
	for _, record := range result.JoinedRecords {
		cli.PrintRecord(record, opts.Verbose)
	}
	cli.PrintRemaining(result)

	// Persist and push
	for _, record := range result.JoinedRecords {
		if err := store.SaveJoinedRecord(runID, record); err != nil {
			logger.Error("failed to save record",
				slog.String("transaction_id", record.TransactionID),
				slog.String("error", err.Error()))
		}

		if opts.DryRun {
			continue
		}
		if record.IsUnmodified {
			logger.Debug("skipping already-itemized transaction",
				slog.String("transaction_id", record.TransactionID))
			continue
		}
		if err := client.UpdateTransaction(ctx, record); err != nil {
			logger.Error("failed to update transaction",
				slog.String("transaction_id", record.TransactionID),
				slog.String("error", err.Error()))
		}
	}

	if err := store.CompleteRun(runID, len(result.JoinedRecords),
		len(result.RemainingTransactions), len(result.RemainingOrders),
		len(result.RemainingReturns)); err != nil {
		logger.Error("failed to finalize run", slog.String("error", err.Error()))
	}

	logger.Info("run complete", slog.String("run_id", runID))
}
