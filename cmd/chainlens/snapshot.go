package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainlens/internal/config"
	"chainlens/internal/derive"
	"chainlens/internal/model"
	"chainlens/internal/storage"
	"chainlens/internal/storage/postgres"
)

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Pool == "" {
		return fmt.Errorf("pool address is required")
	}

	catalog := cfg.Chains
	if len(catalog) == 0 {
		catalog = derive.DefaultChains()
	}

	registry := derive.NewRegistry(catalog, logger)
	svc := derive.NewService(registry, logger)

	ctx, stop := signalContext()
	defer stop()

	if err := registry.EnsureChain(cfg.ChainID); err != nil {
		return err
	}

	toBlock := cfg.ToBlock
	if toBlock == 0 {
		client, err := registry.Client(cfg.ChainID)
		if err != nil {
			return err
		}
		toBlock, err = client.Height(ctx)
		if err != nil {
			return fmt.Errorf("resolve archive height: %w", err)
		}
	}

	windows, err := derive.SplitRange(cfg.FromBlock, toBlock, cfg.WindowSize)
	if err != nil {
		return err
	}

	sink := storage.NewJsonlStorage(cfg.Out)

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	logger.Info("snapshot start",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.String("pool", cfg.Pool),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", toBlock),
		zap.Uint64("window_size", cfg.WindowSize),
		zap.Int("windows", len(windows)),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	total := 0
	for _, window := range windows {
		swaps, err := svc.DexSwaps(ctx, cfg.ChainID, cfg.Pool, window.From, window.To)
		if err != nil {
			return fmt.Errorf("window %d-%d: %w", window.From, window.To, err)
		}

		if err := sink.PutSwapBatch(swaps); err != nil {
			return fmt.Errorf("window %d-%d: %w", window.From, window.To, err)
		}
		if store != nil {
			if err := store.InsertSwaps(ctx, swaps); err != nil {
				return fmt.Errorf("window %d-%d: %w", window.From, window.To, err)
			}
		}

		total += len(swaps)
		logger.Info("window exported",
			zap.Uint64("from", window.From),
			zap.Uint64("to", window.To),
			zap.Int("swaps", len(swaps)),
		)
	}

	stats, err := svc.PoolStats(ctx, cfg.ChainID, cfg.Pool, cfg.FromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("pool stats: %w", err)
	}
	if store != nil {
		if err := store.UpsertPoolStats(ctx, []model.PoolStats{stats}); err != nil {
			return fmt.Errorf("persist pool stats: %w", err)
		}
	}

	logger.Info("snapshot done",
		zap.Int("swaps", total),
		zap.Uint64("swap_count", stats.SwapCount),
	)

	return emit(stats, nil)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
