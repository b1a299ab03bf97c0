package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chainlens/internal/config"
	"chainlens/internal/derive"
	"chainlens/internal/tool"
)

func main() {
	root := &cobra.Command{
		Use:           "chainlens",
		Short:         "On-demand blockchain event derivation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().Uint64("chain", 1, "chain id")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Derive ERC20 received-amount totals for a wallet",
		RunE:  runBalances,
	}
	balancesCmd.Flags().String("wallet", "", "wallet address")
	addRangeFlags(balancesCmd)
	root.AddCommand(balancesCmd)

	nftsCmd := &cobra.Command{
		Use:   "nfts",
		Short: "Derive NFT holdings for a wallet",
		RunE:  runNFTs,
	}
	nftsCmd.Flags().String("wallet", "", "wallet address")
	nftsCmd.Flags().Bool("net-outgoing", false, "zero out holdings whose last transfer left the wallet")
	addRangeFlags(nftsCmd)
	root.AddCommand(nftsCmd)

	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Probe ERC20 metadata for a token",
		RunE:  runMetadata,
	}
	metadataCmd.Flags().String("token", "", "token contract address")
	root.AddCommand(metadataCmd)

	swapsCmd := &cobra.Command{
		Use:   "swaps",
		Short: "Derive decoded DEX swaps for a pool",
		RunE:  runSwaps,
	}
	swapsCmd.Flags().String("pool", "", "pool address (empty for all pools)")
	addRangeFlags(swapsCmd)
	root.AddCommand(swapsCmd)

	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Summarize wallet transaction activity",
		RunE:  runActivity,
	}
	activityCmd.Flags().String("wallet", "", "wallet address")
	addRangeFlags(activityCmd)
	root.AddCommand(activityCmd)

	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Aggregate pool stats over a block range",
		RunE:  runPool,
	}
	poolCmd.Flags().String("pool", "", "pool address")
	addRangeFlags(poolCmd)
	root.AddCommand(poolCmd)

	chainsCmd := &cobra.Command{
		Use:   "chains",
		Short: "List supported chains",
		RunE:  runChains,
	}
	root.AddCommand(chainsCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export pool swaps and stats over a chunked block range",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().String("pool", "", "pool address")
	snapshotCmd.Flags().Uint64("window-size", 10000, "blocks per query window")
	snapshotCmd.Flags().String("out", "./data/swaps.jsonl", "output JSONL path")
	snapshotCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persisted stats")
	addRangeFlags(snapshotCmd)
	root.AddCommand(snapshotCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("from", 0, "start block (inclusive)")
	cmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means archive height")
}

// setup loads shared config and builds the logger and derivation service.
func setup(cmd *cobra.Command) (config.Config, *derive.Service, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	catalog := cfg.Chains
	if len(catalog) == 0 {
		catalog = derive.DefaultChains()
	}

	registry := derive.NewRegistry(catalog, logger)
	return cfg, derive.NewService(registry, logger), logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// emit prints the tagged outcome for the derivation and reports failure
// through the exit code.
func emit(view interface{}, err error) error {
	var outcome tool.Outcome
	if err != nil {
		outcome = tool.Failure(err)
	} else {
		outcome = tool.Success(view)
	}

	encoded, marshalErr := json.MarshalIndent(outcome, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("encode outcome: %w", marshalErr)
	}
	fmt.Println(string(encoded))

	return err
}

func runBalances(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	wallet, _ := cmd.Flags().GetString("wallet")
	if wallet == "" {
		return fmt.Errorf("wallet address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	rows, err := svc.TokenBalances(ctx, cfg.ChainID, wallet, cfg.FromBlock, cfg.ToBlock)
	return emit(rows, err)
}

func runNFTs(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	wallet, _ := cmd.Flags().GetString("wallet")
	if wallet == "" {
		return fmt.Errorf("wallet address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	rows, err := svc.NFTHoldings(ctx, cfg.ChainID, wallet, cfg.FromBlock, cfg.ToBlock, cfg.NetOutgoing)
	return emit(rows, err)
}

func runMetadata(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		return fmt.Errorf("token address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	meta, err := svc.TokenMetadata(ctx, cfg.ChainID, token)
	return emit(meta, err)
}

func runSwaps(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool, _ := cmd.Flags().GetString("pool")

	ctx, stop := signalContext()
	defer stop()

	swaps, err := svc.DexSwaps(ctx, cfg.ChainID, pool, cfg.FromBlock, cfg.ToBlock)
	return emit(swaps, err)
}

func runActivity(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	wallet, _ := cmd.Flags().GetString("wallet")
	if wallet == "" {
		return fmt.Errorf("wallet address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	snapshot, err := svc.WalletActivity(ctx, cfg.ChainID, wallet, cfg.FromBlock, cfg.ToBlock)
	return emit(snapshot, err)
}

func runPool(cmd *cobra.Command, _ []string) error {
	cfg, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool, _ := cmd.Flags().GetString("pool")
	if pool == "" {
		return fmt.Errorf("pool address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	stats, err := svc.PoolStats(ctx, cfg.ChainID, pool, cfg.FromBlock, cfg.ToBlock)
	return emit(stats, err)
}

func runChains(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog := cfg.Chains
	if len(catalog) == 0 {
		catalog = derive.DefaultChains()
	}

	registry := derive.NewRegistry(catalog, logger)
	return emit(registry.ListSupportedChains(), nil)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
