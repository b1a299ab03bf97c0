package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chainlens/internal/model"
)

// Store provides Postgres persistence for snapshot output.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InsertSwaps persists a batch of swap rows. Rows already present for
// the same (chain_id, tx_hash, log_index) are left untouched so a
// re-exported window is idempotent.
func (s *Store) InsertSwaps(ctx context.Context, swaps []model.DexSwapEvent) error {
	if len(swaps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, swap := range swaps {
		batch.Queue(`
			INSERT INTO dex_swaps (
				chain_id, pool_address, protocol, sender, recipient,
				amount0, amount1, sqrt_price_x96, liquidity, tick,
				block_number, tx_hash, log_index, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
			ON CONFLICT (chain_id, tx_hash, log_index) DO NOTHING
		`,
			int64(swap.ChainID),
			swap.Pool,
			swap.Protocol,
			swap.Sender,
			swap.Recipient,
			swap.Amount0,
			swap.Amount1,
			nullIfEmpty(swap.SqrtPriceX96),
			nullIfEmpty(swap.Liquidity),
			swap.Tick,
			int64(swap.BlockNumber),
			swap.TxHash,
			int64(swap.LogIndex),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range swaps {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolStats inserts or updates aggregated pool stats for a window.
func (s *Store) UpsertPoolStats(ctx context.Context, stats []model.PoolStats) error {
	if len(stats) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range stats {
		batch.Queue(`
			INSERT INTO pool_stats (
				chain_id, pool_address, from_block, to_block,
				swap_count, mint_count, burn_count,
				volume0, volume1, reserve0, reserve1,
				sqrt_price_x96, tick, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (chain_id, pool_address, from_block, to_block)
			DO UPDATE SET
				swap_count = EXCLUDED.swap_count,
				mint_count = EXCLUDED.mint_count,
				burn_count = EXCLUDED.burn_count,
				volume0 = EXCLUDED.volume0,
				volume1 = EXCLUDED.volume1,
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
				tick = EXCLUDED.tick,
				updated_at = now()
		`,
			int64(row.ChainID),
			row.Pool,
			int64(row.FromBlock),
			int64(row.ToBlock),
			int64(row.SwapCount),
			int64(row.MintCount),
			int64(row.BurnCount),
			row.Volume0,
			row.Volume1,
			nullIfEmpty(row.Reserve0),
			nullIfEmpty(row.Reserve1),
			nullIfEmpty(row.SqrtPriceX96),
			row.Tick,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range stats {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
