package derive

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// poolAccumulator folds decoded pool events into window statistics.
// Volumes are absolute sums across swap legs.
type poolAccumulator struct {
	stats   model.PoolStats
	volume0 *big.Int
	volume1 *big.Int
}

func newPoolAccumulator(chainID uint64, pool string, fromBlock, toBlock uint64) *poolAccumulator {
	return &poolAccumulator{
		stats: model.PoolStats{
			ChainID:   chainID,
			Pool:      pool,
			FromBlock: fromBlock,
			ToBlock:   toBlock,
		},
		volume0: big.NewInt(0),
		volume1: big.NewInt(0),
	}
}

func (a *poolAccumulator) add(event *model.DecodedEvent) error {
	if event == nil {
		return nil
	}
	switch event.Event {
	case events.EventSwapV2:
		if len(event.Body) != 4 {
			return fmt.Errorf("v2 swap: expected 4 body fields, got %d", len(event.Body))
		}
		in0, err := bodyInt(event, 0)
		if err != nil {
			return err
		}
		in1, err := bodyInt(event, 1)
		if err != nil {
			return err
		}
		out0, err := bodyInt(event, 2)
		if err != nil {
			return err
		}
		out1, err := bodyInt(event, 3)
		if err != nil {
			return err
		}
		a.absAdd(a.volume0, new(big.Int).Sub(in0, out0))
		a.absAdd(a.volume1, new(big.Int).Sub(in1, out1))
		a.stats.SwapCount++
	case events.EventSwapV3:
		if len(event.Body) != 5 {
			return fmt.Errorf("v3 swap: expected 5 body fields, got %d", len(event.Body))
		}
		amount0, err := bodyInt(event, 0)
		if err != nil {
			return err
		}
		amount1, err := bodyInt(event, 1)
		if err != nil {
			return err
		}
		a.absAdd(a.volume0, amount0)
		a.absAdd(a.volume1, amount1)
		a.stats.SqrtPriceX96 = event.Body[2].Value
		tick64, err := strconv.ParseInt(event.Body[4].Value, 10, 32)
		if err != nil {
			return fmt.Errorf("v3 swap: invalid tick %q", event.Body[4].Value)
		}
		tick := int32(tick64)
		a.stats.Tick = &tick
		a.stats.SwapCount++
	case events.EventSync:
		if len(event.Body) != 2 {
			return fmt.Errorf("sync: expected 2 body fields, got %d", len(event.Body))
		}
		a.stats.Reserve0 = event.Body[0].Value
		a.stats.Reserve1 = event.Body[1].Value
	case events.EventMintV2, events.EventMintV3:
		a.stats.MintCount++
	case events.EventBurnV2, events.EventBurnV3:
		a.stats.BurnCount++
	}
	return nil
}

func (a *poolAccumulator) absAdd(target *big.Int, value *big.Int) {
	target.Add(target, new(big.Int).Abs(value))
}

func (a *poolAccumulator) result() model.PoolStats {
	a.stats.Volume0 = a.volume0.String()
	a.stats.Volume1 = a.volume1.String()
	return a.stats
}

func bodyInt(event *model.DecodedEvent, index int) (*big.Int, error) {
	value, ok := new(big.Int).SetString(event.Body[index].Value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer %q", event.Event, event.Body[index].Value)
	}
	return value, nil
}

// PoolStats derives liquidity-pool statistics over the block range:
// swap/mint/burn counts, absolute volumes, last reserves (V2 Sync) and
// last price/tick (V3 Swap).
func (s *Service) PoolStats(ctx context.Context, chainID uint64, pool string, fromBlock, toBlock uint64) (model.PoolStats, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return model.PoolStats{}, err
	}
	poolAddr, err := parseWallet(pool)
	if err != nil {
		return model.PoolStats{}, err
	}

	query := querysvc.PoolEvents(poolAddr, fromBlock, optionalToBlock(toBlock))
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return model.PoolStats{}, fmt.Errorf("pool stats: %w", err)
	}

	effectiveTo := toBlock
	if effectiveTo == 0 {
		effectiveTo = resp.ArchiveHeight
	}

	accumulator := newPoolAccumulator(chainID, poolAddr.Hex(), fromBlock, effectiveTo)
	for _, event := range sess.decoder.Decode(resp.Data.Logs) {
		if err := accumulator.add(event); err != nil {
			s.logger.Warn("skip pool event", zap.Error(err))
		}
	}

	stats := accumulator.result()
	s.logger.Debug("pool stats derived",
		zap.Uint64("chain_id", chainID),
		zap.String("pool", poolAddr.Hex()),
		zap.Uint64("swaps", stats.SwapCount),
	)
	return stats, nil
}
