package derive

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// DexSwaps derives decoded swap records for the pool (or for all
// contracts when pool is empty) over the block range. Both the V2 and
// V3 Swap layouts are fully decoded; amounts are signed from the pool's
// perspective, positive flowing in.
func (s *Service) DexSwaps(ctx context.Context, chainID uint64, pool string, fromBlock, toBlock uint64) ([]model.DexSwapEvent, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return nil, err
	}

	var pools []common.Address
	if pool != "" {
		poolAddr, err := parseWallet(pool)
		if err != nil {
			return nil, err
		}
		pools = []common.Address{poolAddr}
	}

	query := querysvc.SwapsForPool(pools, fromBlock, optionalToBlock(toBlock))
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dex swaps: %w", err)
	}

	swaps := make([]model.DexSwapEvent, 0, len(resp.Data.Logs))
	for _, event := range sess.decoder.Decode(resp.Data.Logs) {
		if event == nil {
			continue
		}
		swap, err := swapFromEvent(chainID, event)
		if err != nil {
			s.logger.Warn("skip swap event",
				zap.Uint64("block_number", event.BlockNumber),
				zap.Uint64("log_index", event.LogIndex),
				zap.Error(err),
			)
			continue
		}
		if swap != nil {
			swaps = append(swaps, *swap)
		}
	}

	s.logger.Debug("dex swaps derived",
		zap.Uint64("chain_id", chainID),
		zap.Int("logs", len(resp.Data.Logs)),
		zap.Int("swaps", len(swaps)),
	)
	return swaps, nil
}

func swapFromEvent(chainID uint64, event *model.DecodedEvent) (*model.DexSwapEvent, error) {
	switch event.Event {
	case events.EventSwapV2:
		return swapFromV2(chainID, event)
	case events.EventSwapV3:
		return swapFromV3(chainID, event)
	default:
		return nil, nil
	}
}

// V2 body layout: amount0In, amount1In, amount0Out, amount1Out. The
// signed per-token amount is in minus out.
func swapFromV2(chainID uint64, event *model.DecodedEvent) (*model.DexSwapEvent, error) {
	if len(event.Body) != 4 {
		return nil, fmt.Errorf("v2 swap: expected 4 body fields, got %d", len(event.Body))
	}
	if len(event.Topics) != 3 {
		return nil, fmt.Errorf("v2 swap: expected 3 topics, got %d", len(event.Topics))
	}

	values := make([]*big.Int, 4)
	for i, field := range event.Body {
		value, ok := new(big.Int).SetString(field.Value, 10)
		if !ok {
			return nil, fmt.Errorf("v2 swap: invalid amount %q", field.Value)
		}
		values[i] = value
	}

	amount0 := new(big.Int).Sub(values[0], values[2])
	amount1 := new(big.Int).Sub(values[1], values[3])

	return &model.DexSwapEvent{
		ChainID:     chainID,
		Pool:        event.Address,
		Protocol:    model.ProtocolUniswapV2,
		Sender:      common.HexToAddress(event.Topics[1]).Hex(),
		Recipient:   common.HexToAddress(event.Topics[2]).Hex(),
		Amount0:     amount0.String(),
		Amount1:     amount1.String(),
		BlockNumber: event.BlockNumber,
		TxHash:      event.TxHash,
		LogIndex:    event.LogIndex,
	}, nil
}

// V3 body layout: amount0, amount1, sqrtPriceX96, liquidity, tick.
func swapFromV3(chainID uint64, event *model.DecodedEvent) (*model.DexSwapEvent, error) {
	if len(event.Body) != 5 {
		return nil, fmt.Errorf("v3 swap: expected 5 body fields, got %d", len(event.Body))
	}
	if len(event.Topics) != 3 {
		return nil, fmt.Errorf("v3 swap: expected 3 topics, got %d", len(event.Topics))
	}

	tick64, err := strconv.ParseInt(event.Body[4].Value, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("v3 swap: invalid tick %q", event.Body[4].Value)
	}
	tick := int32(tick64)

	return &model.DexSwapEvent{
		ChainID:      chainID,
		Pool:         event.Address,
		Protocol:     model.ProtocolUniswapV3,
		Sender:       common.HexToAddress(event.Topics[1]).Hex(),
		Recipient:    common.HexToAddress(event.Topics[2]).Hex(),
		Amount0:      event.Body[0].Value,
		Amount1:      event.Body[1].Value,
		SqrtPriceX96: event.Body[2].Value,
		Liquidity:    event.Body[3].Value,
		Tick:         &tick,
		BlockNumber:  event.BlockNumber,
		TxHash:       event.TxHash,
		LogIndex:     event.LogIndex,
	}, nil
}
