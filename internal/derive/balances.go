package derive

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// BalanceAggregator folds decoded ERC20 Transfer events into per-token
// received totals. Only incoming amounts are summed; the result is the
// gross receipts over the window, not a ledger balance.
type BalanceAggregator struct {
	totals map[string]*big.Int
	order  []string
}

// NewBalanceAggregator returns an empty aggregator.
func NewBalanceAggregator() *BalanceAggregator {
	return &BalanceAggregator{totals: make(map[string]*big.Int)}
}

// Add folds one decoded event. Non-ERC20 events (nil, wrong signature,
// ERC721 four-topic transfers) are skipped.
func (a *BalanceAggregator) Add(event *model.DecodedEvent) error {
	if event == nil || event.Event != events.EventTransfer || len(event.Topics) != 3 {
		return nil
	}
	if len(event.Body) < 1 {
		return fmt.Errorf("transfer event without amount field")
	}
	amount, ok := new(big.Int).SetString(event.Body[0].Value, 10)
	if !ok {
		return fmt.Errorf("invalid transfer amount: %s", event.Body[0].Value)
	}

	total, seen := a.totals[event.Address]
	if !seen {
		total = big.NewInt(0)
		a.totals[event.Address] = total
		a.order = append(a.order, event.Address)
	}
	total.Add(total, amount)
	return nil
}

// Rows returns one row per token in first-seen order.
func (a *BalanceAggregator) Rows() []model.TokenBalance {
	rows := make([]model.TokenBalance, 0, len(a.order))
	for _, token := range a.order {
		rows = append(rows, model.TokenBalance{
			Token:   token,
			Balance: a.totals[token].String(),
		})
	}
	return rows
}

// TokenBalances derives gross-received per-token totals for a wallet
// over the block range. A toBlock of zero means "up to archive height".
func (s *Service) TokenBalances(ctx context.Context, chainID uint64, wallet string, fromBlock, toBlock uint64) ([]model.TokenBalance, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return nil, err
	}
	walletAddr, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}

	query := querysvc.TransfersToWallet(walletAddr, fromBlock, optionalToBlock(toBlock))
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("token balances: %w", err)
	}

	aggregator := NewBalanceAggregator()
	for _, event := range sess.decoder.Decode(resp.Data.Logs) {
		if err := aggregator.Add(event); err != nil {
			s.logger.Warn("skip transfer event", zap.Error(err))
		}
	}

	rows := aggregator.Rows()
	s.logger.Debug("token balances derived",
		zap.Uint64("chain_id", chainID),
		zap.String("wallet", walletAddr.Hex()),
		zap.Int("logs", len(resp.Data.Logs)),
		zap.Int("tokens", len(rows)),
	)
	return rows, nil
}
