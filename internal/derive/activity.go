package derive

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// WalletActivity summarizes the wallet's transactions over the block
// range: sent/received counts, block span, and distinct counterparties.
// LatestBlock carries the service's archive height.
func (s *Service) WalletActivity(ctx context.Context, chainID uint64, wallet string, fromBlock, toBlock uint64) (model.WalletActivitySnapshot, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return model.WalletActivitySnapshot{}, err
	}
	walletAddr, err := parseWallet(wallet)
	if err != nil {
		return model.WalletActivitySnapshot{}, err
	}

	query := querysvc.WalletTransactions(walletAddr, fromBlock, optionalToBlock(toBlock))
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return model.WalletActivitySnapshot{}, fmt.Errorf("wallet activity: %w", err)
	}

	snapshot := model.WalletActivitySnapshot{
		ChainID:     chainID,
		Address:     walletAddr.Hex(),
		FromBlock:   fromBlock,
		ToBlock:     toBlock,
		LatestBlock: resp.ArchiveHeight,
	}
	if snapshot.ToBlock == 0 {
		snapshot.ToBlock = resp.ArchiveHeight
	}

	walletLower := strings.ToLower(walletAddr.Hex())
	counterparties := make(map[string]struct{})
	seen := make(map[string]struct{})

	for _, tx := range resp.Data.Transactions {
		// The from/to selections can both match one transaction; count
		// each hash once.
		if _, dup := seen[tx.Hash]; dup && tx.Hash != "" {
			continue
		}
		if tx.Hash != "" {
			seen[tx.Hash] = struct{}{}
		}

		snapshot.TxCount++
		// First transaction seeds FirstBlock; a zero sentinel would lose a
		// genuine block-0 transaction.
		if snapshot.TxCount == 1 || tx.BlockNumber < snapshot.FirstBlock {
			snapshot.FirstBlock = tx.BlockNumber
		}
		if tx.BlockNumber > snapshot.LastBlock {
			snapshot.LastBlock = tx.BlockNumber
		}

		from := strings.ToLower(tx.From)
		to := strings.ToLower(tx.To)
		if from == walletLower {
			snapshot.SentCount++
			if to != "" && to != walletLower {
				counterparties[to] = struct{}{}
			}
		}
		if to == walletLower {
			snapshot.ReceivedCount++
			if from != "" && from != walletLower {
				counterparties[from] = struct{}{}
			}
		}
	}
	snapshot.UniqueCounterparties = len(counterparties)

	s.logger.Debug("wallet activity derived",
		zap.Uint64("chain_id", chainID),
		zap.String("wallet", walletAddr.Hex()),
		zap.Int("tx_count", snapshot.TxCount),
	)
	return snapshot, nil
}
