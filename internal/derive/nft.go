package derive

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// NFTOwnershipTracker folds ERC721/ERC1155 transfer events into a
// per-(contract, token id) holding map. The last event observed in the
// decoded sequence wins for its key; batch order is log order from the
// query response, which is chronological by block and log index.
//
// By default no netting happens: an ERC721 transfer sets the balance to
// 1 and a TransferSingle sets it to the absolute value field, whether
// the wallet is sender or recipient. With NetOutgoing set, events that
// move the token away from the wallet zero the balance instead, turning
// the view into a current-holder snapshot.
type NFTOwnershipTracker struct {
	wallet      common.Address
	netOutgoing bool
	entries     map[nftKey]model.NFTHolding
	order       []nftKey
}

type nftKey struct {
	contract string
	tokenID  string
}

// NewNFTOwnershipTracker returns an empty tracker for the wallet.
func NewNFTOwnershipTracker(wallet common.Address, netOutgoing bool) *NFTOwnershipTracker {
	return &NFTOwnershipTracker{
		wallet:      wallet,
		netOutgoing: netOutgoing,
		entries:     make(map[nftKey]model.NFTHolding),
	}
}

// Add folds one decoded event. TransferBatch is matched by topic
// upstream but not expanded per-item, so it is skipped here. Unrelated
// and nil events are skipped.
func (t *NFTOwnershipTracker) Add(event *model.DecodedEvent) error {
	if event == nil {
		return nil
	}

	var holding model.NFTHolding
	var toTopic string
	switch {
	case event.Event == events.EventTransfer && len(event.Topics) == 4:
		tokenID, err := topicToDecimal(event.Topics[3])
		if err != nil {
			return fmt.Errorf("erc721 token id: %w", err)
		}
		holding = model.NFTHolding{
			Contract: event.Address,
			TokenID:  tokenID,
			Standard: model.StandardERC721,
			Balance:  "1",
		}
		toTopic = event.Topics[2]
	case event.Event == events.EventTransferSingle:
		if len(event.Body) < 2 {
			return fmt.Errorf("transfer single without id/value fields")
		}
		value, ok := new(big.Int).SetString(event.Body[1].Value, 10)
		if !ok {
			return fmt.Errorf("invalid transfer single value: %s", event.Body[1].Value)
		}
		holding = model.NFTHolding{
			Contract: event.Address,
			TokenID:  event.Body[0].Value,
			Standard: model.StandardERC1155,
			Balance:  value.Abs(value).String(),
		}
		toTopic = event.Topics[3]
	default:
		return nil
	}

	if t.netOutgoing && !topicMatchesAddress(toTopic, t.wallet) {
		holding.Balance = "0"
	}

	key := nftKey{contract: holding.Contract, tokenID: holding.TokenID}
	if _, seen := t.entries[key]; !seen {
		t.order = append(t.order, key)
	}
	t.entries[key] = holding
	return nil
}

// Rows returns one row per key in first-seen order; later events for a
// key have already overwritten earlier ones.
func (t *NFTOwnershipTracker) Rows() []model.NFTHolding {
	rows := make([]model.NFTHolding, 0, len(t.order))
	for _, key := range t.order {
		rows = append(rows, t.entries[key])
	}
	return rows
}

func topicToDecimal(topic string) (string, error) {
	trimmed := strings.TrimPrefix(topic, "0x")
	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return "", fmt.Errorf("invalid topic value: %s", topic)
	}
	return value.String(), nil
}

func topicMatchesAddress(topic string, addr common.Address) bool {
	return common.HexToAddress(topic) == addr
}

// NFTHoldings derives the wallet's NFT holding map over the block range.
// netOutgoing selects the stricter current-holder mode.
func (s *Service) NFTHoldings(ctx context.Context, chainID uint64, wallet string, fromBlock, toBlock uint64, netOutgoing bool) ([]model.NFTHolding, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return nil, err
	}
	walletAddr, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}

	query := querysvc.NFTTransfersForWallet(walletAddr, fromBlock, optionalToBlock(toBlock), netOutgoing)
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("nft holdings: %w", err)
	}

	tracker := NewNFTOwnershipTracker(walletAddr, netOutgoing)
	for _, event := range sess.decoder.Decode(resp.Data.Logs) {
		if err := tracker.Add(event); err != nil {
			s.logger.Warn("skip nft event", zap.Error(err))
		}
	}

	rows := tracker.Rows()
	s.logger.Debug("nft holdings derived",
		zap.Uint64("chain_id", chainID),
		zap.String("wallet", walletAddr.Hex()),
		zap.Int("logs", len(resp.Data.Logs)),
		zap.Int("holdings", len(rows)),
	)
	return rows, nil
}
