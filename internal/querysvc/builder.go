package querysvc

import (
	"github.com/ethereum/go-ethereum/common"

	"chainlens/internal/events"
)

// Builders produce one declarative query per derivation task. Field
// selections request only the columns the derivation consumes, keeping
// payload size proportional to need.

var logFields = []string{
	"block_number", "log_index", "transaction_hash", "address", "topics", "data",
}

var txFields = []string{
	"block_number", "hash", "from", "to", "value", "status",
}

// WalletTopic left-zero-pads an address into the 32-byte form used for
// indexed address parameters.
func WalletTopic(wallet common.Address) string {
	return common.BytesToHash(wallet.Bytes()).Hex()
}

// TransfersToWallet selects ERC20/721 Transfer logs whose indexed `to`
// parameter (topic2) is the wallet.
func TransfersToWallet(wallet common.Address, fromBlock uint64, toBlock *uint64) Query {
	return Query{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Logs: []LogSelection{
			{
				Topics: [][]string{
					{events.TransferTopic().Hex()},
					{},
					{WalletTopic(wallet)},
				},
			},
		},
		FieldSelection: FieldSelection{Log: logFields},
	}
}

// NFTTransfersForWallet selects ERC721 Transfer and ERC1155
// TransferSingle/TransferBatch logs touching the wallet. The `to`
// position differs per signature: topic2 for Transfer, topic3 for the
// ERC1155 events. When includeOutgoing is set, mirrored selections on
// the `from` position are added so netting can observe departures.
func NFTTransfersForWallet(wallet common.Address, fromBlock uint64, toBlock *uint64, includeOutgoing bool) Query {
	walletTopic := WalletTopic(wallet)
	erc1155Topics := []string{
		events.TransferSingleTopic().Hex(),
		events.TransferBatchTopic().Hex(),
	}

	selections := []LogSelection{
		{Topics: [][]string{{events.TransferTopic().Hex()}, {}, {walletTopic}}},
		{Topics: [][]string{erc1155Topics, {}, {}, {walletTopic}}},
	}
	if includeOutgoing {
		selections = append(selections,
			LogSelection{Topics: [][]string{{events.TransferTopic().Hex()}, {walletTopic}}},
			LogSelection{Topics: [][]string{erc1155Topics, {}, {walletTopic}}},
		)
	}

	return Query{
		FromBlock:      fromBlock,
		ToBlock:        toBlock,
		Logs:           selections,
		FieldSelection: FieldSelection{Log: logFields},
	}
}

// MetadataCall selects transactions to the token whose input starts with
// the introspection selector, over a single-block window, requesting the
// input/output columns needed to recover the raw return payload.
func MetadataCall(token common.Address, selector events.Selector, block uint64) Query {
	toBlock := block
	return Query{
		FromBlock: block,
		ToBlock:   &toBlock,
		Transactions: []TxSelection{
			{
				To:    []string{token.Hex()},
				Input: []string{string(selector)},
			},
		},
		FieldSelection: FieldSelection{
			Transaction: []string{"block_number", "hash", "to", "input", "output"},
		},
	}
}

// SwapsForPool selects V2 and V3 Swap logs. An empty pool list matches
// swaps from any contract.
func SwapsForPool(pools []common.Address, fromBlock uint64, toBlock *uint64) Query {
	return Query{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Logs: []LogSelection{
			{
				Address: addressStrings(pools),
				Topics: [][]string{
					{events.SwapV2Topic().Hex(), events.SwapV3Topic().Hex()},
				},
			},
		},
		FieldSelection: FieldSelection{Log: logFields},
	}
}

// WalletTransactions selects transactions sent or received by the wallet.
func WalletTransactions(wallet common.Address, fromBlock uint64, toBlock *uint64) Query {
	return Query{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Transactions: []TxSelection{
			{From: []string{wallet.Hex()}},
			{To: []string{wallet.Hex()}},
		},
		FieldSelection: FieldSelection{Transaction: txFields},
	}
}

// PoolEvents selects the pool's swap, liquidity, and reserve events for
// both V2 and V3 layouts.
func PoolEvents(pool common.Address, fromBlock uint64, toBlock *uint64) Query {
	return Query{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Logs: []LogSelection{
			{
				Address: []string{pool.Hex()},
				Topics: [][]string{
					{
						events.SwapV2Topic().Hex(),
						events.SwapV3Topic().Hex(),
						events.SyncTopic().Hex(),
						events.MintV2Topic().Hex(),
						events.MintV3Topic().Hex(),
						events.BurnV2Topic().Hex(),
						events.BurnV3Topic().Hex(),
					},
				},
			},
		},
		FieldSelection: FieldSelection{Log: logFields},
	}
}

func addressStrings(addresses []common.Address) []string {
	if len(addresses) == 0 {
		return nil
	}
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		out = append(out, addr.Hex())
	}
	return out
}
