package model

// TokenBalance is one derived balance row. Balance is the gross sum of
// amounts received by the wallet over the queried range, as a decimal
// string; outgoing transfers are not subtracted, so this is a
// received-amount total, not an account balance.
type TokenBalance struct {
	Token   string `json:"token"`
	Balance string `json:"balance"`
}

// NFTHolding is one derived NFT ownership row, keyed by (contract, token id).
type NFTHolding struct {
	Contract string `json:"contract"`
	TokenID  string `json:"token_id"`
	Standard string `json:"standard"`
	Balance  string `json:"balance"`
}

// NFT standard tags.
const (
	StandardERC721  = "ERC721"
	StandardERC1155 = "ERC1155"
)

// TokenMetadata is the ERC20 introspection result. Fields whose probe
// failed carry the documented defaults instead.
type TokenMetadata struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"total_supply"`
}

// Metadata defaults applied when a probe call fails or returns empty data.
const (
	DefaultTokenName     = "Unknown"
	DefaultTokenSymbol   = "UNKNOWN"
	DefaultTokenDecimals = uint8(18)
)

// DexSwapEvent is one decoded swap. Amount0/Amount1 are signed decimal
// strings from the pool's perspective: positive flows into the pool.
// SqrtPriceX96, Liquidity and Tick are present for V3 swaps only.
type DexSwapEvent struct {
	ChainID      uint64 `json:"chain_id"`
	Pool         string `json:"pool"`
	Protocol     string `json:"protocol"`
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
	Liquidity    string `json:"liquidity,omitempty"`
	Tick         *int32 `json:"tick,omitempty"`
	BlockNumber  uint64 `json:"block_number"`
	TxHash       string `json:"tx_hash"`
	LogIndex     uint64 `json:"log_index"`
}

// Swap protocol tags.
const (
	ProtocolUniswapV2 = "uniswap-v2"
	ProtocolUniswapV3 = "uniswap-v3"
)

// WalletActivitySnapshot summarizes wallet transactions over a range.
type WalletActivitySnapshot struct {
	ChainID              uint64 `json:"chain_id"`
	Address              string `json:"address"`
	FromBlock            uint64 `json:"from_block"`
	ToBlock              uint64 `json:"to_block"`
	LatestBlock          uint64 `json:"latest_block"`
	TxCount              int    `json:"tx_count"`
	SentCount            int    `json:"sent_count"`
	ReceivedCount        int    `json:"received_count"`
	FirstBlock           uint64 `json:"first_block"`
	LastBlock            uint64 `json:"last_block"`
	UniqueCounterparties int    `json:"unique_counterparties"`
}

// PoolStats aggregates decoded pool events over a range. Volume0/Volume1
// are absolute-summed decimal strings. Reserve0/Reserve1 come from the
// last V2 Sync event; SqrtPriceX96/Tick from the last V3 Swap.
type PoolStats struct {
	ChainID      uint64 `json:"chain_id"`
	Pool         string `json:"pool"`
	FromBlock    uint64 `json:"from_block"`
	ToBlock      uint64 `json:"to_block"`
	SwapCount    uint64 `json:"swap_count"`
	MintCount    uint64 `json:"mint_count"`
	BurnCount    uint64 `json:"burn_count"`
	Volume0      string `json:"volume0"`
	Volume1      string `json:"volume1"`
	Reserve0     string `json:"reserve0,omitempty"`
	Reserve1     string `json:"reserve1,omitempty"`
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
	Tick         *int32 `json:"tick,omitempty"`
}
