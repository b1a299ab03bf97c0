package events

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const erc20ABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "spender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  },
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const erc721ABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  }
]`

const erc1155ABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "TransferSingle",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256[]", "name": "ids", "type": "uint256[]"},
      {"indexed": false, "internalType": "uint256[]", "name": "values", "type": "uint256[]"}
    ],
    "name": "TransferBatch",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "account", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "approved", "type": "bool"}
    ],
    "name": "ApprovalForAll",
    "type": "event"
  }
]`

const v2PairABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0In", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1In", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount0Out", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1Out", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"}
    ],
    "name": "Swap",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint112", "name": "reserve0", "type": "uint112"},
      {"indexed": false, "internalType": "uint112", "name": "reserve1", "type": "uint112"}
    ],
    "name": "Sync",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"}
    ],
    "name": "Mint",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"}
    ],
    "name": "Burn",
    "type": "event"
  }
]`

const v3PoolABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "recipient", "type": "address"},
      {"indexed": false, "internalType": "int256", "name": "amount0", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "amount1", "type": "int256"},
      {"indexed": false, "internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
      {"indexed": false, "internalType": "uint128", "name": "liquidity", "type": "uint128"},
      {"indexed": false, "internalType": "int24", "name": "tick", "type": "int24"}
    ],
    "name": "Swap",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "int24", "name": "tickLower", "type": "int24"},
      {"indexed": true, "internalType": "int24", "name": "tickUpper", "type": "int24"},
      {"indexed": false, "internalType": "uint128", "name": "amount", "type": "uint128"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"}
    ],
    "name": "Mint",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "int24", "name": "tickLower", "type": "int24"},
      {"indexed": true, "internalType": "int24", "name": "tickUpper", "type": "int24"},
      {"indexed": false, "internalType": "uint128", "name": "amount", "type": "uint128"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"}
    ],
    "name": "Burn",
    "type": "event"
  }
]`

var (
	catalogOnce sync.Once
	catalogErr  error

	erc20ABI   abi.ABI
	erc721ABI  abi.ABI
	erc1155ABI abi.ABI
	v2PairABI  abi.ABI
	v3PoolABI  abi.ABI
)

func parseCatalog() error {
	catalogOnce.Do(func() {
		parse := func(dst *abi.ABI, src string) {
			if catalogErr != nil {
				return
			}
			*dst, catalogErr = abi.JSON(strings.NewReader(src))
		}
		parse(&erc20ABI, erc20ABIJSON)
		parse(&erc721ABI, erc721ABIJSON)
		parse(&erc1155ABI, erc1155ABIJSON)
		parse(&v2PairABI, v2PairABIJSON)
		parse(&v3PoolABI, v3PoolABIJSON)
	})
	return catalogErr
}

// ERC20ABI returns the parsed ERC20 ABI (Transfer, Approval, introspection).
func ERC20ABI() (abi.ABI, error) {
	if err := parseCatalog(); err != nil {
		return abi.ABI{}, err
	}
	return erc20ABI, nil
}

// ERC721ABI returns the parsed ERC721 Transfer ABI.
func ERC721ABI() (abi.ABI, error) {
	if err := parseCatalog(); err != nil {
		return abi.ABI{}, err
	}
	return erc721ABI, nil
}

// ERC1155ABI returns the parsed ERC1155 ABI.
func ERC1155ABI() (abi.ABI, error) {
	if err := parseCatalog(); err != nil {
		return abi.ABI{}, err
	}
	return erc1155ABI, nil
}

// V2PairABI returns the parsed V2 pair ABI.
func V2PairABI() (abi.ABI, error) {
	if err := parseCatalog(); err != nil {
		return abi.ABI{}, err
	}
	return v2PairABI, nil
}

// V3PoolABI returns the parsed V3 pool ABI.
func V3PoolABI() (abi.ABI, error) {
	if err := parseCatalog(); err != nil {
		return abi.ABI{}, err
	}
	return v3PoolABI, nil
}

// Event names used across the catalog.
const (
	EventTransfer       = "Transfer"
	EventApproval       = "Approval"
	EventTransferSingle = "TransferSingle"
	EventTransferBatch  = "TransferBatch"
	EventApprovalForAll = "ApprovalForAll"
	EventSwapV2         = "SwapV2"
	EventSwapV3         = "SwapV3"
	EventSync           = "Sync"
	EventMintV2         = "MintV2"
	EventMintV3         = "MintV3"
	EventBurnV2         = "BurnV2"
	EventBurnV3         = "BurnV3"
)

// Topic hashes identifying the catalog's event signatures. The values are
// derived from the parsed ABIs so they cannot drift from the decode layout.
func TransferTopic() common.Hash       { mustParse(); return erc20ABI.Events["Transfer"].ID }
func ApprovalTopic() common.Hash       { mustParse(); return erc20ABI.Events["Approval"].ID }
func TransferSingleTopic() common.Hash { mustParse(); return erc1155ABI.Events["TransferSingle"].ID }
func TransferBatchTopic() common.Hash  { mustParse(); return erc1155ABI.Events["TransferBatch"].ID }
func ApprovalForAllTopic() common.Hash { mustParse(); return erc1155ABI.Events["ApprovalForAll"].ID }
func SwapV2Topic() common.Hash         { mustParse(); return v2PairABI.Events["Swap"].ID }
func SwapV3Topic() common.Hash         { mustParse(); return v3PoolABI.Events["Swap"].ID }
func SyncTopic() common.Hash           { mustParse(); return v2PairABI.Events["Sync"].ID }
func MintV2Topic() common.Hash         { mustParse(); return v2PairABI.Events["Mint"].ID }
func MintV3Topic() common.Hash         { mustParse(); return v3PoolABI.Events["Mint"].ID }
func BurnV2Topic() common.Hash         { mustParse(); return v2PairABI.Events["Burn"].ID }
func BurnV3Topic() common.Hash         { mustParse(); return v3PoolABI.Events["Burn"].ID }

func mustParse() {
	if err := parseCatalog(); err != nil {
		panic(err)
	}
}

// Selector is a 4-byte ABI function selector in 0x-hex form.
type Selector string

// ERC20 introspection selectors used by the metadata probe.
var (
	SelectorName        = selector("name()")
	SelectorSymbol      = selector("symbol()")
	SelectorDecimals    = selector("decimals()")
	SelectorTotalSupply = selector("totalSupply()")
)

func selector(signature string) Selector {
	hash := crypto.Keccak256([]byte(signature))
	return Selector("0x" + common.Bytes2Hex(hash[:4]))
}
