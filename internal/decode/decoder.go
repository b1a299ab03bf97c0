// Package decode turns raw query-service logs into structured events
// against the fixed signature catalog.
package decode

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
)

// LogDecoder decodes raw logs against the known event signatures. It is
// chain-independent and safe for concurrent use once constructed.
type LogDecoder struct {
	logger  *zap.Logger
	entries map[common.Hash]decodeEntry
}

type decodeEntry struct {
	name  string
	event abi.Event
}

// NewLogDecoder builds the decoder from the event catalog.
func NewLogDecoder(logger *zap.Logger) (*LogDecoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	erc20, err := events.ERC20ABI()
	if err != nil {
		return nil, err
	}
	erc1155, err := events.ERC1155ABI()
	if err != nil {
		return nil, err
	}
	v2, err := events.V2PairABI()
	if err != nil {
		return nil, err
	}
	v3, err := events.V3PoolABI()
	if err != nil {
		return nil, err
	}

	entries := map[common.Hash]decodeEntry{
		// The Transfer topic is resolved to ERC20 or ERC721 per log by
		// topic count, see decodeOne.
		events.ApprovalTopic():       {events.EventApproval, erc20.Events["Approval"]},
		events.TransferSingleTopic(): {events.EventTransferSingle, erc1155.Events["TransferSingle"]},
		events.TransferBatchTopic():  {events.EventTransferBatch, erc1155.Events["TransferBatch"]},
		events.ApprovalForAllTopic(): {events.EventApprovalForAll, erc1155.Events["ApprovalForAll"]},
		events.SwapV2Topic():         {events.EventSwapV2, v2.Events["Swap"]},
		events.SwapV3Topic():         {events.EventSwapV3, v3.Events["Swap"]},
		events.SyncTopic():           {events.EventSync, v2.Events["Sync"]},
		events.MintV2Topic():         {events.EventMintV2, v2.Events["Mint"]},
		events.MintV3Topic():         {events.EventMintV3, v3.Events["Mint"]},
		events.BurnV2Topic():         {events.EventBurnV2, v2.Events["Burn"]},
		events.BurnV3Topic():         {events.EventBurnV3, v3.Events["Burn"]},
	}

	return &LogDecoder{logger: logger, entries: entries}, nil
}

// Decode decodes a batch, one output per input log in order. A nil entry
// means the log matched no known signature, or matched one but carried
// malformed data; malformed logs are logged and isolated, never aborting
// the batch.
func (d *LogDecoder) Decode(logs []model.RawLog) []*model.DecodedEvent {
	out := make([]*model.DecodedEvent, len(logs))
	for i, log := range logs {
		event, err := d.decodeOne(log)
		if err != nil {
			d.logger.Warn("log decode failed",
				zap.Uint64("block_number", log.BlockNumber),
				zap.Uint64("log_index", log.LogIndex),
				zap.String("address", log.Address),
				zap.Error(err),
			)
			continue
		}
		out[i] = event
	}
	return out
}

func (d *LogDecoder) decodeOne(log model.RawLog) (*model.DecodedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	topic0, err := parseTopic(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("invalid topic0: %w", err)
	}

	var entry decodeEntry
	if topic0 == events.TransferTopic() {
		entry, err = transferEntry(len(log.Topics))
		if err != nil {
			return nil, err
		}
	} else {
		var ok bool
		entry, ok = d.entries[topic0]
		if !ok {
			return nil, nil
		}
	}

	indexedCount := len(indexedArguments(entry.event.Inputs))
	if len(log.Topics) != indexedCount+1 {
		return nil, fmt.Errorf("%s: expected %d topics, got %d", entry.name, indexedCount+1, len(log.Topics))
	}

	body, err := decodeBody(entry.event, log.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.name, err)
	}

	return &model.DecodedEvent{
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.LogIndex,
		Address:     log.Address,
		Event:       entry.name,
		Topic0:      log.Topics[0],
		Topics:      log.Topics,
		Body:        body,
	}, nil
}

// transferEntry disambiguates the shared Transfer topic: ERC20 indexes
// (from, to) for 3 topics, ERC721 additionally indexes tokenId for 4.
func transferEntry(topicCount int) (decodeEntry, error) {
	switch topicCount {
	case 3:
		erc20, err := events.ERC20ABI()
		if err != nil {
			return decodeEntry{}, err
		}
		return decodeEntry{events.EventTransfer, erc20.Events["Transfer"]}, nil
	case 4:
		erc721, err := events.ERC721ABI()
		if err != nil {
			return decodeEntry{}, err
		}
		return decodeEntry{events.EventTransfer, erc721.Events["Transfer"]}, nil
	default:
		return decodeEntry{}, fmt.Errorf("Transfer: unexpected topic count %d", topicCount)
	}
}

func decodeBody(event abi.Event, dataHex string) ([]model.DecodedValue, error) {
	nonIndexed := event.Inputs.NonIndexed()
	if len(nonIndexed) == 0 {
		return []model.DecodedValue{}, nil
	}

	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := nonIndexed.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	if len(values) != len(nonIndexed) {
		return nil, fmt.Errorf("expected %d values, got %d", len(nonIndexed), len(values))
	}

	body := make([]model.DecodedValue, 0, len(values))
	for i, value := range values {
		formatted, err := formatValue(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", nonIndexed[i].Name, err)
		}
		body = append(body, model.DecodedValue{
			Type:  nonIndexed[i].Type.String(),
			Value: formatted,
		})
	}
	return body, nil
}

func formatValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case *big.Int:
		return v.String(), nil
	case common.Address:
		return v.Hex(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case []*big.Int:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func parseTopic(topic string) (common.Hash, error) {
	data, err := hexutil.Decode(topic)
	if err != nil {
		return common.Hash{}, err
	}
	if len(data) != 32 {
		return common.Hash{}, fmt.Errorf("topic length %d", len(data))
	}
	return common.BytesToHash(data), nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
