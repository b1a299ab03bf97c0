package decode

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
)

var (
	contract = common.HexToAddress("0x1111111111111111111111111111111111111111")
	sender   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	receiver = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func newTestDecoder(t *testing.T) *LogDecoder {
	t.Helper()
	decoder, err := NewLogDecoder(zap.NewNop())
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	return decoder
}

func buildRawLog(topic0 common.Hash, indexed []common.Hash, data []byte) model.RawLog {
	topics := make([]string, 0, len(indexed)+1)
	topics = append(topics, topic0.Hex())
	for _, topic := range indexed {
		topics = append(topics, topic.Hex())
	}
	return model.RawLog{
		BlockNumber: 19000001,
		TxHash:      "0xdeadbeef",
		LogIndex:    7,
		Address:     contract.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(data),
	}
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func packERC20Transfer(t *testing.T, amount *big.Int) []byte {
	t.Helper()
	erc20, err := events.ERC20ABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := erc20.Events["Transfer"].Inputs.NonIndexed().Pack(amount)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return data
}

func TestDecodePreservesOrderWithNilSentinel(t *testing.T) {
	decoder := newTestDecoder(t)

	matching := buildRawLog(events.TransferTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, packERC20Transfer(t, big.NewInt(1000)))

	unknownTopic := common.HexToHash("0x1234567890123456789012345678901234567890123456789012345678901234")
	nonMatching := buildRawLog(unknownTopic, nil, nil)

	out := decoder.Decode([]model.RawLog{nonMatching, matching})
	if len(out) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(out))
	}
	if out[0] != nil {
		t.Fatalf("non-matching position must be nil")
	}
	if out[1] == nil {
		t.Fatalf("matching position must be populated")
	}
	if out[1].Event != events.EventTransfer {
		t.Fatalf("event name: %s", out[1].Event)
	}
	if len(out[1].Body) != 1 || out[1].Body[0].Value != "1000" {
		t.Fatalf("body mismatch: %+v", out[1].Body)
	}
	if out[1].Body[0].Type != "uint256" {
		t.Fatalf("body type: %s", out[1].Body[0].Type)
	}
}

func TestDecodeTransferDisambiguation(t *testing.T) {
	decoder := newTestDecoder(t)

	erc20Log := buildRawLog(events.TransferTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, packERC20Transfer(t, big.NewInt(5)))

	tokenID := common.BigToHash(big.NewInt(42))
	erc721Log := buildRawLog(events.TransferTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
		tokenID,
	}, nil)

	out := decoder.Decode([]model.RawLog{erc20Log, erc721Log})
	if out[0] == nil || out[1] == nil {
		t.Fatalf("both logs should decode")
	}
	if len(out[0].Body) != 1 {
		t.Fatalf("ERC20 body should carry the amount")
	}
	if len(out[1].Body) != 0 {
		t.Fatalf("ERC721 body should be empty, token id is indexed")
	}
	if len(out[1].Topics) != 4 {
		t.Fatalf("ERC721 should keep 4 topics")
	}
}

func TestDecodeMalformedDataIsolated(t *testing.T) {
	decoder := newTestDecoder(t)

	malformed := buildRawLog(events.TransferTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, []byte{0x01, 0x02})

	good := buildRawLog(events.TransferTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, packERC20Transfer(t, big.NewInt(77)))

	out := decoder.Decode([]model.RawLog{malformed, good})
	if out[0] != nil {
		t.Fatalf("malformed log should decode to nil")
	}
	if out[1] == nil || out[1].Body[0].Value != "77" {
		t.Fatalf("good log must still decode: %+v", out[1])
	}
}

func TestDecodeTransferSingle(t *testing.T) {
	decoder := newTestDecoder(t)

	erc1155, err := events.ERC1155ABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := erc1155.Events["TransferSingle"].Inputs.NonIndexed().Pack(
		big.NewInt(9), big.NewInt(3),
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	operator := topicFromAddress(sender)
	log := buildRawLog(events.TransferSingleTopic(), []common.Hash{
		operator,
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, data)

	out := decoder.Decode([]model.RawLog{log})
	if out[0] == nil {
		t.Fatalf("TransferSingle should decode")
	}
	if out[0].Event != events.EventTransferSingle {
		t.Fatalf("event: %s", out[0].Event)
	}
	if out[0].Body[0].Value != "9" || out[0].Body[1].Value != "3" {
		t.Fatalf("body: %+v", out[0].Body)
	}
}

func TestDecodeSwapV3(t *testing.T) {
	decoder := newTestDecoder(t)

	v3, err := events.V3PoolABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := v3.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(-1000),
		big.NewInt(2000),
		big.NewInt(123456789),
		big.NewInt(987654321),
		big.NewInt(-15),
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	log := buildRawLog(events.SwapV3Topic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, data)

	out := decoder.Decode([]model.RawLog{log})
	if out[0] == nil {
		t.Fatalf("V3 swap should decode")
	}
	if out[0].Event != events.EventSwapV3 {
		t.Fatalf("event: %s", out[0].Event)
	}
	body := out[0].Body
	if body[0].Value != "-1000" || body[1].Value != "2000" {
		t.Fatalf("amounts: %+v", body)
	}
	if body[4].Value != "-15" || body[4].Type != "int24" {
		t.Fatalf("tick: %+v", body[4])
	}
}

func TestDecodeTransferBatchArrays(t *testing.T) {
	decoder := newTestDecoder(t)

	erc1155, err := events.ERC1155ABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := erc1155.Events["TransferBatch"].Inputs.NonIndexed().Pack(
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(10), big.NewInt(20)},
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	log := buildRawLog(events.TransferBatchTopic(), []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(sender),
		topicFromAddress(receiver),
	}, data)

	out := decoder.Decode([]model.RawLog{log})
	if out[0] == nil {
		t.Fatalf("TransferBatch should decode")
	}
	if out[0].Body[0].Value != "[1,2]" || out[0].Body[1].Value != "[10,20]" {
		t.Fatalf("arrays: %+v", out[0].Body)
	}
}
