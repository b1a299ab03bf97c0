package derive

import (
	"math/big"
	"testing"

	"chainlens/internal/events"
	"chainlens/internal/model"
)

func transferEvent(token string, amount string) *model.DecodedEvent {
	return &model.DecodedEvent{
		Address: token,
		Event:   events.EventTransfer,
		Topics: []string{
			events.TransferTopic().Hex(),
			"0x0000000000000000000000002222222222222222222222222222222222222222",
			"0x0000000000000000000000003333333333333333333333333333333333333333",
		},
		Body: []model.DecodedValue{{Type: "uint256", Value: amount}},
	}
}

func TestBalanceAggregatorSumsPerToken(t *testing.T) {
	tokenA := "0xAAAAaAAAAAAAAaaaAAAAAAaaaaAaAAaaaAAAAAa1"
	tokenB := "0xBBBBbBBBBBBBBbbbBBBBBBbbbbBbBBbbbBBBBBb2"

	aggregator := NewBalanceAggregator()
	for _, event := range []*model.DecodedEvent{
		transferEvent(tokenA, "100"),
		transferEvent(tokenB, "7"),
		transferEvent(tokenA, "50"),
	} {
		if err := aggregator.Add(event); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	rows := aggregator.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	byToken := make(map[string]string)
	for _, row := range rows {
		byToken[row.Token] = row.Balance
	}
	if byToken[tokenA] != "150" {
		t.Fatalf("token A: got %s, want 150", byToken[tokenA])
	}
	if byToken[tokenB] != "7" {
		t.Fatalf("token B: got %s, want 7", byToken[tokenB])
	}
}

func TestBalanceAggregatorArbitraryPrecision(t *testing.T) {
	token := "0xCCCCcCCCCCCCCcccCCCCCCccccCcCCcccCCCCCc3"
	huge := new(big.Int).Lsh(big.NewInt(1), 200) // far beyond 64-bit

	aggregator := NewBalanceAggregator()
	if err := aggregator.Add(transferEvent(token, huge.String())); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := aggregator.Add(transferEvent(token, "1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	want := new(big.Int).Add(huge, big.NewInt(1)).String()
	rows := aggregator.Rows()
	if rows[0].Balance != want {
		t.Fatalf("got %s, want %s", rows[0].Balance, want)
	}
}

func TestBalanceAggregatorSkipsNonERC20(t *testing.T) {
	aggregator := NewBalanceAggregator()

	// nil sentinel from the decoder.
	if err := aggregator.Add(nil); err != nil {
		t.Fatalf("nil event: %v", err)
	}

	// ERC721 transfer: four topics, empty body.
	erc721 := &model.DecodedEvent{
		Address: "0xDDDDdDDDDDDDDdddDDDDDDddddDdDDdddDDDDDd4",
		Event:   events.EventTransfer,
		Topics:  []string{events.TransferTopic().Hex(), "0x1", "0x2", "0x3"},
		Body:    []model.DecodedValue{},
	}
	if err := aggregator.Add(erc721); err != nil {
		t.Fatalf("erc721 event: %v", err)
	}

	if len(aggregator.Rows()) != 0 {
		t.Fatalf("nothing should have been aggregated")
	}
}
