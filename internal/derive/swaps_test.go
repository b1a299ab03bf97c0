package derive

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

var (
	testPool      = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testSender    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testRecipient = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func packedV3Swap(t *testing.T) model.RawLog {
	t.Helper()
	v3, err := events.V3PoolABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := v3.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(-1000),
		big.NewInt(2000),
		big.NewInt(79228162514264337),
		big.NewInt(987654321),
		big.NewInt(-15),
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return model.RawLog{
		BlockNumber: 100,
		TxHash:      "0xaaa",
		LogIndex:    1,
		Address:     testPool.Hex(),
		Topics: []string{
			events.SwapV3Topic().Hex(),
			querysvc.WalletTopic(testSender),
			querysvc.WalletTopic(testRecipient),
		},
		Data: hexutil.Encode(data),
	}
}

func packedV2Swap(t *testing.T) model.RawLog {
	t.Helper()
	v2, err := events.V2PairABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	data, err := v2.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(500), // amount0In
		big.NewInt(0),   // amount1In
		big.NewInt(0),   // amount0Out
		big.NewInt(450), // amount1Out
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return model.RawLog{
		BlockNumber: 101,
		TxHash:      "0xbbb",
		LogIndex:    2,
		Address:     testPool.Hex(),
		Topics: []string{
			events.SwapV2Topic().Hex(),
			querysvc.WalletTopic(testSender),
			querysvc.WalletTopic(testRecipient),
		},
		Data: hexutil.Encode(data),
	}
}

func logsServer(t *testing.T, logs []model.RawLog) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := querysvc.Response{ArchiveHeight: 200}
		response.Data.Logs = logs
		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(response)
		_, _ = w.Write(body)
	}))
}

func logsService(t *testing.T, endpoint string) *Service {
	t.Helper()
	catalog := []model.ChainConfig{{ChainID: 1, Name: "Test", Endpoint: endpoint}}
	return NewService(NewRegistry(catalog, zap.NewNop()), zap.NewNop())
}

func TestDexSwapsDecodesBothLayouts(t *testing.T) {
	server := logsServer(t, []model.RawLog{packedV3Swap(t), packedV2Swap(t)})
	defer server.Close()

	svc := logsService(t, server.URL)
	swaps, err := svc.DexSwaps(context.Background(), 1, testPool.Hex(), 0, 0)
	if err != nil {
		t.Fatalf("swaps: %v", err)
	}
	if len(swaps) != 2 {
		t.Fatalf("expected 2 swaps, got %d", len(swaps))
	}

	v3 := swaps[0]
	if v3.Protocol != model.ProtocolUniswapV3 {
		t.Fatalf("protocol: %s", v3.Protocol)
	}
	if v3.Amount0 != "-1000" || v3.Amount1 != "2000" {
		t.Fatalf("v3 amounts: %s / %s", v3.Amount0, v3.Amount1)
	}
	if v3.Tick == nil || *v3.Tick != -15 {
		t.Fatalf("v3 tick: %v", v3.Tick)
	}
	if v3.Sender != testSender.Hex() || v3.Recipient != testRecipient.Hex() {
		t.Fatalf("v3 parties: %s -> %s", v3.Sender, v3.Recipient)
	}

	v2 := swaps[1]
	if v2.Protocol != model.ProtocolUniswapV2 {
		t.Fatalf("protocol: %s", v2.Protocol)
	}
	// 500 of token0 in, 450 of token1 out.
	if v2.Amount0 != "500" || v2.Amount1 != "-450" {
		t.Fatalf("v2 amounts: %s / %s", v2.Amount0, v2.Amount1)
	}
	if v2.SqrtPriceX96 != "" || v2.Tick != nil {
		t.Fatalf("v2 swaps carry no price/tick")
	}
}

func TestTokenBalancesEndToEnd(t *testing.T) {
	erc20, err := events.ERC20ABI()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	pack := func(amount int64) string {
		data, err := erc20.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(amount))
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		return hexutil.Encode(data)
	}
	transferLog := func(token common.Address, amount int64) model.RawLog {
		return model.RawLog{
			BlockNumber: 10,
			Address:     token.Hex(),
			Topics: []string{
				events.TransferTopic().Hex(),
				querysvc.WalletTopic(testSender),
				querysvc.WalletTopic(testRecipient),
			},
			Data: pack(amount),
		}
	}

	tokenA := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenB := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	server := logsServer(t, []model.RawLog{
		transferLog(tokenA, 100),
		transferLog(tokenB, 7),
		transferLog(tokenA, 50),
	})
	defer server.Close()

	svc := logsService(t, server.URL)
	rows, err := svc.TokenBalances(context.Background(), 1, testRecipient.Hex(), 0, 0)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Token != tokenA.Hex() || rows[0].Balance != "150" {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Token != tokenB.Hex() || rows[1].Balance != "7" {
		t.Fatalf("row 1: %+v", rows[1])
	}
}
