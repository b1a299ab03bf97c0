package derive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

const (
	namePayload = "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000008" +
		"55534420436f696e000000000000000000000000000000000000000000000000"
	symbolPayload = "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5553444300000000000000000000000000000000000000000000000000000000"
	decimalsPayload = "0x0000000000000000000000000000000000000000000000000000000000000006"
	supplyPayload   = "0x00000000000000000000000000000000000000000000d3c21bcecceda1000000"
)

func metadataTestServer(t *testing.T, outputs map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/height" {
			_, _ = w.Write([]byte(`{"height": 19000000}`))
			return
		}

		var query querysvc.Query
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Errorf("decode query: %v", err)
		}
		if len(query.Transactions) != 1 || len(query.Transactions[0].Input) != 1 {
			t.Errorf("expected one selector filter, got %+v", query.Transactions)
		}

		selector := query.Transactions[0].Input[0]
		response := querysvc.Response{ArchiveHeight: 19000000}
		if output, ok := outputs[selector]; ok {
			response.Data.Transactions = []model.RawTransaction{
				{BlockNumber: 19000000, Hash: "0x1", Output: output},
			}
		}
		body, _ := json.Marshal(response)
		_, _ = w.Write(body)
	}))
}

func metadataService(t *testing.T, endpoint string) *Service {
	t.Helper()
	catalog := []model.ChainConfig{{ChainID: 1, Name: "Test", Endpoint: endpoint}}
	return NewService(NewRegistry(catalog, zap.NewNop()), zap.NewNop())
}

func TestTokenMetadataAllProbes(t *testing.T) {
	server := metadataTestServer(t, map[string]string{
		"0x06fdde03": namePayload,
		"0x95d89b41": symbolPayload,
		"0x313ce567": decimalsPayload,
		"0x18160ddd": supplyPayload,
	})
	defer server.Close()

	svc := metadataService(t, server.URL)
	meta, err := svc.TokenMetadata(context.Background(), 1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	if meta.Name != "USD Coin" {
		t.Fatalf("name: %q", meta.Name)
	}
	if meta.Symbol != "USDC" {
		t.Fatalf("symbol: %q", meta.Symbol)
	}
	if meta.Decimals != 6 {
		t.Fatalf("decimals: %d", meta.Decimals)
	}
	if meta.TotalSupply != "1000000000000000000000000" {
		t.Fatalf("total supply: %s", meta.TotalSupply)
	}
}

func TestTokenMetadataPartialFallback(t *testing.T) {
	// Only symbol answers; every other field keeps its default.
	server := metadataTestServer(t, map[string]string{
		"0x95d89b41": symbolPayload,
	})
	defer server.Close()

	svc := metadataService(t, server.URL)
	meta, err := svc.TokenMetadata(context.Background(), 1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	if meta.Symbol != "USDC" {
		t.Fatalf("symbol: %q", meta.Symbol)
	}
	if meta.Name != model.DefaultTokenName {
		t.Fatalf("name should default, got %q", meta.Name)
	}
	if meta.Decimals != model.DefaultTokenDecimals {
		t.Fatalf("decimals should default to 18, got %d", meta.Decimals)
	}
	if meta.TotalSupply != "0" {
		t.Fatalf("total supply should default, got %s", meta.TotalSupply)
	}
}

func TestTokenMetadataEmptyOutputFallsBack(t *testing.T) {
	server := metadataTestServer(t, map[string]string{
		"0x313ce567": "0x",
	})
	defer server.Close()

	svc := metadataService(t, server.URL)
	meta, err := svc.TokenMetadata(context.Background(), 1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Decimals != 18 {
		t.Fatalf("empty decimals payload must fall back to 18, got %d", meta.Decimals)
	}
}

func TestTokenMetadataUnsupportedChain(t *testing.T) {
	svc := metadataService(t, "http://unused.test")
	_, err := svc.TokenMetadata(context.Background(), 999, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err == nil {
		t.Fatalf("expected unsupported chain error")
	}
}
