// Package derive computes request-scoped views (balances, holdings,
// metadata, swap records, activity, pool stats) from raw query-service
// results. Every derivation recomputes from scratch over the requested
// block range; nothing is persisted or cached across calls, and no
// retries happen at this layer.
package derive

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainlens/internal/decode"
	"chainlens/internal/querysvc"
)

// Service is the derivation facade. Each operation ensures chain
// registration, issues exactly one query (the metadata probe issues
// four in parallel), decodes, aggregates, and returns a plain value.
type Service struct {
	registry *Registry
	logger   *zap.Logger
}

// NewService builds the facade over a registry.
func NewService(registry *Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, logger: logger}
}

// session bundles the per-call dependencies resolved by ensure.
type session struct {
	client  *querysvc.Client
	decoder *decode.LogDecoder
}

func (s *Service) ensure(chainID uint64) (session, error) {
	if err := s.registry.EnsureChain(chainID); err != nil {
		return session{}, err
	}
	client, err := s.registry.Client(chainID)
	if err != nil {
		return session{}, err
	}
	decoder, err := s.registry.Decoder()
	if err != nil {
		return session{}, err
	}
	return session{client: client, decoder: decoder}, nil
}

func parseWallet(input string) (common.Address, error) {
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

func optionalToBlock(toBlock uint64) *uint64 {
	if toBlock == 0 {
		return nil
	}
	return &toBlock
}
