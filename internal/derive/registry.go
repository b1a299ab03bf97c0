package derive

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"chainlens/internal/decode"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// Registry owns the chain catalog, the per-chain query-service clients,
// and the single shared log decoder. It is constructed once at process
// start and passed to every derivation; clients are created lazily and
// never torn down. The map is guarded by a mutex so concurrent first
// calls for the same chain create exactly one client.
type Registry struct {
	catalog map[uint64]model.ChainConfig
	logger  *zap.Logger

	mu      sync.Mutex
	clients map[uint64]*querysvc.Client
	decoder *decode.LogDecoder
}

// NewRegistry builds a registry over an immutable catalog.
func NewRegistry(catalog []model.ChainConfig, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[uint64]model.ChainConfig, len(catalog))
	for _, cfg := range catalog {
		byID[cfg.ChainID] = cfg
	}
	return &Registry{
		catalog: byID,
		logger:  logger,
		clients: make(map[uint64]*querysvc.Client),
	}
}

// EnsureChain creates the chain's client (and the shared decoder on
// first use) if absent. Idempotent: repeated calls for the same chain
// are no-ops after the first success.
func (r *Registry) EnsureChain(chainID uint64) error {
	cfg, ok := r.catalog[chainID]
	if !ok {
		return &UnsupportedChainError{ChainID: chainID}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.decoder == nil {
		decoder, err := decode.NewLogDecoder(r.logger)
		if err != nil {
			return err
		}
		r.decoder = decoder
	}

	if _, ok := r.clients[chainID]; !ok {
		r.clients[chainID] = querysvc.NewClient(cfg.Endpoint)
		r.logger.Info("query-service client created",
			zap.Uint64("chain_id", chainID),
			zap.String("name", cfg.Name),
			zap.String("endpoint", cfg.Endpoint),
		)
	}
	return nil
}

// Client returns the cached client for the chain.
func (r *Registry) Client(chainID uint64) (*querysvc.Client, error) {
	r.mu.Lock()
	client, ok := r.clients[chainID]
	r.mu.Unlock()
	if !ok {
		return nil, &ClientNotReadyError{ChainID: chainID}
	}
	return client, nil
}

// Decoder returns the shared log decoder.
func (r *Registry) Decoder() (*decode.LogDecoder, error) {
	r.mu.Lock()
	decoder := r.decoder
	r.mu.Unlock()
	if decoder == nil {
		return nil, &ClientNotReadyError{}
	}
	return decoder, nil
}

// ListSupportedChains returns the full catalog sorted by chain id. It
// has no side effects.
func (r *Registry) ListSupportedChains() []model.ChainConfig {
	out := make([]model.ChainConfig, 0, len(r.catalog))
	for _, cfg := range r.catalog {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}
