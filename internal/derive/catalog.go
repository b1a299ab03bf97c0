package derive

import "chainlens/internal/model"

// DefaultChains is the built-in chain catalog. A config file may replace
// it entirely; ids must stay unique.
func DefaultChains() []model.ChainConfig {
	return []model.ChainConfig{
		{ChainID: 1, Name: "Ethereum", Endpoint: "https://eth.hypersync.xyz", TraceSupport: true},
		{ChainID: 10, Name: "Optimism", Endpoint: "https://optimism.hypersync.xyz", TraceSupport: false},
		{ChainID: 56, Name: "BNB Smart Chain", Endpoint: "https://bsc.hypersync.xyz", TraceSupport: false},
		{ChainID: 137, Name: "Polygon", Endpoint: "https://polygon.hypersync.xyz", TraceSupport: false},
		{ChainID: 8453, Name: "Base", Endpoint: "https://base.hypersync.xyz", TraceSupport: false},
		{ChainID: 42161, Name: "Arbitrum One", Endpoint: "https://arbitrum.hypersync.xyz", TraceSupport: false},
	}
}
