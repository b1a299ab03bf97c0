package model

// ChainConfig describes one supported network and its query-service endpoint.
type ChainConfig struct {
	ChainID      uint64 `json:"chain_id" mapstructure:"chain_id"`
	Name         string `json:"name" mapstructure:"name"`
	Endpoint     string `json:"endpoint" mapstructure:"endpoint"`
	TraceSupport bool   `json:"trace_support" mapstructure:"trace_support"`
}
