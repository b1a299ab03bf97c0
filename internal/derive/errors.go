package derive

import "fmt"

// UnsupportedChainError reports a chain id absent from the catalog.
type UnsupportedChainError struct {
	ChainID uint64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain id: %d", e.ChainID)
}

// ClientNotReadyError reports a lookup for a chain whose client was
// never created via EnsureChain. Reaching it means a caller skipped the
// registration step.
type ClientNotReadyError struct {
	ChainID uint64
}

func (e *ClientNotReadyError) Error() string {
	return fmt.Sprintf("no client for chain id %d: EnsureChain was not called", e.ChainID)
}
