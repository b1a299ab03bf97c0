package model

// DecodedValue is one decoded event field tagged with its ABI type.
// Numeric values are decimal strings, addresses are checksummed hex.
type DecodedValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DecodedEvent is a log that matched one of the known event signatures.
// A nil *DecodedEvent in a decode batch means the log matched nothing
// and must be skipped by aggregators.
type DecodedEvent struct {
	BlockNumber uint64         `json:"block_number"`
	TxHash      string         `json:"tx_hash,omitempty"`
	LogIndex    uint64         `json:"log_index"`
	Address     string         `json:"address"`
	Event       string         `json:"event"`
	Topic0      string         `json:"topic0"`
	Topics      []string       `json:"topics"`
	Body        []DecodedValue `json:"body"`
}
