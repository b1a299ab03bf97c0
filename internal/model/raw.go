package model

// RawLog is a log record as returned by the query service.
type RawLog struct {
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash,omitempty"`
	TxHash      string   `json:"transaction_hash,omitempty"`
	TxIndex     uint64   `json:"transaction_index,omitempty"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed,omitempty"`
}

// RawTransaction is a transaction record as returned by the query service.
type RawTransaction struct {
	BlockNumber uint64 `json:"block_number"`
	Hash        string `json:"hash"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Input       string `json:"input,omitempty"`
	Output      string `json:"output,omitempty"`
	Value       string `json:"value,omitempty"`
	Status      uint64 `json:"status,omitempty"`
}

// RawBlock is a block header record as returned by the query service.
type RawBlock struct {
	Number    uint64 `json:"number"`
	Hash      string `json:"hash,omitempty"`
	Timestamp uint64 `json:"timestamp,omitempty"`
}
