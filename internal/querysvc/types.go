package querysvc

import "chainlens/internal/model"

// Query is the declarative request accepted by the ledger-query service.
// Filters inside Logs and Transactions are OR-ed; fields within one
// selection are AND-ed.
type Query struct {
	FromBlock      uint64         `json:"from_block"`
	ToBlock        *uint64        `json:"to_block,omitempty"`
	Logs           []LogSelection `json:"logs,omitempty"`
	Transactions   []TxSelection  `json:"transactions,omitempty"`
	FieldSelection FieldSelection `json:"field_selection"`
}

// LogSelection filters logs by emitting address and topic values. Topics
// is positional: Topics[0] matches topic0, Topics[2] matches topic2; an
// empty inner slice matches anything at that position.
type LogSelection struct {
	Address []string   `json:"address,omitempty"`
	Topics  [][]string `json:"topics,omitempty"`
}

// TxSelection filters transactions by hash, sender, recipient, or input
// prefix (4-byte selector).
type TxSelection struct {
	Hash  []string `json:"hash,omitempty"`
	From  []string `json:"from,omitempty"`
	To    []string `json:"to,omitempty"`
	Input []string `json:"input,omitempty"`
}

// FieldSelection names the columns the response should carry, per table.
type FieldSelection struct {
	Block       []string `json:"block,omitempty"`
	Log         []string `json:"log,omitempty"`
	Transaction []string `json:"transaction,omitempty"`
}

// Response is the query-service reply. ArchiveHeight is the service's
// latest indexed block number.
type Response struct {
	Data          ResponseData `json:"data"`
	ArchiveHeight uint64       `json:"archive_height"`
}

// ResponseData carries the selected rows.
type ResponseData struct {
	Logs         []model.RawLog         `json:"logs"`
	Transactions []model.RawTransaction `json:"transactions"`
	Blocks       []model.RawBlock       `json:"blocks"`
}
