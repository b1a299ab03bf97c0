package storage

import "chainlens/internal/model"

// Storage defines a sink for derived swap rows.
type Storage interface {
	PutSwapBatch(swaps []model.DexSwapEvent) error
}
