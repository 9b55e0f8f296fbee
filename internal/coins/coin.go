// Package coins tracks the unspent outputs the naming layer cares about.
package coins

import (
	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Coin represents an unspent transaction output.
type Coin struct {
	Outpoint types.Outpoint     `json:"outpoint"`
	Value    uint64             `json:"value"`
	Address  types.Address      `json:"address"`
	Covenant *covenant.Covenant `json:"covenant,omitempty"`
	Height   uint64             `json:"height"`
}

// View is the read-only coin lookup the validator consumes.
type View interface {
	// GetCoin returns the coin for an outpoint, or storage.ErrNotFound.
	GetCoin(outpoint types.Outpoint) (*Coin, error)
}

// Set is the interface for coin storage.
type Set interface {
	View
	Put(coin *Coin) error
	Delete(outpoint types.Outpoint) error
	Has(outpoint types.Outpoint) (bool, error)
}
