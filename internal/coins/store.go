package coins

import (
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Key prefix for the coin store.
var prefixCoin = []byte("c/") // c/<txid><index> -> Coin JSON

// Store implements Set backed by a storage.DB.
type Store struct {
	db storage.DB
}

// NewStore creates a new coin store backed by the given database.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// coinKey builds a storage key for an outpoint: "c/" + txid(32) + index(4).
func coinKey(op types.Outpoint) []byte {
	key := make([]byte, len(prefixCoin)+types.HashSize+4)
	copy(key, prefixCoin)
	copy(key[len(prefixCoin):], op.Bytes())
	return key
}

// GetCoin retrieves a coin by its outpoint.
func (s *Store) GetCoin(outpoint types.Outpoint) (*Coin, error) {
	data, err := s.db.Get(coinKey(outpoint))
	if err != nil {
		return nil, fmt.Errorf("coin get %s: %w", outpoint, err)
	}
	var c Coin
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("coin unmarshal: %w", err)
	}
	return &c, nil
}

// Put stores a coin.
func (s *Store) Put(c *Coin) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("coin marshal: %w", err)
	}
	if err := s.db.Put(coinKey(c.Outpoint), data); err != nil {
		return fmt.Errorf("coin put: %w", err)
	}
	return nil
}

// Delete removes a coin.
func (s *Store) Delete(outpoint types.Outpoint) error {
	if err := s.db.Delete(coinKey(outpoint)); err != nil {
		return fmt.Errorf("coin delete: %w", err)
	}
	return nil
}

// PutBatch stages a coin write on a batch.
func (s *Store) PutBatch(batch storage.Batch, c *Coin) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("coin marshal: %w", err)
	}
	return batch.Put(coinKey(c.Outpoint), data)
}

// DeleteBatch stages a coin removal on a batch.
func (s *Store) DeleteBatch(batch storage.Batch, outpoint types.Outpoint) error {
	return batch.Delete(coinKey(outpoint))
}

// Has checks if a coin exists for the given outpoint.
func (s *Store) Has(outpoint types.Outpoint) (bool, error) {
	return s.db.Has(coinKey(outpoint))
}

// ForEach iterates over all coins in the store.
func (s *Store) ForEach(fn func(*Coin) error) error {
	return s.db.ForEach(prefixCoin, func(key, value []byte) error {
		var c Coin
		if err := json.Unmarshal(value, &c); err != nil {
			return fmt.Errorf("coin unmarshal: %w", err)
		}
		return fn(&c)
	})
}
