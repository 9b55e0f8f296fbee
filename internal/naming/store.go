package naming

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Key prefixes for the name index.
var (
	prefixState    = []byte("n/") // n/<hash>                -> NameState JSON (current)
	prefixSnapshot = []byte("s/") // s/<hash><height_be8>    -> NameState JSON (as of height)
	prefixBid      = []byte("b/") // b/<hash><txid><index>   -> bid record JSON
	prefixReveal   = []byte("r/") // r/<hash><txid><index>   -> reveal record JSON
)

// stateCacheSize bounds the in-memory name state cache.
const stateCacheSize = 4096

// Auction records are retired, not deleted, so a reorg can resurrect them
// by clearing the retirement height.
type bidRecord struct {
	BidState
	RetiredHeight uint64 `json:"retired_height,omitempty"`
}

type revealRecord struct {
	RevealState
	RetiredHeight uint64 `json:"retired_height,omitempty"`
}

// Store is the persistent name index: current state per name, a snapshot
// per state change for reorg rollback, and the auction's bid and reveal
// records. Writes go through a storage.Batch so a block commits atomically;
// the caller owns the batch and its commit.
//
// NameState values handed out by the store are shared and must be treated
// as immutable; Clone before modifying.
type Store struct {
	db    storage.DB
	cache *lru.Cache[types.NameHash, *NameState]
}

// NewStore opens a name index over the given database.
func NewStore(db storage.DB) (*Store, error) {
	cache, err := lru.New[types.NameHash, *NameState](stateCacheSize)
	if err != nil {
		return nil, fmt.Errorf("name cache: %w", err)
	}
	return &Store{db: db, cache: cache}, nil
}

func stateKey(nameHash types.NameHash) []byte {
	key := make([]byte, len(prefixState)+types.HashSize)
	copy(key, prefixState)
	copy(key[len(prefixState):], nameHash[:])
	return key
}

func snapshotKey(nameHash types.NameHash, height uint64) []byte {
	key := make([]byte, len(prefixSnapshot)+types.HashSize+8)
	copy(key, prefixSnapshot)
	copy(key[len(prefixSnapshot):], nameHash[:])
	binary.BigEndian.PutUint64(key[len(prefixSnapshot)+types.HashSize:], height)
	return key
}

func recordKey(prefix []byte, nameHash types.NameHash, op types.Outpoint) []byte {
	key := make([]byte, 0, len(prefix)+types.HashSize+types.HashSize+4)
	key = append(key, prefix...)
	key = append(key, nameHash[:]...)
	key = append(key, op.Bytes()...)
	return key
}

// GetState returns the current state of a name, or storage.ErrNotFound.
func (s *Store) GetState(nameHash types.NameHash) (*NameState, error) {
	if ns, ok := s.cache.Get(nameHash); ok {
		return ns, nil
	}
	data, err := s.db.Get(stateKey(nameHash))
	if err != nil {
		return nil, err
	}
	var ns NameState
	if err := json.Unmarshal(data, &ns); err != nil {
		return nil, fmt.Errorf("name state unmarshal: %w", err)
	}
	s.cache.Add(nameHash, &ns)
	return &ns, nil
}

// PutState stages the successor state of a name plus its height snapshot.
// The cache entry is dropped rather than updated: the batch is not visible
// until the caller commits it.
func (s *Store) PutState(batch storage.Batch, ns *NameState, height uint64) error {
	data, err := json.Marshal(ns)
	if err != nil {
		return fmt.Errorf("name state marshal: %w", err)
	}
	if err := batch.Put(stateKey(ns.NameHash), data); err != nil {
		return err
	}
	if err := batch.Put(snapshotKey(ns.NameHash, height), data); err != nil {
		return err
	}
	s.cache.Remove(ns.NameHash)
	return nil
}

// PutBid stages a new bid record.
func (s *Store) PutBid(batch storage.Batch, bid *BidState) error {
	data, err := json.Marshal(bidRecord{BidState: *bid})
	if err != nil {
		return fmt.Errorf("bid marshal: %w", err)
	}
	return batch.Put(recordKey(prefixBid, bid.NameHash, bid.Outpoint), data)
}

// GetBid returns the live bid record for an outpoint. Retired records
// report storage.ErrNotFound: a revealed bid no longer exists as a bid.
func (s *Store) GetBid(nameHash types.NameHash, op types.Outpoint) (*BidState, error) {
	data, err := s.db.Get(recordKey(prefixBid, nameHash, op))
	if err != nil {
		return nil, err
	}
	var rec bidRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("bid unmarshal: %w", err)
	}
	if rec.RetiredHeight != 0 {
		return nil, storage.ErrNotFound
	}
	return &rec.BidState, nil
}

// RetireBid stages the retirement of a bid record at the given height.
func (s *Store) RetireBid(batch storage.Batch, nameHash types.NameHash, op types.Outpoint, height uint64) error {
	return s.retireRecord(batch, prefixBid, nameHash, op, height)
}

// PutReveal stages a new reveal record.
func (s *Store) PutReveal(batch storage.Batch, reveal *RevealState) error {
	data, err := json.Marshal(revealRecord{RevealState: *reveal})
	if err != nil {
		return fmt.Errorf("reveal marshal: %w", err)
	}
	return batch.Put(recordKey(prefixReveal, reveal.NameHash, reveal.Outpoint), data)
}

// GetReveal returns the live reveal record for an outpoint, or
// storage.ErrNotFound once redeemed or settled.
func (s *Store) GetReveal(nameHash types.NameHash, op types.Outpoint) (*RevealState, error) {
	data, err := s.db.Get(recordKey(prefixReveal, nameHash, op))
	if err != nil {
		return nil, err
	}
	var rec revealRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("reveal unmarshal: %w", err)
	}
	if rec.RetiredHeight != 0 {
		return nil, storage.ErrNotFound
	}
	return &rec.RevealState, nil
}

// RetireReveal stages the retirement of a reveal record at the given height.
func (s *Store) RetireReveal(batch storage.Batch, nameHash types.NameHash, op types.Outpoint, height uint64) error {
	return s.retireRecord(batch, prefixReveal, nameHash, op, height)
}

// Reveals returns every live reveal record for a name, in storage order.
// Callers narrow to the relevant auction cycle by reveal height.
func (s *Store) Reveals(nameHash types.NameHash) ([]RevealState, error) {
	return s.reveals(nameHash, false)
}

// AllReveals returns every reveal record posted for a name, settled or
// not. Winner and settlement computation needs the full cycle: a loser
// redeeming early must not change the price the winner pays.
func (s *Store) AllReveals(nameHash types.NameHash) ([]RevealState, error) {
	return s.reveals(nameHash, true)
}

func (s *Store) reveals(nameHash types.NameHash, includeRetired bool) ([]RevealState, error) {
	prefix := make([]byte, 0, len(prefixReveal)+types.HashSize)
	prefix = append(prefix, prefixReveal...)
	prefix = append(prefix, nameHash[:]...)

	var out []RevealState
	err := s.db.ForEach(prefix, func(_, value []byte) error {
		var rec revealRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("reveal unmarshal: %w", err)
		}
		if includeRetired || rec.RetiredHeight == 0 {
			out = append(out, rec.RevealState)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForEachState iterates over all current name states.
func (s *Store) ForEachState(fn func(*NameState) error) error {
	return s.db.ForEach(prefixState, func(_, value []byte) error {
		var ns NameState
		if err := json.Unmarshal(value, &ns); err != nil {
			return fmt.Errorf("name state unmarshal: %w", err)
		}
		return fn(&ns)
	})
}

// RollbackTo undoes every change above the target height: snapshots past
// the target are dropped and each touched name reverts to its latest
// surviving snapshot, records created past the target are deleted and
// retirements past the target are cleared. The whole rollback commits as
// one batch.
func (s *Store) RollbackTo(target uint64) error {
	batch := s.db.NewBatch()

	// Current state per touched name reverts to the latest snapshot at or
	// below the target.
	type survivor struct {
		height uint64
		data   []byte
	}
	latest := make(map[types.NameHash]*survivor)
	touched := make(map[types.NameHash]bool)

	err := s.db.ForEach(prefixSnapshot, func(key, value []byte) error {
		if len(key) != len(prefixSnapshot)+types.HashSize+8 {
			return fmt.Errorf("malformed snapshot key of %d bytes", len(key))
		}
		var nameHash types.NameHash
		copy(nameHash[:], key[len(prefixSnapshot):])
		height := binary.BigEndian.Uint64(key[len(prefixSnapshot)+types.HashSize:])

		if height > target {
			touched[nameHash] = true
			return batch.Delete(key)
		}
		if cur := latest[nameHash]; cur == nil || height > cur.height {
			data := make([]byte, len(value))
			copy(data, value)
			latest[nameHash] = &survivor{height: height, data: data}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rollback snapshots: %w", err)
	}

	for nameHash := range touched {
		if sv := latest[nameHash]; sv != nil {
			if err := batch.Put(stateKey(nameHash), sv.data); err != nil {
				return err
			}
		} else {
			if err := batch.Delete(stateKey(nameHash)); err != nil {
				return err
			}
		}
	}

	if err := s.rollbackRecords(batch, prefixBid, target); err != nil {
		return err
	}
	if err := s.rollbackRecords(batch, prefixReveal, target); err != nil {
		return err
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("rollback commit: %w", err)
	}
	s.cache.Purge()
	return nil
}

func (s *Store) retireRecord(batch storage.Batch, prefix []byte, nameHash types.NameHash, op types.Outpoint, height uint64) error {
	key := recordKey(prefix, nameHash, op)
	data, err := s.db.Get(key)
	if err != nil {
		return err
	}
	// Round-trip through a map so bid and reveal records share one path.
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("record unmarshal: %w", err)
	}
	retired, err := json.Marshal(height)
	if err != nil {
		return err
	}
	rec["retired_height"] = retired
	out, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("record marshal: %w", err)
	}
	return batch.Put(key, out)
}

func (s *Store) rollbackRecords(batch storage.Batch, prefix []byte, target uint64) error {
	return s.db.ForEach(prefix, func(key, value []byte) error {
		var rec struct {
			Height        uint64 `json:"height"`
			RetiredHeight uint64 `json:"retired_height"`
		}
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("record unmarshal: %w", err)
		}
		switch {
		case rec.Height > target:
			return batch.Delete(key)
		case rec.RetiredHeight > target:
			var full map[string]json.RawMessage
			if err := json.Unmarshal(value, &full); err != nil {
				return fmt.Errorf("record unmarshal: %w", err)
			}
			delete(full, "retired_height")
			out, err := json.Marshal(full)
			if err != nil {
				return err
			}
			return batch.Put(key, out)
		}
		return nil
	})
}
