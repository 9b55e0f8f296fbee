package tree

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/Klingon-tech/klingnet-names/config"
	"github.com/Klingon-tech/klingnet-names/internal/log"
	"github.com/Klingon-tech/klingnet-names/internal/metrics"
	"github.com/Klingon-tech/klingnet-names/internal/naming"
	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// prefixRoot keys committed tree roots: t/<height_be8> -> root bytes.
var prefixRoot = []byte("t/")

// Committer computes the merkle root over all current name states at each
// tree interval boundary and persists it. Consumers only ever need the
// cadence and the committed roots; the tree itself is rebuilt on demand.
type Committer struct {
	db    storage.DB
	names *naming.Store
	rules *config.NamingRules
}

// NewCommitter wires a committer over the shared database.
func NewCommitter(db storage.DB, names *naming.Store, rules *config.NamingRules) *Committer {
	return &Committer{db: db, names: names, rules: rules}
}

func rootKey(height uint64) []byte {
	key := make([]byte, len(prefixRoot)+8)
	copy(key, prefixRoot)
	binary.BigEndian.PutUint64(key[len(prefixRoot):], height)
	return key
}

// MaybeCommit commits the tree when the height sits on an interval
// boundary and reports whether it did.
func (c *Committer) MaybeCommit(height uint64) (bool, error) {
	if !naming.CommitHeight(height, c.rules) {
		return false, nil
	}
	if _, err := c.Commit(height); err != nil {
		return false, err
	}
	return true, nil
}

// Commit computes and persists the root over every current name state.
func (c *Committer) Commit(height uint64) (types.Hash, error) {
	leaves, err := c.leaves()
	if err != nil {
		return types.Hash{}, err
	}
	root := merkleRoot(leaves)
	if err := c.db.Put(rootKey(height), root.Bytes()); err != nil {
		return types.Hash{}, fmt.Errorf("tree root put: %w", err)
	}

	metrics.TreeCommits.Inc()
	log.Tree.Debug().
		Uint64("height", height).
		Int("names", len(leaves)).
		Str("root", root.String()).
		Msg("tree committed")
	return root, nil
}

// Root returns the most recent root committed at or below the height.
func (c *Committer) Root(height uint64) (types.Hash, error) {
	// Roots are keyed big-endian, so the prefix scan walks ascending
	// heights; keep the last one inside the bound.
	var (
		best  types.Hash
		found bool
	)
	err := c.db.ForEach(prefixRoot, func(key, value []byte) error {
		if len(key) != len(prefixRoot)+8 || len(value) != types.HashSize {
			return fmt.Errorf("malformed tree root entry")
		}
		if binary.BigEndian.Uint64(key[len(prefixRoot):]) > height {
			return nil
		}
		copy(best[:], value)
		found = true
		return nil
	})
	if err != nil {
		return types.Hash{}, err
	}
	if !found {
		return types.Hash{}, storage.ErrNotFound
	}
	return best, nil
}

// Prove builds an inclusion proof for a name's current state. The proof
// verifies against the root of a commit made over the same state set.
func (c *Committer) Prove(nameHash types.NameHash) (*Proof, error) {
	leaves, err := c.leaves()
	if err != nil {
		return nil, err
	}
	ns, err := c.names.GetState(nameHash)
	if err != nil {
		return nil, err
	}
	leaf := hashState(ns)
	index := sort.Search(len(leaves), func(i int) bool {
		return !hashLess(leaves[i], leaf)
	})
	if index == len(leaves) || leaves[index] != leaf {
		return nil, fmt.Errorf("state for %s not in tree", nameHash)
	}
	return proveIndex(leaves, index), nil
}

// leaves hashes every current name state and sorts the results; map
// iteration order must never leak into the root.
func (c *Committer) leaves() ([]types.Hash, error) {
	var leaves []types.Hash
	err := c.names.ForEachState(func(ns *naming.NameState) error {
		leaves = append(leaves, hashState(ns))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tree leaves: %w", err)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return hashLess(leaves[i], leaves[j])
	})
	return leaves, nil
}

// hashState produces the deterministic leaf hash of a name state.
// Format: name_hash(32) | height(8) | renewal(8) | renewals(4) |
// owner(36) | value(8) | data_len(4) | data | transfer(8) | revoked(8)
func hashState(ns *naming.NameState) types.Hash {
	var buf []byte
	buf = append(buf, ns.NameHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, ns.Height)
	buf = binary.LittleEndian.AppendUint64(buf, ns.Renewal)
	buf = binary.LittleEndian.AppendUint32(buf, ns.Renewals)
	buf = append(buf, ns.Owner.Bytes()...)
	buf = binary.LittleEndian.AppendUint64(buf, ns.Value)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ns.Data)))
	buf = append(buf, ns.Data...)
	buf = binary.LittleEndian.AppendUint64(buf, ns.Transfer)
	buf = binary.LittleEndian.AppendUint64(buf, ns.Revoked)
	return crypto.Hash(buf)
}

func hashLess(a, b types.Hash) bool {
	for i := 0; i < types.HashSize; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
