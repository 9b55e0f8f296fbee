package naming

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-names/config"
	"github.com/Klingon-tech/klingnet-names/internal/coins"
	"github.com/Klingon-tech/klingnet-names/internal/log"
	"github.com/Klingon-tech/klingnet-names/internal/metrics"
	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/tx"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// prefixUndo keys per-block coin undo data: u/<height_be8> -> JSON.
var prefixUndo = []byte("u/")

// Connector applies blocks of covenant-bearing transactions to the name
// index and coin set. Covenants are grouped by name and each name's group
// is validated concurrently; within a group, block order is strict. A block
// either commits in full or rejects in full.
type Connector struct {
	rules    *config.NamingRules
	reserved *ReservedSet
	db       storage.DB
	names    *Store
	coins    *coins.Store
	workers  int
}

// NewConnector wires a connector over the shared database.
func NewConnector(db storage.DB, names *Store, coinStore *coins.Store, rules *config.NamingRules) (*Connector, error) {
	reserved, err := NewReservedSet(rules.ReservedNames)
	if err != nil {
		return nil, err
	}
	return &Connector{
		rules:    rules,
		reserved: reserved,
		db:       db,
		names:    names,
		coins:    coinStore,
		workers:  runtime.NumCPU(),
	}, nil
}

// blockOp is one covenant output at its position in the block.
type blockOp struct {
	txIndex  uint32
	outIndex uint32
	txid     types.Hash
	output   tx.Output
	prevOut  *types.Outpoint
}

// blockUndo records what a block did to the coin set so a disconnect can
// restore it. Name state rollback is snapshot-driven and needs no undo.
type blockUndo struct {
	Created  []types.Outpoint `json:"created,omitempty"`
	Consumed []*coins.Coin    `json:"consumed,omitempty"`
}

func undoKey(height uint64) []byte {
	key := make([]byte, len(prefixUndo)+8)
	copy(key, prefixUndo)
	binary.BigEndian.PutUint64(key[len(prefixUndo):], height)
	return key
}

// ConnectBlock validates every covenant output in the block and commits
// the resulting transitions atomically. Any rejection discards the whole
// block; the index is left exactly as it was.
func (c *Connector) ConnectBlock(height uint64, txs []*tx.Transaction) error {
	start := time.Now()

	groups, order, err := groupCovenants(height, txs)
	if err != nil {
		metrics.CovenantsRejected.WithLabelValues(rejectReason(err)).Inc()
		return err
	}
	if len(order) == 0 {
		metrics.ObserveConnect(start)
		return nil
	}

	overlays := make(map[types.NameHash]*nameOverlay, len(order))
	for _, nameHash := range order {
		overlays[nameHash] = newNameOverlay(nameHash, c.names, c.coins)
	}

	// Per-name groups are independent: every coin a covenant may spend
	// carries the same name, so no group can race another.
	sem := make(chan struct{}, c.workers)
	errs := make(map[types.NameHash]error, len(order))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, nameHash := range order {
		wg.Add(1)
		go func(nameHash types.NameHash) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := c.connectGroup(height, overlays[nameHash], groups[nameHash]); err != nil {
				mu.Lock()
				errs[nameHash] = err
				mu.Unlock()
			}
		}(nameHash)
	}
	wg.Wait()

	// Report the first failure in block order; the choice only affects the
	// error message since the whole block rejects either way.
	for _, nameHash := range order {
		if err := errs[nameHash]; err != nil {
			metrics.CovenantsRejected.WithLabelValues(rejectReason(err)).Inc()
			log.Connect.Warn().
				Uint64("height", height).
				Str("name_hash", nameHash.String()).
				Err(err).
				Msg("block rejected")
			return fmt.Errorf("block %d: %w", height, err)
		}
	}

	if err := c.commit(height, order, overlays); err != nil {
		return fmt.Errorf("block %d commit: %w", height, err)
	}

	covenants := 0
	for _, nameHash := range order {
		o := overlays[nameHash]
		covenants += len(o.acceptedTypes)
		for _, t := range o.acceptedTypes {
			metrics.CovenantsAccepted.WithLabelValues(t.String()).Inc()
		}
		if o.burned > 0 {
			metrics.ValueBurned.Add(float64(o.burned))
		}
	}
	metrics.ObserveConnect(start)
	log.Connect.Info().
		Uint64("height", height).
		Int("names", len(order)).
		Int("covenants", covenants).
		Dur("elapsed", time.Since(start)).
		Msg("block connected")
	return nil
}

// DisconnectBlock rolls the tip block back out of the index: coins are
// restored from the block's undo data and name state reverts to its latest
// snapshot at or below height-1. The caller must disconnect strictly from
// the tip downward.
func (c *Connector) DisconnectBlock(height uint64) error {
	data, err := c.db.Get(undoKey(height))
	if err != nil {
		return fmt.Errorf("block %d: no undo data: %w", height, err)
	}
	var undo blockUndo
	if err := json.Unmarshal(data, &undo); err != nil {
		return fmt.Errorf("block %d undo unmarshal: %w", height, err)
	}

	batch := c.db.NewBatch()
	for _, op := range undo.Created {
		if err := c.coins.DeleteBatch(batch, op); err != nil {
			return err
		}
	}
	for _, coin := range undo.Consumed {
		if err := c.coins.PutBatch(batch, coin); err != nil {
			return err
		}
	}
	if err := batch.Delete(undoKey(height)); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("block %d undo commit: %w", height, err)
	}

	if err := c.names.RollbackTo(height - 1); err != nil {
		return fmt.Errorf("block %d: %w", height, err)
	}

	metrics.BlocksDisconnected.Inc()
	log.Connect.Info().Uint64("height", height).Msg("block disconnected")
	return nil
}

// groupCovenants splits a block's covenant outputs into per-name groups,
// preserving block order within each group.
func groupCovenants(height uint64, txs []*tx.Transaction) (map[types.NameHash][]*blockOp, []types.NameHash, error) {
	groups := make(map[types.NameHash][]*blockOp)
	var order []types.NameHash

	for ti, t := range txs {
		txid := t.Hash()
		for oi, out := range t.Outputs {
			if out.Covenant == nil {
				continue
			}
			nameHash := out.Covenant.NameHash()
			if nameHash.IsZero() {
				return nil, nil, fmt.Errorf("%w: tx %d output %d has no name hash at height %d",
					ErrMalformedCovenant, ti, oi, height)
			}
			op := &blockOp{
				txIndex:  uint32(ti),
				outIndex: uint32(oi),
				txid:     txid,
				output:   out,
			}
			if oi < len(t.Inputs) {
				prevOut := t.Inputs[oi].PrevOut
				op.prevOut = &prevOut
			}
			if _, seen := groups[nameHash]; !seen {
				order = append(order, nameHash)
			}
			groups[nameHash] = append(groups[nameHash], op)
		}
	}
	return groups, order, nil
}

// connectGroup walks one name's covenants in block order, validating each
// against the overlay so same-block chains resolve.
func (c *Connector) connectGroup(height uint64, o *nameOverlay, ops []*blockOp) error {
	validator := NewValidator(c.rules, c.reserved, o)

	for _, op := range ops {
		ctx := &Context{
			Height:   height,
			TxID:     op.txid,
			TxIndex:  op.txIndex,
			OutIndex: op.outIndex,
			Output:   op.output,
		}
		if op.prevOut != nil {
			coin, err := o.getCoin(*op.prevOut)
			if err != nil {
				return err
			}
			ctx.SpentCoin = coin
		}

		prev, err := o.getState()
		if err != nil {
			return err
		}
		transition, err := validator.ValidateOutput(prev, ctx)
		if err != nil {
			return err
		}
		if err := o.apply(transition, ctx); err != nil {
			return err
		}
	}
	return nil
}

// commit stages every overlay's effects on one batch and commits it.
func (c *Connector) commit(height uint64, order []types.NameHash, overlays map[types.NameHash]*nameOverlay) error {
	batch := c.db.NewBatch()
	undo := blockUndo{}

	for _, nameHash := range order {
		o := overlays[nameHash]

		if err := c.names.PutState(batch, o.state, height); err != nil {
			return err
		}
		for _, bid := range o.newBids {
			if err := c.names.PutBid(batch, bid); err != nil {
				return err
			}
		}
		for _, reveal := range o.newReveals {
			if err := c.names.PutReveal(batch, reveal); err != nil {
				return err
			}
		}
		for op := range o.retiredBids {
			if err := c.names.RetireBid(batch, nameHash, op, height); err != nil {
				return err
			}
		}
		for op := range o.retiredReveals {
			if err := c.names.RetireReveal(batch, nameHash, op, height); err != nil {
				return err
			}
		}
		for _, coin := range o.created {
			if err := c.coins.PutBatch(batch, coin); err != nil {
				return err
			}
			undo.Created = append(undo.Created, coin.Outpoint)
		}
		for _, coin := range o.consumedBase {
			if err := c.coins.DeleteBatch(batch, coin.Outpoint); err != nil {
				return err
			}
			undo.Consumed = append(undo.Consumed, coin)
		}
	}

	data, err := json.Marshal(&undo)
	if err != nil {
		return fmt.Errorf("undo marshal: %w", err)
	}
	if err := batch.Put(undoKey(height), data); err != nil {
		return err
	}
	return batch.Commit()
}

// nameOverlay buffers one name's in-block effects over the persistent
// stores, so later covenants in the same block see earlier ones. Nothing
// here touches the database for writes; the connector commits or discards
// the overlay wholesale.
type nameOverlay struct {
	nameHash types.NameHash
	names    *Store
	coinView coins.View

	state       *NameState
	stateLoaded bool

	newBids        map[types.Outpoint]*BidState
	newReveals     map[types.Outpoint]*RevealState
	retiredBids    map[types.Outpoint]bool
	retiredReveals map[types.Outpoint]bool

	created      map[types.Outpoint]*coins.Coin
	consumed     map[types.Outpoint]bool
	consumedBase map[types.Outpoint]*coins.Coin

	burned        uint64
	acceptedTypes []covenant.Type
}

func newNameOverlay(nameHash types.NameHash, names *Store, coinView coins.View) *nameOverlay {
	return &nameOverlay{
		nameHash:       nameHash,
		names:          names,
		coinView:       coinView,
		newBids:        make(map[types.Outpoint]*BidState),
		newReveals:     make(map[types.Outpoint]*RevealState),
		retiredBids:    make(map[types.Outpoint]bool),
		retiredReveals: make(map[types.Outpoint]bool),
		created:        make(map[types.Outpoint]*coins.Coin),
		consumed:       make(map[types.Outpoint]bool),
		consumedBase:   make(map[types.Outpoint]*coins.Coin),
	}
}

func (o *nameOverlay) getState() (*NameState, error) {
	if o.stateLoaded {
		return o.state, nil
	}
	ns, err := o.names.GetState(o.nameHash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			o.stateLoaded = true
			return nil, nil
		}
		return nil, err
	}
	o.state = ns
	o.stateLoaded = true
	return ns, nil
}

// getCoin resolves a prevout against the overlay: coins created earlier in
// the block are visible, coins consumed earlier are a double transition,
// and coins outside the name index resolve to nil.
func (o *nameOverlay) getCoin(op types.Outpoint) (*coins.Coin, error) {
	if o.consumed[op] {
		return nil, fmt.Errorf("%w: %s already spent in this block", ErrDoubleTransition, op)
	}
	if coin, ok := o.created[op]; ok {
		return coin, nil
	}
	coin, err := o.coinView.GetCoin(op)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return coin, nil
}

func (o *nameOverlay) apply(t *Transition, ctx *Context) error {
	o.state = t.State
	o.stateLoaded = true

	if t.Bid != nil {
		o.newBids[t.Bid.Outpoint] = t.Bid
	}
	if t.Reveal != nil {
		o.newReveals[t.Reveal.Outpoint] = t.Reveal
	}

	// What a retirement targets follows from the covenant: REVEAL retires
	// the bid it opens, REDEEM and REGISTER retire reveal records. Phases
	// guarantee a record is never created and retired in the same block.
	for _, op := range t.Retired {
		switch ctx.Output.Covenant.Type {
		case covenant.TypeReveal:
			o.retiredBids[op] = true
		case covenant.TypeRedeem, covenant.TypeRegister:
			o.retiredReveals[op] = true
		default:
			return fmt.Errorf("%s covenant retired record %s", ctx.Output.Covenant.Type, op)
		}
	}

	if ctx.SpentCoin != nil {
		spent := ctx.SpentCoin.Outpoint
		o.consumed[spent] = true
		if _, inBlock := o.created[spent]; inBlock {
			delete(o.created, spent)
		} else {
			o.consumedBase[spent] = ctx.SpentCoin
		}
	}
	o.created[ctx.Outpoint()] = &coins.Coin{
		Outpoint: ctx.Outpoint(),
		Value:    ctx.Output.Value,
		Address:  ctx.Output.Address,
		Covenant: ctx.Output.Covenant,
		Height:   ctx.Height,
	}

	o.burned += t.Burned
	o.acceptedTypes = append(o.acceptedTypes, ctx.Output.Covenant.Type)
	return nil
}

// GetBid implements AuctionView over the overlay.
func (o *nameOverlay) GetBid(nameHash types.NameHash, op types.Outpoint) (*BidState, error) {
	if o.retiredBids[op] {
		return nil, storage.ErrNotFound
	}
	if bid, ok := o.newBids[op]; ok {
		return bid, nil
	}
	return o.names.GetBid(nameHash, op)
}

// GetReveal implements AuctionView over the overlay.
func (o *nameOverlay) GetReveal(nameHash types.NameHash, op types.Outpoint) (*RevealState, error) {
	if o.retiredReveals[op] {
		return nil, storage.ErrNotFound
	}
	if reveal, ok := o.newReveals[op]; ok {
		return reveal, nil
	}
	return o.names.GetReveal(nameHash, op)
}

// Reveals implements AuctionView over the overlay. Retired records stay
// visible here: settlement must see the full cycle even when a loser's
// redemption landed earlier in the same block.
func (o *nameOverlay) Reveals(nameHash types.NameHash) ([]RevealState, error) {
	base, err := o.names.AllReveals(nameHash)
	if err != nil {
		return nil, err
	}
	out := make([]RevealState, 0, len(base)+len(o.newReveals))
	out = append(out, base...)
	for _, r := range o.newReveals {
		out = append(out, *r)
	}
	return out, nil
}

// rejectReason maps a rejection error onto a bounded metrics label set.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownName):
		return "unknown_name"
	case errors.Is(err, ErrPhaseMismatch):
		return "phase_mismatch"
	case errors.Is(err, ErrMalformedCovenant):
		return "malformed"
	case errors.Is(err, ErrBlindMismatch):
		return "blind_mismatch"
	case errors.Is(err, ErrNotNameOwner):
		return "not_owner"
	case errors.Is(err, ErrPrematureFinalize):
		return "premature_finalize"
	case errors.Is(err, ErrPrematureRenew):
		return "premature_renew"
	case errors.Is(err, ErrDoubleTransition):
		return "double_transition"
	case errors.Is(err, ErrNameExpired):
		return "expired"
	case errors.Is(err, ErrReservedName):
		return "reserved"
	case errors.Is(err, ErrUnrevealedBid):
		return "unrevealed_bid"
	case errors.Is(err, ErrWinnerRedeem):
		return "winner_redeem"
	default:
		return "other"
	}
}
