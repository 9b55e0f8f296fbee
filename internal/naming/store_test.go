package naming

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-names/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.DB) {
	t.Helper()
	db := storage.NewMemory()
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, db
}

func TestStore_StateRoundTrip(t *testing.T) {
	store, db := newTestStore(t)
	nameHash := HashName("example")

	if _, err := store.GetState(nameHash); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing state: %v, want ErrNotFound", err)
	}

	ns := &NameState{NameHash: nameHash, Name: "example", Height: 100}
	batch := db.NewBatch()
	if err := store.PutState(batch, ns, 100); err != nil {
		t.Fatalf("PutState: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.GetState(nameHash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if got.Name != "example" || got.Height != 100 {
		t.Errorf("state = %+v", got)
	}

	// Second read hits the cache; result must be identical.
	again, err := store.GetState(nameHash)
	if err != nil {
		t.Fatalf("GetState cached: %v", err)
	}
	if again.Name != got.Name {
		t.Errorf("cached state mismatch: %+v", again)
	}
}

func TestStore_BidRetirement(t *testing.T) {
	store, db := newTestStore(t)
	nameHash := HashName("example")
	op := testOutpoint(1)

	bid := &BidState{NameHash: nameHash, Outpoint: op, Lockup: 2000, Height: 105}
	batch := db.NewBatch()
	if err := store.PutBid(batch, bid); err != nil {
		t.Fatalf("PutBid: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.GetBid(nameHash, op)
	if err != nil {
		t.Fatalf("GetBid: %v", err)
	}
	if got.Lockup != 2000 {
		t.Errorf("lockup = %d", got.Lockup)
	}

	batch = db.NewBatch()
	if err := store.RetireBid(batch, nameHash, op, 110); err != nil {
		t.Fatalf("RetireBid: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Retired bids no longer exist as bids.
	if _, err := store.GetBid(nameHash, op); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("retired bid: %v, want ErrNotFound", err)
	}
}

func TestStore_RevealsSkipRetired(t *testing.T) {
	store, db := newTestStore(t)
	nameHash := HashName("example")

	batch := db.NewBatch()
	for i := byte(1); i <= 3; i++ {
		reveal := &RevealState{NameHash: nameHash, Outpoint: testOutpoint(i), Bid: uint64(i) * 100, Height: 110}
		if err := store.PutReveal(batch, reveal); err != nil {
			t.Fatalf("PutReveal: %v", err)
		}
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	batch = db.NewBatch()
	if err := store.RetireReveal(batch, nameHash, testOutpoint(2), 115); err != nil {
		t.Fatalf("RetireReveal: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reveals, err := store.Reveals(nameHash)
	if err != nil {
		t.Fatalf("Reveals: %v", err)
	}
	if len(reveals) != 2 {
		t.Fatalf("reveals = %d, want 2", len(reveals))
	}
	for _, r := range reveals {
		if r.Outpoint == testOutpoint(2) {
			t.Error("retired reveal should be excluded")
		}
	}

	// The full cycle keeps the retired record: settlement must not move
	// when a loser redeems.
	all, err := store.AllReveals(nameHash)
	if err != nil {
		t.Fatalf("AllReveals: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all reveals = %d, want 3", len(all))
	}
	retired := false
	for _, r := range all {
		if r.Outpoint == testOutpoint(2) {
			retired = true
		}
	}
	if !retired {
		t.Error("full cycle should include the retired reveal")
	}
}

func TestStore_RollbackRestoresState(t *testing.T) {
	store, db := newTestStore(t)
	nameHash := HashName("example")

	// Height 100: opened. Height 115: registered.
	opened := &NameState{NameHash: nameHash, Name: "example", Height: 100}
	batch := db.NewBatch()
	if err := store.PutState(batch, opened, 100); err != nil {
		t.Fatal(err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatal(err)
	}

	registered := opened.Clone()
	registered.Owner = testOutpoint(1)
	registered.Value = 1000
	registered.Renewal = 215
	batch = db.NewBatch()
	if err := store.PutState(batch, registered, 115); err != nil {
		t.Fatal(err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := store.RollbackTo(110); err != nil {
		t.Fatalf("RollbackTo: %v", err)
	}

	got, err := store.GetState(nameHash)
	if err != nil {
		t.Fatalf("GetState after rollback: %v", err)
	}
	if got.Registered() {
		t.Errorf("state should revert to the opened snapshot, got %+v", got)
	}

	// Rolling back before the first snapshot removes the name entirely.
	if err := store.RollbackTo(99); err != nil {
		t.Fatalf("RollbackTo: %v", err)
	}
	if _, err := store.GetState(nameHash); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("state after full rollback: %v, want ErrNotFound", err)
	}
}

func TestStore_RollbackRecords(t *testing.T) {
	store, db := newTestStore(t)
	nameHash := HashName("example")
	op := testOutpoint(1)

	// Bid posted at 105, retired at 110 by a reveal posted at 110.
	batch := db.NewBatch()
	if err := store.PutBid(batch, &BidState{NameHash: nameHash, Outpoint: op, Lockup: 2000, Height: 105}); err != nil {
		t.Fatal(err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatal(err)
	}
	batch = db.NewBatch()
	if err := store.RetireBid(batch, nameHash, op, 110); err != nil {
		t.Fatal(err)
	}
	if err := store.PutReveal(batch, &RevealState{NameHash: nameHash, Outpoint: testOutpoint(2), Bid: 1000, Height: 110}); err != nil {
		t.Fatal(err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatal(err)
	}

	// Undoing the reveal block resurrects the bid and drops the reveal.
	if err := store.RollbackTo(109); err != nil {
		t.Fatalf("RollbackTo: %v", err)
	}
	if _, err := store.GetBid(nameHash, op); err != nil {
		t.Errorf("bid after rollback: %v", err)
	}
	reveals, err := store.Reveals(nameHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(reveals) != 0 {
		t.Errorf("reveals after rollback = %d, want 0", len(reveals))
	}
}
