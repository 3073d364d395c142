// Package ledger implements the host execution environment the platform
// runs on: a create-once, mutate-in-place record arena keyed by derived
// addresses, with all-or-nothing transactions and per-record write
// exclusivity.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"civitas/pkg/platform/sentinel"
)

// Record is state stored at a derived address. Clone must return a deep
// copy so records never alias across transaction boundaries.
type Record interface {
	Clone() Record
}

// Ledger is the record arena. A single writer lock serializes updates,
// which gives every transaction a linearizable view of all records it
// touches. Readers run concurrently.
type Ledger struct {
	mu        sync.RWMutex
	programID solana.PublicKey
	records   map[Address]Record
}

// New builds an empty ledger owned by the given program identity.
func New(programID solana.PublicKey) *Ledger {
	return &Ledger{
		programID: programID,
		records:   make(map[Address]Record),
	}
}

// ProgramID returns the identity all addresses are derived under.
func (l *Ledger) ProgramID() solana.PublicKey { return l.programID }

// Derive computes a storage address under this ledger's program identity.
func (l *Ledger) Derive(namespace string, keys ...solana.PublicKey) (Address, error) {
	return Derive(l.programID, namespace, keys...)
}

// Txn stages reads and writes for one atomic operation. Writes only reach
// the arena if the whole transaction function succeeds.
type Txn struct {
	ledger   *Ledger
	readonly bool
	staged   map[Address]Record
	created  map[Address]struct{}
}

// Get returns the record at addr, preferring staged writes. The returned
// record is private to the transaction and safe to mutate.
func (t *Txn) Get(addr Address) (Record, error) {
	if rec, ok := t.staged[addr]; ok {
		return rec, nil
	}
	rec, ok := t.ledger.records[addr]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", addr, sentinel.ErrNotFound)
	}
	clone := rec.Clone()
	if !t.readonly {
		t.staged[addr] = clone
	}
	return clone, nil
}

// Exists reports whether a record occupies addr.
func (t *Txn) Exists(addr Address) bool {
	if _, ok := t.staged[addr]; ok {
		return true
	}
	_, ok := t.ledger.records[addr]
	return ok
}

// Create stages a new record at addr. The host rejects a second creation
// at an occupied address, which is what makes derived-address records
// duplicate-proof.
func (t *Txn) Create(addr Address, rec Record) error {
	if t.readonly {
		return fmt.Errorf("create in read-only transaction: %w", sentinel.ErrInvalidState)
	}
	if t.Exists(addr) {
		return fmt.Errorf("record %s: %w", addr, sentinel.ErrDuplicate)
	}
	t.staged[addr] = rec
	t.created[addr] = struct{}{}
	return nil
}

// Put stages an update to an existing record.
func (t *Txn) Put(addr Address, rec Record) error {
	if t.readonly {
		return fmt.Errorf("put in read-only transaction: %w", sentinel.ErrInvalidState)
	}
	if !t.Exists(addr) {
		return fmt.Errorf("record %s: %w", addr, sentinel.ErrNotFound)
	}
	t.staged[addr] = rec
	return nil
}

// Range calls fn with a clone of every record, staged writes included.
// Iteration order is unspecified; fn returning false stops early.
func (t *Txn) Range(fn func(addr Address, rec Record) bool) {
	for addr, rec := range t.staged {
		if !fn(addr, rec.Clone()) {
			return
		}
	}
	for addr, rec := range t.ledger.records {
		if _, ok := t.staged[addr]; ok {
			continue
		}
		if !fn(addr, rec.Clone()) {
			return
		}
	}
}

// Update runs fn as one atomic transaction. If fn returns an error no
// staged write reaches the arena; the caller observes no state mutation.
func (l *Ledger) Update(ctx context.Context, fn func(txn *Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	txn := &Txn{
		ledger:  l,
		staged:  make(map[Address]Record),
		created: make(map[Address]struct{}),
	}
	if err := fn(txn); err != nil {
		return err
	}
	for addr, rec := range txn.staged {
		l.records[addr] = rec
	}
	return nil
}

// View runs fn with a read-only transaction. Concurrent views do not
// block each other.
func (l *Ledger) View(ctx context.Context, fn func(txn *Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	return fn(&Txn{ledger: l, readonly: true})
}
