// Package asset implements the asset subsystem the platform mints
// through: discrete and fungible-like units tracked as ledger records,
// with a capability-gated minting authority and descriptive metadata.
package asset

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"civitas/internal/ledger"
	"civitas/pkg/platform/checked"
	"civitas/pkg/platform/sentinel"
)

// Capability is the opaque minting-authority token. Only the holder of a
// mint's capability may mint its units; a bare identity never can.
type Capability string

// NewCapability issues a fresh capability token.
func NewCapability() Capability {
	return Capability(uuid.NewString())
}

// MintRecord tracks one asset class: its running supply and the
// capability that authorizes minting.
type MintRecord struct {
	Asset     solana.PublicKey
	Supply    uint64
	Authority Capability
	Decimals  uint8
}

func (m *MintRecord) Clone() ledger.Record {
	cp := *m
	return &cp
}

// BalanceRecord tracks one holder's units of one asset.
type BalanceRecord struct {
	Asset solana.PublicKey
	Owner solana.PublicKey
	Value uint64
}

func (b *BalanceRecord) Clone() ledger.Record {
	cp := *b
	return &cp
}

// Book exposes mint, transfer and balance operations over ledger
// transactions. Every method stages its writes on the caller's
// transaction, so asset effects commit or roll back with the record
// writes of the surrounding operation.
type Book struct {
	ledger *ledger.Ledger
}

// NewBook builds an asset book over the given ledger.
func NewBook(l *ledger.Ledger) *Book {
	return &Book{ledger: l}
}

// CreateMint registers a new asset class whose minting is authorized by
// capability. Fails if the asset already has a mint.
func (b *Book) CreateMint(txn *ledger.Txn, asset solana.PublicKey, capability Capability, decimals uint8) error {
	addr, err := b.ledger.Derive(ledger.NamespaceMint, asset)
	if err != nil {
		return err
	}
	return txn.Create(addr, &MintRecord{
		Asset:     asset,
		Authority: capability,
		Decimals:  decimals,
	})
}

// Mint credits amount units of asset to dest. The caller must present the
// mint's authority capability.
func (b *Book) Mint(txn *ledger.Txn, asset, dest solana.PublicKey, amount uint64, capability Capability) error {
	mintAddr, err := b.ledger.Derive(ledger.NamespaceMint, asset)
	if err != nil {
		return err
	}
	rec, err := txn.Get(mintAddr)
	if err != nil {
		return fmt.Errorf("mint for asset %s: %w", asset, err)
	}
	mint := rec.(*MintRecord)
	if mint.Authority != capability {
		return fmt.Errorf("mint authority for asset %s: %w", asset, sentinel.ErrInvalidState)
	}

	mint.Supply, err = checked.AddU64(mint.Supply, amount)
	if err != nil {
		return fmt.Errorf("supply of asset %s: %w", asset, err)
	}
	if err := txn.Put(mintAddr, mint); err != nil {
		return err
	}
	return b.credit(txn, asset, dest, amount)
}

// Transfer moves amount units of asset from one holder to another.
func (b *Book) Transfer(txn *ledger.Txn, asset, from, to solana.PublicKey, amount uint64) error {
	if err := b.debit(txn, asset, from, amount); err != nil {
		return err
	}
	return b.credit(txn, asset, to, amount)
}

// Balance returns the holder's units of asset; zero when no balance
// record exists.
func (b *Book) Balance(txn *ledger.Txn, asset, owner solana.PublicKey) (uint64, error) {
	addr, err := b.ledger.Derive(ledger.NamespaceBalance, asset, owner)
	if err != nil {
		return 0, err
	}
	rec, err := txn.Get(addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rec.(*BalanceRecord).Value, nil
}

// Supply returns the running supply of asset.
func (b *Book) Supply(txn *ledger.Txn, asset solana.PublicKey) (uint64, error) {
	addr, err := b.ledger.Derive(ledger.NamespaceMint, asset)
	if err != nil {
		return 0, err
	}
	rec, err := txn.Get(addr)
	if err != nil {
		return 0, err
	}
	return rec.(*MintRecord).Supply, nil
}

func (b *Book) credit(txn *ledger.Txn, asset, owner solana.PublicKey, amount uint64) error {
	addr, err := b.ledger.Derive(ledger.NamespaceBalance, asset, owner)
	if err != nil {
		return err
	}
	if !txn.Exists(addr) {
		return txn.Create(addr, &BalanceRecord{Asset: asset, Owner: owner, Value: amount})
	}
	rec, err := txn.Get(addr)
	if err != nil {
		return err
	}
	bal := rec.(*BalanceRecord)
	bal.Value, err = checked.AddU64(bal.Value, amount)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", owner, err)
	}
	return txn.Put(addr, bal)
}

func (b *Book) debit(txn *ledger.Txn, asset, owner solana.PublicKey, amount uint64) error {
	addr, err := b.ledger.Derive(ledger.NamespaceBalance, asset, owner)
	if err != nil {
		return err
	}
	rec, err := txn.Get(addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("balance of %s: %w", owner, sentinel.ErrInsufficientFunds)
		}
		return err
	}
	bal := rec.(*BalanceRecord)
	if bal.Value < amount {
		return fmt.Errorf("balance of %s: %w", owner, sentinel.ErrInsufficientFunds)
	}
	bal.Value -= amount
	return txn.Put(addr, bal)
}
