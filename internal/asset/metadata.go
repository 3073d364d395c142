package asset

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"civitas/internal/ledger"
	"civitas/pkg/platform/sentinel"
)

// Creator credits an identity in an asset's metadata.
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// Metadata is the descriptive tag attached to an asset.
type Metadata struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	Collection           *solana.PublicKey
	Mutable              bool
}

// MetadataRecord stores an asset's metadata at its derived address.
type MetadataRecord struct {
	Asset solana.PublicKey
	Data  Metadata
}

func (m *MetadataRecord) Clone() ledger.Record {
	cp := *m
	cp.Data.Creators = append([]Creator(nil), m.Data.Creators...)
	if m.Data.Collection != nil {
		col := *m.Data.Collection
		cp.Data.Collection = &col
	}
	return &cp
}

// AttachMetadata records the descriptor for asset. Re-attachment is only
// allowed while the existing metadata is mutable.
func (b *Book) AttachMetadata(txn *ledger.Txn, asset solana.PublicKey, data Metadata) error {
	if data.Name == "" {
		return fmt.Errorf("metadata name: %w", sentinel.ErrInvalidState)
	}
	addr, err := b.ledger.Derive(ledger.NamespaceMetadata, asset)
	if err != nil {
		return err
	}
	if !txn.Exists(addr) {
		return txn.Create(addr, &MetadataRecord{Asset: asset, Data: data})
	}

	rec, err := txn.Get(addr)
	if err != nil {
		return err
	}
	if !rec.(*MetadataRecord).Data.Mutable {
		return fmt.Errorf("metadata of asset %s is immutable: %w", asset, sentinel.ErrInvalidState)
	}
	return txn.Put(addr, &MetadataRecord{Asset: asset, Data: data})
}

// MetadataOf returns the descriptor attached to asset.
func (b *Book) MetadataOf(txn *ledger.Txn, asset solana.PublicKey) (Metadata, error) {
	addr, err := b.ledger.Derive(ledger.NamespaceMetadata, asset)
	if err != nil {
		return Metadata{}, err
	}
	rec, err := txn.Get(addr)
	if err != nil {
		return Metadata{}, err
	}
	return rec.(*MetadataRecord).Data, nil
}
