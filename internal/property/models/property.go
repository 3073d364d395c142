// Package models defines the fractional-ownership property record and
// the share-supply and yield arithmetic attached to it.
package models

import (
	"github.com/gagliardetto/solana-go"

	"civitas/internal/ledger"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/checked"
)

const (
	MaxNameLen = 100
	MaxURILen  = 200
)

// MonthlyYieldDivisor fixes the nominal monthly yield at 1% of the
// property valuation.
const MonthlyYieldDivisor = 100

// Property tracks one registered property and its share-asset class.
// TokensSold only ever increases, and never past TotalTokens.
type Property struct {
	Asset       solana.PublicKey
	Name        string
	TotalValue  uint64
	TotalTokens uint64
	TokensSold  uint64
	MetadataURI string
}

// NewProperty validates the bounded fields and the share supply.
func NewProperty(assetID solana.PublicKey, name string, totalValue, totalTokens uint64, metadataURI string) (*Property, error) {
	if assetID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "share asset identity is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "property name is required")
	}
	if len(name) > MaxNameLen {
		return nil, dErrors.Newf(dErrors.CodeValidation, "property name exceeds %d bytes", MaxNameLen)
	}
	if metadataURI == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "metadata uri is required")
	}
	if len(metadataURI) > MaxURILen {
		return nil, dErrors.Newf(dErrors.CodeValidation, "metadata uri exceeds %d bytes", MaxURILen)
	}
	if totalTokens == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "total token supply must be positive")
	}
	return &Property{
		Asset:       assetID,
		Name:        name,
		TotalValue:  totalValue,
		TotalTokens: totalTokens,
		MetadataURI: metadataURI,
	}, nil
}

func (p *Property) Clone() ledger.Record {
	cp := *p
	return &cp
}

// TokensAvailable is the unsold remainder of the share supply.
func (p *Property) TokensAvailable() uint64 {
	return p.TotalTokens - p.TokensSold
}

// OwnershipSoldPercent reports how much of the supply has been sold.
func (p *Property) OwnershipSoldPercent() float64 {
	return float64(p.TokensSold) / float64(p.TotalTokens) * 100
}

// CanSell checks the supply cap without mutating the record.
func (p *Property) CanSell(quantity uint64) error {
	if quantity == 0 {
		return dErrors.New(dErrors.CodeValidation, "share quantity must be positive")
	}
	sold, err := checked.AddU64(p.TokensSold, quantity)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeArithmetic, "tokens sold overflow")
	}
	if sold > p.TotalTokens {
		return dErrors.New(dErrors.CodeCapacityExceeded, "insufficient tokens available")
	}
	return nil
}

// Sell records quantity shares as sold; no partial fill.
func (p *Property) Sell(quantity uint64) error {
	if err := p.CanSell(quantity); err != nil {
		return err
	}
	p.TokensSold += quantity
	return nil
}

// MonthlyRent is the nominal monthly yield pool for this property.
func (p *Property) MonthlyRent() uint64 {
	return p.TotalValue / MonthlyYieldDivisor
}

// YieldFor computes a holder's proportional payout with integer
// arithmetic, truncating toward zero. Overflow fails closed.
func (p *Property) YieldFor(balance uint64) (uint64, error) {
	scaled, err := checked.MulU64(p.MonthlyRent(), balance)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeArithmetic, "yield computation overflow")
	}
	return scaled / p.TotalTokens, nil
}
