package models

import (
	"github.com/gagliardetto/solana-go"

	"civitas/internal/asset"
	"civitas/internal/ledger"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/checked"
)

// MaxIssuers bounds the allow-list. The platform record has a fixed upper
// size known at creation time, so the list cannot grow past its reserved
// slots.
const MaxIssuers = 10

// Platform is the singleton registry record for the whole deployment.
//
// Invariants:
//   - Authority is immutable after creation
//   - TotalProperties and TotalCertificates never decrease
//   - AuthorizedIssuers holds at most MaxIssuers distinct identities
//   - only the authority mutates AuthorizedIssuers
//
// The platform holds the minting capability for every asset it manages;
// records never share it and no bare identity can mint.
type Platform struct {
	Authority         solana.PublicKey
	TotalProperties   uint64
	TotalCertificates uint64
	AuthorizedIssuers []solana.PublicKey

	MintCapability  asset.Capability
	SettlementAsset solana.PublicKey
}

// NewPlatform constructs the registry record at initialization time.
func NewPlatform(authority solana.PublicKey, capability asset.Capability, settlementAsset solana.PublicKey) (*Platform, error) {
	if authority.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "platform authority cannot be the zero key")
	}
	return &Platform{
		Authority:       authority,
		MintCapability:  capability,
		SettlementAsset: settlementAsset,
	}, nil
}

func (p *Platform) Clone() ledger.Record {
	cp := *p
	cp.AuthorizedIssuers = append([]solana.PublicKey(nil), p.AuthorizedIssuers...)
	return &cp
}

func (p *Platform) IsAuthority(key solana.PublicKey) bool {
	return key.Equals(p.Authority)
}

func (p *Platform) IsAuthorizedIssuer(key solana.PublicKey) bool {
	for _, issuer := range p.AuthorizedIssuers {
		if issuer.Equals(key) {
			return true
		}
	}
	return false
}

// CanAddIssuer checks capacity and duplicate constraints.
// Use with ApplyAddIssuer once the caller has been authorized.
func (p *Platform) CanAddIssuer(issuer solana.PublicKey) error {
	if issuer.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "issuer cannot be the zero key")
	}
	if p.IsAuthorizedIssuer(issuer) {
		return dErrors.New(dErrors.CodeDuplicate, "issuer is already authorized")
	}
	if len(p.AuthorizedIssuers) >= MaxIssuers {
		return dErrors.Newf(dErrors.CodeCapacityExceeded, "issuer list is full (%d entries)", MaxIssuers)
	}
	return nil
}

// ApplyAddIssuer appends the issuer. Call CanAddIssuer first.
func (p *Platform) ApplyAddIssuer(issuer solana.PublicKey) {
	p.AuthorizedIssuers = append(p.AuthorizedIssuers, issuer)
}

// AddIssuer validates and applies in one call.
func (p *Platform) AddIssuer(issuer solana.PublicKey) error {
	if err := p.CanAddIssuer(issuer); err != nil {
		return err
	}
	p.ApplyAddIssuer(issuer)
	return nil
}

// RecordCertificate bumps the certificate counter, failing closed on
// overflow.
func (p *Platform) RecordCertificate() error {
	next, err := checked.AddU64(p.TotalCertificates, 1)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeArithmetic, "certificate counter overflow")
	}
	p.TotalCertificates = next
	return nil
}

// RecordProperty bumps the property counter, failing closed on overflow.
func (p *Platform) RecordProperty() error {
	next, err := checked.AddU64(p.TotalProperties, 1)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeArithmetic, "property counter overflow")
	}
	p.TotalProperties = next
	return nil
}
