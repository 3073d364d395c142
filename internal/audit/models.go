package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture state-transition
// operations. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Actor     string // base58 signer that drove the operation
	Subject   string // base58 asset or record identity the operation touched
	Action    string
	Amount    uint64 // units minted, shares sold or yield paid, when applicable
	RequestID string
}

// Actions recorded by the platform, one per state-transition operation.
const (
	EventPlatformInitialized = "platform.initialized"
	EventIssuerAuthorized    = "issuer.authorized"
	EventCredentialIssued    = "credential.issued"
	EventPropertyRegistered  = "property.registered"
	EventSharesAcquired      = "shares.acquired"
	EventYieldClaimed        = "yield.claimed"
)
