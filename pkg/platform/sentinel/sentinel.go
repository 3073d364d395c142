package sentinel

import "errors"

// Sentinel errors for ledger and store facts. The ledger, the asset book
// and stores return these (optionally wrapped) so services can translate
// them into domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: no record exists at the derived address
// - ErrDuplicate: creation attempted at an occupied address
// - ErrInsufficientFunds: a transfer exceeds the source balance
// - ErrInvalidState: record in wrong state for the requested operation
// - ErrOverflow: fixed-width arithmetic would wrap
// - ErrUnavailable: a backing service is temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrUnavailable       = errors.New("unavailable")
)
