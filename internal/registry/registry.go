// Package registry owns access to the singleton platform record: the
// authority identity, the global counters and the issuer allow-list.
// Every domain loads the record through this package so each operation
// sees it at the same derived address with the same error semantics.
package registry

import (
	"errors"

	"civitas/internal/ledger"
	"civitas/internal/registry/models"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

// Address returns the well-known derived address of the platform record.
func Address(l *ledger.Ledger) (ledger.Address, error) {
	return l.Derive(ledger.NamespacePlatform)
}

// Load reads the platform record inside the caller's transaction,
// translating a missing record into the shared domain error.
func Load(txn *ledger.Txn, l *ledger.Ledger) (*models.Platform, ledger.Address, error) {
	addr, err := Address(l)
	if err != nil {
		return nil, ledger.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive platform address")
	}
	rec, err := txn.Get(addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ledger.Address{}, dErrors.New(dErrors.CodeNotFound, "platform is not initialized")
		}
		return nil, ledger.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load platform record")
	}
	return rec.(*models.Platform), addr, nil
}
