package ledger

import (
	"github.com/gagliardetto/solana-go"
)

// Address is a derived storage location. Deterministic derivation keyed on
// a namespace tag plus key material makes duplicate creation detectable:
// the same inputs always land on the same address.
type Address = solana.PublicKey

// Namespaces for every record shape stored on the ledger.
const (
	NamespacePlatform    = "platform"
	NamespaceCertificate = "certificate"
	NamespaceProperty    = "property"
	NamespaceMint        = "mint"
	NamespaceSettlement  = "settlement"
	NamespaceBalance     = "balance"
	NamespaceMetadata    = "metadata"
)

// Derive computes the storage address for a namespace and key material
// under the given program identity. Derivation is collision-free for
// distinct inputs and stable across processes.
func Derive(programID solana.PublicKey, namespace string, keys ...solana.PublicKey) (Address, error) {
	seeds := make([][]byte, 0, len(keys)+1)
	seeds = append(seeds, []byte(namespace))
	for _, k := range keys {
		k := k
		seeds = append(seeds, k.Bytes())
	}
	addr, _, err := solana.FindProgramAddress(seeds, programID)
	return addr, err
}
