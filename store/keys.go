package store

// Entity key layout. Keys are namespaced by entity kind so a single flat
// keyspace can hold every record.
const (
	treasuryKey  = "treasury"
	splitPrefix  = "split/"
	ledgerPrefix = "ledger/"
	tokenPrefix  = "token/"
	allocPrefix  = "alloc/"
)

// TreasuryKey is the key of the singleton treasury configuration.
func TreasuryKey() string { return treasuryKey }

// SplitKey is the key of the split registry entry for a work.
func SplitKey(workID string) string { return splitPrefix + workID }

// LedgerKey is the key of the revenue ledger entry for a work.
func LedgerKey(workID string) string { return ledgerPrefix + workID }

// TokenKey is the key of a claim token.
func TokenKey(id string) string { return tokenPrefix + id }

// AllocationKey is the key of a collaborator's claim-token allocation pool.
func AllocationKey(workID, address string) string {
	return allocPrefix + workID + "/" + address
}
