/*
store.go - Persistence interfaces for all collections

PURPOSE:
  Defines the boundary between the domain logic and storage. The original
  system persisted whole collections to a key/value gateway (read all,
  mutate in memory, write all back); here that is re-architected as
  per-entity repositories with explicit upserts, which keeps every write
  targeted and makes future concurrency control tractable.

COLLECTIONS:
  medicines, batches, transactions, audit, settings, users, session

APPEND-ONLY CONTRACTS:
  Transactions and audit entries are append-only: no update, no delete.
  Both are listed newest first. Batches are upserted but never deleted -
  a drained batch keeps its zero quantity as history.

NON-NEGATIVITY AT THE BOUNDARY:
  SaveBatch implementations MUST reject a negative quantity. The engine
  never produces one, but the invariant is enforced where the record
  crosses into storage, not by convention.

IMPLEMENTATIONS:
  - inventory/store/memory.go: in-memory (tests, dev)
  - store/sqlite/sqlite.go:    durable SQLite
*/
package inventory

import "context"

// =============================================================================
// PER-COLLECTION REPOSITORIES
// =============================================================================

// MedicineStore persists catalog records, upserted by ID.
type MedicineStore interface {
	// SaveMedicine inserts or replaces the record with the same ID.
	SaveMedicine(ctx context.Context, m Medicine) error

	// GetMedicine returns the medicine or nil if absent.
	GetMedicine(ctx context.Context, id MedicineID) (*Medicine, error)

	// ListMedicines returns all medicines, archived included, in insertion order.
	ListMedicines(ctx context.Context) ([]Medicine, error)
}

// BatchStore persists lots. Batches are never deleted.
type BatchStore interface {
	// SaveBatch inserts or replaces the batch with the same ID.
	// Rejects QtyBaseUnits < 0.
	SaveBatch(ctx context.Context, b Batch) error

	// FindBatch returns the batch with this medicine+lot number, or nil.
	FindBatch(ctx context.Context, medicineID MedicineID, batchNo string) (*Batch, error)

	// ListBatchesByMedicine returns the medicine's batches in insertion
	// order (the stable tiebreak under expiry sorting).
	ListBatchesByMedicine(ctx context.Context, medicineID MedicineID) ([]Batch, error)

	// ListBatches returns every batch in insertion order.
	ListBatches(ctx context.Context) ([]Batch, error)
}

// TransactionStore is the append-only movement log.
type TransactionStore interface {
	AppendTransaction(ctx context.Context, tx Transaction) error

	// ListTransactions returns all transactions, newest first.
	ListTransactions(ctx context.Context) ([]Transaction, error)
}

// AuditLog is the append-only trail of mutations. Also newest first.
type AuditLog interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context) ([]AuditEntry, error)
}

// SettingsStore persists the configuration singleton.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// UserStore persists operator accounts.
type UserStore interface {
	SaveUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id UserID) (*User, error)

	// GetUserByUsername matches case-insensitively, or returns nil.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	ListUsers(ctx context.Context) ([]User, error)
}

// SessionStore holds the single current session (nil when logged out).
type SessionStore interface {
	GetSession(ctx context.Context) (*Session, error)
	SetSession(ctx context.Context, s *Session) error
}

// =============================================================================
// COMPOSITE STORE
// =============================================================================

// Store bundles every collection. The engine, catalog, and alert
// aggregator are written against this; both store implementations satisfy
// the whole thing.
type Store interface {
	MedicineStore
	BatchStore
	TransactionStore
	AuditLog
	SettingsStore
	UserStore
	SessionStore
}
