// Package store provides Store implementations.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/pharmakit/stock-engine/inventory"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	medicines     map[inventory.MedicineID]inventory.Medicine
	medicineOrder []inventory.MedicineID

	batches    map[inventory.BatchID]inventory.Batch
	batchOrder []inventory.BatchID

	// Append-only logs, stored oldest first; reads reverse.
	transactions []inventory.Transaction
	audit        []inventory.AuditEntry

	settings inventory.Settings

	users     map[inventory.UserID]inventory.User
	userOrder []inventory.UserID

	session *inventory.Session
}

func NewMemory() *Memory {
	return &Memory{
		medicines: make(map[inventory.MedicineID]inventory.Medicine),
		batches:   make(map[inventory.BatchID]inventory.Batch),
		users:     make(map[inventory.UserID]inventory.User),
		settings:  inventory.DefaultSettings(),
	}
}

// -----------------------------------------------------------------------------
// Medicines
// -----------------------------------------------------------------------------

func (m *Memory) SaveMedicine(_ context.Context, med inventory.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.medicines[med.ID]; !ok {
		m.medicineOrder = append(m.medicineOrder, med.ID)
	}
	m.medicines[med.ID] = med
	return nil
}

func (m *Memory) GetMedicine(_ context.Context, id inventory.MedicineID) (*inventory.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	med, ok := m.medicines[id]
	if !ok {
		return nil, nil
	}
	return &med, nil
}

func (m *Memory) ListMedicines(_ context.Context) ([]inventory.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]inventory.Medicine, 0, len(m.medicineOrder))
	for _, id := range m.medicineOrder {
		result = append(result, m.medicines[id])
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// Batches
// -----------------------------------------------------------------------------

func (m *Memory) SaveBatch(_ context.Context, b inventory.Batch) error {
	if b.QtyBaseUnits < 0 {
		return inventory.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.batches[b.ID]; !ok {
		m.batchOrder = append(m.batchOrder, b.ID)
	}
	m.batches[b.ID] = b
	return nil
}

func (m *Memory) FindBatch(_ context.Context, medicineID inventory.MedicineID, batchNo string) (*inventory.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.batchOrder {
		b := m.batches[id]
		if b.MedicineID == medicineID && b.BatchNo == batchNo {
			return &b, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListBatchesByMedicine(_ context.Context, medicineID inventory.MedicineID) ([]inventory.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []inventory.Batch
	for _, id := range m.batchOrder {
		if b := m.batches[id]; b.MedicineID == medicineID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *Memory) ListBatches(_ context.Context) ([]inventory.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]inventory.Batch, 0, len(m.batchOrder))
	for _, id := range m.batchOrder {
		result = append(result, m.batches[id])
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// Transactions + audit (append-only)
// -----------------------------------------------------------------------------

func (m *Memory) AppendTransaction(_ context.Context, tx inventory.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *Memory) ListTransactions(_ context.Context) ([]inventory.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]inventory.Transaction, 0, len(m.transactions))
	for i := len(m.transactions) - 1; i >= 0; i-- {
		result = append(result, m.transactions[i])
	}
	return result, nil
}

func (m *Memory) AppendAudit(_ context.Context, entry inventory.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, entry)
	return nil
}

func (m *Memory) ListAudit(_ context.Context) ([]inventory.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]inventory.AuditEntry, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		result = append(result, m.audit[i])
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

func (m *Memory) GetSettings(_ context.Context) (inventory.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone(), nil
}

func (m *Memory) SaveSettings(_ context.Context, s inventory.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.Clone()
	return nil
}

// -----------------------------------------------------------------------------
// Users + session
// -----------------------------------------------------------------------------

func (m *Memory) SaveUser(_ context.Context, u inventory.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id inventory.UserID) (*inventory.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*inventory.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.userOrder {
		u := m.users[id]
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]inventory.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]inventory.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		result = append(result, m.users[id])
	}
	return result, nil
}

func (m *Memory) GetSession(_ context.Context) (*inventory.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *Memory) SetSession(_ context.Context, s *inventory.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.session = nil
		return nil
	}
	copied := *s
	m.session = &copied
	return nil
}
