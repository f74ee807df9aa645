/*
ledger.go - Batch-level stock queries and FEFO ordering

PURPOSE:
  The ledger answers every quantity and expiry question about a medicine's
  lots. It owns no mutable state of its own - everything is computed from
  the batch store on demand, so "today" is always today's.

FEFO:
  First-Expired-First-Out. Dispensing consumes from the valid batch with
  the nearest expiry date. Ordering is ascending by expiry with storage
  order as the stable tiebreak.

CLASSIFICATION:
  expired  daysLeft < 0
  near     0 <= daysLeft <= warningDays
  ok       daysLeft > warningDays

SEE ALSO:
  - engine.go: consumes these queries to apply movements
  - alerts.go: derives the alert views from the same queries
*/
package inventory

import (
	"context"
	"sort"
)

// =============================================================================
// BATCH STATUS
// =============================================================================

type BatchStatus string

const (
	StatusExpired BatchStatus = "expired"
	StatusNear    BatchStatus = "near"
	StatusOK      BatchStatus = "ok"
)

// Classify buckets a batch by its remaining shelf life. The three states
// are mutually exclusive; a batch expiring today still counts as near, not
// expired. Returns the status and the (possibly negative) days left.
func Classify(b Batch, today Date, warningDays int) (BatchStatus, int) {
	daysLeft := DaysBetween(today, b.ExpiryDate)
	switch {
	case daysLeft < 0:
		return StatusExpired, daysLeft
	case daysLeft <= warningDays:
		return StatusNear, daysLeft
	default:
		return StatusOK, daysLeft
	}
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger answers stock and expiry queries over the batch store.
type Ledger struct {
	batches BatchStore
}

func NewLedger(batches BatchStore) *Ledger {
	return &Ledger{batches: batches}
}

// TotalRemaining sums QtyBaseUnits across ALL of the medicine's batches,
// expired and drained ones included. Reorder comparisons use this total.
func (l *Ledger) TotalRemaining(ctx context.Context, medicineID MedicineID) (int64, error) {
	batches, err := l.batches.ListBatchesByMedicine(ctx, medicineID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, b := range batches {
		total += b.QtyBaseUnits
	}
	return total, nil
}

// DispensableBatches returns the batches dispensing may draw from: positive
// quantity and not expired (expiring today still qualifies), ordered by
// expiry ascending. The first element is the FEFO choice.
func (l *Ledger) DispensableBatches(ctx context.Context, medicineID MedicineID, today Date) ([]Batch, error) {
	batches, err := l.batches.ListBatchesByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	var valid []Batch
	for _, b := range batches {
		if b.QtyBaseUnits > 0 && DaysBetween(today, b.ExpiryDate) >= 0 {
			valid = append(valid, b)
		}
	}
	sortByExpiry(valid)
	return valid, nil
}

// AllBatchesOrdered returns every batch of the medicine in FEFO order,
// drained and expired ones included. Adjustments target the first element,
// which may legitimately be an expired or empty lot.
func (l *Ledger) AllBatchesOrdered(ctx context.Context, medicineID MedicineID) ([]Batch, error) {
	batches, err := l.batches.ListBatchesByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	sortByExpiry(batches)
	return batches, nil
}

// sortByExpiry orders ascending by expiry date. The sort is stable so
// equal expiries keep storage order.
func sortByExpiry(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
	})
}
