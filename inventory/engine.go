/*
engine.go - The stock movement engine

PURPOSE:
  Applies the three movement operations against the batch ledger:

    StockIn   receive units into a new or existing lot
    Dispense  consume units from the earliest-expiring valid lot (FEFO)
    Adjust    signed manual correction against the nearest-expiry lot

  Every operation is one atomic step: validate, mutate the ledger, persist,
  record a transaction, record an audit entry. If validation fails, nothing
  happens - no mutation, no transaction, no audit - and the caller gets the
  first failing error.

INVARIANTS:
  - Conservation: the signed transaction quantities for a medicine sum to
    exactly its change in total stock.
  - Non-negativity: no batch quantity ever goes below zero.
  - Expiry-ordered consumption: dispensing always draws from the valid
    batch with the nearest expiry.
  - Audit completeness: exactly one audit entry per applied operation.

SINGLE-BATCH DISPENSE:
  Dispensing never splits a request across lots. It is satisfied entirely
  from the FEFO batch or fails with ErrInsufficientQuantity, even when
  later-expiring batches combined would cover the request.

CONCURRENCY:
  The engine is single-threaded by design (discrete operator actions, run
  to completion). The dispense path still re-checks expiry and quantity on
  the chosen batch at mutation time, so the validate-mutate sequence stays
  correct if a caller ever drives it concurrently per medicine.
*/
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// =============================================================================
// INPUTS
// =============================================================================

// StockUnit is the unit a movement request is expressed in. Box quantities
// are converted to base units via the medicine's pack size.
type StockUnit string

const (
	InBaseUnits StockUnit = "base"
	InBoxes     StockUnit = "box"
)

type StockInInput struct {
	MedicineID MedicineID
	Quantity   int64
	Unit       StockUnit
	BatchNo    string
	ExpiryDate Date
}

type DispenseInput struct {
	MedicineID MedicineID
	Quantity   int64
	Unit       StockUnit
	RxVerified bool
}

type AdjustDirection string

const (
	AdjustAdd      AdjustDirection = "add"
	AdjustSubtract AdjustDirection = "subtract"
)

type AdjustInput struct {
	MedicineID MedicineID
	Quantity   int64
	Direction  AdjustDirection
	Reason     string
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine applies movement operations. All state lives in the store; the
// engine itself is stateless and safe to share.
type Engine struct {
	store  Store
	ledger *Ledger
	clock  Clock
}

func NewEngine(store Store, clock Clock) *Engine {
	return &Engine{store: store, ledger: NewLedger(store), clock: clock}
}

// Ledger exposes the engine's batch queries for read-side callers.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// resolve loads the medicine and normalizes the quantity to base units.
// Shared validation head of all three operations.
func (e *Engine) resolve(ctx context.Context, actor *Session, medicineID MedicineID, qty int64, unit StockUnit) (*Medicine, int64, error) {
	if actor == nil {
		return nil, 0, ErrNotAuthenticated
	}
	med, err := e.store.GetMedicine(ctx, medicineID)
	if err != nil {
		return nil, 0, err
	}
	if med == nil {
		return nil, 0, ErrMedicineNotFound
	}
	if qty <= 0 {
		return nil, 0, ErrInvalidQuantity
	}
	qtyBase := qty
	if unit == InBoxes {
		qtyBase = qty * med.PackSize
	}
	return med, qtyBase, nil
}

// StockIn receives stock. A lot number already present for the medicine is
// merged: quantity added and the expiry date overwritten with the supplied
// value (last write wins - a repeat stock-in corrects an expiry date, so
// two genuinely different lots must never share a batch number). Otherwise
// a new batch is created.
func (e *Engine) StockIn(ctx context.Context, actor *Session, in StockInInput) (*Transaction, error) {
	med, qtyBase, err := e.resolve(ctx, actor, in.MedicineID, in.Quantity, in.Unit)
	if err != nil {
		return nil, err
	}
	if in.BatchNo == "" {
		return nil, &ValidationError{Message: "Batch number is required."}
	}
	if in.ExpiryDate.IsZero() {
		return nil, &ValidationError{Message: "Expiry date is required."}
	}

	existing, err := e.store.FindBatch(ctx, med.ID, in.BatchNo)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if existing != nil {
		batch = *existing
		batch.QtyBaseUnits += qtyBase
		batch.ExpiryDate = in.ExpiryDate
	} else {
		batch = Batch{
			ID:           BatchID(uuid.NewString()),
			MedicineID:   med.ID,
			BatchNo:      in.BatchNo,
			ExpiryDate:   in.ExpiryDate,
			QtyBaseUnits: qtyBase,
		}
	}
	if err := e.store.SaveBatch(ctx, batch); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("%s, batch %s, +%d %s", med.Code, batch.BatchNo, qtyBase, med.BaseUnit)
	return e.record(ctx, actor, Transaction{
		Type:         TxStockIn,
		MedicineID:   med.ID,
		BatchNo:      batch.BatchNo,
		QtyBaseUnits: qtyBase,
	}, "stock-in", details)
}

// Dispense consumes stock from the single earliest-expiring valid batch.
func (e *Engine) Dispense(ctx context.Context, actor *Session, in DispenseInput) (*Transaction, error) {
	med, qtyBase, err := e.resolve(ctx, actor, in.MedicineID, in.Quantity, in.Unit)
	if err != nil {
		return nil, err
	}

	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if med.RxRequired && settings.RequireRxVerification && !in.RxVerified {
		return nil, ErrRxVerificationRequired
	}

	today := e.clock.Today()
	valid, err := e.ledger.DispensableBatches(ctx, med.ID, today)
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, ErrNoStockAvailable
	}
	chosen := valid[0]

	// Re-check the chosen batch at mutation time. Redundant while the
	// engine runs operations to completion one at a time, but it keeps the
	// non-negativity invariant intact under any future async caller.
	if DaysBetween(today, chosen.ExpiryDate) < 0 {
		return nil, ErrExpiredBatch
	}
	if chosen.QtyBaseUnits < qtyBase {
		return nil, &InsufficientQuantityError{
			BatchNo:   chosen.BatchNo,
			Unit:      med.BaseUnit,
			Available: chosen.QtyBaseUnits,
			Requested: qtyBase,
		}
	}

	chosen.QtyBaseUnits -= qtyBase
	if err := e.store.SaveBatch(ctx, chosen); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("%s, batch %s, -%d %s", med.Code, chosen.BatchNo, qtyBase, med.BaseUnit)
	return e.record(ctx, actor, Transaction{
		Type:         TxDispense,
		MedicineID:   med.ID,
		BatchNo:      chosen.BatchNo,
		QtyBaseUnits: qtyBase,
	}, "dispense", details)
}

// Adjust applies a signed correction to the nearest-expiry batch. Unlike
// dispensing, expired and drained batches are eligible targets - a
// write-off of expired stock is the typical subtract case.
func (e *Engine) Adjust(ctx context.Context, actor *Session, in AdjustInput) (*Transaction, error) {
	med, _, err := e.resolve(ctx, actor, in.MedicineID, in.Quantity, InBaseUnits)
	if err != nil {
		return nil, err
	}

	ordered, err := e.ledger.AllBatchesOrdered(ctx, med.ID)
	if err != nil {
		return nil, err
	}
	if len(ordered) == 0 {
		return nil, ErrNoBatchAvailable
	}
	target := ordered[0]

	delta := in.Quantity
	if in.Direction == AdjustSubtract {
		if target.QtyBaseUnits < in.Quantity {
			return nil, &InsufficientQuantityError{
				BatchNo:   target.BatchNo,
				Unit:      med.BaseUnit,
				Available: target.QtyBaseUnits,
				Requested: in.Quantity,
			}
		}
		delta = -in.Quantity
	}

	target.QtyBaseUnits += delta
	if err := e.store.SaveBatch(ctx, target); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("%s, %s, %+d", med.Code, in.Reason, delta)
	return e.record(ctx, actor, Transaction{
		Type:         TxAdjustment,
		MedicineID:   med.ID,
		BatchNo:      target.BatchNo,
		QtyBaseUnits: delta,
		Reason:       in.Reason,
	}, "adjustment", details)
}

// SuggestBatch returns the batch a dispense would draw from, or nil when
// no valid stock exists. Read-only; feeds the dispense form's FEFO hint.
func (e *Engine) SuggestBatch(ctx context.Context, medicineID MedicineID) (*Batch, error) {
	valid, err := e.ledger.DispensableBatches(ctx, medicineID, e.clock.Today())
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, nil
	}
	return &valid[0], nil
}

// record appends the transaction and its matching audit entry. Runs only
// after the ledger mutation has been persisted.
func (e *Engine) record(ctx context.Context, actor *Session, tx Transaction, action, details string) (*Transaction, error) {
	tx.ID = TransactionID(uuid.NewString())
	tx.Timestamp = e.clock.Now()
	tx.User = actor.Username
	if err := e.store.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if err := appendAudit(ctx, e.store, e.clock, actor, action, details); err != nil {
		return nil, err
	}
	return &tx, nil
}
