package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmakit/stock-engine/inventory"
	invstore "github.com/pharmakit/stock-engine/inventory/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*inventory.Engine, *invstore.Memory, *inventory.FixedClock) {
	t.Helper()
	store := invstore.NewMemory()
	clock := inventory.NewFixedClock(2025, time.January, 1)
	return inventory.NewEngine(store, clock), store, clock
}

func staffSession() *inventory.Session {
	return &inventory.Session{UserID: "u2", Username: "staff", Role: inventory.RoleStaff}
}

func paracetamol() inventory.Medicine {
	return inventory.Medicine{
		ID:                "m1",
		Code:              "PAR-500-T",
		GenericName:       "Paracetamol",
		DosageForm:        inventory.FormTablet,
		BaseUnit:          inventory.UnitTablet,
		PackSize:          100,
		ReorderLevelBoxes: 2,
	}
}

func saveMedicine(t *testing.T, s inventory.Store, m inventory.Medicine) {
	t.Helper()
	require.NoError(t, s.SaveMedicine(context.Background(), m))
}

func saveBatch(t *testing.T, s inventory.Store, id, medID, batchNo, expiry string, qty int64) {
	t.Helper()
	exp, err := inventory.ParseDate(expiry)
	require.NoError(t, err)
	require.NoError(t, s.SaveBatch(context.Background(), inventory.Batch{
		ID:           inventory.BatchID(id),
		MedicineID:   inventory.MedicineID(medID),
		BatchNo:      batchNo,
		ExpiryDate:   exp,
		QtyBaseUnits: qty,
	}))
}

func totalStock(t *testing.T, s inventory.Store, medID string) int64 {
	t.Helper()
	batches, err := s.ListBatchesByMedicine(context.Background(), inventory.MedicineID(medID))
	require.NoError(t, err)
	var total int64
	for _, b := range batches {
		total += b.QtyBaseUnits
	}
	return total
}

// =============================================================================
// STOCK-IN TESTS
// =============================================================================

func TestStockIn_NewBatch(t *testing.T) {
	// GIVEN: A medicine with no batches
	// WHEN: Receiving 50 base units into lot "L1"
	// THEN: A new batch exists and a stock-in transaction is recorded

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())

	exp, _ := inventory.ParseDate("2025-06-01")
	tx, err := engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1",
		Quantity:   50,
		Unit:       inventory.InBaseUnits,
		BatchNo:    "L1",
		ExpiryDate: exp,
	})
	require.NoError(t, err)

	assert.Equal(t, inventory.TxStockIn, tx.Type)
	assert.Equal(t, int64(50), tx.QtyBaseUnits)
	assert.Equal(t, int64(50), tx.SignedQty())
	assert.Equal(t, "staff", tx.User)
	assert.Equal(t, int64(50), totalStock(t, store, "m1"))
}

func TestStockIn_BoxQuantityConvertsViaPackSize(t *testing.T) {
	// GIVEN: Pack size 100
	// WHEN: Receiving 2 boxes
	// THEN: 200 base units land in the batch

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())

	exp, _ := inventory.ParseDate("2025-06-01")
	tx, err := engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1",
		Quantity:   2,
		Unit:       inventory.InBoxes,
		BatchNo:    "L1",
		ExpiryDate: exp,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(200), tx.QtyBaseUnits)
	assert.Equal(t, int64(200), totalStock(t, store, "m1"))
}

func TestStockIn_ExistingLot_MergesAndOverwritesExpiry(t *testing.T) {
	// GIVEN: Lot "L1" with 30 units expiring 2025-06-01
	// WHEN: Receiving 20 more into "L1" with expiry 2025-07-01
	// THEN: One batch with 50 units and the later expiry (last write wins)

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L1", "2025-06-01", 30)

	exp, _ := inventory.ParseDate("2025-07-01")
	_, err := engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1",
		Quantity:   20,
		Unit:       inventory.InBaseUnits,
		BatchNo:    "L1",
		ExpiryDate: exp,
	})
	require.NoError(t, err)

	batches, err := store.ListBatchesByMedicine(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(50), batches[0].QtyBaseUnits)
	assert.Equal(t, "2025-07-01", batches[0].ExpiryDate.String())
}

func TestStockIn_Validation(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	exp, _ := inventory.ParseDate("2025-06-01")

	// No session
	_, err := engine.StockIn(ctx, nil, inventory.StockInInput{
		MedicineID: "m1", Quantity: 10, Unit: inventory.InBaseUnits, BatchNo: "L1", ExpiryDate: exp,
	})
	assert.ErrorIs(t, err, inventory.ErrNotAuthenticated)

	// Unknown medicine
	_, err = engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "nope", Quantity: 10, Unit: inventory.InBaseUnits, BatchNo: "L1", ExpiryDate: exp,
	})
	assert.ErrorIs(t, err, inventory.ErrMedicineNotFound)

	// Non-positive quantity
	_, err = engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1", Quantity: 0, Unit: inventory.InBaseUnits, BatchNo: "L1", ExpiryDate: exp,
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	// Missing batch number
	_, err = engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1", Quantity: 10, Unit: inventory.InBaseUnits, ExpiryDate: exp,
	})
	assert.ErrorIs(t, err, inventory.ErrValidationFailed)

	// Missing expiry
	_, err = engine.StockIn(ctx, staffSession(), inventory.StockInInput{
		MedicineID: "m1", Quantity: 10, Unit: inventory.InBaseUnits, BatchNo: "L1",
	})
	assert.ErrorIs(t, err, inventory.ErrValidationFailed)

	// Nothing was recorded
	assert.Equal(t, int64(0), totalStock(t, store, "m1"))
	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

// =============================================================================
// DISPENSE TESTS (FEFO)
// =============================================================================

func TestDispense_DrawsFromEarliestExpiry(t *testing.T) {
	// GIVEN: Batches expiring 2025-02-01 (qty 5) and 2025-01-10 (qty 5)
	// WHEN: Dispensing 3 units
	// THEN: The 2025-01-10 batch drops to 2, the other is untouched

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-LATER", "2025-02-01", 5)
	saveBatch(t, store, "b2", "m1", "L-SOON", "2025-01-10", 5)

	tx, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 3, Unit: inventory.InBaseUnits,
	})
	require.NoError(t, err)

	assert.Equal(t, "L-SOON", tx.BatchNo)
	assert.Equal(t, int64(-3), tx.SignedQty())

	soon, err := store.FindBatch(ctx, "m1", "L-SOON")
	require.NoError(t, err)
	assert.Equal(t, int64(2), soon.QtyBaseUnits)

	later, err := store.FindBatch(ctx, "m1", "L-LATER")
	require.NoError(t, err)
	assert.Equal(t, int64(5), later.QtyBaseUnits)
}

func TestDispense_SkipsExpiredAndDrainedBatches(t *testing.T) {
	// GIVEN: An expired batch, a drained batch, and one valid batch
	// WHEN: Dispensing
	// THEN: Only the valid batch is touched

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-EXPIRED", "2024-12-20", 50)
	saveBatch(t, store, "b2", "m1", "L-EMPTY", "2025-01-05", 0)
	saveBatch(t, store, "b3", "m1", "L-GOOD", "2025-03-01", 10)

	tx, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 4, Unit: inventory.InBaseUnits,
	})
	require.NoError(t, err)
	assert.Equal(t, "L-GOOD", tx.BatchNo)
}

func TestDispense_ExpiringTodayStillDispensable(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-TODAY", "2025-01-01", 10)

	tx, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 1, Unit: inventory.InBaseUnits,
	})
	require.NoError(t, err)
	assert.Equal(t, "L-TODAY", tx.BatchNo)
}

func TestDispense_NeverSplitsAcrossBatches(t *testing.T) {
	// GIVEN: FEFO batch holds 2, a later batch holds 10
	// WHEN: Dispensing 5
	// THEN: The request fails with a shortage on the FEFO batch, even though
	//       the lots combined could cover it

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-SOON", "2025-01-10", 2)
	saveBatch(t, store, "b2", "m1", "L-LATER", "2025-02-01", 10)

	_, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 5, Unit: inventory.InBaseUnits,
	})

	var shortErr *inventory.InsufficientQuantityError
	require.ErrorAs(t, err, &shortErr)
	assert.Equal(t, "L-SOON", shortErr.BatchNo)
	assert.Equal(t, int64(2), shortErr.Available)
	assert.Equal(t, int64(5), shortErr.Requested)

	// Nothing moved
	assert.Equal(t, int64(12), totalStock(t, store, "m1"))
}

func TestDispense_NoValidStock(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-EXPIRED", "2024-11-01", 100)

	_, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 1, Unit: inventory.InBaseUnits,
	})
	assert.ErrorIs(t, err, inventory.ErrNoStockAvailable)
}

func TestDispense_RxGate(t *testing.T) {
	// GIVEN: An Rx-required medicine and the verification gate enabled
	// WHEN: Dispensing without verification
	// THEN: Rejected; verified dispense and gate-off dispense both pass

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	med := paracetamol()
	med.RxRequired = true
	saveMedicine(t, store, med)
	saveBatch(t, store, "b1", "m1", "L1", "2025-06-01", 100)

	_, err := engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 1, Unit: inventory.InBaseUnits,
	})
	assert.ErrorIs(t, err, inventory.ErrRxVerificationRequired)

	_, err = engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 1, Unit: inventory.InBaseUnits, RxVerified: true,
	})
	assert.NoError(t, err)

	// Disable the gate process-wide
	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	settings.RequireRxVerification = false
	require.NoError(t, store.SaveSettings(ctx, settings))

	_, err = engine.Dispense(ctx, staffSession(), inventory.DispenseInput{
		MedicineID: "m1", Quantity: 1, Unit: inventory.InBaseUnits,
	})
	assert.NoError(t, err)
}

// =============================================================================
// ADJUST TESTS
// =============================================================================

func TestAdjust_AddAndSubtract(t *testing.T) {
	// GIVEN: One batch with 10 units
	// WHEN: Adding 5 then subtracting 3
	// THEN: Batch ends at 12 with signed transaction deltas +5 and -3

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L1", "2025-06-01", 10)

	tx1, err := engine.Adjust(ctx, staffSession(), inventory.AdjustInput{
		MedicineID: "m1", Quantity: 5, Direction: inventory.AdjustAdd, Reason: "recount",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), tx1.SignedQty())

	tx2, err := engine.Adjust(ctx, staffSession(), inventory.AdjustInput{
		MedicineID: "m1", Quantity: 3, Direction: inventory.AdjustSubtract, Reason: "breakage",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), tx2.SignedQty())
	assert.Equal(t, "breakage", tx2.Reason)

	assert.Equal(t, int64(12), totalStock(t, store, "m1"))
}

func TestAdjust_TargetsNearestExpiry_ExpiredIncluded(t *testing.T) {
	// Write-offs of expired stock are the typical subtract case, so an
	// expired lot is a legitimate adjustment target.

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L-GOOD", "2025-06-01", 40)
	saveBatch(t, store, "b2", "m1", "L-EXPIRED", "2024-12-01", 25)

	tx, err := engine.Adjust(ctx, staffSession(), inventory.AdjustInput{
		MedicineID: "m1", Quantity: 25, Direction: inventory.AdjustSubtract, Reason: "expired write-off",
	})
	require.NoError(t, err)
	assert.Equal(t, "L-EXPIRED", tx.BatchNo)

	expired, err := store.FindBatch(ctx, "m1", "L-EXPIRED")
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired.QtyBaseUnits)
}

func TestAdjust_SubtractBelowZeroRejected(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	saveBatch(t, store, "b1", "m1", "L1", "2025-06-01", 4)

	_, err := engine.Adjust(ctx, staffSession(), inventory.AdjustInput{
		MedicineID: "m1", Quantity: 5, Direction: inventory.AdjustSubtract, Reason: "recount",
	})
	assert.ErrorIs(t, err, inventory.ErrInsufficientQuantity)
	assert.Equal(t, int64(4), totalStock(t, store, "m1"))
}

func TestAdjust_NoBatches(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	saveMedicine(t, store, paracetamol())

	_, err := engine.Adjust(context.Background(), staffSession(), inventory.AdjustInput{
		MedicineID: "m1", Quantity: 1, Direction: inventory.AdjustAdd, Reason: "found",
	})
	assert.ErrorIs(t, err, inventory.ErrNoBatchAvailable)
}

// =============================================================================
// SUGGESTION AND INVARIANT TESTS
// =============================================================================

func TestSuggestBatch(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())

	// No stock at all
	got, err := engine.SuggestBatch(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got)

	saveBatch(t, store, "b1", "m1", "L-LATER", "2025-03-01", 10)
	saveBatch(t, store, "b2", "m1", "L-SOON", "2025-01-15", 10)

	got, err = engine.SuggestBatch(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "L-SOON", got.BatchNo)
}

func TestConservation_SignedSumMatchesStockChange(t *testing.T) {
	// GIVEN: A sequence of stock-ins, dispenses, and adjustments
	// THEN: The signed transaction quantities sum to the stock change

	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	actor := staffSession()

	exp, _ := inventory.ParseDate("2025-06-01")
	_, err := engine.StockIn(ctx, actor, inventory.StockInInput{
		MedicineID: "m1", Quantity: 100, Unit: inventory.InBaseUnits, BatchNo: "L1", ExpiryDate: exp,
	})
	require.NoError(t, err)
	_, err = engine.Dispense(ctx, actor, inventory.DispenseInput{
		MedicineID: "m1", Quantity: 30, Unit: inventory.InBaseUnits,
	})
	require.NoError(t, err)
	_, err = engine.Adjust(ctx, actor, inventory.AdjustInput{
		MedicineID: "m1", Quantity: 8, Direction: inventory.AdjustSubtract, Reason: "damage",
	})
	require.NoError(t, err)
	_, err = engine.Adjust(ctx, actor, inventory.AdjustInput{
		MedicineID: "m1", Quantity: 3, Direction: inventory.AdjustAdd, Reason: "recount",
	})
	require.NoError(t, err)

	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	var signedSum int64
	for _, tx := range txs {
		signedSum += tx.SignedQty()
	}
	assert.Equal(t, int64(65), signedSum)
	assert.Equal(t, signedSum, totalStock(t, store, "m1"))
}

func TestAudit_OneEntryPerAppliedOperation(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	saveMedicine(t, store, paracetamol())
	actor := staffSession()

	exp, _ := inventory.ParseDate("2025-06-01")
	_, err := engine.StockIn(ctx, actor, inventory.StockInInput{
		MedicineID: "m1", Quantity: 10, Unit: inventory.InBaseUnits, BatchNo: "L1", ExpiryDate: exp,
	})
	require.NoError(t, err)
	_, err = engine.Dispense(ctx, actor, inventory.DispenseInput{
		MedicineID: "m1", Quantity: 2, Unit: inventory.InBaseUnits,
	})
	require.NoError(t, err)

	// A failed operation must not add an entry
	_, err = engine.Dispense(ctx, actor, inventory.DispenseInput{
		MedicineID: "m1", Quantity: 999, Unit: inventory.InBaseUnits,
	})
	require.Error(t, err)

	entries, err := store.ListAudit(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, "dispense", entries[0].Action)
	assert.Equal(t, "stock-in", entries[1].Action)
	assert.Equal(t, "staff", entries[0].User)
}
