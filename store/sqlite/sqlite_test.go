package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmakit/stock-engine/inventory"
	"github.com/pharmakit/stock-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustDate(t *testing.T, s string) inventory.Date {
	t.Helper()
	d, err := inventory.ParseDate(s)
	require.NoError(t, err)
	return d
}

// =============================================================================
// MEDICINE PERSISTENCE TESTS
// =============================================================================

func TestMedicines_RoundTripAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	med := inventory.Medicine{
		ID:          "m1",
		Code:        "AMX-SYR",
		GenericName: "Amoxicillin",
		BrandName:   "Amoxil",
		DosageForm:  inventory.FormSyrup,
		Route:       "Oral",
		StrengthValue: decimal.NullDecimal{
			Decimal: decimal.NewFromInt(250), Valid: true,
		},
		StrengthUnit: "mg",
		VolumeValue: decimal.NullDecimal{
			Decimal: decimal.NewFromInt(100), Valid: true,
		},
		VolumeUnit:        "mL",
		ShelfLocation:     "B2",
		Category:          "Antibiotic",
		RxRequired:        true,
		BaseUnit:          inventory.UnitML,
		PackSize:          100,
		ReorderLevelBoxes: 3,
	}
	require.NoError(t, store.SaveMedicine(ctx, med))
	require.NoError(t, store.SaveMedicine(ctx, inventory.Medicine{
		ID: "m2", Code: "PAR-500-T", GenericName: "Paracetamol",
		DosageForm: inventory.FormTablet, BaseUnit: inventory.UnitTablet, PackSize: 100,
	}))

	got, err := store.GetMedicine(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, med.Code, got.Code)
	assert.True(t, got.StrengthValue.Valid)
	assert.True(t, got.StrengthValue.Decimal.Equal(decimal.NewFromInt(250)))
	assert.True(t, got.RxRequired)
	assert.False(t, got.Archived)

	// Absent optional decimals stay absent
	plain, err := store.GetMedicine(ctx, "m2")
	require.NoError(t, err)
	assert.False(t, plain.StrengthValue.Valid)
	assert.False(t, plain.VolumeValue.Valid)

	// Insertion order survives updates
	med.BrandName = "Updated"
	require.NoError(t, store.SaveMedicine(ctx, med))
	all, err := store.ListMedicines(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, inventory.MedicineID("m1"), all[0].ID)
	assert.Equal(t, "Updated", all[0].BrandName)

	missing, err := store.GetMedicine(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// BATCH PERSISTENCE TESTS
// =============================================================================

func TestBatches_RoundTripAndNonNegativity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMedicine(ctx, inventory.Medicine{
		ID: "m1", Code: "PAR", GenericName: "Paracetamol",
		DosageForm: inventory.FormTablet, BaseUnit: inventory.UnitTablet, PackSize: 100,
	}))

	batch := inventory.Batch{
		ID: "b1", MedicineID: "m1", BatchNo: "L1",
		ExpiryDate: mustDate(t, "2025-06-01"), QtyBaseUnits: 40,
	}
	require.NoError(t, store.SaveBatch(ctx, batch))

	found, err := store.FindBatch(ctx, "m1", "L1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2025-06-01", found.ExpiryDate.String())
	assert.Equal(t, int64(40), found.QtyBaseUnits)

	// Negative quantities never reach the database
	batch.QtyBaseUnits = -1
	err = store.SaveBatch(ctx, batch)
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	found, err = store.FindBatch(ctx, "m1", "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), found.QtyBaseUnits)

	none, err := store.FindBatch(ctx, "m1", "L-MISSING")
	require.NoError(t, err)
	assert.Nil(t, none)
}

// =============================================================================
// TRANSACTION AND AUDIT LOG TESTS
// =============================================================================

func TestTransactions_AppendOnlyNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, store.AppendTransaction(ctx, inventory.Transaction{
			ID:           inventory.TransactionID(id),
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Type:         inventory.TxStockIn,
			MedicineID:   "m1",
			BatchNo:      "L1",
			QtyBaseUnits: int64(10 * (i + 1)),
			User:         "staff",
		}))
	}

	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, inventory.TransactionID("t3"), txs[0].ID)
	assert.Equal(t, inventory.TransactionID("t1"), txs[2].ID)
	assert.Equal(t, base, txs[2].Timestamp)
}

func TestAudit_AppendOnlyNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	for _, action := range []string{"login", "stock-in"} {
		require.NoError(t, store.AppendAudit(ctx, inventory.AuditEntry{
			Timestamp: now, User: "admin", Role: "admin", Action: action, Details: "x",
		}))
	}

	entries, err := store.ListAudit(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "stock-in", entries[0].Action)
	assert.Equal(t, "login", entries[1].Action)
}

// =============================================================================
// SETTINGS, USER AND SESSION TESTS
// =============================================================================

func TestSettings_DefaultsThenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Fresh database serves the defaults
	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, settings.WarningDays)
	assert.True(t, settings.RequireRxVerification)

	settings.WarningDays = 30
	settings.RequireRxVerification = false
	settings.Categories = []string{"Analgesic", "Antibiotic"}
	require.NoError(t, store.SaveSettings(ctx, settings))

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, got.WarningDays)
	assert.False(t, got.RequireRxVerification)
	assert.Equal(t, []string{"Analgesic", "Antibiotic"}, got.Categories)
}

func TestUsers_RoundTripAndCaseInsensitiveLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lastLogin := time.Date(2025, time.January, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveUser(ctx, inventory.User{
		ID: "u1", Username: "admin", Password: "admin123",
		Role: inventory.RoleAdmin, Name: "Admin User",
		Status: inventory.UserActive, LastLogin: &lastLogin,
	}))

	got, err := store.GetUserByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inventory.UserID("u1"), got.ID)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, lastLogin, *got.LastLogin)

	none, err := store.GetUser(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSession_SetGetClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, store.SetSession(ctx, &inventory.Session{
		UserID: "u1", Username: "admin", Role: inventory.RoleAdmin,
	}))

	session, err = store.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "admin", session.Username)

	require.NoError(t, store.SetSession(ctx, nil))
	session, err = store.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMedicine(ctx, inventory.Medicine{
		ID: "m1", Code: "PAR", GenericName: "Paracetamol",
		DosageForm: inventory.FormTablet, BaseUnit: inventory.UnitTablet, PackSize: 100,
	}))
	require.NoError(t, store.SaveUser(ctx, inventory.User{
		ID: "u1", Username: "admin", Password: "p", Role: inventory.RoleAdmin, Status: inventory.UserActive,
	}))

	require.NoError(t, store.Reset(ctx))

	meds, err := store.ListMedicines(ctx)
	require.NoError(t, err)
	assert.Empty(t, meds)
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
