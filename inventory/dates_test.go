package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmakit/stock-engine/inventory"
)

// =============================================================================
// DATE ARITHMETIC TESTS
// =============================================================================

func TestDaysBetween_WholeDays(t *testing.T) {
	jan1, err := inventory.ParseDate("2025-01-01")
	require.NoError(t, err)
	jan31, err := inventory.ParseDate("2025-01-31")
	require.NoError(t, err)

	assert.Equal(t, 30, inventory.DaysBetween(jan1, jan31))
	assert.Equal(t, -30, inventory.DaysBetween(jan31, jan1))
	assert.Equal(t, 0, inventory.DaysBetween(jan1, jan1))
}

func TestDaysBetween_AcrossMonthAndYear(t *testing.T) {
	dec30, _ := inventory.ParseDate("2024-12-30")
	jan2, _ := inventory.ParseDate("2025-01-02")

	assert.Equal(t, 3, inventory.DaysBetween(dec30, jan2))
}

func TestParseDate_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2025-1-1", "01/02/2025", "2025-13-40"} {
		_, err := inventory.ParseDate(s)
		assert.Error(t, err, "should reject %q", s)
	}
}

func TestDate_AddDays(t *testing.T) {
	feb27, _ := inventory.ParseDate("2024-02-27")

	// 2024 is a leap year
	assert.Equal(t, "2024-02-29", feb27.AddDays(2).String())
	assert.Equal(t, "2024-03-01", feb27.AddDays(3).String())
}

// =============================================================================
// BATCH CLASSIFICATION TESTS
// =============================================================================

func classifyOn(t *testing.T, today, expiry string, warningDays int) (inventory.BatchStatus, int) {
	t.Helper()
	td, err := inventory.ParseDate(today)
	require.NoError(t, err)
	exp, err := inventory.ParseDate(expiry)
	require.NoError(t, err)
	return inventory.Classify(inventory.Batch{ExpiryDate: exp}, td, warningDays)
}

func TestClassify_Boundaries(t *testing.T) {
	// GIVEN: Today is 2025-01-01 with a 60-day warning window
	// THEN: Expiring today is near (0 days), 60 days out is near,
	//       61 days out is ok, yesterday is expired

	status, days := classifyOn(t, "2025-01-01", "2025-01-01", 60)
	assert.Equal(t, inventory.StatusNear, status)
	assert.Equal(t, 0, days)

	status, days = classifyOn(t, "2025-01-01", "2025-03-02", 60) // exactly 60 days
	assert.Equal(t, inventory.StatusNear, status)
	assert.Equal(t, 60, days)

	status, days = classifyOn(t, "2025-01-01", "2025-03-03", 60) // 61 days
	assert.Equal(t, inventory.StatusOK, status)
	assert.Equal(t, 61, days)

	status, days = classifyOn(t, "2025-01-01", "2024-12-31", 60)
	assert.Equal(t, inventory.StatusExpired, status)
	assert.Equal(t, -1, days)
}

func TestClassify_WindowFollowsSettings(t *testing.T) {
	// The same batch flips between ok and near as the warning window moves.
	status, _ := classifyOn(t, "2025-01-01", "2025-01-20", 10)
	assert.Equal(t, inventory.StatusOK, status)

	status, _ = classifyOn(t, "2025-01-01", "2025-01-20", 30)
	assert.Equal(t, inventory.StatusNear, status)
}

// =============================================================================
// CLOCK TESTS
// =============================================================================

func TestFixedClock_Advance(t *testing.T) {
	clock := inventory.NewFixedClock(2025, time.June, 15)
	assert.Equal(t, "2025-06-15", clock.Today().String())

	clock.Advance(20)
	assert.Equal(t, "2025-07-05", clock.Today().String())
}
