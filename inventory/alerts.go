/*
alerts.go - Derived alert views over catalog + ledger

PURPOSE:
  Computes the three alert views on demand:

    low-stock    total remaining below the reorder point
    near-expiry  stocked batches inside the warning horizon
    expired      stocked batches past their expiry

  There is no stored alert state - every query recomputes from the
  medicine and batch collections, so the views can never drift from the
  ledger and "today" is always current.

ORDERING:
  low-stock    ascending fill ratio (most critical first)
  near-expiry  ascending minimum days left across the group's batches
  expired      most-recently-expired first

  Each row carries its contributing batches, expiry ascending, for
  drill-down. Archived medicines never appear.
*/
package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// AlertRow is one medicine's entry in an alert view.
type AlertRow struct {
	MedicineID   MedicineID
	MedicineName string
	Form         DosageForm
	BaseUnit     BaseUnit

	RemainingBase int64
	ReorderBase   int64

	// PctRemaining is remaining stock as a percentage of the reorder
	// point. Fractional by nature, so decimal rather than the ledger's
	// integer units.
	PctRemaining decimal.Decimal

	// MinDaysLeft is set on near-expiry rows: the soonest expiry in the
	// group. MaxExpiredDays is set on expired rows: the least-negative
	// days-left, i.e. the most recent expiry.
	MinDaysLeft    int
	MaxExpiredDays int

	// Batches contributing to this row, expiry ascending.
	Batches []Batch
}

// AlertReport bundles the three views from a single recomputation.
type AlertReport struct {
	LowStock   []AlertRow
	NearExpiry []AlertRow
	Expired    []AlertRow
}

// Aggregator recomputes alert views from the store.
type Aggregator struct {
	store  Store
	ledger *Ledger
	clock  Clock
}

func NewAggregator(store Store, clock Clock) *Aggregator {
	return &Aggregator{store: store, ledger: NewLedger(store), clock: clock}
}

// Compute builds all three alert views in one pass over the batches.
func (a *Aggregator) Compute(ctx context.Context) (AlertReport, error) {
	medicines, err := a.store.ListMedicines(ctx)
	if err != nil {
		return AlertReport{}, err
	}
	settings, err := a.store.GetSettings(ctx)
	if err != nil {
		return AlertReport{}, err
	}
	batches, err := a.store.ListBatches(ctx)
	if err != nil {
		return AlertReport{}, err
	}

	active := make(map[MedicineID]Medicine)
	for _, m := range medicines {
		if !m.Archived {
			active[m.ID] = m
		}
	}

	totals := make(map[MedicineID]int64)
	for _, b := range batches {
		totals[b.MedicineID] += b.QtyBaseUnits
	}

	today := a.clock.Today()
	report := AlertReport{}

	// Low stock: compare each active medicine's total against its reorder
	// point. Contributing batches are the ones still holding stock.
	for _, m := range medicines {
		if m.Archived {
			continue
		}
		remaining := totals[m.ID]
		reorder := m.ReorderPoint()
		if remaining >= reorder {
			continue
		}
		row := newAlertRow(m, remaining, reorder)
		for _, b := range batches {
			if b.MedicineID == m.ID && b.QtyBaseUnits > 0 {
				row.Batches = append(row.Batches, b)
			}
		}
		sortByExpiry(row.Batches)
		report.LowStock = append(report.LowStock, row)
	}
	sort.SliceStable(report.LowStock, func(i, j int) bool {
		return report.LowStock[i].PctRemaining.LessThan(report.LowStock[j].PctRemaining)
	})

	// Near-expiry and expired: group stocked batches per medicine by
	// where their expiry falls relative to today.
	nearRows := make(map[MedicineID]*AlertRow)
	expRows := make(map[MedicineID]*AlertRow)

	for _, b := range batches {
		if b.QtyBaseUnits <= 0 {
			continue
		}
		m, ok := active[b.MedicineID]
		if !ok {
			continue
		}
		daysLeft := DaysBetween(today, b.ExpiryDate)

		switch {
		case daysLeft >= 0 && daysLeft <= settings.WarningDays:
			row, ok := nearRows[m.ID]
			if !ok {
				r := newAlertRow(m, totals[m.ID], m.ReorderPoint())
				r.MinDaysLeft = daysLeft
				row = &r
				nearRows[m.ID] = row
			}
			if daysLeft < row.MinDaysLeft {
				row.MinDaysLeft = daysLeft
			}
			row.Batches = append(row.Batches, b)

		case daysLeft < 0:
			row, ok := expRows[m.ID]
			if !ok {
				r := newAlertRow(m, totals[m.ID], m.ReorderPoint())
				r.MaxExpiredDays = daysLeft
				row = &r
				expRows[m.ID] = row
			}
			if daysLeft > row.MaxExpiredDays {
				row.MaxExpiredDays = daysLeft
			}
			row.Batches = append(row.Batches, b)
		}
	}

	for _, row := range nearRows {
		sortByExpiry(row.Batches)
		report.NearExpiry = append(report.NearExpiry, *row)
	}
	sort.SliceStable(report.NearExpiry, func(i, j int) bool {
		return report.NearExpiry[i].MinDaysLeft < report.NearExpiry[j].MinDaysLeft
	})

	for _, row := range expRows {
		sortByExpiry(row.Batches)
		report.Expired = append(report.Expired, *row)
	}
	sort.SliceStable(report.Expired, func(i, j int) bool {
		return report.Expired[i].MaxExpiredDays > report.Expired[j].MaxExpiredDays
	})

	return report, nil
}

func newAlertRow(m Medicine, remaining, reorder int64) AlertRow {
	row := AlertRow{
		MedicineID:    m.ID,
		MedicineName:  m.Label(),
		Form:          m.DosageForm,
		BaseUnit:      m.BaseUnit,
		RemainingBase: remaining,
		ReorderBase:   reorder,
	}
	if reorder > 0 {
		row.PctRemaining = decimal.NewFromInt(remaining).
			Div(decimal.NewFromInt(reorder)).
			Mul(oneHundred)
	}
	return row
}
