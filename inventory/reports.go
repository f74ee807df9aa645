/*
reports.go - Read-only reporting over the catalog and ledger

PURPOSE:
  Tabular views with no side effects:

    stock status   total on hand vs reorder point, per active medicine
    movements      the transaction log, filterable by type, medicine
                   and date range
    dashboard      headline counts for the landing view

  Like the alert views these are recomputed per request from the stored
  collections.
*/
package inventory

import (
	"context"
)

// StockStatusRow is one active medicine's stock position.
type StockStatusRow struct {
	MedicineID  MedicineID
	Code        string
	Name        string
	BaseUnit    BaseUnit
	TotalBase   int64
	ReorderBase int64
	Low         bool
}

// MovementFilter narrows the movement report. Zero values mean
// "no constraint". From and To are inclusive calendar days.
type MovementFilter struct {
	Type       TransactionType
	MedicineID MedicineID
	From       Date
	To         Date
}

// MovementRow is one transaction joined with its medicine's label.
type MovementRow struct {
	Transaction
	MedicineName string
}

// DashboardSummary carries the headline counts for the landing view.
type DashboardSummary struct {
	ActiveMedicines int
	TotalBaseUnits  int64
	LowStockCount   int
	NearExpiryCount int
	ExpiredCount    int
}

// Reporter builds read-only report views.
type Reporter struct {
	store      Store
	aggregator *Aggregator
	clock      Clock
}

func NewReporter(store Store, clock Clock) *Reporter {
	return &Reporter{store: store, aggregator: NewAggregator(store, clock), clock: clock}
}

// StockStatus returns one row per active medicine, in catalog order.
func (r *Reporter) StockStatus(ctx context.Context) ([]StockStatusRow, error) {
	medicines, err := r.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := r.store.ListBatches(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[MedicineID]int64)
	for _, b := range batches {
		totals[b.MedicineID] += b.QtyBaseUnits
	}

	rows := make([]StockStatusRow, 0, len(medicines))
	for _, m := range medicines {
		if m.Archived {
			continue
		}
		total := totals[m.ID]
		reorder := m.ReorderPoint()
		rows = append(rows, StockStatusRow{
			MedicineID:  m.ID,
			Code:        m.Code,
			Name:        m.GenericName,
			BaseUnit:    m.BaseUnit,
			TotalBase:   total,
			ReorderBase: reorder,
			Low:         total < reorder,
		})
	}
	return rows, nil
}

// Movements returns matching transactions newest first, each joined
// with its medicine's display label.
func (r *Reporter) Movements(ctx context.Context, filter MovementFilter) ([]MovementRow, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	medicines, err := r.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}

	labels := make(map[MedicineID]string, len(medicines))
	for _, m := range medicines {
		labels[m.ID] = m.Label()
	}

	rows := make([]MovementRow, 0, len(txs))
	for _, tx := range txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.MedicineID != "" && tx.MedicineID != filter.MedicineID {
			continue
		}
		day := DateOf(tx.Timestamp)
		if !filter.From.IsZero() && day.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && day.After(filter.To) {
			continue
		}
		rows = append(rows, MovementRow{Transaction: tx, MedicineName: labels[tx.MedicineID]})
	}
	return rows, nil
}

// Dashboard computes the landing-view counts.
func (r *Reporter) Dashboard(ctx context.Context) (DashboardSummary, error) {
	medicines, err := r.store.ListMedicines(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	batches, err := r.store.ListBatches(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	report, err := r.aggregator.Compute(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		LowStockCount:   len(report.LowStock),
		NearExpiryCount: len(report.NearExpiry),
		ExpiredCount:    len(report.Expired),
	}
	active := make(map[MedicineID]bool)
	for _, m := range medicines {
		if !m.Archived {
			summary.ActiveMedicines++
			active[m.ID] = true
		}
	}
	for _, b := range batches {
		if active[b.MedicineID] {
			summary.TotalBaseUnits += b.QtyBaseUnits
		}
	}
	return summary, nil
}
