/*
Package inventory provides the pharmacy stock ledger and FEFO dispensing engine.

PURPOSE:
  This package contains the domain records and algorithms for tracking
  medicines, their batches (lot-level stock with expiry dates), and the
  movements between them: stock-in, dispense, and adjustment. All stock is
  tracked in integral base units per medicine; consumption follows FEFO
  (first-expired-first-out) batch selection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Medicine: catalog record with packaging and dosage-form attributes
  - Batch: one lot of one medicine with a quantity and expiry date
  - Transaction: immutable record of a stock movement
  - AuditEntry: who did what, appended for every mutation
  - Settings / User / Session: configuration and identity records

DESIGN PRINCIPLES:
  1. Exactness: ledger quantities are int64 base units - conservation of
     stock must hold to the unit, so no floating point in the ledger.
  2. Precision: fractional medicine attributes (strength, volume) use
     decimal.Decimal to avoid float drift.
  3. Derived state: batch status and alerts are recomputed from the ledger
     on every read; nothing cached goes stale.
  4. Soft delete: medicines are archived, never removed - their batches and
     transactions stay queryable.

SEE ALSO:
  - ledger.go: batch queries and FEFO ordering
  - engine.go: the stock movement operations
  - catalog.go: dosage-form validation rules
*/
package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MedicineID string
type BatchID string
type TransactionID string
type UserID string

// =============================================================================
// MEDICINE - Catalog record
// =============================================================================

// DosageForm is the pharmaceutical presentation of a medicine.
type DosageForm string

const (
	FormTablet     DosageForm = "Tablet"
	FormCapsule    DosageForm = "Capsule"
	FormSyrup      DosageForm = "Syrup"
	FormSuspension DosageForm = "Suspension"
	FormGel        DosageForm = "Gel"
	FormCream      DosageForm = "Cream"
	FormOintment   DosageForm = "Ointment"
	FormVial       DosageForm = "Vial"
	FormAmpoule    DosageForm = "Ampoule"
	FormDrops      DosageForm = "Drops"
)

// DosageForms lists every supported form, in display order.
var DosageForms = []DosageForm{
	FormTablet, FormCapsule, FormSyrup, FormSuspension, FormGel,
	FormCream, FormOintment, FormVial, FormAmpoule, FormDrops,
}

// Routes lists the supported administration routes.
var Routes = []string{"Oral", "Topical", "Injection", "Ophthalmic", "Otic", "Nasal"}

// StrengthUnits lists the supported strength units across all forms.
var StrengthUnits = []string{"mg", "g", "mcg", "mg/mL", "g/mL", "IU/mL", "%", "mg/g"}

// BaseUnit is the atomic countable unit a medicine's stock is tracked in.
// Every quantity in the ledger is a count of base units, regardless of how
// the medicine is ordered (boxes) or displayed.
type BaseUnit string

const (
	UnitTablet  BaseUnit = "tablet"
	UnitCapsule BaseUnit = "capsule"
	UnitML      BaseUnit = "mL"
	UnitGram    BaseUnit = "g"
)

// Medicine is a catalog entry. Quantities never live here - they live on
// batches. Archived medicines keep their batches and transaction history
// but drop out of active views, alerts, and movement operation choices.
type Medicine struct {
	ID          MedicineID
	Code        string // unique display key, e.g. "PAR-500-T"
	GenericName string
	BrandName   string

	DosageForm DosageForm
	Route      string

	StrengthValue decimal.NullDecimal
	StrengthUnit  string
	VolumeValue   decimal.NullDecimal
	VolumeUnit    string

	ConcentrationText string
	PackagingText     string
	ShelfLocation     string

	Category   string
	RxRequired bool

	BaseUnit          BaseUnit
	PackSize          int64 // base units per ordering box, > 0
	ReorderLevelBoxes int64 // low-stock threshold, expressed in boxes

	Archived bool
}

// ReorderPoint is the base-unit quantity below which the medicine is
// flagged low-stock.
func (m Medicine) ReorderPoint() int64 {
	return m.ReorderLevelBoxes * m.PackSize
}

// Label is the display name used in alerts and reports.
func (m Medicine) Label() string {
	return fmt.Sprintf("%s - %s", m.Code, m.GenericName)
}

// =============================================================================
// BATCH - One lot of one medicine
// =============================================================================

// Batch is a quantity of one medicine received together, sharing one expiry
// date and lot number.
//
// INVARIANT: QtyBaseUnits >= 0 at all times. A batch drained to exactly 0
// stays stored for history; it is never deleted.
type Batch struct {
	ID           BatchID
	MedicineID   MedicineID
	BatchNo      string
	ExpiryDate   Date
	QtyBaseUnits int64
}

// =============================================================================
// TRANSACTION - Immutable movement record
// =============================================================================

type TransactionType string

const (
	TxStockIn    TransactionType = "stock-in"   // stock received into a batch
	TxDispense   TransactionType = "dispense"   // stock consumed from the FEFO batch
	TxAdjustment TransactionType = "adjustment" // manual correction, signed
)

// Transaction records one applied stock movement. Stock-in and dispense
// record a positive magnitude with Type disambiguating direction; adjustment
// records a signed delta. Immutable once written, listed newest first.
type Transaction struct {
	ID           TransactionID
	Timestamp    time.Time
	Type         TransactionType
	MedicineID   MedicineID
	BatchNo      string
	QtyBaseUnits int64
	Reason       string // adjustments only
	User         string // acting username
}

/// SignedQty is the transaction's effect on total stock: positive for
// stock-in, negative for dispense, as-recorded for adjustments. Summing
// SignedQty over a medicine's transactions reproduces its stock delta.
func (t Transaction) SignedQty() int64 {
	if t.Type == TxDispense {
		return -t.QtyBaseUnits
	}
	return t.QtyBaseUnits
}

// =============================================================================
// AUDIT ENTRY - Append-only trail of every mutation
// =============================================================================

// AuditEntry records who did what. Every mutating operation on medicines,
// batches, users, or settings appends exactly one entry on success.
type AuditEntry struct {
	Timestamp time.Time
	User      string
	Role      string
	Action    string // category, e.g. "stock-in", "medicine archive"
	Details   string
}

// =============================================================================
// SETTINGS - Process-wide configuration singleton
// =============================================================================

type Settings struct {
	WarningDays           int  // near-expiry horizon, > 0
	RequireRxVerification bool // gates dispensing of Rx medicines

	// Categories grows automatically when a medicine introduces an unseen
	// category; the remaining lists feed form construction.
	Categories    []string
	DosageForms   []DosageForm
	Routes        []string
	StrengthUnits []string
}

// DefaultSettings returns the configuration a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		WarningDays:           60,
		RequireRxVerification: true,
		Categories:            []string{},
		DosageForms:           DosageForms,
		Routes:                Routes,
		StrengthUnits:         StrengthUnits,
	}
}

// Clone deep-copies the slice fields so callers can mutate freely.
func (s Settings) Clone() Settings {
	out := s
	out.Categories = append([]string{}, s.Categories...)
	out.DosageForms = append([]DosageForm{}, s.DosageForms...)
	out.Routes = append([]string{}, s.Routes...)
	out.StrengthUnits = append([]string{}, s.StrengthUnits...)
	return out
}

// HasCategory reports whether the category is already known.
func (s Settings) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// =============================================================================
// USER / SESSION - Identity records
// =============================================================================

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

// User is an operator account. The password is stored and compared as
// plaintext; hardening authentication is explicitly out of scope for this
// system (single local browser/process model).
type User struct {
	ID        UserID
	Username  string // unique, case-insensitive
	Password  string
	Role      Role
	Name      string
	Status    UserStatus
	LastLogin *time.Time
}

// Session is the currently authenticated identity, or absent when logged
// out. Every mutating ledger operation requires one; its username is copied
// into the transaction and audit records it produces.
type Session struct {
	UserID   UserID
	Username string
	Role     Role
}

func (s *Session) IsAdmin() bool { return s != nil && s.Role == RoleAdmin }
