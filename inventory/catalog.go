/*
catalog.go - Medicine records and dosage-form validation

PURPOSE:
  Owns creation and editing of catalog entries. The interesting part is the
  conditional validation: which fields a medicine needs depends on its
  dosage form. The forms partition into four groups, each with its own
  constraint set, checked in a fixed order - the first violated rule wins
  and blocks the save.

GROUPS:
  solid       Tablet, Capsule          counted units, no volume
  liquid      Syrup, Suspension, Drops tracked in mL, bottle volume required
  topical     Gel, Cream, Ointment     tracked in g, packaging text required
  injectable  Vial, Ampoule            mL via Injection route only

VALIDATION IS PURE:
  ValidateMedicine has no side effects and never panics on bad input; it
  returns nil or the first failing rule as a *ValidationError. The caller
  decides what to do with the message.

ARCHIVING:
  Archiving flips a flag. Batches and transactions are untouched, so the
  history of an archived medicine stays fully queryable; only active views,
  alerts, and movement operations stop seeing it.
*/
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// =============================================================================
// DOSAGE GROUPS
// =============================================================================

var (
	solidForms      = []DosageForm{FormTablet, FormCapsule}
	liquidForms     = []DosageForm{FormSyrup, FormSuspension, FormDrops}
	topicalForms    = []DosageForm{FormGel, FormCream, FormOintment}
	injectableForms = []DosageForm{FormVial, FormAmpoule}
)

func formIn(f DosageForm, group []DosageForm) bool {
	for _, g := range group {
		if f == g {
			return true
		}
	}
	return false
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateMedicine checks the record against its dosage-form group's rules
// and returns nil or the first violation. Pure: no lookups, no mutation.
func ValidateMedicine(m Medicine) *ValidationError {
	if m.Code == "" || m.GenericName == "" || m.PackSize <= 0 {
		return &ValidationError{Message: "Code, generic name, and pack size are required."}
	}

	if formIn(m.DosageForm, solidForms) {
		if m.BaseUnit != UnitTablet && m.BaseUnit != UnitCapsule {
			return &ValidationError{Message: "Tablets/Capsules must use base unit tablet/capsule."}
		}
		if m.StrengthUnit != "mg" && m.StrengthUnit != "g" && m.StrengthUnit != "mcg" {
			return &ValidationError{Message: "Tablet/Capsule strength unit must be mg/g/mcg."}
		}
		if m.VolumeValue.Valid {
			return &ValidationError{Message: "Tablet/Capsule volume must be empty."}
		}
	}

	if formIn(m.DosageForm, liquidForms) {
		if m.BaseUnit != UnitML {
			return &ValidationError{Message: "Syrup/Suspension/Drops base unit must be mL."}
		}
		if !m.VolumeValue.Valid || m.VolumeValue.Decimal.IsZero() || m.VolumeUnit == "" {
			return &ValidationError{Message: "Liquid forms require volume value and unit."}
		}
	}

	if formIn(m.DosageForm, topicalForms) {
		if m.BaseUnit != UnitGram {
			return &ValidationError{Message: "Gel/Cream/Ointment base unit must be g."}
		}
		if m.StrengthUnit != "%" && m.StrengthUnit != "mg/g" && m.StrengthUnit != "g" {
			return &ValidationError{Message: "Topical strength unit must be %, mg/g, or g."}
		}
		if m.PackagingText == "" {
			return &ValidationError{Message: "Topical forms require packaging text."}
		}
	}

	if formIn(m.DosageForm, injectableForms) {
		if m.Route != "Injection" {
			return &ValidationError{Message: "Vial/Ampoule route must be Injection."}
		}
		if m.BaseUnit != UnitML {
			return &ValidationError{Message: "Vial/Ampoule base unit must be mL."}
		}
		if !m.VolumeValue.Valid || m.VolumeValue.Decimal.IsZero() || m.VolumeUnit != "mL" {
			return &ValidationError{Message: "Injectables require volume in mL."}
		}
		if m.StrengthUnit != "mg/mL" && m.StrengthUnit != "IU/mL" {
			return &ValidationError{Message: "Injectable strength unit must be mg/mL or IU/mL."}
		}
	}

	return nil
}

// =============================================================================
// CATALOG SERVICE
// =============================================================================

// Catalog manages medicine records over the store.
type Catalog struct {
	store Store
	clock Clock
}

func NewCatalog(store Store, clock Clock) *Catalog {
	return &Catalog{store: store, clock: clock}
}

// Save validates and upserts a medicine. On success the record's category
// is added to the settings category list if unseen, and an audit entry is
// appended. On validation failure nothing is persisted.
func (c *Catalog) Save(ctx context.Context, actor *Session, m Medicine) (Medicine, error) {
	if actor == nil {
		return Medicine{}, ErrNotAuthenticated
	}
	if verr := ValidateMedicine(m); verr != nil {
		return Medicine{}, verr
	}

	action := "medicine create"
	if m.ID == "" {
		m.ID = MedicineID(uuid.NewString())
		m.Archived = false
	} else {
		existing, err := c.store.GetMedicine(ctx, m.ID)
		if err != nil {
			return Medicine{}, err
		}
		if existing != nil {
			action = "medicine update"
			// Editing never flips the archive flag; that goes through
			// SetArchived so it is audited as its own action.
			m.Archived = existing.Archived
		}
	}

	if err := c.store.SaveMedicine(ctx, m); err != nil {
		return Medicine{}, err
	}

	settings, err := c.store.GetSettings(ctx)
	if err != nil {
		return Medicine{}, err
	}
	if m.Category != "" && !settings.HasCategory(m.Category) {
		settings.Categories = append(settings.Categories, m.Category)
		if err := c.store.SaveSettings(ctx, settings); err != nil {
			return Medicine{}, err
		}
	}

	if err := appendAudit(ctx, c.store, c.clock, actor, action, fmt.Sprintf("%s saved", m.Code)); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// SetArchived flips the soft-delete flag. Batches and transactions are not
// touched; toggling back restores the medicine to active views unchanged.
func (c *Catalog) SetArchived(ctx context.Context, actor *Session, id MedicineID, archived bool) error {
	if actor == nil {
		return ErrNotAuthenticated
	}
	med, err := c.store.GetMedicine(ctx, id)
	if err != nil {
		return err
	}
	if med == nil {
		return ErrMedicineNotFound
	}

	med.Archived = archived
	if err := c.store.SaveMedicine(ctx, *med); err != nil {
		return err
	}

	state := "unarchived"
	if archived {
		state = "archived"
	}
	return appendAudit(ctx, c.store, c.clock, actor, "medicine archive", fmt.Sprintf("%s => %s", med.Code, state))
}

// Active returns the non-archived medicines - the set eligible for stock
// operations, alerts, and selection lists.
func (c *Catalog) Active(ctx context.Context) ([]Medicine, error) {
	all, err := c.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	var active []Medicine
	for _, m := range all {
		if !m.Archived {
			active = append(active, m)
		}
	}
	return active, nil
}

// appendAudit writes the single audit entry every successful mutation owes.
func appendAudit(ctx context.Context, log AuditLog, clock Clock, actor *Session, action, details string) error {
	return log.AppendAudit(ctx, AuditEntry{
		Timestamp: clock.Now(),
		User:      actor.Username,
		Role:      string(actor.Role),
		Action:    action,
		Details:   details,
	})
}
