/*
Package seed loads the demo dataset: two operator accounts, a
representative formulary covering every dosage-form group, and generated
batches with expiries spread across the near/ok/expired buckets relative
to the injected clock.

Apply is idempotent at the dataset level: it only seeds an empty store.
*/
package seed

import (
	"context"
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/pharmakit/stock-engine/inventory"
)

// Apply seeds the store when it holds no users yet. Returns true when data
// was loaded.
func Apply(ctx context.Context, store inventory.Store, clock inventory.Clock) (bool, error) {
	existing, err := store.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	users := []inventory.User{
		{ID: "u1", Username: "admin", Password: "admin123", Role: inventory.RoleAdmin, Name: "Admin User", Status: inventory.UserActive},
		{ID: "u2", Username: "staff", Password: "staff123", Role: inventory.RoleStaff, Name: "Staff User", Status: inventory.UserActive},
	}
	for _, u := range users {
		if err := store.SaveUser(ctx, u); err != nil {
			return false, err
		}
	}

	medicines := Medicines()
	for _, m := range medicines {
		if err := store.SaveMedicine(ctx, m); err != nil {
			return false, err
		}
	}

	for _, b := range Batches(medicines, clock.Today()) {
		if err := store.SaveBatch(ctx, b); err != nil {
			return false, err
		}
	}

	settings := inventory.DefaultSettings()
	for _, m := range medicines {
		if !settings.HasCategory(m.Category) {
			settings.Categories = append(settings.Categories, m.Category)
		}
	}
	if err := store.SaveSettings(ctx, settings); err != nil {
		return false, err
	}

	return true, nil
}

// dec wraps a value as a present NullDecimal.
func dec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

// Medicines returns the demo formulary: oral solids, liquids, topicals,
// and injectables.
func Medicines() []inventory.Medicine {
	return []inventory.Medicine{
		// Oral solids
		{ID: "m1", Code: "PAR-500-T", GenericName: "Paracetamol", BrandName: "Biogesic", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(500), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Analgesic", ShelfLocation: "A1", PackSize: 100, ReorderLevelBoxes: 5},
		{ID: "m2", Code: "IBU-200-T", GenericName: "Ibuprofen", BrandName: "Advil", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(200), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Analgesic", ShelfLocation: "A2", PackSize: 100, ReorderLevelBoxes: 4},
		{ID: "m3", Code: "CET-10-T", GenericName: "Cetirizine", BrandName: "Zyrtec", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(10), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Antihistamine", ShelfLocation: "A3", PackSize: 100, ReorderLevelBoxes: 3},
		{ID: "m4", Code: "LOR-10-T", GenericName: "Loratadine", BrandName: "Claritin", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(10), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Antihistamine", ShelfLocation: "A4", PackSize: 100, ReorderLevelBoxes: 3},
		{ID: "m5", Code: "MET-500-T", GenericName: "Metformin", BrandName: "Glucophage", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(500), StrengthUnit: "mg", PackagingText: "Box of 60 tablets", BaseUnit: inventory.UnitTablet, Category: "Antidiabetic", RxRequired: true, ShelfLocation: "A5", PackSize: 60, ReorderLevelBoxes: 5},
		{ID: "m6", Code: "AML-5-T", GenericName: "Amlodipine", BrandName: "Norvasc", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(5), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Antihypertensive", RxRequired: true, ShelfLocation: "A6", PackSize: 100, ReorderLevelBoxes: 4},
		{ID: "m7", Code: "LOS-50-T", GenericName: "Losartan", BrandName: "Cozaar", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(50), StrengthUnit: "mg", PackagingText: "Box of 100 tablets", BaseUnit: inventory.UnitTablet, Category: "Antihypertensive", RxRequired: true, ShelfLocation: "A7", PackSize: 100, ReorderLevelBoxes: 4},
		{ID: "m8", Code: "OME-20-C", GenericName: "Omeprazole", BrandName: "Losec", DosageForm: inventory.FormCapsule, Route: "Oral", StrengthValue: dec(20), StrengthUnit: "mg", PackagingText: "Box of 100 capsules", BaseUnit: inventory.UnitCapsule, Category: "Gastrointestinal", RxRequired: true, ShelfLocation: "B1", PackSize: 100, ReorderLevelBoxes: 4},
		{ID: "m9", Code: "AMX-500-C", GenericName: "Amoxicillin", BrandName: "Amoxil", DosageForm: inventory.FormCapsule, Route: "Oral", StrengthValue: dec(500), StrengthUnit: "mg", PackagingText: "Box of 100 capsules", BaseUnit: inventory.UnitCapsule, Category: "Antibiotic", RxRequired: true, ShelfLocation: "B2", PackSize: 100, ReorderLevelBoxes: 5},
		{ID: "m10", Code: "DOX-100-C", GenericName: "Doxycycline", BrandName: "Doryx", DosageForm: inventory.FormCapsule, Route: "Oral", StrengthValue: dec(100), StrengthUnit: "mg", PackagingText: "Box of 100 capsules", BaseUnit: inventory.UnitCapsule, Category: "Antibiotic", RxRequired: true, ShelfLocation: "B3", PackSize: 100, ReorderLevelBoxes: 3},
		{ID: "m11", Code: "AZI-500-T", GenericName: "Azithromycin", BrandName: "Zithromax", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(500), StrengthUnit: "mg", PackagingText: "Box of 30 tablets", BaseUnit: inventory.UnitTablet, Category: "Antibiotic", RxRequired: true, ShelfLocation: "B4", PackSize: 30, ReorderLevelBoxes: 4},
		{ID: "m12", Code: "LEV-500-T", GenericName: "Levofloxacin", BrandName: "Levaquin", DosageForm: inventory.FormTablet, Route: "Oral", StrengthValue: dec(500), StrengthUnit: "mg", PackagingText: "Box of 50 tablets", BaseUnit: inventory.UnitTablet, Category: "Antibiotic", RxRequired: true, ShelfLocation: "B5", PackSize: 50, ReorderLevelBoxes: 3},

		// Oral liquids
		{ID: "m13", Code: "PAR-250-SY", GenericName: "Paracetamol", BrandName: "Calpol", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(250), StrengthUnit: "mg", ConcentrationText: "250mg/5mL", VolumeValue: dec(60), VolumeUnit: "mL", PackagingText: "Bottle 60mL", BaseUnit: inventory.UnitML, Category: "Analgesic", ShelfLocation: "C1", PackSize: 600, ReorderLevelBoxes: 3},
		{ID: "m14", Code: "IBU-100-SY", GenericName: "Ibuprofen", BrandName: "Brufen", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(100), StrengthUnit: "mg", ConcentrationText: "100mg/5mL", VolumeValue: dec(60), VolumeUnit: "mL", PackagingText: "Bottle 60mL", BaseUnit: inventory.UnitML, Category: "Analgesic", ShelfLocation: "C2", PackSize: 600, ReorderLevelBoxes: 3},
		{ID: "m15", Code: "AMX-250-SY", GenericName: "Amoxicillin", BrandName: "Amoxil Suspension", DosageForm: inventory.FormSuspension, Route: "Oral", StrengthValue: dec(250), StrengthUnit: "mg", ConcentrationText: "250mg/5mL", VolumeValue: dec(60), VolumeUnit: "mL", PackagingText: "Bottle 60mL", BaseUnit: inventory.UnitML, Category: "Antibiotic", RxRequired: true, ShelfLocation: "C3", PackSize: 600, ReorderLevelBoxes: 4},
		{ID: "m16", Code: "COA-228-SY", GenericName: "Co-amoxiclav", BrandName: "Augmentin", DosageForm: inventory.FormSuspension, Route: "Oral", StrengthValue: dec(228), StrengthUnit: "mg", ConcentrationText: "228mg/5mL", VolumeValue: dec(70), VolumeUnit: "mL", PackagingText: "Bottle 70mL", BaseUnit: inventory.UnitML, Category: "Antibiotic", RxRequired: true, ShelfLocation: "C4", PackSize: 700, ReorderLevelBoxes: 3},
		{ID: "m17", Code: "DPM-12-SY", GenericName: "Diphenhydramine", BrandName: "Benadryl", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(12.5), StrengthUnit: "mg", ConcentrationText: "12.5mg/5mL", VolumeValue: dec(120), VolumeUnit: "mL", PackagingText: "Bottle 120mL", BaseUnit: inventory.UnitML, Category: "Antihistamine", ShelfLocation: "C5", PackSize: 1200, ReorderLevelBoxes: 3},
		{ID: "m18", Code: "CTZ-5-SY", GenericName: "Cetirizine", BrandName: "Zyrtec Syrup", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(5), StrengthUnit: "mg", ConcentrationText: "5mg/5mL", VolumeValue: dec(60), VolumeUnit: "mL", PackagingText: "Bottle 60mL", BaseUnit: inventory.UnitML, Category: "Antihistamine", ShelfLocation: "C6", PackSize: 600, ReorderLevelBoxes: 2},
		{ID: "m19", Code: "SAL-2-SY", GenericName: "Salbutamol", BrandName: "Ventolin Syrup", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(2), StrengthUnit: "mg", ConcentrationText: "2mg/5mL", VolumeValue: dec(60), VolumeUnit: "mL", PackagingText: "Bottle 60mL", BaseUnit: inventory.UnitML, Category: "Bronchodilator", RxRequired: true, ShelfLocation: "C7", PackSize: 600, ReorderLevelBoxes: 2},
		{ID: "m20", Code: "MUL-200-SY", GenericName: "Multivitamins", BrandName: "Ceelin", DosageForm: inventory.FormSyrup, Route: "Oral", StrengthValue: dec(200), StrengthUnit: "mg", ConcentrationText: "200mg/5mL", VolumeValue: dec(120), VolumeUnit: "mL", PackagingText: "Bottle 120mL", BaseUnit: inventory.UnitML, Category: "Vitamins", ShelfLocation: "C8", PackSize: 1200, ReorderLevelBoxes: 2},

		// Topicals
		{ID: "m21", Code: "DIC-1-GE", GenericName: "Diclofenac", BrandName: "Voltaren Gel", DosageForm: inventory.FormGel, Route: "Topical", StrengthValue: dec(1), StrengthUnit: "%", PackagingText: "Tube 20g", BaseUnit: inventory.UnitGram, Category: "Analgesic Topical", ShelfLocation: "D1", PackSize: 200, ReorderLevelBoxes: 3},
		{ID: "m22", Code: "MUP-2-CR", GenericName: "Mupirocin", BrandName: "Bactroban", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(2), StrengthUnit: "%", PackagingText: "Tube 15g", BaseUnit: inventory.UnitGram, Category: "Dermatology", RxRequired: true, ShelfLocation: "D2", PackSize: 150, ReorderLevelBoxes: 2},
		{ID: "m23", Code: "KET-2-CR", GenericName: "Ketoconazole", BrandName: "Nizoral Cream", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(2), StrengthUnit: "%", PackagingText: "Tube 20g", BaseUnit: inventory.UnitGram, Category: "Antifungal", ShelfLocation: "D3", PackSize: 200, ReorderLevelBoxes: 2},
		{ID: "m24", Code: "HYD-1-CR", GenericName: "Hydrocortisone", BrandName: "Cortaid", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(1), StrengthUnit: "%", PackagingText: "Tube 15g", BaseUnit: inventory.UnitGram, Category: "Steroid", RxRequired: true, ShelfLocation: "D4", PackSize: 150, ReorderLevelBoxes: 2},
		{ID: "m25", Code: "BET-0.1-ON", GenericName: "Betamethasone", BrandName: "Diprolene", DosageForm: inventory.FormOintment, Route: "Topical", StrengthValue: dec(0.1), StrengthUnit: "%", PackagingText: "Tube 15g", BaseUnit: inventory.UnitGram, Category: "Steroid", RxRequired: true, ShelfLocation: "D5", PackSize: 150, ReorderLevelBoxes: 2},
		{ID: "m26", Code: "CLO-1-CR", GenericName: "Clotrimazole", BrandName: "Canesten", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(1), StrengthUnit: "%", PackagingText: "Tube 20g", BaseUnit: inventory.UnitGram, Category: "Antifungal", ShelfLocation: "D6", PackSize: 200, ReorderLevelBoxes: 2},
		{ID: "m27", Code: "ACY-5-CR", GenericName: "Acyclovir", BrandName: "Zovirax Cream", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(5), StrengthUnit: "%", PackagingText: "Tube 10g", BaseUnit: inventory.UnitGram, Category: "Antiviral", RxRequired: true, ShelfLocation: "D7", PackSize: 100, ReorderLevelBoxes: 2},
		{ID: "m28", Code: "FUS-2-CR", GenericName: "Fusidic Acid", BrandName: "Fucidin", DosageForm: inventory.FormCream, Route: "Topical", StrengthValue: dec(2), StrengthUnit: "%", PackagingText: "Tube 15g", BaseUnit: inventory.UnitGram, Category: "Antibiotic Topical", RxRequired: true, ShelfLocation: "D8", PackSize: 150, ReorderLevelBoxes: 2},

		// Injectables
		{ID: "m29", Code: "CTX-1G-VL", GenericName: "Ceftriaxone", BrandName: "Rocephin", DosageForm: inventory.FormVial, Route: "Injection", StrengthValue: dec(1000), StrengthUnit: "mg/mL", VolumeValue: dec(10), VolumeUnit: "mL", ConcentrationText: "1g vial", PackagingText: "Box of 10 vials", BaseUnit: inventory.UnitML, Category: "Antibiotic Injectable", RxRequired: true, ShelfLocation: "E1", PackSize: 100, ReorderLevelBoxes: 3},
		{ID: "m30", Code: "MET-500-VL", GenericName: "Metronidazole", BrandName: "Flagyl IV", DosageForm: inventory.FormVial, Route: "Injection", StrengthValue: dec(5), StrengthUnit: "mg/mL", VolumeValue: dec(100), VolumeUnit: "mL", ConcentrationText: "500mg/100mL", PackagingText: "Box of 10 vials", BaseUnit: inventory.UnitML, Category: "Antibiotic Injectable", RxRequired: true, ShelfLocation: "E2", PackSize: 1000, ReorderLevelBoxes: 2},
		{ID: "m31", Code: "OMZ-40-VL", GenericName: "Omeprazole", BrandName: "Omepro IV", DosageForm: inventory.FormVial, Route: "Injection", StrengthValue: dec(40), StrengthUnit: "mg/mL", VolumeValue: dec(10), VolumeUnit: "mL", ConcentrationText: "40mg vial", PackagingText: "Box of 10 vials", BaseUnit: inventory.UnitML, Category: "Gastrointestinal Injectable", RxRequired: true, ShelfLocation: "E3", PackSize: 100, ReorderLevelBoxes: 2},
		{ID: "m32", Code: "DEX-4-AP", GenericName: "Dexamethasone", BrandName: "Dexa IV", DosageForm: inventory.FormAmpoule, Route: "Injection", StrengthValue: dec(4), StrengthUnit: "mg/mL", VolumeValue: dec(1), VolumeUnit: "mL", ConcentrationText: "4mg/mL", PackagingText: "Box of 25 ampoules", BaseUnit: inventory.UnitML, Category: "Steroid Injectable", RxRequired: true, ShelfLocation: "E4", PackSize: 25, ReorderLevelBoxes: 3},
		{ID: "m33", Code: "ADR-1-AP", GenericName: "Adrenaline", BrandName: "Epi", DosageForm: inventory.FormAmpoule, Route: "Injection", StrengthValue: dec(1), StrengthUnit: "mg/mL", VolumeValue: dec(1), VolumeUnit: "mL", ConcentrationText: "1mg/mL", PackagingText: "Box of 10 ampoules", BaseUnit: inventory.UnitML, Category: "Emergency Injectable", RxRequired: true, ShelfLocation: "E5", PackSize: 10, ReorderLevelBoxes: 3},
		{ID: "m34", Code: "INS-100-VL", GenericName: "Insulin Regular", BrandName: "Humulin R", DosageForm: inventory.FormVial, Route: "Injection", StrengthValue: dec(100), StrengthUnit: "IU/mL", VolumeValue: dec(10), VolumeUnit: "mL", ConcentrationText: "100IU/mL", PackagingText: "Box of 5 vials", BaseUnit: inventory.UnitML, Category: "Antidiabetic Injectable", RxRequired: true, ShelfLocation: "E6", PackSize: 50, ReorderLevelBoxes: 3},
		{ID: "m35", Code: "CEF-1.5-VL", GenericName: "Cefuroxime", BrandName: "Zinacef", DosageForm: inventory.FormVial, Route: "Injection", StrengthValue: dec(1500), StrengthUnit: "mg/mL", VolumeValue: dec(10), VolumeUnit: "mL", ConcentrationText: "1.5g vial", PackagingText: "Box of 10 vials", BaseUnit: inventory.UnitML, Category: "Antibiotic Injectable", RxRequired: true, ShelfLocation: "E7", PackSize: 100, ReorderLevelBoxes: 2},
		{ID: "m36", Code: "RAN-50-AP", GenericName: "Ranitidine", BrandName: "Zantac Injection", DosageForm: inventory.FormAmpoule, Route: "Injection", StrengthValue: dec(25), StrengthUnit: "mg/mL", VolumeValue: dec(2), VolumeUnit: "mL", ConcentrationText: "50mg/2mL", PackagingText: "Box of 10 ampoules", BaseUnit: inventory.UnitML, Category: "Gastrointestinal Injectable", RxRequired: true, ShelfLocation: "E8", PackSize: 20, ReorderLevelBoxes: 3},
	}
}

var lotChars = regexp.MustCompile(`[^A-Z0-9]`)

// Batches generates two live lots per medicine with staggered expiries,
// plus an already-expired lot for every fourth medicine.
func Batches(medicines []inventory.Medicine, today inventory.Date) []inventory.Batch {
	var batches []inventory.Batch

	for idx, m := range medicines {
		prefix := lotChars.ReplaceAllString(m.Code, "")
		if len(prefix) > 6 {
			prefix = prefix[:6]
		}

		firstQty := int64(math.Round(float64(m.PackSize) * (0.8 + float64(idx%3)*0.35)))
		secondQty := int64(math.Round(float64(m.PackSize) * (1 + float64(idx%4)*0.4)))
		thirdQty := int64(math.Round(float64(m.PackSize) * 0.7))

		batches = append(batches,
			inventory.Batch{
				ID:           inventory.BatchID(fmt.Sprintf("b_%s_1", m.ID)),
				MedicineID:   m.ID,
				BatchNo:      prefix + "-A",
				ExpiryDate:   today.AddDays(25 + (idx%6)*10),
				QtyBaseUnits: firstQty,
			},
			inventory.Batch{
				ID:           inventory.BatchID(fmt.Sprintf("b_%s_2", m.ID)),
				MedicineID:   m.ID,
				BatchNo:      prefix + "-B",
				ExpiryDate:   today.AddDays(95 + (idx%5)*18),
				QtyBaseUnits: secondQty,
			},
		)
		if idx%4 == 0 {
			batches = append(batches, inventory.Batch{
				ID:           inventory.BatchID(fmt.Sprintf("b_%s_3", m.ID)),
				MedicineID:   m.ID,
				BatchNo:      prefix + "-X",
				ExpiryDate:   today.AddDays(-5 - idx%3),
				QtyBaseUnits: thirdQty,
			})
		}
	}
	return batches
}
