/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in the domain layer, not in DTOs. DTOs are pure data
  carriers; handlers only translate shapes and map errors to statuses.

SEE ALSO:
  - handlers.go: Uses these types
  - inventory/types.go: The domain records behind them
*/
package api

import (
	"time"

	"github.com/pharmakit/stock-engine/inventory"
)

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toSessionDTO(s *inventory.Session) *SessionDTO {
	if s == nil {
		return nil
	}
	return &SessionDTO{UserID: string(s.UserID), Username: s.Username, Role: string(s.Role)}
}

// =============================================================================
// MEDICINES
// =============================================================================

// MedicineDTO represents a catalog entry in API responses. Strength and
// volume travel as strings to keep decimal precision across the wire.
type MedicineDTO struct {
	ID                string `json:"id"`
	Code              string `json:"code"`
	GenericName       string `json:"generic_name"`
	BrandName         string `json:"brand_name,omitempty"`
	DosageForm        string `json:"dosage_form"`
	Route             string `json:"route"`
	StrengthValue     string `json:"strength_value,omitempty"`
	StrengthUnit      string `json:"strength_unit,omitempty"`
	VolumeValue       string `json:"volume_value,omitempty"`
	VolumeUnit        string `json:"volume_unit,omitempty"`
	ConcentrationText string `json:"concentration_text,omitempty"`
	PackagingText     string `json:"packaging_text,omitempty"`
	ShelfLocation     string `json:"shelf_location,omitempty"`
	Category          string `json:"category,omitempty"`
	RxRequired        bool   `json:"rx_required"`
	BaseUnit          string `json:"base_unit"`
	PackSize          int64  `json:"pack_size"`
	ReorderLevelBoxes int64  `json:"reorder_level_boxes"`
	ReorderPoint      int64  `json:"reorder_point"`
	Archived          bool   `json:"archived"`
}

// SaveMedicineRequest carries a create (empty id) or update.
type SaveMedicineRequest struct {
	ID                string `json:"id"`
	Code              string `json:"code"`
	GenericName       string `json:"generic_name"`
	BrandName         string `json:"brand_name"`
	DosageForm        string `json:"dosage_form"`
	Route             string `json:"route"`
	StrengthValue     string `json:"strength_value"`
	StrengthUnit      string `json:"strength_unit"`
	VolumeValue       string `json:"volume_value"`
	VolumeUnit        string `json:"volume_unit"`
	ConcentrationText string `json:"concentration_text"`
	PackagingText     string `json:"packaging_text"`
	ShelfLocation     string `json:"shelf_location"`
	Category          string `json:"category"`
	RxRequired        bool   `json:"rx_required"`
	BaseUnit          string `json:"base_unit"`
	PackSize          int64  `json:"pack_size"`
	ReorderLevelBoxes int64  `json:"reorder_level_boxes"`
}

func toMedicineDTO(m inventory.Medicine) MedicineDTO {
	dto := MedicineDTO{
		ID:                string(m.ID),
		Code:              m.Code,
		GenericName:       m.GenericName,
		BrandName:         m.BrandName,
		DosageForm:        string(m.DosageForm),
		Route:             m.Route,
		StrengthUnit:      m.StrengthUnit,
		VolumeUnit:        m.VolumeUnit,
		ConcentrationText: m.ConcentrationText,
		PackagingText:     m.PackagingText,
		ShelfLocation:     m.ShelfLocation,
		Category:          m.Category,
		RxRequired:        m.RxRequired,
		BaseUnit:          string(m.BaseUnit),
		PackSize:          m.PackSize,
		ReorderLevelBoxes: m.ReorderLevelBoxes,
		ReorderPoint:      m.ReorderPoint(),
		Archived:          m.Archived,
	}
	if m.StrengthValue.Valid {
		dto.StrengthValue = m.StrengthValue.Decimal.String()
	}
	if m.VolumeValue.Valid {
		dto.VolumeValue = m.VolumeValue.Decimal.String()
	}
	return dto
}

// =============================================================================
// BATCHES AND STOCK MOVEMENTS
// =============================================================================

// BatchDTO carries a lot with its status against today's date.
type BatchDTO struct {
	ID           string `json:"id"`
	MedicineID   string `json:"medicine_id"`
	BatchNo      string `json:"batch_no"`
	ExpiryDate   string `json:"expiry_date"`
	QtyBaseUnits int64  `json:"qty_base_units"`
	Status       string `json:"status"`
	DaysLeft     int    `json:"days_left"`
}

func toBatchDTO(b inventory.Batch, today inventory.Date, warningDays int) BatchDTO {
	status, daysLeft := inventory.Classify(b, today, warningDays)
	return BatchDTO{
		ID:           string(b.ID),
		MedicineID:   string(b.MedicineID),
		BatchNo:      b.BatchNo,
		ExpiryDate:   b.ExpiryDate.String(),
		QtyBaseUnits: b.QtyBaseUnits,
		Status:       string(status),
		DaysLeft:     daysLeft,
	}
}

type StockInRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int64  `json:"quantity"`
	Unit       string `json:"unit"` // "base" or "box"
	BatchNo    string `json:"batch_no"`
	ExpiryDate string `json:"expiry_date"` // YYYY-MM-DD
}

type DispenseRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int64  `json:"quantity"`
	Unit       string `json:"unit"`
	RxVerified bool   `json:"rx_verified"`
}

type AdjustRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int64  `json:"quantity"`
	Direction  string `json:"direction"` // "add" or "subtract"
	Reason     string `json:"reason"`
}

// TransactionDTO represents one applied movement.
type TransactionDTO struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	MedicineID   string `json:"medicine_id"`
	BatchNo      string `json:"batch_no,omitempty"`
	QtyBaseUnits int64  `json:"qty_base_units"`
	SignedQty    int64  `json:"signed_qty"`
	Reason       string `json:"reason,omitempty"`
	User         string `json:"user"`
}

func toTransactionDTO(t inventory.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           string(t.ID),
		Timestamp:    t.Timestamp.UTC().Format(time.RFC3339),
		Type:         string(t.Type),
		MedicineID:   string(t.MedicineID),
		BatchNo:      t.BatchNo,
		QtyBaseUnits: t.QtyBaseUnits,
		SignedQty:    t.SignedQty(),
		Reason:       t.Reason,
		User:         t.User,
	}
}

// =============================================================================
// ALERTS AND REPORTS
// =============================================================================

type AlertRowDTO struct {
	MedicineID     string     `json:"medicine_id"`
	MedicineName   string     `json:"medicine_name"`
	Form           string     `json:"form"`
	BaseUnit       string     `json:"base_unit"`
	RemainingBase  int64      `json:"remaining_base"`
	ReorderBase    int64      `json:"reorder_base"`
	PctRemaining   string     `json:"pct_remaining"`
	MinDaysLeft    int        `json:"min_days_left,omitempty"`
	MaxExpiredDays int        `json:"max_expired_days,omitempty"`
	Batches        []BatchDTO `json:"batches"`
}

type AlertReportDTO struct {
	LowStock   []AlertRowDTO `json:"low_stock"`
	NearExpiry []AlertRowDTO `json:"near_expiry"`
	Expired    []AlertRowDTO `json:"expired"`
}

type StockStatusRowDTO struct {
	MedicineID  string `json:"medicine_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	BaseUnit    string `json:"base_unit"`
	TotalBase   int64  `json:"total_base"`
	ReorderBase int64  `json:"reorder_base"`
	Low         bool   `json:"low"`
}

type MovementRowDTO struct {
	TransactionDTO
	MedicineName string `json:"medicine_name"`
}

type DashboardDTO struct {
	ActiveMedicines int   `json:"active_medicines"`
	TotalBaseUnits  int64 `json:"total_base_units"`
	LowStockCount   int   `json:"low_stock_count"`
	NearExpiryCount int   `json:"near_expiry_count"`
	ExpiredCount    int   `json:"expired_count"`
}

// =============================================================================
// AUDIT, USERS, SETTINGS
// =============================================================================

type AuditEntryDTO struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Role      string `json:"role"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	Status    string `json:"status"`
	LastLogin string `json:"last_login,omitempty"`
}

// Password never leaves the server.
func toUserDTO(u inventory.User) UserDTO {
	dto := UserDTO{
		ID:       string(u.ID),
		Username: u.Username,
		Role:     string(u.Role),
		Name:     u.Name,
		Status:   string(u.Status),
	}
	if u.LastLogin != nil {
		dto.LastLogin = u.LastLogin.UTC().Format(time.RFC3339)
	}
	return dto
}

type SaveUserRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type SetUserStatusRequest struct {
	Status string `json:"status"` // "active" or "disabled"
}

type SettingsDTO struct {
	WarningDays           int      `json:"warning_days"`
	RequireRxVerification bool     `json:"require_rx_verification"`
	Categories            []string `json:"categories"`
	DosageForms           []string `json:"dosage_forms"`
	Routes                []string `json:"routes"`
	StrengthUnits         []string `json:"strength_units"`
}

func toSettingsDTO(s inventory.Settings) SettingsDTO {
	forms := make([]string, len(s.DosageForms))
	for i, f := range s.DosageForms {
		forms[i] = string(f)
	}
	return SettingsDTO{
		WarningDays:           s.WarningDays,
		RequireRxVerification: s.RequireRxVerification,
		Categories:            s.Categories,
		DosageForms:           forms,
		Routes:                s.Routes,
		StrengthUnits:         s.StrengthUnits,
	}
}

type UpdateSettingsRequest struct {
	WarningDays           int      `json:"warning_days"`
	RequireRxVerification bool     `json:"require_rx_verification"`
	Categories            []string `json:"categories"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
