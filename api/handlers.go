/*
handlers.go - HTTP API handlers for the pharmacy stock engine

PURPOSE:
  Exposes the inventory engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Auth:
    POST   /api/auth/login             Log in (installs the session)
    POST   /api/auth/logout            Log out
    GET    /api/auth/session           Current session

  Medicines:
    GET    /api/medicines              List (active; ?include_archived=1 for all)
    POST   /api/medicines              Create or update (empty id creates)
    GET    /api/medicines/{id}         Single medicine
    POST   /api/medicines/{id}/archive Archive / unarchive (body: {"archived": bool})
    GET    /api/medicines/{id}/batches Batches with status
    GET    /api/medicines/{id}/suggested-batch FEFO dispense suggestion

  Stock:
    POST   /api/stock/in               Receive stock into a lot
    POST   /api/stock/dispense         FEFO dispense
    POST   /api/stock/adjust           Signed manual correction

  Views:
    GET    /api/alerts                 Low-stock / near-expiry / expired
    GET    /api/reports/stock-status   Totals vs reorder points
    GET    /api/reports/movements      Filterable transaction report
    GET    /api/dashboard              Headline counts
    GET    /api/transactions           Raw movement log, newest first
    GET    /api/audit                  Audit trail, newest first

  Admin:
    GET/POST /api/users                Account administration
    POST   /api/users/{id}/status      Enable / disable
    GET/PUT  /api/settings             Configuration singleton

ERROR HANDLING:
  Domain errors map to statuses via errors.Is/As:
  - 400: validation failures, invalid quantities, missing Rx verification
  - 401: no session / bad credentials
  - 403: insufficient role, disabled account
  - 404: unknown medicine or user
  - 409: insufficient or no stock, expired batch, duplicate username
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmakit/stock-engine/auth"
	"github.com/pharmakit/stock-engine/inventory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    inventory.Store
	Clock    inventory.Clock
	Engine   *inventory.Engine
	Catalog  *inventory.Catalog
	Settings *inventory.SettingsService
	Alerts   *inventory.Aggregator
	Reports  *inventory.Reporter
	Auth     *auth.Service
}

// NewHandler wires the domain services over one store and clock.
func NewHandler(store inventory.Store, clock inventory.Clock) *Handler {
	return &Handler{
		Store:    store,
		Clock:    clock,
		Engine:   inventory.NewEngine(store, clock),
		Catalog:  inventory.NewCatalog(store, clock),
		Settings: inventory.NewSettingsService(store, clock),
		Alerts:   inventory.NewAggregator(store, clock),
		Reports:  inventory.NewReporter(store, clock),
		Auth:     auth.NewService(store, clock),
	}
}

// session loads the current session; nil means logged out. The domain
// layer rejects nil actors itself, so handlers just pass it through.
func (h *Handler) session(r *http.Request) (*inventory.Session, error) {
	return h.Store.GetSession(r.Context())
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login authenticates and installs the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

// Logout clears the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession returns the current session, or 401 when logged out.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

// =============================================================================
// MEDICINE HANDLERS
// =============================================================================

// ListMedicines returns active medicines, or all with ?include_archived=1.
func (h *Handler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	var (
		medicines []inventory.Medicine
		err       error
	)
	if r.URL.Query().Get("include_archived") != "" {
		medicines, err = h.Store.ListMedicines(r.Context())
	} else {
		medicines, err = h.Catalog.Active(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list medicines", err)
		return
	}

	dtos := make([]MedicineDTO, len(medicines))
	for i, m := range medicines {
		dtos[i] = toMedicineDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMedicine returns a single medicine.
func (h *Handler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id := inventory.MedicineID(chi.URLParam(r, "id"))

	med, err := h.Store.GetMedicine(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get medicine", err)
		return
	}
	if med == nil {
		writeError(w, http.StatusNotFound, "Medicine not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toMedicineDTO(*med))
}

// SaveMedicine creates (empty id) or updates a catalog entry.
func (h *Handler) SaveMedicine(w http.ResponseWriter, r *http.Request) {
	var req SaveMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	med := inventory.Medicine{
		ID:                inventory.MedicineID(req.ID),
		Code:              req.Code,
		GenericName:       req.GenericName,
		BrandName:         req.BrandName,
		DosageForm:        inventory.DosageForm(req.DosageForm),
		Route:             req.Route,
		StrengthUnit:      req.StrengthUnit,
		VolumeUnit:        req.VolumeUnit,
		ConcentrationText: req.ConcentrationText,
		PackagingText:     req.PackagingText,
		ShelfLocation:     req.ShelfLocation,
		Category:          req.Category,
		RxRequired:        req.RxRequired,
		BaseUnit:          inventory.BaseUnit(req.BaseUnit),
		PackSize:          req.PackSize,
		ReorderLevelBoxes: req.ReorderLevelBoxes,
	}

	var err error
	if med.StrengthValue, err = parseNullDecimal(req.StrengthValue); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strength_value", err)
		return
	}
	if med.VolumeValue, err = parseNullDecimal(req.VolumeValue); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid volume_value", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	saved, err := h.Catalog.Save(r.Context(), actor, med)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toMedicineDTO(saved))
}

// SetArchived flips the soft-delete flag.
func (h *Handler) SetArchived(w http.ResponseWriter, r *http.Request) {
	id := inventory.MedicineID(chi.URLParam(r, "id"))

	var req struct {
		Archived bool `json:"archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	if err := h.Catalog.SetArchived(r.Context(), actor, id, req.Archived); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBatches returns the medicine's batches with status, FEFO ordered.
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := inventory.MedicineID(chi.URLParam(r, "id"))

	med, err := h.Store.GetMedicine(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get medicine", err)
		return
	}
	if med == nil {
		writeError(w, http.StatusNotFound, "Medicine not found", nil)
		return
	}

	batches, err := h.Engine.Ledger().AllBatchesOrdered(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list batches", err)
		return
	}
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	today := h.Clock.Today()
	dtos := make([]BatchDTO, len(batches))
	for i, b := range batches {
		dtos[i] = toBatchDTO(b, today, settings.WarningDays)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SuggestBatch returns the FEFO dispense candidate, or 404 when none.
func (h *Handler) SuggestBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := inventory.MedicineID(chi.URLParam(r, "id"))

	batch, err := h.Engine.SuggestBatch(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute suggestion", err)
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "No valid non-expired stock available", nil)
		return
	}

	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchDTO(*batch, h.Clock.Today(), settings.WarningDays))
}

// =============================================================================
// STOCK MOVEMENT HANDLERS
// =============================================================================

// StockIn receives stock into a new or existing lot.
func (h *Handler) StockIn(w http.ResponseWriter, r *http.Request) {
	var req StockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var expiry inventory.Date
	if req.ExpiryDate != "" {
		var err error
		expiry, err = inventory.ParseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	tx, err := h.Engine.StockIn(r.Context(), actor, inventory.StockInInput{
		MedicineID: inventory.MedicineID(req.MedicineID),
		Quantity:   req.Quantity,
		Unit:       stockUnit(req.Unit),
		BatchNo:    req.BatchNo,
		ExpiryDate: expiry,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx))
}

// Dispense consumes stock from the FEFO batch.
func (h *Handler) Dispense(w http.ResponseWriter, r *http.Request) {
	var req DispenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	tx, err := h.Engine.Dispense(r.Context(), actor, inventory.DispenseInput{
		MedicineID: inventory.MedicineID(req.MedicineID),
		Quantity:   req.Quantity,
		Unit:       stockUnit(req.Unit),
		RxVerified: req.RxVerified,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx))
}

// Adjust applies a signed manual correction.
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	direction := inventory.AdjustAdd
	if req.Direction == string(inventory.AdjustSubtract) {
		direction = inventory.AdjustSubtract
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	tx, err := h.Engine.Adjust(r.Context(), actor, inventory.AdjustInput{
		MedicineID: inventory.MedicineID(req.MedicineID),
		Quantity:   req.Quantity,
		Direction:  direction,
		Reason:     req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx))
}

// =============================================================================
// ALERT AND REPORT HANDLERS
// =============================================================================

// GetAlerts recomputes the three alert views.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.Alerts.Compute(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute alerts", err)
		return
	}
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	today := h.Clock.Today()
	writeJSON(w, http.StatusOK, AlertReportDTO{
		LowStock:   toAlertRowDTOs(report.LowStock, today, settings.WarningDays),
		NearExpiry: toAlertRowDTOs(report.NearExpiry, today, settings.WarningDays),
		Expired:    toAlertRowDTOs(report.Expired, today, settings.WarningDays),
	})
}

func toAlertRowDTOs(rows []inventory.AlertRow, today inventory.Date, warningDays int) []AlertRowDTO {
	dtos := make([]AlertRowDTO, len(rows))
	for i, row := range rows {
		batches := make([]BatchDTO, len(row.Batches))
		for j, b := range row.Batches {
			batches[j] = toBatchDTO(b, today, warningDays)
		}
		dtos[i] = AlertRowDTO{
			MedicineID:     string(row.MedicineID),
			MedicineName:   row.MedicineName,
			Form:           string(row.Form),
			BaseUnit:       string(row.BaseUnit),
			RemainingBase:  row.RemainingBase,
			ReorderBase:    row.ReorderBase,
			PctRemaining:   row.PctRemaining.Round(1).String(),
			MinDaysLeft:    row.MinDaysLeft,
			MaxExpiredDays: row.MaxExpiredDays,
			Batches:        batches,
		}
	}
	return dtos
}

// GetStockStatus returns the stock-status report.
func (h *Handler) GetStockStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.StockStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	dtos := make([]StockStatusRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = StockStatusRowDTO{
			MedicineID:  string(row.MedicineID),
			Code:        row.Code,
			Name:        row.Name,
			BaseUnit:    string(row.BaseUnit),
			TotalBase:   row.TotalBase,
			ReorderBase: row.ReorderBase,
			Low:         row.Low,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMovements returns the filterable movement report.
// Query params: type, medicine_id, from, to (YYYY-MM-DD, inclusive).
func (h *Handler) GetMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.MovementFilter{
		Type:       inventory.TransactionType(q.Get("type")),
		MedicineID: inventory.MedicineID(q.Get("medicine_id")),
	}

	var err error
	if s := q.Get("from"); s != "" {
		if filter.From, err = inventory.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if filter.To, err = inventory.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
	}

	rows, err := h.Reports.Movements(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	dtos := make([]MovementRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = MovementRowDTO{
			TransactionDTO: toTransactionDTO(row.Transaction),
			MedicineName:   row.MedicineName,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDashboard returns the landing-view counts.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		ActiveMedicines: summary.ActiveMedicines,
		TotalBaseUnits:  summary.TotalBaseUnits,
		LowStockCount:   summary.LowStockCount,
		NearExpiryCount: summary.NearExpiryCount,
		ExpiredCount:    summary.ExpiredCount,
	})
}

// ListTransactions returns the raw movement log, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAudit returns the audit trail, newest first.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListAudit(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list audit entries", err)
		return
	}

	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = AuditEntryDTO{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			User:      e.User,
			Role:      e.Role,
			Action:    e.Action,
			Details:   e.Details,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// USER ADMIN HANDLERS
// =============================================================================

// ListUsers returns all accounts. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	users, err := h.Auth.ListUsers(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveUser creates (empty id) or updates an account. Admin only.
func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	user, err := h.Auth.SaveUser(r.Context(), actor, auth.SaveUserInput{
		ID:       inventory.UserID(req.ID),
		Username: req.Username,
		Role:     inventory.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toUserDTO(*user))
}

// SetUserStatus enables or disables an account. Admin only.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id := inventory.UserID(chi.URLParam(r, "id"))

	var req SetUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	user, err := h.Auth.SetStatus(r.Context(), actor, id, inventory.UserStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the configuration singleton.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings replaces warningDays, the Rx gate, and categories. Admin only.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.session(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}

	updated, err := h.Settings.Update(r.Context(), actor, inventory.Settings{
		WarningDays:           req.WarningDays,
		RequireRxVerification: req.RequireRxVerification,
		Categories:            req.Categories,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(updated))
}

// =============================================================================
// HELPERS
// =============================================================================

func stockUnit(s string) inventory.StockUnit {
	if s == string(inventory.InBoxes) {
		return inventory.InBoxes
	}
	return inventory.InBaseUnits
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error(), nil)

	case errors.Is(err, inventory.ErrUnauthorized),
		errors.Is(err, auth.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, err.Error(), nil)

	case inventory.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, inventory.ErrInsufficientQuantity),
		errors.Is(err, inventory.ErrNoStockAvailable),
		errors.Is(err, inventory.ErrNoBatchAvailable),
		errors.Is(err, inventory.ErrExpiredBatch),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrCannotDisableSelf):
		writeError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, inventory.ErrValidationFailed),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrRxVerificationRequired):
		writeError(w, http.StatusBadRequest, err.Error(), nil)

	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
