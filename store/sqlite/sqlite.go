/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the full inventory.Store composite using SQLite. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  inventory.MedicineStore:    Catalog records
  inventory.BatchStore:       Lot-level stock
  inventory.TransactionStore: Append-only movement log
  inventory.AuditLog:         Append-only audit trail
  inventory.SettingsStore:    Configuration singleton
  inventory.UserStore:        Operator accounts
  inventory.SessionStore:     The single current session

APPEND-ONLY ENFORCEMENT:
  The transactions and audit tables take INSERTs only - no UPDATE, no
  DELETE. Corrections happen through adjustment transactions. Batches are
  upserted but never deleted; a drained batch keeps its zero row.

NON-NEGATIVITY:
  SaveBatch rejects a negative quantity before touching the database, and
  the batches table carries a CHECK constraint as a second line.

STORAGE CONVENTIONS:
  Calendar dates    TEXT "2006-01-02" (lexicographic order == date order)
  Timestamps        TEXT RFC3339 UTC
  Decimal amounts   TEXT, parsed with shopspring/decimal (no float drift)
  Settings lists    JSON arrays in TEXT columns
  Singletons        settings and session pin id = 1

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control would handle this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/pharmacy.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := inventory.NewEngine(store, inventory.SystemClock())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - inventory/store.go: Interface definitions
  - inventory/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/pharmakit/stock-engine/inventory"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Medicines (catalog, soft-deleted via archived flag)
	CREATE TABLE IF NOT EXISTS medicines (
		id TEXT PRIMARY KEY,
		seq INTEGER UNIQUE,
		code TEXT NOT NULL,
		generic_name TEXT NOT NULL,
		brand_name TEXT,
		dosage_form TEXT NOT NULL,
		route TEXT NOT NULL,
		strength_value TEXT,
		strength_unit TEXT,
		volume_value TEXT,
		volume_unit TEXT,
		concentration_text TEXT,
		packaging_text TEXT,
		shelf_location TEXT,
		category TEXT,
		rx_required BOOLEAN NOT NULL DEFAULT FALSE,
		base_unit TEXT NOT NULL,
		pack_size INTEGER NOT NULL,
		reorder_level_boxes INTEGER NOT NULL DEFAULT 0,
		archived BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_medicines_code ON medicines(code);
	CREATE INDEX IF NOT EXISTS idx_medicines_archived ON medicines(archived);

	-- Batches (never deleted; qty reaches 0 and stays)
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		seq INTEGER UNIQUE,
		medicine_id TEXT NOT NULL,
		batch_no TEXT NOT NULL,
		expiry_date TEXT NOT NULL,
		qty_base_units INTEGER NOT NULL CHECK (qty_base_units >= 0)
	);

	-- One lot number per medicine; stock-in into an existing lot merges
	CREATE UNIQUE INDEX IF NOT EXISTS idx_batches_medicine_lot
		ON batches(medicine_id, batch_no);
	CREATE INDEX IF NOT EXISTS idx_batches_medicine_expiry
		ON batches(medicine_id, expiry_date);

	-- Transactions (append-only movement log)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		seq INTEGER UNIQUE,
		timestamp TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		medicine_id TEXT NOT NULL,
		batch_no TEXT NOT NULL,
		qty_base_units INTEGER NOT NULL,
		reason TEXT,
		username TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_medicine ON transactions(medicine_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(tx_type);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);

	-- Audit trail (append-only)
	CREATE TABLE IF NOT EXISTS audit (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT
	);

	-- Settings singleton
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		warning_days INTEGER NOT NULL,
		require_rx BOOLEAN NOT NULL,
		categories_json TEXT NOT NULL,
		dosage_forms_json TEXT NOT NULL,
		routes_json TEXT NOT NULL,
		strength_units_json TEXT NOT NULL
	);

	-- Users
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		seq INTEGER UNIQUE,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		name TEXT,
		status TEXT NOT NULL,
		last_login TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username
		ON users(username COLLATE NOCASE);

	-- Session singleton (row present only while logged in)
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEDICINE STORE (inventory.MedicineStore interface)
// =============================================================================

// SaveMedicine inserts or replaces a catalog record.
func (s *Store) SaveMedicine(ctx context.Context, m inventory.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO medicines
		(id, seq, code, generic_name, brand_name, dosage_form, route,
		 strength_value, strength_unit, volume_value, volume_unit,
		 concentration_text, packaging_text, shelf_location, category,
		 rx_required, base_unit, pack_size, reorder_level_boxes, archived)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM medicines), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			generic_name = excluded.generic_name,
			brand_name = excluded.brand_name,
			dosage_form = excluded.dosage_form,
			route = excluded.route,
			strength_value = excluded.strength_value,
			strength_unit = excluded.strength_unit,
			volume_value = excluded.volume_value,
			volume_unit = excluded.volume_unit,
			concentration_text = excluded.concentration_text,
			packaging_text = excluded.packaging_text,
			shelf_location = excluded.shelf_location,
			category = excluded.category,
			rx_required = excluded.rx_required,
			base_unit = excluded.base_unit,
			pack_size = excluded.pack_size,
			reorder_level_boxes = excluded.reorder_level_boxes,
			archived = excluded.archived
	`

	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.Code, m.GenericName, m.BrandName, m.DosageForm, m.Route,
		nullDecimal(m.StrengthValue), nullString(m.StrengthUnit),
		nullDecimal(m.VolumeValue), nullString(m.VolumeUnit),
		m.ConcentrationText, m.PackagingText, m.ShelfLocation, m.Category,
		m.RxRequired, m.BaseUnit, m.PackSize, m.ReorderLevelBoxes, m.Archived,
	)
	if err != nil {
		return fmt.Errorf("failed to save medicine: %w", err)
	}
	return nil
}

// GetMedicine retrieves a medicine by ID, or nil if absent.
func (s *Store) GetMedicine(ctx context.Context, id inventory.MedicineID) (*inventory.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, medicineColumns+" WHERE id = ?", id)
	m, err := scanMedicine(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMedicines returns all medicines, archived included, in insertion order.
func (s *Store) ListMedicines(ctx context.Context) ([]inventory.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, medicineColumns+" ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}
	defer rows.Close()

	var medicines []inventory.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

const medicineColumns = `
	SELECT id, code, generic_name, brand_name, dosage_form, route,
	       strength_value, strength_unit, volume_value, volume_unit,
	       concentration_text, packaging_text, shelf_location, category,
	       rx_required, base_unit, pack_size, reorder_level_boxes, archived
	FROM medicines`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedicine(row rowScanner) (inventory.Medicine, error) {
	var (
		m                          inventory.Medicine
		brandName                  sql.NullString
		strengthValue, volumeValue sql.NullString
		strengthUnit, volumeUnit   sql.NullString
		concentration, packaging   sql.NullString
		shelf, category            sql.NullString
	)

	err := row.Scan(
		&m.ID, &m.Code, &m.GenericName, &brandName, &m.DosageForm, &m.Route,
		&strengthValue, &strengthUnit, &volumeValue, &volumeUnit,
		&concentration, &packaging, &shelf, &category,
		&m.RxRequired, &m.BaseUnit, &m.PackSize, &m.ReorderLevelBoxes, &m.Archived,
	)
	if err != nil {
		return m, err
	}

	m.BrandName = brandName.String
	m.StrengthValue = parseNullDecimal(strengthValue)
	m.StrengthUnit = strengthUnit.String
	m.VolumeValue = parseNullDecimal(volumeValue)
	m.VolumeUnit = volumeUnit.String
	m.ConcentrationText = concentration.String
	m.PackagingText = packaging.String
	m.ShelfLocation = shelf.String
	m.Category = category.String
	return m, nil
}

// =============================================================================
// BATCH STORE (inventory.BatchStore interface)
// =============================================================================

// SaveBatch inserts or replaces a batch. Rejects a negative quantity.
func (s *Store) SaveBatch(ctx context.Context, b inventory.Batch) error {
	if b.QtyBaseUnits < 0 {
		return inventory.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO batches (id, seq, medicine_id, batch_no, expiry_date, qty_base_units)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM batches), ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			expiry_date = excluded.expiry_date,
			qty_base_units = excluded.qty_base_units
	`

	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.MedicineID, b.BatchNo, b.ExpiryDate.String(), b.QtyBaseUnits,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	return nil
}

// FindBatch returns the batch with this medicine+lot number, or nil.
func (s *Store) FindBatch(ctx context.Context, medicineID inventory.MedicineID, batchNo string) (*inventory.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, medicine_id, batch_no, expiry_date, qty_base_units FROM batches WHERE medicine_id = ? AND batch_no = ?",
		medicineID, batchNo,
	)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBatchesByMedicine returns the medicine's batches in insertion order.
func (s *Store) ListBatchesByMedicine(ctx context.Context, medicineID inventory.MedicineID) ([]inventory.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryBatches(ctx,
		"SELECT id, medicine_id, batch_no, expiry_date, qty_base_units FROM batches WHERE medicine_id = ? ORDER BY seq ASC",
		medicineID,
	)
}

// ListBatches returns every batch in insertion order.
func (s *Store) ListBatches(ctx context.Context) ([]inventory.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryBatches(ctx,
		"SELECT id, medicine_id, batch_no, expiry_date, qty_base_units FROM batches ORDER BY seq ASC",
	)
}

func (s *Store) queryBatches(ctx context.Context, query string, args ...any) ([]inventory.Batch, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []inventory.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func scanBatch(row rowScanner) (inventory.Batch, error) {
	var b inventory.Batch
	var expiry string

	if err := row.Scan(&b.ID, &b.MedicineID, &b.BatchNo, &expiry, &b.QtyBaseUnits); err != nil {
		return b, err
	}

	d, err := inventory.ParseDate(expiry)
	if err != nil {
		return b, fmt.Errorf("failed to parse expiry date %q: %w", expiry, err)
	}
	b.ExpiryDate = d
	return b, nil
}

// =============================================================================
// TRANSACTION STORE (inventory.TransactionStore interface)
// =============================================================================

// AppendTransaction adds a movement record. Append-only.
func (s *Store) AppendTransaction(ctx context.Context, tx inventory.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO transactions
		(id, seq, timestamp, tx_type, medicine_id, batch_no, qty_base_units, reason, username)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions), ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.Timestamp.UTC().Format(time.RFC3339),
		tx.Type, tx.MedicineID, tx.BatchNo, tx.QtyBaseUnits,
		tx.Reason, tx.User,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// ListTransactions returns all transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]inventory.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, timestamp, tx_type, medicine_id, batch_no, qty_base_units, reason, username
		FROM transactions
		ORDER BY seq DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []inventory.Transaction
	for rows.Next() {
		var tx inventory.Transaction
		var timestamp string
		var reason sql.NullString

		if err := rows.Scan(&tx.ID, &timestamp, &tx.Type, &tx.MedicineID,
			&tx.BatchNo, &tx.QtyBaseUnits, &reason, &tx.User); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		tx.Reason = reason.String
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// =============================================================================
// AUDIT LOG (inventory.AuditLog interface)
// =============================================================================

// AppendAudit adds an audit entry. Append-only.
func (s *Store) AppendAudit(ctx context.Context, entry inventory.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit (timestamp, username, role, action, details) VALUES (?, ?, ?, ?, ?)",
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.User, entry.Role, entry.Action, entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListAudit returns all audit entries, newest first.
func (s *Store) ListAudit(ctx context.Context) ([]inventory.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT timestamp, username, role, action, details FROM audit ORDER BY seq DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit: %w", err)
	}
	defer rows.Close()

	var entries []inventory.AuditEntry
	for rows.Next() {
		var e inventory.AuditEntry
		var timestamp string
		var details sql.NullString

		if err := rows.Scan(&timestamp, &e.User, &e.Role, &e.Action, &details); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		e.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// SETTINGS STORE (inventory.SettingsStore interface)
// =============================================================================

// GetSettings returns the configuration singleton, defaults when unset.
func (s *Store) GetSettings(ctx context.Context) (inventory.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		set                                    inventory.Settings
		categories, forms, routes, strengthUns string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT warning_days, require_rx, categories_json, dosage_forms_json, routes_json, strength_units_json FROM settings WHERE id = 1",
	).Scan(&set.WarningDays, &set.RequireRxVerification, &categories, &forms, &routes, &strengthUns)

	if err == sql.ErrNoRows {
		return inventory.DefaultSettings(), nil
	}
	if err != nil {
		return set, fmt.Errorf("failed to query settings: %w", err)
	}

	json.Unmarshal([]byte(categories), &set.Categories)
	json.Unmarshal([]byte(forms), &set.DosageForms)
	json.Unmarshal([]byte(routes), &set.Routes)
	json.Unmarshal([]byte(strengthUns), &set.StrengthUnits)
	if set.Categories == nil {
		set.Categories = []string{}
	}
	return set, nil
}

// SaveSettings replaces the configuration singleton.
func (s *Store) SaveSettings(ctx context.Context, set inventory.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, _ := json.Marshal(set.Categories)
	forms, _ := json.Marshal(set.DosageForms)
	routes, _ := json.Marshal(set.Routes)
	strengthUnits, _ := json.Marshal(set.StrengthUnits)

	query := `
		INSERT INTO settings (id, warning_days, require_rx, categories_json, dosage_forms_json, routes_json, strength_units_json)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			warning_days = excluded.warning_days,
			require_rx = excluded.require_rx,
			categories_json = excluded.categories_json,
			dosage_forms_json = excluded.dosage_forms_json,
			routes_json = excluded.routes_json,
			strength_units_json = excluded.strength_units_json
	`

	_, err := s.db.ExecContext(ctx, query,
		set.WarningDays, set.RequireRxVerification,
		string(categories), string(forms), string(routes), string(strengthUnits),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// USER STORE (inventory.UserStore interface)
// =============================================================================

// SaveUser inserts or replaces an operator account.
func (s *Store) SaveUser(ctx context.Context, u inventory.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastLogin *string
	if u.LastLogin != nil {
		t := u.LastLogin.UTC().Format(time.RFC3339)
		lastLogin = &t
	}

	query := `
		INSERT INTO users (id, seq, username, password, role, name, status, last_login)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM users), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			password = excluded.password,
			role = excluded.role,
			name = excluded.name,
			status = excluded.status,
			last_login = excluded.last_login
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Password, u.Role, u.Name, u.Status, lastLogin,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID, or nil if absent.
func (s *Store) GetUser(ctx context.Context, id inventory.UserID) (*inventory.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryUser(ctx,
		"SELECT id, username, password, role, name, status, last_login FROM users WHERE id = ?", id)
}

// GetUserByUsername matches case-insensitively, or returns nil.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*inventory.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryUser(ctx,
		"SELECT id, username, password, role, name, status, last_login FROM users WHERE username = ? COLLATE NOCASE", username)
}

func (s *Store) queryUser(ctx context.Context, query string, arg any) (*inventory.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users in insertion order.
func (s *Store) ListUsers(ctx context.Context) ([]inventory.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password, role, name, status, last_login FROM users ORDER BY seq ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []inventory.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (inventory.User, error) {
	var u inventory.User
	var name, lastLogin sql.NullString

	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &name, &u.Status, &lastLogin); err != nil {
		return u, err
	}

	u.Name = name.String
	if lastLogin.Valid {
		t, _ := time.Parse(time.RFC3339, lastLogin.String)
		u.LastLogin = &t
	}
	return u, nil
}

// =============================================================================
// SESSION STORE (inventory.SessionStore interface)
// =============================================================================

// GetSession returns the current session, or nil when logged out.
func (s *Store) GetSession(ctx context.Context) (*inventory.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess inventory.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, username, role FROM session WHERE id = 1",
	).Scan(&sess.UserID, &sess.Username, &sess.Role)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &sess, nil
}

// SetSession replaces the current session; nil logs out.
func (s *Store) SetSession(ctx context.Context, sess *inventory.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess == nil {
		_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = 1")
		return err
	}

	query := `
		INSERT INTO session (id, user_id, username, role)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			role = excluded.role
	`

	_, err := s.db.ExecContext(ctx, query, sess.UserID, sess.Username, sess.Role)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"transactions", "audit", "batches", "medicines", "users", "settings", "session"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDecimal(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func parseNullDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid || s.String == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
