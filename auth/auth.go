/*
Package auth provides login, logout, and operator-account administration.

PURPOSE:
  Identity layer over the store: authenticates operators against stored
  accounts, maintains the single current session, and lets admins manage
  accounts. Every ledger mutation elsewhere requires the Session this
  package produces.

MODEL:
  One process, one session. Passwords are stored and compared as
  plaintext; hardening authentication (hashing, tokens, multi-session)
  is explicitly out of scope for this system.

RULES:
  - Disabled accounts cannot log in.
  - Usernames are unique, compared case-insensitively.
  - New accounts need a password; edits keep the old one unless replaced.
  - Editing your own account refreshes the session role immediately.
  - The currently logged-in active admin cannot be disabled.

SEE ALSO:
  - inventory/types.go: User, Session, Role definitions
  - inventory/store.go: UserStore, SessionStore, AuditLog
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pharmakit/stock-engine/inventory"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCredentials - username/password pair does not match an account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled - the account exists but has been disabled.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrUsernameTaken - another account already uses this username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrCannotDisableSelf - an active admin cannot disable their own session.
	ErrCannotDisableSelf = errors.New("cannot disable currently logged-in admin")
)

// =============================================================================
// SERVICE
// =============================================================================

// Service authenticates operators and administers accounts.
type Service struct {
	store inventory.Store
	clock inventory.Clock
}

func NewService(store inventory.Store, clock inventory.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Login authenticates the username/password pair, records the login time,
// and installs the session. Returns ErrInvalidCredentials on a mismatch and
// ErrAccountDisabled for a disabled account.
func (s *Service) Login(ctx context.Context, username, password string) (*inventory.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, ErrInvalidCredentials
	}
	if user.Status == inventory.UserDisabled {
		return nil, ErrAccountDisabled
	}

	now := s.clock.Now()
	user.LastLogin = &now
	if err := s.store.SaveUser(ctx, *user); err != nil {
		return nil, err
	}

	session := &inventory.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if err := s.store.SetSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, session, "login", fmt.Sprintf("User %s logged in", user.Username)); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout clears the session. A no-op when nobody is logged in.
func (s *Service) Logout(ctx context.Context) error {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := s.appendAudit(ctx, session, "logout", fmt.Sprintf("User %s logged out", session.Username)); err != nil {
		return err
	}
	return s.store.SetSession(ctx, nil)
}

// Current returns the active session, or nil when logged out.
func (s *Service) Current(ctx context.Context) (*inventory.Session, error) {
	return s.store.GetSession(ctx)
}

// =============================================================================
// ACCOUNT ADMINISTRATION (admin only)
// =============================================================================

// SaveUserInput carries a create or update. An empty ID creates; Password
// empty on an update keeps the existing password.
type SaveUserInput struct {
	ID       inventory.UserID
	Username string
	Role     inventory.Role
	Password string
}

// SaveUser creates or updates an account. Admin only.
func (s *Service) SaveUser(ctx context.Context, actor *inventory.Session, in SaveUserInput) (*inventory.User, error) {
	if actor == nil {
		return nil, inventory.ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return nil, inventory.ErrUnauthorized
	}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, &inventory.ValidationError{Message: "Username is required."}
	}
	if in.ID == "" && in.Password == "" {
		return nil, &inventory.ValidationError{Message: "Temporary password is required for new users."}
	}
	if in.Role != inventory.RoleAdmin && in.Role != inventory.RoleStaff {
		return nil, &inventory.ValidationError{Message: "Role must be admin or staff."}
	}

	existing, err := s.store.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != in.ID {
		return nil, ErrUsernameTaken
	}

	var user inventory.User
	action := "user create"

	if in.ID != "" {
		prev, err := s.store.GetUser(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			return nil, inventory.ErrUserNotFound
		}
		user = *prev
		user.Username = in.Username
		user.Role = in.Role
		if in.Password != "" {
			user.Password = in.Password
		}
		action = "user update"
	} else {
		user = inventory.User{
			ID:       inventory.UserID(uuid.NewString()),
			Username: in.Username,
			Password: in.Password,
			Role:     in.Role,
			Name:     in.Username,
			Status:   inventory.UserActive,
		}
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	// Changing your own role takes effect on the live session.
	if actor.UserID == user.ID && actor.Role != user.Role {
		refreshed := &inventory.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
		if err := s.store.SetSession(ctx, refreshed); err != nil {
			return nil, err
		}
		actor.Role = user.Role
	}

	if err := s.appendAudit(ctx, actor, action, fmt.Sprintf("%s (%s)", user.Username, user.Role)); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetStatus enables or disables an account. Admin only. The currently
// logged-in active admin cannot disable themselves.
func (s *Service) SetStatus(ctx context.Context, actor *inventory.Session, id inventory.UserID, status inventory.UserStatus) (*inventory.User, error) {
	if actor == nil {
		return nil, inventory.ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return nil, inventory.ErrUnauthorized
	}
	if status != inventory.UserActive && status != inventory.UserDisabled {
		return nil, &inventory.ValidationError{Message: "Status must be active or disabled."}
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, inventory.ErrUserNotFound
	}

	if status == inventory.UserDisabled &&
		actor.UserID == user.ID && user.Role == inventory.RoleAdmin && user.Status == inventory.UserActive {
		return nil, ErrCannotDisableSelf
	}

	user.Status = status
	if err := s.store.SaveUser(ctx, *user); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, actor, "user status change", fmt.Sprintf("%s => %s", user.Username, user.Status)); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor *inventory.Session) ([]inventory.User, error) {
	if actor == nil {
		return nil, inventory.ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return nil, inventory.ErrUnauthorized
	}
	return s.store.ListUsers(ctx)
}

func (s *Service) appendAudit(ctx context.Context, actor *inventory.Session, action, details string) error {
	return s.store.AppendAudit(ctx, inventory.AuditEntry{
		Timestamp: s.clock.Now(),
		User:      actor.Username,
		Role:      string(actor.Role),
		Action:    action,
		Details:   details,
	})
}
