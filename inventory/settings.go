package inventory

import (
	"context"
	"fmt"
)

// SettingsService reads and (admin-only) updates the configuration
// singleton.
type SettingsService struct {
	store Store
	clock Clock
}

func NewSettingsService(store Store, clock Clock) *SettingsService {
	return &SettingsService{store: store, clock: clock}
}

func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	return s.store.GetSettings(ctx)
}

// Update replaces warningDays, the Rx gate, and the category list. The
// option lists (dosage forms, routes, strength units) are fixed and carry
// over from the stored settings regardless of the input.
func (s *SettingsService) Update(ctx context.Context, actor *Session, in Settings) (Settings, error) {
	if actor == nil {
		return Settings{}, ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return Settings{}, ErrUnauthorized
	}
	if in.WarningDays <= 0 {
		return Settings{}, &ValidationError{Message: "warningDays must be greater than 0."}
	}

	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	current.WarningDays = in.WarningDays
	current.RequireRxVerification = in.RequireRxVerification
	if in.Categories != nil {
		current.Categories = dedupe(in.Categories)
	}

	if err := s.store.SaveSettings(ctx, current); err != nil {
		return Settings{}, err
	}

	details := fmt.Sprintf("warningDays=%d, requireRx=%t", current.WarningDays, current.RequireRxVerification)
	if err := appendAudit(ctx, s.store, s.clock, actor, "settings update", details); err != nil {
		return Settings{}, err
	}
	return current, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
