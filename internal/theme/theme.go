package theme

import (
	"context"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// PreferenceStore persists the dark-mode flag per session. Implemented by
// redisclient.Client.
type PreferenceStore interface {
	SetDarkMode(ctx context.Context, sessionID string, dark bool) error
	GetDarkMode(ctx context.Context, sessionID string) (dark, found bool, err error)
}

// Colors is a theme token table.
type Colors struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
}

var (
	lightColors = Colors{
		Background: "#ffffff",
		Surface:    "#f4f4f5",
		Text:       "#18181b",
		Muted:      "#71717a",
		Primary:    "#2563eb",
		Accent:     "#f59e0b",
	}

	darkColors = Colors{
		Background: "#18181b",
		Surface:    "#27272a",
		Text:       "#fafafa",
		Muted:      "#a1a1aa",
		Primary:    "#3b82f6",
		Accent:     "#fbbf24",
	}
)

// ColorsFor returns the token table for a mode.
func ColorsFor(dark bool) Colors {
	if dark {
		return darkColors
	}
	return lightColors
}

// Store reads and toggles each session's dark-mode preference. The stored
// preference wins; when none exists the client-reported prefers-dark hint is
// used as the starting value.
type Store struct {
	prefs  PreferenceStore
	logger *zap.Logger
}

// NewStore creates a theme store.
func NewStore(prefs PreferenceStore) *Store {
	return &Store{
		prefs:  prefs,
		logger: util.GetLogger(),
	}
}

// DarkMode returns the session's dark-mode flag, falling back to the
// prefers-dark hint when nothing is stored.
func (s *Store) DarkMode(ctx context.Context, sessionID string, prefersDark bool) (bool, error) {
	dark, found, err := s.prefs.GetDarkMode(ctx, sessionID)
	if err != nil {
		return prefersDark, err
	}
	if !found {
		return prefersDark, nil
	}
	return dark, nil
}

// Toggle flips the session's dark-mode flag, persists it, and returns the
// new value.
func (s *Store) Toggle(ctx context.Context, sessionID string, prefersDark bool) (bool, error) {
	current, err := s.DarkMode(ctx, sessionID, prefersDark)
	if err != nil {
		return current, err
	}

	next := !current
	if err := s.prefs.SetDarkMode(ctx, sessionID, next); err != nil {
		return current, err
	}

	util.ThemeTogglesTotal.Inc()
	s.logger.Debug("Dark mode toggled",
		zap.String("session_id", sessionID),
		zap.Bool("dark", next))
	return next, nil
}
