package theme

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPrefs is an in-memory PreferenceStore for tests.
type memPrefs struct {
	mu    sync.Mutex
	prefs map[string]bool
}

func newMemPrefs() *memPrefs {
	return &memPrefs{prefs: make(map[string]bool)}
}

func (m *memPrefs) SetDarkMode(_ context.Context, sessionID string, dark bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[sessionID] = dark
	return nil
}

func (m *memPrefs) GetDarkMode(_ context.Context, sessionID string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dark, found := m.prefs[sessionID]
	return dark, found, nil
}

func TestDarkModeFallsBackToHint(t *testing.T) {
	s := NewStore(newMemPrefs())
	ctx := context.Background()

	dark, err := s.DarkMode(ctx, "s1", true)
	require.NoError(t, err)
	assert.True(t, dark)

	dark, err = s.DarkMode(ctx, "s1", false)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestToggleRoundTrip(t *testing.T) {
	prefs := newMemPrefs()
	s := NewStore(prefs)
	ctx := context.Background()

	// Two toggles return to the starting value, and the persisted
	// preference matches the in-memory one after each.
	first, err := s.Toggle(ctx, "s1", false)
	require.NoError(t, err)
	assert.True(t, first)

	stored, found, _ := prefs.GetDarkMode(ctx, "s1")
	assert.True(t, found)
	assert.Equal(t, first, stored)

	second, err := s.Toggle(ctx, "s1", false)
	require.NoError(t, err)
	assert.False(t, second)

	stored, _, _ = prefs.GetDarkMode(ctx, "s1")
	assert.Equal(t, second, stored)
}

func TestStoredPreferenceBeatsHint(t *testing.T) {
	prefs := newMemPrefs()
	s := NewStore(prefs)
	ctx := context.Background()

	require.NoError(t, prefs.SetDarkMode(ctx, "s1", true))

	dark, err := s.DarkMode(ctx, "s1", false)
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestColorsFor(t *testing.T) {
	assert.NotEqual(t, ColorsFor(false), ColorsFor(true))
	assert.Equal(t, "#ffffff", ColorsFor(false).Background)
	assert.Equal(t, "#18181b", ColorsFor(true).Background)
}
