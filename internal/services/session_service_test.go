package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/internal/store"
	"gexcli/pkg/contracts/domain"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.New(filepath.Join(t.TempDir(), "store.json"), discardLogger())
	require.NoError(t, err)
	return kv
}

func testSession(id, name string, uploadedAt time.Time) domain.Session {
	return domain.Session{
		ID:              id,
		Name:            name,
		Symbol:          "SPX",
		UploadedAt:      uploadedAt,
		OptionCount:     10,
		UnderlyingPrice: 4500,
	}
}

func TestSessionService_ListAndGet(t *testing.T) {
	kv := testStore(t)
	sessions := store.NewSessionStore(kv)
	svc := NewSessionService(sessions, discardLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	sessions.Save(testSession("a", "older", now.Add(-time.Hour)))
	sessions.Save(testSession("b", "newer", now))

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")
	assert.Equal(t, "a", list[1].ID)

	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "older", got.Name)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_Rename(t *testing.T) {
	sessions := store.NewSessionStore(testStore(t))
	svc := NewSessionService(sessions, discardLogger())
	ctx := context.Background()

	sessions.Save(testSession("a", "original", time.Now().UTC()))

	renamed, err := svc.Rename(ctx, "a", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Name)

	got, _ := sessions.Get("a")
	assert.Equal(t, "renamed", got.Name)

	_, err = svc.Rename(ctx, "a", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Rename(ctx, "missing", "name")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_Delete(t *testing.T) {
	sessions := store.NewSessionStore(testStore(t))
	svc := NewSessionService(sessions, discardLogger())
	ctx := context.Background()

	sessions.Save(testSession("a", "doomed", time.Now().UTC()))

	require.NoError(t, svc.Delete(ctx, "a"))
	assert.ErrorIs(t, svc.Delete(ctx, "a"), ErrSessionNotFound)
}

func TestSettingsService(t *testing.T) {
	settings := store.NewSettingsStore(testStore(t))
	svc := NewSettingsService(settings, discardLogger())
	ctx := context.Background()

	// Unsaved settings fall back to defaults
	got := svc.Get(ctx)
	assert.Equal(t, domain.DefaultSettings(), got)

	custom := domain.DefaultSettings()
	custom.DefaultSymbol = "NDX"
	custom.TopLevelsCount = 5
	require.NoError(t, svc.Save(ctx, custom))
	assert.Equal(t, "NDX", svc.Get(ctx).DefaultSymbol)

	// Validation rejects out-of-range values
	bad := custom
	bad.TopLevelsCount = 0
	assert.ErrorIs(t, svc.Save(ctx, bad), ErrInvalidInput)

	// Reset restores defaults
	assert.Equal(t, domain.DefaultSettings(), svc.Reset(ctx))
	assert.Equal(t, domain.DefaultSettings(), svc.Get(ctx))
}

func TestWatchlistService(t *testing.T) {
	watchlist := store.NewWatchlistStore(testStore(t))
	svc := NewWatchlistService(watchlist, discardLogger())
	ctx := context.Background()

	assert.Empty(t, svc.List(ctx))

	added, err := svc.Add(ctx, domain.WatchlistItem{Symbol: " spx ", Name: "S&P 500"})
	require.NoError(t, err)
	assert.Equal(t, "SPX", added.Symbol, "symbol is normalized")
	assert.False(t, added.AddedAt.IsZero())

	// Same symbol replaces in place
	_, err = svc.Add(ctx, domain.WatchlistItem{Symbol: "SPX", Name: "updated"})
	require.NoError(t, err)
	list := svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "updated", list[0].Name)

	// Empty symbol fails validation
	_, err = svc.Add(ctx, domain.WatchlistItem{Symbol: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Remove(ctx, "spx"))
	assert.ErrorIs(t, svc.Remove(ctx, "SPX"), ErrWatchlistItemNotFound)
}
