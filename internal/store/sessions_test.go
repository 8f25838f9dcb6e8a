package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/pkg/contracts/domain"
)

func testSession(id string, uploadedAt time.Time) domain.Session {
	return domain.Session{
		ID:         id,
		Name:       "session " + id,
		Symbol:     "SPX",
		UploadedAt: uploadedAt,
		Records: []domain.OptionRecord{
			{Strike: 100, OptionType: domain.OptionTypeCall, Gamma: 0.01, OpenInterest: 10},
		},
	}
}

func TestSessionStore_SaveListGet(t *testing.T) {
	sessions := NewSessionStore(newTestStore(t))
	now := time.Now().UTC().Truncate(time.Second)

	require.True(t, sessions.Save(testSession("a", now.Add(-time.Hour))))
	require.True(t, sessions.Save(testSession("b", now)))

	list := sessions.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")

	got, ok := sessions.Get("a")
	require.True(t, ok)
	assert.Equal(t, "session a", got.Name)
	require.Len(t, got.Records, 1)
	assert.Equal(t, 100.0, got.Records[0].Strike)

	_, ok = sessions.Get("missing")
	assert.False(t, ok)
}

func TestSessionStore_SaveReplacesById(t *testing.T) {
	sessions := NewSessionStore(newTestStore(t))
	now := time.Now()

	require.True(t, sessions.Save(testSession("a", now)))

	updated := testSession("a", now)
	updated.Name = "renamed"
	require.True(t, sessions.Save(updated))

	list := sessions.List()
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)
}

func TestSessionStore_Delete(t *testing.T) {
	sessions := NewSessionStore(newTestStore(t))

	require.True(t, sessions.Save(testSession("a", time.Now())))
	assert.True(t, sessions.Delete("a"))
	assert.False(t, sessions.Delete("a"))
	assert.Empty(t, sessions.List())
}

func TestSettingsStore_DefaultsAndSave(t *testing.T) {
	settings := NewSettingsStore(newTestStore(t))

	got := settings.Get()
	assert.Equal(t, domain.DefaultSettings(), got, "unsaved store returns defaults")

	got.TopLevelsCount = 5
	got.AutoRefresh = true
	require.True(t, settings.Save(got))

	reloaded := settings.Get()
	assert.Equal(t, 5, reloaded.TopLevelsCount)
	assert.True(t, reloaded.AutoRefresh)

	require.True(t, settings.Reset())
	assert.Equal(t, domain.DefaultSettings(), settings.Get())
}

func TestWatchlistStore_AddRemove(t *testing.T) {
	watchlist := NewWatchlistStore(newTestStore(t))

	require.True(t, watchlist.Add(domain.WatchlistItem{Symbol: "SPX", AddedAt: time.Now()}))
	require.True(t, watchlist.Add(domain.WatchlistItem{Symbol: "NDX", AddedAt: time.Now()}))

	items := watchlist.List()
	require.Len(t, items, 2)
	assert.Equal(t, "SPX", items[0].Symbol)

	assert.True(t, watchlist.Remove("SPX"))
	assert.False(t, watchlist.Remove("SPX"))
	assert.Len(t, watchlist.List(), 1)
}

func TestWatchlistStore_AddReplacesSymbolInPlace(t *testing.T) {
	watchlist := NewWatchlistStore(newTestStore(t))

	require.True(t, watchlist.Add(domain.WatchlistItem{Symbol: "SPX"}))
	require.True(t, watchlist.Add(domain.WatchlistItem{Symbol: "NDX"}))
	require.True(t, watchlist.Add(domain.WatchlistItem{Symbol: "SPX", Notes: "updated"}))

	items := watchlist.List()
	require.Len(t, items, 2)
	assert.Equal(t, "SPX", items[0].Symbol, "position preserved on update")
	assert.Equal(t, "updated", items[0].Notes)
}
