package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/pfrederiksen/racecard/internal/venue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuery(t *testing.T, n int) race.Query {
	t.Helper()
	q, err := race.NewQuery("20250501", "京都", "11R")
	require.NoError(t, err)
	q.Race = n
	return q
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/data/racecard")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data", "racecard"), s.Dir())
	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAddresses(t *testing.T) {
	s := newTestStorage(t)
	q11, q12 := testQuery(t, 11), testQuery(t, 12)

	_, ok, err := s.Lookup(q11)
	require.NoError(t, err)
	assert.False(t, ok, "empty store should not know any address")

	require.NoError(t, s.Remember(q11, "https://example.com/a"))
	require.NoError(t, s.Remember(q12, "https://example.com/b"))
	require.NoError(t, s.Remember(q11, "https://example.com/c"))

	url, ok, err := s.Lookup(q11)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/c", url)

	book, err := s.LoadAddresses()
	require.NoError(t, err)
	assert.Len(t, book.Addresses, 2)
	assert.Equal(t, "2025-05-01T09:00:00Z", book.Addresses["20250501_08_11"].SavedAt)

	require.NoError(t, s.Forget(q11))
	require.NoError(t, s.Forget(q11))
	_, ok, err = s.Lookup(q11)
	require.NoError(t, err)
	assert.False(t, ok)

	url, ok, err = s.Lookup(q12)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/b", url)
}

func TestLoadAddresses_Corrupt(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "addresses.json"), []byte("{not json"), 0644))

	_, err := s.LoadAddresses()
	assert.Error(t, err)

	_, _, err = s.Lookup(testQuery(t, 11))
	assert.Error(t, err)
}

func TestCards(t *testing.T) {
	s := newTestStorage(t)
	kyoto, _ := venue.Lookup("京都")

	card, err := s.LoadCard("20250501_08_11")
	require.NoError(t, err)
	assert.Nil(t, card, "missing card should load as nil")

	want := &race.Card{
		URL: "https://example.com/card",
		Entrants: []race.Entrant{
			{Number: "1", Name: "ウマA", Jockey: "騎手X"},
			{Number: "2", Name: "ウマB", Jockey: "騎手Y"},
		},
		Metadata:  race.Metadata{Date: "20250501", Venue: kyoto.Name, RaceLabel: "11R", Title: "天皇賞"},
		FetchedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveCard("20250501_08_11", want))

	got, err := s.LoadCard("20250501_08_11")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(filepath.Join(s.Dir(), "card_20250501_08_11.json"))
	assert.NoError(t, err)
}
