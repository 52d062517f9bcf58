package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "songs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndGet(t *testing.T) {
	db := openTestDB(t)
	probed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	song := structures.Song{
		Path:       "/music/enigma.mod",
		Title:      "Enigma",
		Composer:   "Firefox & Tip",
		Format:     "MOD",
		Length:     3*time.Minute + 45*time.Second,
		SampleRate: 44100,
		SubSongs:   1,
		ProbedAt:   probed,
	}
	require.NoError(t, db.Put(song))

	got, ok := db.Get(song.Path)
	require.True(t, ok)
	assert.Equal(t, song.Title, got.Title)
	assert.Equal(t, song.Composer, got.Composer)
	assert.Equal(t, song.Length, got.Length)
	assert.Equal(t, 44100, got.SampleRate)
	assert.True(t, probed.Equal(got.ProbedAt))

	_, ok = db.Get("/music/missing.mod")
	assert.False(t, ok)

	assert.Error(t, db.Put(structures.Song{Format: "MOD"}))
}

func TestPutKeepsPlayCount(t *testing.T) {
	db := openTestDB(t)
	song := structures.Song{Path: "/a.wav", Format: "WAV", SubSongs: 1}
	require.NoError(t, db.Put(song))
	require.NoError(t, db.MarkPlayed(song.Path))
	require.NoError(t, db.MarkPlayed(song.Path))

	song.Title = "Retitled"
	require.NoError(t, db.Put(song))

	assert.Equal(t, 2, db.PlayCount(song.Path))
	got, ok := db.Get(song.Path)
	require.True(t, ok)
	assert.Equal(t, "Retitled", got.Title)
}

func TestAllAndRemove(t *testing.T) {
	db := openTestDB(t)
	for _, p := range []string{"/b.mp3", "/a.mp3", "/c.sid"} {
		require.NoError(t, db.Put(structures.Song{Path: p, Format: "X", SubSongs: 1}))
	}

	all := db.All()
	require.Len(t, all, 3)
	assert.Equal(t, "/a.mp3", all[0].Path)
	assert.Equal(t, "/c.sid", all[2].Path)

	require.NoError(t, db.Remove("/b.mp3"))
	assert.Len(t, db.All(), 2)
}

func TestAppState(t *testing.T) {
	db := openTestDB(t)
	_, ok := db.GetAppState("color")
	assert.False(t, ok)

	require.NoError(t, db.SaveAppState("color", "off"))
	require.NoError(t, db.SaveAppState("color", "on"))
	v, ok := db.GetAppState("color")
	require.True(t, ok)
	assert.Equal(t, "on", v)
}

func TestImplementsDB(t *testing.T) {
	var _ DB = openTestDB(t)
}
