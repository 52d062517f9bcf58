package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/haryoiro/tunepanel/internal/structures"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDatabase caches probed song metadata in SQLite
type SQLiteDatabase struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates a SQLite database
func OpenSQLite(path string) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	sqliteDB := &SQLiteDatabase{
		db:   db,
		path: path,
	}

	if err := sqliteDB.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sqliteDB, nil
}

func (db *SQLiteDatabase) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS songs (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			composer TEXT NOT NULL DEFAULT '',
			game TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL,
			length_ms INTEGER NOT NULL DEFAULT 0,
			sample_rate INTEGER NOT NULL DEFAULT 0,
			sub_songs INTEGER NOT NULL DEFAULT 1,
			probed_at DATETIME NOT NULL,
			play_count INTEGER NOT NULL DEFAULT 0,
			last_played DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_play_count ON songs(play_count)`,

		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Path returns the database file path
func (db *SQLiteDatabase) Path() string {
	return db.path
}

// Close closes the database
func (db *SQLiteDatabase) Close() error {
	return db.db.Close()
}

// Put inserts or replaces the cached entry for song.Path. Play statistics
// survive the replace.
func (db *SQLiteDatabase) Put(song structures.Song) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if song.Path == "" {
		return errors.New("song without path")
	}
	if song.ProbedAt.IsZero() {
		song.ProbedAt = time.Now()
	}

	query := `
		INSERT INTO songs
		(path, title, composer, game, format, length_ms, sample_rate, sub_songs, probed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			composer = excluded.composer,
			game = excluded.game,
			format = excluded.format,
			length_ms = excluded.length_ms,
			sample_rate = excluded.sample_rate,
			sub_songs = excluded.sub_songs,
			probed_at = excluded.probed_at
	`

	_, err := db.db.Exec(query,
		song.Path,
		song.Title,
		song.Composer,
		song.Game,
		song.Format,
		song.Length.Milliseconds(),
		song.SampleRate,
		song.SubSongs,
		song.ProbedAt.UTC(),
	)

	return err
}

// Remove removes a song from the cache
func (db *SQLiteDatabase) Remove(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec("DELETE FROM songs WHERE path = ?", path)
	return err
}

const songColumns = `path, title, composer, game, format, length_ms, sample_rate, sub_songs, probed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (structures.Song, error) {
	var song structures.Song
	var lengthMs int64
	err := row.Scan(
		&song.Path,
		&song.Title,
		&song.Composer,
		&song.Game,
		&song.Format,
		&lengthMs,
		&song.SampleRate,
		&song.SubSongs,
		&song.ProbedAt,
	)
	song.Length = time.Duration(lengthMs) * time.Millisecond
	return song, err
}

// Get retrieves a cached song by path
func (db *SQLiteDatabase) Get(path string) (*structures.Song, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE path = ?`, path)
	song, err := scanSong(row)
	if err != nil {
		return nil, false
	}
	return &song, true
}

// All returns every cached song ordered by path
func (db *SQLiteDatabase) All() []structures.Song {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.db.Query(`SELECT ` + songColumns + ` FROM songs ORDER BY path`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var songs []structures.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			continue
		}
		songs = append(songs, song)
	}

	return songs
}

// MarkPlayed bumps the play statistics of a song
func (db *SQLiteDatabase) MarkPlayed(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(`
		UPDATE songs
		SET play_count = play_count + 1,
		    last_played = CURRENT_TIMESTAMP
		WHERE path = ?
	`, path)
	return err
}

// PlayCount returns how often a song was started
func (db *SQLiteDatabase) PlayCount(path string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var n int
	if err := db.db.QueryRow("SELECT play_count FROM songs WHERE path = ?", path).Scan(&n); err != nil {
		return 0
	}
	return n
}

// SaveAppState saves application state
func (db *SQLiteDatabase) SaveAppState(key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, value)
	return err
}

// GetAppState retrieves application state
func (db *SQLiteDatabase) GetAppState(key string) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var value string
	err := db.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}
