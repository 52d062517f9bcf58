package database

import "github.com/haryoiro/tunepanel/internal/structures"

// DB is the song metadata cache
type DB interface {
	Put(song structures.Song) error
	Remove(path string) error
	Get(path string) (*structures.Song, bool)
	All() []structures.Song
	MarkPlayed(path string) error
	SaveAppState(key, value string) error
	GetAppState(key string) (string, bool)
	Close() error
}
