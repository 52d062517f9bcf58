package systems

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/haryoiro/tunepanel/internal/database"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/player"
	"github.com/haryoiro/tunepanel/internal/structures"
)

// ErrProbeTimeout is returned when a file takes too long to probe.
var ErrProbeTimeout = errors.New("probe timed out")

// ProbeFunc reads what it can about one file.
type ProbeFunc func(path string) (structures.Song, error)

// Systems contains all the core systems of the application
type Systems struct {
	Config   *structures.Config
	Database database.DB
	Session  *Session

	probe  ProbeFunc
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Systems instance. db may be nil, in which case every
// song is probed.
func New(cfg *structures.Config, db database.DB) *Systems {
	return &Systems{
		Config:   cfg,
		Database: db,
		Session:  NewSession(db, nil),
		probe:    player.Probe,
	}
}

// SetProbe replaces the function used to read songs.
func (s *Systems) SetProbe(fn ProbeFunc) {
	s.probe = fn
}

// Start starts the session loops
func (s *Systems) Start() error {
	return s.Session.Start()
}

// Stop stops the loader and the session
func (s *Systems) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.Session.Stop()
	return nil
}

// Load replaces the queue with paths and resolves them in the background.
// Playback starts once the first song is known.
func (s *Systems) Load(paths []string) {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	songs := make([]structures.Song, len(paths))
	for i, p := range paths {
		songs[i] = structures.Song{Path: p, Format: player.FormatOf(p)}
	}
	s.Session.Apply(structures.ReplaceQueueAction{Songs: songs})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loadLoop(ctx, paths)
	}()
}

// Wait blocks until the current load has finished.
func (s *Systems) Wait() {
	s.wg.Wait()
}

func (s *Systems) loadLoop(ctx context.Context, paths []string) {
	failed := 0
	for i, path := range paths {
		if ctx.Err() != nil {
			return
		}
		song, err := s.Resolve(ctx, path)
		if err != nil {
			failed++
			logger.Warn("Failed to read %s: %v", path, err)
		}
		s.Session.Apply(structures.SongResolvedAction{Index: i, Song: song})
		if i == 0 {
			s.Session.Play()
		}
	}
	s.Session.Apply(structures.LoadFinishedAction{Failed: failed})
}

// Resolve returns the song at path, from the cache when the file has not
// changed since it was last probed. Tagged titles and composers survive a
// re-probe.
func (s *Systems) Resolve(ctx context.Context, path string) (structures.Song, error) {
	var cached *structures.Song
	if s.Database != nil {
		if c, ok := s.Database.Get(path); ok {
			cached = c
			if fresh(c) {
				logger.Debug("Cache hit for %s", path)
				return *c, nil
			}
		}
	}

	song, err := s.probeWithTimeout(ctx, path)
	if cached != nil {
		if song.Title == "" {
			song.Title = cached.Title
		}
		if song.Composer == "" {
			song.Composer = cached.Composer
		}
		if song.Game == "" {
			song.Game = cached.Game
		}
	}
	if err != nil {
		return song, err
	}

	if s.Database != nil {
		if err := s.Database.Put(song); err != nil {
			logger.Warn("Failed to cache %s: %v", path, err)
		}
	}
	return song, nil
}

func (s *Systems) probeWithTimeout(ctx context.Context, path string) (structures.Song, error) {
	type result struct {
		song structures.Song
		err  error
	}
	done := make(chan result, 1)
	go func() {
		song, err := s.probe(path)
		done <- result{song, err}
	}()

	timer := time.NewTimer(constants.ProbeTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.song, r.err
	case <-timer.C:
		return structures.Song{Path: path, Format: player.FormatOf(path)}, fmt.Errorf("%s: %w", path, ErrProbeTimeout)
	case <-ctx.Done():
		return structures.Song{Path: path, Format: player.FormatOf(path)}, ctx.Err()
	}
}

// fresh reports whether a cached song was probed after the file last changed.
func fresh(song *structures.Song) bool {
	info, err := os.Stat(song.Path)
	if err != nil {
		return false
	}
	return !song.ProbedAt.Before(info.ModTime())
}
