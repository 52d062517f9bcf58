package systems

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/haryoiro/tunepanel/internal/database"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/player"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/haryoiro/tunepanel/pkg/templ"
)

// Session is the playback state behind the panel: a song queue, the
// current position in it and a clock for the current song.
type Session struct {
	mu         sync.RWMutex
	db         database.DB
	clock      *player.Clock
	state      structures.SessionState
	failed     int
	actionChan chan structures.SoundAction
	stopChan   chan struct{}
	stopOnce   sync.Once
	tick       time.Duration
}

// NewSession creates an empty session. db may be nil.
func NewSession(db database.DB, clock *player.Clock) *Session {
	if clock == nil {
		clock = player.NewClock(nil)
	}
	return &Session{
		db:         db,
		clock:      clock,
		actionChan: make(chan structures.SoundAction, 100),
		stopChan:   make(chan struct{}),
		tick:       100 * time.Millisecond,
		state:      structures.SessionState{Status: structures.Indexing},
	}
}

// Start starts the action loop and the auto-advance loop
func (s *Session) Start() error {
	go s.run()
	go s.updateLoop()
	return nil
}

// Stop stops the session loops
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.clock.Pause()
	})
}

// SendAction queues an action for the session loop
func (s *Session) SendAction(action structures.SoundAction) {
	select {
	case s.actionChan <- action:
	default:
		logger.Warn("Session action queue full, dropping %T", action)
	}
}

func (s *Session) run() {
	for {
		select {
		case action := <-s.actionChan:
			s.Apply(action)

		case <-s.stopChan:
			return
		}
	}
}

func (s *Session) updateLoop() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.AdvanceIfFinished()

		case <-s.stopChan:
			return
		}
	}
}

// Apply handles one action synchronously.
func (s *Session) Apply(action structures.SoundAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a := action.(type) {
	case structures.PlayPauseAction:
		if len(s.state.Queue) == 0 {
			return
		}
		if s.clock.Toggle() {
			logger.Debug("Resumed at %v", s.clock.Position())
		} else {
			logger.Debug("Paused at %v", s.clock.Position())
		}

	case structures.NextAction:
		s.jump(s.state.Current + max(a.Skip, 1))

	case structures.PreviousAction:
		s.jump(s.state.Current - max(a.Skip, 1))

	case structures.JumpToIndexAction:
		s.jump(a.Index)

	case structures.ReplaceQueueAction:
		s.state.Queue = append([]structures.Song(nil), a.Songs...)
		s.state.Current = 0
		s.state.Loaded = 0
		s.state.Status = structures.Indexing
		s.failed = 0
		s.clock.Restart()

	case structures.SongResolvedAction:
		if a.Index < 0 || a.Index >= len(s.state.Queue) {
			return
		}
		s.state.Queue[a.Index] = a.Song
		s.state.Loaded++

	case structures.LoadFinishedAction:
		s.failed = a.Failed
		if a.Failed > 0 && a.Failed == len(s.state.Queue) {
			s.state.Status = structures.LoadFailed
		} else {
			s.state.Status = structures.Ready
		}
		logger.Info("Indexed %d songs, %d failed", len(s.state.Queue), a.Failed)
	}
}

// jump makes index the current song. Out of range indexes are ignored.
func (s *Session) jump(index int) {
	if index < 0 || index >= len(s.state.Queue) {
		return
	}
	s.state.Current = index
	s.clock.Restart()

	song := s.state.Queue[index]
	logger.Info("Now playing %s", song.Path)
	if s.db != nil {
		if err := s.db.MarkPlayed(song.Path); err != nil {
			logger.Warn("Failed to record play of %s: %v", song.Path, err)
		}
	}
}

// AdvanceIfFinished moves to the next song once the current one has played
// for its length. Songs of unknown length play for a fixed time. After the
// last song the clock pauses. It reports whether anything changed.
func (s *Session) AdvanceIfFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Queue) == 0 || !s.clock.IsPlaying() {
		return false
	}
	length := s.state.Queue[s.state.Current].Length
	if length <= 0 {
		length = constants.UnknownSongPause
	}
	if s.clock.Position() < length {
		return false
	}
	if s.state.Current+1 < len(s.state.Queue) {
		s.jump(s.state.Current + 1)
		return true
	}
	s.clock.Pause()
	return true
}

// Play starts the clock if there is something to play.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Queue) > 0 {
		s.clock.Play()
	}
}

// State returns a copy of the session state
func (s *Session) State() structures.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Queue = append([]structures.Song(nil), s.state.Queue...)
	st.Elapsed = s.clock.Position()
	st.Paused = !s.clock.IsPlaying()
	return st
}

// Metadata snapshots the session into the fields a panel template can
// reference.
func (s *Session) Metadata() templ.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	md := templ.Metadata{
		"songs": templ.Int(len(s.state.Queue)),
		"time":  templ.Text(formatClock(s.clock.Position())),
		"count": templ.Text(s.statusText()),
		"state": templ.Text("PLAY"),
	}
	if !s.clock.IsPlaying() {
		md["state"] = templ.Text("PAUSE")
	}
	if len(s.state.Queue) == 0 {
		md["isong"] = templ.Int(0)
		md["len"] = templ.Text(formatDuration(0))
		return md
	}

	song := s.state.Queue[s.state.Current]
	md["isong"] = templ.Int(s.state.Current + 1)
	md["file_name"] = templ.Text(filepath.Base(song.Path))
	md["format"] = templ.Text(song.Format)
	md["len"] = templ.Text(formatDuration(song.Length))
	setText(md, "title", song.Title)
	setText(md, "composer", song.Composer)
	setText(md, "game", song.Game)
	if song.SampleRate > 0 {
		md["sample_rate"] = templ.Int(song.SampleRate)
	}
	if song.SubSongs > 1 {
		md["sub_title"] = templ.Text(fmt.Sprintf("%d subsongs", song.SubSongs))
	}
	if s.state.Current+1 < len(s.state.Queue) {
		next := s.state.Queue[s.state.Current+1]
		md["next_song"] = templ.Text(templ.TitleAndComposer(templ.Metadata{
			"title":     templ.Text(next.Title),
			"composer":  templ.Text(next.Composer),
			"file_name": templ.Text(filepath.Base(next.Path)),
		}))
	}
	return md
}

func (s *Session) statusText() string {
	switch {
	case s.state.Status == structures.Indexing:
		return constants.IndexingText
	case s.failed > 0:
		return fmt.Sprintf("%d failed", s.failed)
	default:
		return ""
	}
}

// setText adds non-empty values only, so empty fields fall through to
// aliases.
func setText(md templ.Metadata, key, value string) {
	if value != "" {
		md[key] = templ.Text(value)
	}
}

// formatDuration formats a song length as mm:ss, or --:-- when unknown.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	return formatClock(d)
}

func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/constants.SecondsPerMinute, total%constants.SecondsPerMinute)
}
