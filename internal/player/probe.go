package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/structures"
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
}

// CanDecode reports whether Probe can read the length of path.
func CanDecode(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FormatOf returns the display format of a file: its upper-cased
// extension, or "?" when it has none.
func FormatOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "?"
	}
	return strings.ToUpper(ext)
}

// Probe reads what it can about the file at path. Decodable formats get
// their length and sample rate from the stream header; any other file is
// accepted with only its format set.
func Probe(path string) (structures.Song, error) {
	song := structures.Song{
		Path:     path,
		Format:   FormatOf(path),
		SubSongs: 1,
		ProbedAt: time.Now(),
	}

	file, err := os.Open(path)
	if err != nil {
		return song, fmt.Errorf("failed to open file: %w", err)
	}

	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		file.Close()
		logger.Debug("No decoder for %s, keeping format %s", path, song.Format)
		return song, nil
	}

	// The decoder owns the file from here on.
	streamer, format, err := decode(file)
	if err != nil {
		file.Close()
		return song, fmt.Errorf("failed to decode %s: %w", song.Format, err)
	}
	defer streamer.Close()

	song.SampleRate = int(format.SampleRate)
	song.Length = format.SampleRate.D(streamer.Len())
	logger.Debug("Probed %s: length %v, format %+v", path, song.Length, format)

	return song, nil
}
