// Package config holds runtime configuration: defaults, CLI flag binding,
// the optional TOML config file, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// LogLevel is the -loglevel passed to ffmpeg.
type LogLevel string

const (
	LogQuiet   LogLevel = "quiet"
	LogPanic   LogLevel = "panic"
	LogFatal   LogLevel = "fatal"
	LogError   LogLevel = "error"
	LogWarning LogLevel = "warning" // Default.
	LogInfo    LogLevel = "info"
	LogVerbose LogLevel = "verbose"
	LogDebug   LogLevel = "debug"
	LogTrace   LogLevel = "trace"
)

// logLevels lists ffmpeg levels from least to most verbose.
var logLevels = []LogLevel{LogQuiet, LogPanic, LogFatal, LogError, LogWarning, LogInfo, LogVerbose, LogDebug, LogTrace}

// AtLeast reports whether l is at least as verbose as other.
func (l LogLevel) AtLeast(other LogLevel) bool {
	return levelRank(l) >= levelRank(other)
}

func levelRank(l LogLevel) int {
	for i, v := range logLevels {
		if v == l {
			return i
		}
	}
	return -1
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Bounds for KBitPerChannel.
const (
	MinKBitPerChannel = 16
	MaxKBitPerChannel = 512
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by the optional config file, then by explicit CLI flags, before being
// passed (by pointer) to packages that need it. Fields tagged toml:"-" are
// CLI-only.
type Config struct {
	// Paths.
	Input     string `toml:"-"`      // File or directory (positional arg).
	OutputDir string `toml:"output"` // Default: the input file's directory.
	MoveDir   string `toml:"move"`   // Optional: originals are moved here after success.
	Recursive bool   `toml:"recursive"`

	// External tools.
	FFmpegPath  string   `toml:"ffmpeg"`   // Default: "ffmpeg".
	FFprobePath string   `toml:"ffprobe"`  // Default: "ffprobe".
	LogLevel    LogLevel `toml:"loglevel"` // Default: "warning".
	Stats       bool     `toml:"stats"`    // Default: true. -stats vs -nostats.
	Probesize   string   `toml:"-"`        // Fixed: "300M".

	// Stream policy.
	KBitPerChannel       int  `toml:"kbit_per_channel"`       // Default: 64.
	ExtractStereo        bool `toml:"extract_stereo"`         // Also extract transcoded sources with 1-2 channels.
	CleanAudioTitles     bool `toml:"clean_audio_titles"`     // Default: true.
	CleanSubtitleTitles  bool `toml:"clean_subtitle_titles"`  // Default: true.
	GuessDispositions    bool `toml:"guess_dispositions"`     // Guess forced/SDH subtitle flags from titles.
	DropFonts            bool `toml:"drop_fonts"`             // Drop embedded fonts instead of rejecting the file.
	GroupStyledSubtitles bool `toml:"group_styled_subtitles"` // Extract ass streams together into one .mks.

	// Behavior.
	DryRun           bool `toml:"-"`
	BreakOnError     bool `toml:"break_on_error"`
	CopyLastModified bool `toml:"copy_last_modified"` // Default: true.

	// Display and logging.
	Verbose     bool      `toml:"verbose"`
	ColorMode   ColorMode `toml:"color"` // Default: "auto".
	LogFile     string    `toml:"log"`   // Optional log file path.
	CheckOnly   bool      `toml:"-"`     // Run --check diagnostics and exit.
	AnalyzeOnly bool      `toml:"-"`     // Print per-file decisions and exit.
	ConfigFile  string    `toml:"-"`
}

// DefaultConfig returns a Config with all defaults.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
		LogLevel:            LogWarning,
		Stats:               true,
		Probesize:           "300M",
		KBitPerChannel:      64,
		CleanAudioTitles:    true,
		CleanSubtitleTitles: true,
		CopyLastModified:    true,
		ColorMode:           ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields. When not in CheckOnly mode, it also
// requires an input path.
func (c *Config) Validate() error {
	if levelRank(c.LogLevel) < 0 {
		return fmt.Errorf("invalid loglevel %q (use quiet, panic, fatal, error, warning, info, verbose, debug or trace)", c.LogLevel)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.KBitPerChannel < MinKBitPerChannel || c.KBitPerChannel > MaxKBitPerChannel {
		return fmt.Errorf("kBitPerChannel must be between %d and %d, got %d",
			MinKBitPerChannel, MaxKBitPerChannel, c.KBitPerChannel)
	}
	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Input == "" {
		return errors.New("need exactly one input file or directory")
	}
	return nil
}

// ValidatePaths ensures the resolved move directory is not inside (or equal
// to) a recursively scanned input directory, so moved originals are never
// picked up again by a later run. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, moveAbs string) error {
	if moveAbs == "" || !c.Recursive {
		return nil
	}
	sep := string(filepath.Separator)
	if moveAbs == inputAbs || strings.HasPrefix(moveAbs+sep, inputAbs+sep) {
		return errors.New("move directory must not be inside a recursively scanned input directory")
	}
	return nil
}
