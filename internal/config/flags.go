package config

// This file binds CLI flags onto a pflag.FlagSet (owned by the cobra root
// command). Flags are grouped into paths, stream policy, ffmpeg, behavior,
// and display. Negated flags (e.g. --nostats) are applied last so they win
// over both DefaultConfig and the config file.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags is the binding between a flag set and a Config.
type Flags struct {
	fs  *pflag.FlagSet
	cfg *Config
	neg negatedFlags
}

// negatedFlags holds boolean flags that invert a default and are applied
// after parsing and config-file loading.
type negatedFlags struct {
	skipOnError     bool
	noStats         bool
	newLastModified bool
	keepAudioTitles bool
	keepSubTitles   bool
	forceColor      bool
	noColor         bool
}

// Bind registers every flag on fs, writing parsed values into cfg.
func Bind(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{fs: fs, cfg: cfg}
	definePathFlags(fs, cfg)
	definePolicyFlags(fs, cfg, &f.neg)
	defineFFmpegFlags(fs, cfg, &f.neg)
	defineBehaviorFlags(fs, cfg, &f.neg)
	defineDisplayFlags(fs, cfg, &f.neg)
	fs.SortFlags = false
	return f
}

// definePathFlags registers -o/--output, -m/--move, -r/--recursive.
func definePathFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Output directory (default: next to the input file)")
	fs.StringVarP(&cfg.MoveDir, "move", "m", cfg.MoveDir, "Move originals into this directory after successful conversion")
	fs.BoolVarP(&cfg.Recursive, "recursive", "r", cfg.Recursive, "Descend into subdirectories of a directory input")
}

// definePolicyFlags registers the stream classification switches.
func definePolicyFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.IntVar(&cfg.KBitPerChannel, "kBitPerChannel", cfg.KBitPerChannel,
		fmt.Sprintf("AAC bitrate per channel in kbit/s (%d-%d)", MinKBitPerChannel, MaxKBitPerChannel))
	fs.BoolVar(&cfg.ExtractStereo, "extractStereo", cfg.ExtractStereo, "Also extract transcoded audio with 2 or fewer channels")
	fs.BoolVar(&cfg.CleanAudioTitles, "cleanAudioStreamTitles", cfg.CleanAudioTitles, "Clear audio titles that look like release tags")
	fs.BoolVar(&n.keepAudioTitles, "keepAllAudioStreamTitles", false, "Never clear audio titles")
	fs.BoolVar(&cfg.CleanSubtitleTitles, "cleanSubtitleStreamTitles", cfg.CleanSubtitleTitles, "Clear subtitle titles that look like release tags")
	fs.BoolVar(&n.keepSubTitles, "keepAllSubtitleStreamTitles", false, "Never clear subtitle titles")
	fs.BoolVar(&cfg.GuessDispositions, "guessSubtitleDispositions", cfg.GuessDispositions, "Guess forced/SDH subtitle flags from stream titles")
	fs.BoolVar(&cfg.DropFonts, "dropFonts", cfg.DropFonts, "Drop embedded font attachments instead of rejecting the file")
	fs.BoolVar(&cfg.GroupStyledSubtitles, "groupStyledSubtitles", cfg.GroupStyledSubtitles, "Extract all ass subtitles (and kept fonts) into one .mks sidecar")
}

// defineFFmpegFlags registers tool paths, --loglevel and --stats/--nostats.
func defineFFmpegFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "Path to the ffprobe binary")
	fs.Var(&logLevelValue{&cfg.LogLevel}, "loglevel", "ffmpeg log level: quiet | panic | fatal | error | warning | info | verbose | debug | trace")
	fs.BoolVar(&cfg.Stats, "stats", cfg.Stats, "Show ffmpeg progress stats")
	fs.BoolVar(&n.noStats, "nostats", false, "Hide ffmpeg progress stats")
}

// defineBehaviorFlags registers dry-run, error policy, and mtime handling.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVarP(&cfg.DryRun, "dryRun", "d", cfg.DryRun, "Print the ffmpeg commands without running them")
	fs.BoolVarP(&cfg.BreakOnError, "breakOnError", "b", cfg.BreakOnError, "Stop the batch at the first failed file")
	fs.BoolVar(&n.skipOnError, "skipOnError", false, "Continue with the next file after a failure (default)")
	fs.BoolVar(&cfg.CopyLastModified, "copyLastModified", cfg.CopyLastModified, "Copy the input's modification time to all outputs")
	fs.BoolVar(&n.newLastModified, "newLastModified", false, "Leave output modification times at conversion time")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log, and the
// utility modes.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", cfg.CheckOnly, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.AnalyzeOnly, "analyze", cfg.AnalyzeOnly, "Print the planned stream actions per file and exit")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "TOML config file (flags override its values)")
}

// Finish completes configuration after the flag set has been parsed: it
// loads the config file (if any), re-applies explicitly set flags on top,
// applies negated flags and takes the positional input argument.
func (f *Flags) Finish(args []string) error {
	if f.cfg.ConfigFile != "" {
		if err := f.applyFile(f.cfg.ConfigFile); err != nil {
			return err
		}
	}
	applyNegatedFlags(f.cfg, &f.neg)
	return parsePositionalArgs(args, f.cfg)
}

// applyFile loads path into cfg and then restores every flag the user set
// explicitly, giving the precedence defaults < file < flags.
func (f *Flags) applyFile(path string) error {
	changed := map[string]string{}
	f.fs.Visit(func(fl *pflag.Flag) {
		changed[fl.Name] = fl.Value.String()
	})

	if err := LoadFile(path, f.cfg); err != nil {
		return err
	}

	for name, val := range changed {
		if err := f.fs.Set(name, val); err != nil {
			return fmt.Errorf("re-apply --%s: %w", name, err)
		}
	}
	return nil
}

// applyNegatedFlags copies negated flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.skipOnError {
		cfg.BreakOnError = false
	}
	if n.noStats {
		cfg.Stats = false
	}
	if n.newLastModified {
		cfg.CopyLastModified = false
	}
	if n.keepAudioTitles {
		cfg.CleanAudioTitles = false
	}
	if n.keepSubTitles {
		cfg.CleanSubtitleTitles = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Input from the single positional arg when not in
// CheckOnly mode, and normalizes directory arguments.
func parsePositionalArgs(args []string, cfg *Config) error {
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	cfg.MoveDir = NormalizeDirArg(cfg.MoveDir)
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input file or directory, got %d arguments", len(args))
	}
	cfg.Input = NormalizeDirArg(args[0])
	return nil
}

// --- pflag.Value adapters for enum types ---

type logLevelValue struct{ p *LogLevel }

func (v *logLevelValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *logLevelValue) Set(s string) error {
	l := LogLevel(s)
	if levelRank(l) < 0 {
		return fmt.Errorf("invalid loglevel %q", s)
	}
	*v.p = l
	return nil
}

func (v *logLevelValue) Type() string { return "level" }
