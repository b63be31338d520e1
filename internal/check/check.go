// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe and the encoders and
// muxers the generated commands rely on.
package check

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/jellystream/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrAACEncodeFailed = errors.New("AAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Encoders and muxers generated commands may use. Extractions are stream
// copies, so only the transcode targets need an encoder.
var (
	requiredEncoders = []string{"aac", "mov_text"}
	requiredMuxers   = []string{"mp4", "matroska", "ac3", "eac3", "dts", "ogg"}
)

// RunCheck runs the --check flow and reports whether every component was
// found. It never stops at the first failure.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(ctx, cfg.FFmpegPath, "ffmpeg", log)
	ok = checkVersion(ctx, cfg.FFprobePath, "ffprobe", log) && ok
	if !ok {
		return false
	}
	ok = checkListed(ctx, cfg.FFmpegPath, "-encoders", "encoder", requiredEncoders, log) && ok
	ok = checkListed(ctx, cfg.FFmpegPath, "-muxers", "muxer", requiredMuxers, log) && ok
	return checkAAC(ctx, cfg.FFmpegPath, log) && ok
}

// checkVersion verifies the tool resolves and logs its version line.
func checkVersion(ctx context.Context, path, name string, log Logger) bool {
	if _, err := exec.LookPath(path); err != nil {
		log.Error("%s not found (%s)", name, path)
		return false
	}
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	return true
}

// checkListed runs ffmpeg with a listing flag (-encoders, -muxers) and
// reports each wanted name as present or missing.
func checkListed(ctx context.Context, ffmpeg, flag, kind string, wanted []string, log Logger) bool {
	out, err := exec.CommandContext(ctx, ffmpeg, "-hide_banner", flag).Output()
	if err != nil {
		log.Warn("Could not list %ss: %v", kind, err)
		return false
	}
	have := listedNames(string(out))
	ok := true
	for _, name := range wanted {
		if have[name] {
			log.Success("%s %s available", kind, name)
		} else {
			log.Error("%s %s missing", kind, name)
			ok = false
		}
	}
	return ok
}

// listedNames extracts the second column of ffmpeg's -encoders/-muxers
// tables, below the "--" separator line.
func listedNames(out string) map[string]bool {
	names := make(map[string]bool)
	body := out
	if i := strings.Index(out, "--\n"); i >= 0 {
		body = out[i+3:]
	}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, n := range strings.Split(fields[1], ",") {
			names[n] = true
		}
	}
	return names
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(ctx context.Context, ffmpeg string, log Logger) bool {
	log.Info("Testing AAC encoder...")
	if runSilent(ctx, ffmpeg, aacTestArgs()...) {
		log.Success("AAC encoder works")
		return true
	}
	log.Error("AAC encoder test failed")
	return false
}

// CheckDeps is the pre-pipeline validation: both tools must resolve and a
// short AAC encode must succeed. Returns a sentinel error on failure.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent(ctx, cfg.FFmpegPath, aacTestArgs()...) {
		return ErrAACEncodeFailed
	}
	return nil
}

func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
