package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/jellystream/internal/config"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	ExitCode int // -1 when the process could not be started or was killed.
	Stderr   string
	Err      error
}

// OK reports whether ffmpeg exited with status 0.
func (r ExecResult) OK() bool { return r.Err == nil && r.ExitCode == 0 }

// Execute runs args once. When stats or verbose output is enabled, stderr
// is tee'd to os.Stderr in real time; otherwise it is captured silently for
// the failure diagnosis.
func Execute(ctx context.Context, cfg *config.Config, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{ExitCode: -1, Err: errors.New("empty ffmpeg command")}
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose || cfg.Stats {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}
	cmd.Stdout = os.Stdout

	err := cmd.Run()
	res := ExecResult{Stderr: stderrBuf.String(), Err: err}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}
	return res
}
