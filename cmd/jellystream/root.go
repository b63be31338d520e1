package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/jellystream/internal/check"
	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/display"
	"github.com/backmassage/jellystream/internal/logging"
	"github.com/backmassage/jellystream/internal/pipeline"
)

// errRunFailed signals a non-zero exit whose cause was already logged.
var errRunFailed = errors.New("run failed")

func newRootCommand() *cobra.Command {
	cfg := config.DefaultConfig()
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:           "jellystream [flags] <file.mkv|directory>",
		Short:         "Convert mkv files into Jellyfin direct-play mp4 files and sidecars",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.Finish(args); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(&cfg)
		},
	}
	flags = config.Bind(cmd.Flags(), &cfg)
	return cmd
}

// run executes the selected mode once configuration is final. Errors before
// the logger exists are returned; afterwards they are logged and reported as
// errRunFailed.
func run(cfg *config.Config) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(os.Stdout, version)

	// Cancel on SIGINT/SIGTERM so the pipeline stops between files; the
	// running ffmpeg receives the same signal.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, cfg, log) {
			return errRunFailed
		}
		return nil
	}

	if _, err := os.Stat(cfg.Input); err != nil {
		log.Error("Input not found: %s", cfg.Input)
		return errRunFailed
	}
	inputAbs, err := absPath(cfg.Input)
	if err != nil {
		log.Error("Input not found: %s", cfg.Input)
		return errRunFailed
	}
	moveAbs := ""
	if cfg.MoveDir != "" {
		if moveAbs, err = absPath(cfg.MoveDir); err != nil {
			log.Error("Cannot resolve move path: %s", cfg.MoveDir)
			return errRunFailed
		}
	}
	if err := cfg.ValidatePaths(inputAbs, moveAbs); err != nil {
		log.Error("%v", err)
		return errRunFailed
	}

	log.Info("=== Jellystream v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.Input)
	if cfg.OutputDir != "" {
		log.Info("Out: %s", cfg.OutputDir)
	} else {
		log.Info("Out: next to each input")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	if err := check.CheckDeps(ctx, cfg); err != nil {
		log.Error("%v", err)
		return errRunFailed
	}

	if cfg.AnalyzeOnly {
		if !pipeline.Analyze(ctx, cfg, log) {
			return errRunFailed
		}
		return nil
	}

	stats := pipeline.Run(ctx, cfg, log)
	if stats.Failed() {
		return errRunFailed
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path. Paths that do not
// exist yet (a fresh move directory) are only made absolute.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return abs, nil
	}
	return resolved, err
}
