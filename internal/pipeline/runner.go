package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/display"
	"github.com/backmassage/jellystream/internal/ffmpeg"
	"github.com/backmassage/jellystream/internal/logging"
	"github.com/backmassage/jellystream/internal/naming"
	"github.com/backmassage/jellystream/internal/planner"
	"github.com/backmassage/jellystream/internal/probe"
)

// Run is the top-level batch entry point. It discovers files, processes
// each one sequentially, prints the summary and returns the stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.Input, cfg.Recursive)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.record(FileResult{Path: cfg.Input, Err: err})
		return stats
	}

	stats.Total = len(files)
	claims := naming.NewClaims()

	logBatchHeader(cfg, log, &stats)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Interrupted = true
			break
		}

		res := processFile(ctx, cfg, log, path, &stats, claims)
		stats.record(res)
		if res.Err != nil {
			logFailure(log, res)
		}
		fmt.Println()

		if res.Err != nil && cfg.BreakOnError {
			log.Warn("Stopping after the first error (--breakOnError)")
			break
		}
	}

	logSummary(cfg, log, &stats)
	return stats
}

// planFile runs every check that does not need ffmpeg: extension, output
// directory, pre-existing outputs, probe and plan. Any failure is a
// rejection.
func planFile(ctx context.Context, cfg *config.Config, path string) (*planner.FilePlan, *probe.Result, error) {
	if !isInput(path) {
		return nil, nil, planner.Reject("%s is not a matroska (%s) file", filepath.Base(path), inputExt)
	}

	base := naming.BaseName(path, cfg.OutputDir)
	dir := filepath.Dir(base)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return nil, nil, planner.Reject("output directory %s does not exist", dir)
	}
	if err := naming.CheckFree(naming.ContainerPath(base), naming.MoveTarget(path, cfg.MoveDir)); err != nil {
		return nil, nil, planner.RejectErr(err)
	}

	pr, err := probe.Probe(ctx, cfg.FFprobePath, path)
	if err != nil {
		return nil, nil, planner.RejectErr(err)
	}

	plan, err := planner.BuildPlan(cfg, pr, path)
	if err != nil {
		return nil, pr, err
	}
	if err := planner.CheckOutputs(plan); err != nil {
		return nil, pr, err
	}
	return plan, pr, nil
}

// processFile handles one input: plan → lock → claim → assemble → execute →
// timestamps → move.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	path string,
	stats *RunStats,
	claims *naming.Claims,
) FileResult {
	res := FileResult{Path: path}
	log.Info("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(path))

	plan, pr, err := planFile(ctx, cfg, path)
	if err != nil {
		res.Err = err
		return res
	}
	logFileStats(log, pr)
	for _, n := range plan.Notes {
		log.Info("  %s", n)
	}

	if !cfg.DryRun {
		lock, err := lockInput(path)
		if err != nil {
			res.Err = err
			return res
		}
		defer lock.release()
	}
	if err := claims.Claim(path, plan.Outputs()...); err != nil {
		res.Err = planner.RejectErr(err)
		return res
	}

	logActions(log, plan)
	args := ffmpeg.Build(cfg, plan)
	cmdline := ffmpeg.FormatCommand(args)

	if cfg.DryRun {
		log.Command("%s", cmdline)
		log.Success("[DRY] Would write %s", filepath.Base(plan.OutputPath))
		return res
	}
	if cfg.Verbose || cfg.LogLevel.AtLeast(config.LogInfo) {
		log.Command("%s", cmdline)
	}

	inInfo, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("stat input: %w", err)
		return res
	}

	start := time.Now()
	result := ffmpeg.Execute(ctx, cfg, args)
	res.Elapsed = time.Since(start)
	if !result.OK() {
		removePartial(plan)
		res.Err = execError(ctx, result)
		logStderr(log, result.Stderr)
		return res
	}

	res.InputBytes = inInfo.Size()
	for _, p := range append([]string{plan.OutputPath}, plan.Sidecars()...) {
		if fi, err := os.Stat(p); err == nil {
			res.OutputBytes += fi.Size()
		}
	}

	if cfg.CopyLastModified {
		if err := copyModTime(inInfo.ModTime(), plan); err != nil {
			log.Warn("Could not copy the modification time: %v", err)
		}
	}

	if plan.MoveTarget != "" {
		if err := moveFile(path, plan.MoveTarget); err != nil {
			res.Err = fmt.Errorf("move original: %w", err)
			return res
		}
		log.Info("  Moved original to %s", plan.MoveTarget)
	}

	ratio := int64(100)
	if res.InputBytes > 0 {
		ratio = res.OutputBytes * 100 / res.InputBytes
	}
	log.Success("Converted in %s (%d%% of original)", display.FormatDuration(res.Elapsed), ratio)
	return res
}

func execError(ctx context.Context, r ffmpeg.ExecResult) error {
	if ctx.Err() != nil {
		return fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
	}
	if r.ExitCode < 0 {
		return fmt.Errorf("ffmpeg could not be run: %w", r.Err)
	}
	msg := fmt.Sprintf("ffmpeg returned with %d", r.ExitCode)
	if hint := ffmpeg.Diagnose(r.Stderr); hint != "" {
		msg += " (" + hint + ")"
	}
	return errors.New(msg)
}

// removePartial deletes outputs left by a failed ffmpeg run. Every path was
// verified absent before the run, so nothing pre-existing is touched.
func removePartial(plan *planner.FilePlan) {
	for _, p := range append([]string{plan.OutputPath}, plan.Sidecars()...) {
		_ = os.Remove(p)
	}
}

// copyModTime stamps the input's modification time onto all outputs.
func copyModTime(mtime time.Time, plan *planner.FilePlan) error {
	for _, p := range append([]string{plan.OutputPath}, plan.Sidecars()...) {
		if err := os.Chtimes(p, mtime, mtime); err != nil {
			return err
		}
	}
	return nil
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logFailure(log *logging.Logger, r FileResult) {
	if errors.Is(r.Err, planner.ErrCannotProcess) {
		log.Skip("Cannot process %s: %v", filepath.Base(r.Path), r.Err)
		return
	}
	log.Error("Failed %s: %v", filepath.Base(r.Path), r.Err)
}

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d files", stats.Total)
	log.Info("Audio: copy aac/mp3/opus, otherwise AAC at %d kbit/s per channel", cfg.KBitPerChannel)
	if cfg.ExtractStereo {
		log.Info("Extraction: every transcoded audio source, stereo included")
	} else {
		log.Info("Extraction: transcoded audio sources with more than 2 channels")
	}
	if cfg.GroupStyledSubtitles {
		log.Info("Styled subtitles: grouped with fonts into a .%s sidecar", naming.MatroskaSubsExt)
	}
	if cfg.DropFonts {
		log.Info("Fonts: dropped unless grouped")
	}
	if cfg.GuessDispositions {
		log.Info("Subtitle dispositions: guessed from titles")
	}
	if cfg.MoveDir != "" {
		log.Info("Originals: moved to %s", cfg.MoveDir)
	}
	if cfg.DryRun {
		log.Info("Dry run: commands are printed, nothing is written")
	}
	fmt.Println()
}

func logFileStats(log *logging.Logger, pr *probe.Result) {
	if pr == nil {
		return
	}
	for _, s := range pr.ByType(probe.TypeVideo) {
		if s.Disposition.AttachedPic || s.Disposition.StillImage {
			continue
		}
		suffix := ""
		if s.IsHDR() {
			suffix += " [HDR]"
		}
		if s.IsInterlaced() {
			suffix += " [Interlaced]"
		}
		bitrate := s.BitRate
		if bitrate <= 0 {
			bitrate = pr.Format.BitRate
		}
		log.Info("  Video: %s | %s | %s%s", s.Resolution(), display.FormatBitrateLabel(bitrate/1000), s.Codec, suffix)
		return
	}
}

// logActions logs one line per action in emission order.
func logActions(log *logging.Logger, plan *planner.FilePlan) {
	log.Info("  -> %s", filepath.Base(plan.OutputPath))
	for _, a := range planner.SortedByIndex(plan.Actions.Transcodes) {
		log.Info("  %s", a.Describe(plan.Annotations))
	}
	for _, a := range planner.SortedByIndex(plan.Actions.Extractions) {
		log.Info("  %s", a.Describe(plan.Annotations))
	}
	for _, g := range plan.Actions.GroupsByName(plan.Annotations) {
		for _, a := range g.Members {
			log.Info("  %s", a.Describe(plan.Annotations))
		}
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d failed, %d not reached",
		len(stats.Successes), len(stats.Failures),
		stats.Total-len(stats.Successes)-len(stats.Failures))

	if len(stats.Successes)+len(stats.Failures) > 0 {
		fmt.Println(summaryTable(cfg, stats))
	}

	if cfg.DryRun {
		log.Info("Total size change: n/a (dry run)")
		return
	}
	in, out := stats.TotalInputBytes(), stats.TotalOutputBytes()
	if in == 0 {
		return
	}
	log.Info("Total size change: %s (input %s -> output %s)",
		display.FormatBytesWithSign(out-in),
		display.FormatBytes(in),
		display.FormatBytes(out))
}

func summaryTable(cfg *config.Config, stats *RunStats) string {
	var rows [][]string
	for _, r := range stats.Successes {
		size := "dry run"
		if !cfg.DryRun {
			size = display.FormatBytes(r.OutputBytes)
		}
		rows = append(rows, []string{filepath.Base(r.Path), "ok", size})
	}
	for _, r := range stats.Failures {
		status := "error"
		if errors.Is(r.Err, planner.ErrCannotProcess) {
			status = "skipped"
		}
		rows = append(rows, []string{filepath.Base(r.Path), status, r.Err.Error()})
	}
	return display.RenderTable(
		[]string{"File", "Result", "Output / reason"},
		rows,
		[]display.Align{display.AlignLeft, display.AlignLeft, display.AlignLeft},
	)
}
