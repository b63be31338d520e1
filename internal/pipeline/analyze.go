package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/display"
	"github.com/backmassage/jellystream/internal/logging"
	"github.com/backmassage/jellystream/internal/planner"
	"github.com/backmassage/jellystream/internal/probe"
	"github.com/backmassage/jellystream/internal/term"
)

// planRow holds the per-file decisions shown in the analysis table.
type planRow struct {
	Name        string
	Video       string
	Transcodes  string
	Extractions string
	Groups      string
	Status      string
	OK          bool
}

// Analyze discovers inputs, probes and plans each one without running
// ffmpeg, and prints a per-file decision table. It reports whether every
// file could be planned.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) bool {
	files, err := Discover(cfg.Input, cfg.Recursive)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return false
	}
	if len(files) == 0 {
		log.Warn("No %s files found in %s", inputExt, cfg.Input)
		return true
	}

	total := len(files)
	log.Info("Analyzing %d files in %s …", total, cfg.Input)
	fmt.Println()

	isTTY := term.IsTerminal(os.Stdout)
	rows := make([]planRow, 0, total)
	var rejected int

	for i, path := range files {
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			return false
		}

		printProgress(isTTY, i+1, total, rejected, filepath.Base(path))
		row := analyzeFile(ctx, cfg, path)
		if !row.OK {
			rejected++
		}
		rows = append(rows, row)
	}

	if isTTY {
		clearProgress()
	}

	fmt.Println(analysisTable(rows))
	fmt.Println()
	log.Info("Analyzed %d files", total)
	if rejected > 0 {
		log.Skip("  %d file(s) cannot be processed", rejected)
		return false
	}
	log.Success("  Every file can be processed")
	return true
}

func analyzeFile(ctx context.Context, cfg *config.Config, path string) planRow {
	row := planRow{Name: filepath.Base(path)}
	plan, pr, err := planFile(ctx, cfg, path)
	if pr != nil {
		for _, s := range pr.ByType(probe.TypeVideo) {
			if !s.Disposition.AttachedPic && !s.Disposition.StillImage {
				row.Video = s.Codec + " " + s.Resolution()
				break
			}
		}
	}
	if err != nil {
		row.Status = err.Error()
		if !errors.Is(err, planner.ErrCannotProcess) {
			row.Status = "error: " + row.Status
		}
		return row
	}

	row.OK = true
	row.Status = "ok"
	row.Transcodes = summarize(planner.SortedByIndex(plan.Actions.Transcodes), func(a *planner.Action) string {
		return a.Codec
	})
	row.Extractions = summarize(planner.SortedByIndex(plan.Actions.Extractions), func(a *planner.Action) string {
		return filepath.Ext(a.Name(plan.Annotations))
	})
	var groups []string
	for _, g := range plan.Actions.GroupsByName(plan.Annotations) {
		groups = append(groups, fmt.Sprintf("%s (%d)", filepath.Ext(g.Name), len(g.Members)))
	}
	row.Groups = strings.Join(groups, ", ")
	return row
}

// summarize renders actions as "#index:label" pairs.
func summarize(actions []*planner.Action, label func(*planner.Action) string) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("#%d:%s", a.Stream.Index, label(a)))
	}
	return strings.Join(parts, " ")
}

func analysisTable(rows []planRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if len(name) > 50 {
			name = name[:49] + "…"
		}
		status := r.Status
		if !r.OK {
			status = term.Orange + status + term.NC
		}
		out = append(out, []string{name, r.Video, r.Transcodes, r.Extractions, r.Groups, status})
	}
	return display.RenderTable(
		[]string{"File", "Video", "Transcodes", "Extractions", "Groups", "Status"},
		out,
		nil,
	)
}

// printProgress shows a live probe counter. On a TTY it writes an
// inline \r-overwritten line; otherwise it is a no-op.
func printProgress(isTTY bool, current, total, rejected int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Planning [%d/%d] %d%% ", current, total, pct)
	if rejected > 0 {
		status += fmt.Sprintf("(%d rejected) ", rejected)
	}

	maxName := 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	// Pad to 80 chars to overwrite previous longer lines, then \r.
	if len(status) < 80 {
		status += strings.Repeat(" ", 80-len(status))
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}
