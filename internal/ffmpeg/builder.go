package ffmpeg

import (
	"strconv"

	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/planner"
)

// Build constructs the complete ffmpeg argument slice for a plan. args[0]
// is the ffmpeg binary. Copies of the plan's action lists are sorted by
// source stream index; the plan itself is left untouched.
func Build(cfg *config.Config, plan *planner.FilePlan) []string {
	args := make([]string, 0, 64)

	// --- Preamble ---
	args = append(args, cfg.FFmpegPath, "-hide_banner", "-nostdin",
		"-loglevel", string(cfg.LogLevel))
	if cfg.Stats {
		args = append(args, "-stats")
	} else {
		args = append(args, "-nostats")
	}
	if cfg.Probesize != "" {
		args = append(args, "-probesize", cfg.Probesize)
	}

	// --- Input, global metadata and chapters ---
	args = append(args,
		"-i", plan.InputPath,
		"-map_metadata", "0",
		"-map_chapters", "0",
	)

	// --- Video (always output stream 0) ---
	args = append(args, "-map", "0:"+strconv.Itoa(plan.Video.Index), "-c:0", planner.CodecCopy)

	// --- Transcodes into the primary container ---
	for i, a := range planner.SortedByIndex(plan.Actions.Transcodes) {
		args = append(args, a.Mapping()...)
		args = append(args, a.CodecArgs(i+1)...)
	}

	// --- Primary output ---
	args = append(args, "-movflags", "+faststart", plan.OutputPath)

	// --- Extractions, one output each ---
	for _, a := range planner.SortedByIndex(plan.Actions.Extractions) {
		args = append(args, a.Mapping()...)
		args = append(args, a.CodecArgs(0)...)
		args = append(args, a.Name(plan.Annotations))
	}

	// --- Group extractions, one output per shared file ---
	for _, g := range plan.Actions.GroupsByName(plan.Annotations) {
		args = appendGroup(args, g)
	}

	return args
}

// appendGroup renders the members of one shared sidecar with their own
// output stream counter, then the group trailer. The global title and
// chapters belong to the movie, not to the subtitle container.
func appendGroup(args []string, g planner.Group) []string {
	for k, a := range g.Members {
		args = append(args, a.Mapping()...)
		args = append(args, a.CodecArgs(k)...)
	}
	return append(args,
		"-metadata:g", "title=",
		"-map_chapters", "-1",
		"-f", "matroska",
		g.Name,
	)
}
