package planner

import (
	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/naming"
	"github.com/backmassage/jellystream/internal/probe"
)

// FilePlan holds every decision for a single input file. It is produced by
// BuildPlan and consumed by the ffmpeg package to assemble the command.
type FilePlan struct {
	InputPath  string
	OutputPath string // Primary .mp4.
	MoveTarget string // Empty when originals stay in place.
	Base       string

	Video       *probe.Stream
	Actions     ActionCollection
	Annotations Annotations
	Chapters    int

	// Notes are informational messages for the log (guessed flags,
	// dropped fonts).
	Notes []string
}

// BuildPlan produces a complete FilePlan from config and probe data, or a
// *RejectionError naming the first violated rule. No partial plan is ever
// returned.
//
// Flow:
//  1. Container must be Matroska
//  2. Every stream must have a supported type (fail fast)
//  3. Select the single video stream
//  4. Guess subtitle dispositions (opt-in)
//  5. Classify audio, subtitles, then attachments
func BuildPlan(cfg *config.Config, pr *probe.Result, inputPath string) (*FilePlan, error) {
	// --- 1. Container ---
	if !pr.IsMatroska() {
		return nil, Reject("unsupported container format %q", pr.Format.FormatName)
	}

	// --- 2. Stream types ---
	if err := CheckStreamTypes(pr.Streams); err != nil {
		return nil, err
	}

	// --- 3. Video ---
	video, err := SelectVideo(pr.Streams)
	if err != nil {
		return nil, err
	}

	base := naming.BaseName(inputPath, cfg.OutputDir)
	plan := &FilePlan{
		InputPath:   inputPath,
		OutputPath:  naming.ContainerPath(base),
		MoveTarget:  naming.MoveTarget(inputPath, cfg.MoveDir),
		Base:        base,
		Video:       video,
		Annotations: Annotations{},
		Chapters:    len(pr.Chapters),
	}

	// --- 4. Dispositions ---
	if cfg.GuessDispositions {
		plan.Annotations, plan.Notes = Annotate(pr.Streams)
	}

	// --- 5. Classification ---
	audio, err := ClassifyAudio(cfg, pr.ByType(probe.TypeAudio), base)
	if err != nil {
		return nil, err
	}
	subs, err := ClassifySubtitles(cfg, pr.ByType(probe.TypeSubtitle), base)
	if err != nil {
		return nil, err
	}
	attachments, notes, err := ClassifyAttachments(cfg, pr.ByType(probe.TypeAttachment), base, len(subs.Groups) > 0)
	if err != nil {
		return nil, err
	}

	plan.Actions.Merge(audio)
	plan.Actions.Merge(subs)
	plan.Actions.Merge(attachments)
	plan.Notes = append(plan.Notes, notes...)
	return plan, nil
}

// Sidecars returns the distinct sidecar paths of the plan in emission
// order: extractions by source index, then groups.
func (p *FilePlan) Sidecars() []string {
	var out []string
	for _, a := range SortedByIndex(p.Actions.Extractions) {
		out = append(out, a.Name(p.Annotations))
	}
	for _, g := range p.Actions.GroupsByName(p.Annotations) {
		out = append(out, g.Name)
	}
	return out
}

// Outputs returns every path the run will create: the mp4, its sidecars
// and the move target.
func (p *FilePlan) Outputs() []string {
	out := append([]string{p.OutputPath}, p.Sidecars()...)
	if p.MoveTarget != "" {
		out = append(out, p.MoveTarget)
	}
	return out
}

// CheckOutputs rejects the plan if any output already exists on disk, or
// if two of its own actions would write the same sidecar.
func CheckOutputs(p *FilePlan) error {
	seen := map[string]bool{}
	for _, path := range p.Outputs() {
		if seen[path] {
			return Reject("two streams would be written to %s", path)
		}
		seen[path] = true
	}
	return RejectErr(naming.CheckFree(p.Outputs()...))
}
