package planner

import (
	"fmt"
	"strconv"

	"github.com/backmassage/jellystream/internal/naming"
	"github.com/backmassage/jellystream/internal/probe"
)

// Kind tags the variant of an Action.
type Kind int

const (
	// KindTranscode writes one stream into the primary .mp4 container.
	KindTranscode Kind = iota
	// KindExtraction writes one stream to its own sidecar file.
	KindExtraction
	// KindGroupExtraction writes one stream into a sidecar shared with
	// other streams; members are grouped by Name.
	KindGroupExtraction
)

func (k Kind) String() string {
	switch k {
	case KindTranscode:
		return "transcode"
	case KindExtraction:
		return "extract"
	case KindGroupExtraction:
		return "group"
	}
	return "unknown"
}

// CodecCopy is the stream-copy codec directive.
const CodecCopy = "copy"

// Action is one decision about one source stream. Stream is borrowed from
// the probe result, which outlives every Action derived from it.
type Action struct {
	Kind   Kind
	Stream *probe.Stream

	Codec      string // ffmpeg encoder or "copy".
	Channels   int    // Forced output channel count (-ac); 0 keeps the source layout.
	BitrateK   int    // Target bitrate in kbit/s (-b); 0 omits the flag.
	ClearTitle bool   // Emit -metadata:s:N title= and omit the title from sidecar names.

	// Sidecar fields, unused by transcodes.
	Base      string // Output base name (directory + stem).
	Extension string // Sidecar file extension.
	Format    string // Forced muxer (-f); empty lets ffmpeg infer it.
}

// Mapping returns the -map directive selecting the source stream.
func (a *Action) Mapping() []string {
	return []string{"-map", "0:" + strconv.Itoa(a.Stream.Index)}
}

// CodecArgs renders the per-stream codec directives for output stream
// index out. Extractions always target stream 0 of their own output and
// carry their forced muxer, so out is ignored for them.
func (a *Action) CodecArgs(out int) []string {
	if a.Kind == KindExtraction {
		out = 0
	}
	n := strconv.Itoa(out)
	args := []string{"-c:" + n, a.Codec}
	if a.Channels > 0 {
		args = append(args, "-ac:"+n, strconv.Itoa(a.Channels))
	}
	if a.BitrateK > 0 {
		args = append(args, "-b:"+n, fmt.Sprintf("%dk", a.BitrateK))
	}
	if a.ClearTitle {
		args = append(args, "-metadata:s:"+n, "title=")
	}
	if a.Kind == KindExtraction && a.Format != "" {
		args = append(args, "-f", a.Format)
	}
	return args
}

// Name returns the output file of a sidecar action, or "" for transcodes.
// It is recomputed on every call from the stream, the annotations and the
// current ClearTitle decision.
func (a *Action) Name(ann Annotations) string {
	switch a.Kind {
	case KindExtraction:
		f := naming.Fragments{
			Forced:    ann.Forced(a.Stream),
			SDH:       ann.HearingImpaired(a.Stream),
			Default:   a.Stream.Disposition.Default,
			Language:  a.Stream.Language(),
			Extension: a.Extension,
		}
		if !a.ClearTitle {
			f.Title = a.Stream.Title()
		}
		return naming.Sidecar(a.Base, f)
	case KindGroupExtraction:
		return naming.GroupSidecar(a.Base)
	}
	return ""
}

// Describe renders a one-line summary for logs and the plan table.
func (a *Action) Describe(ann Annotations) string {
	var s string
	switch {
	case a.Kind != KindTranscode:
		s = "Extracting " + a.Stream.Name() + " to " + a.Name(ann)
	case a.Codec == CodecCopy:
		s = "Copying " + a.Stream.Name()
	default:
		s = "Transcoding " + a.Stream.Name() + " to " + a.Codec
		if a.BitrateK > 0 {
			s += fmt.Sprintf(" (%dk", a.BitrateK)
			if a.Channels > 0 {
				s += fmt.Sprintf(", downmix to %d channels", a.Channels)
			}
			s += ")"
		}
	}
	if a.ClearTitle {
		s += " without its title"
	}
	return s
}
