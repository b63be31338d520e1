package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result. ffprobePath may be a bare command name resolved on PATH.
func Probe(ctx context.Context, ffprobePath, path string) (*Result, error) {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams", "-show_chapters",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format   ffprobeFormat    `json:"format"`
	Streams  []ffprobeStream  `json:"streams"`
	Chapters []ffprobeChapter `json:"chapters"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	NbStreams      int               `json:"nb_streams"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index          int               `json:"index"`
	CodecName      string            `json:"codec_name"`
	CodecLongName  string            `json:"codec_long_name"`
	CodecType      string            `json:"codec_type"`
	Profile        string            `json:"profile"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	BitRate        string            `json:"bit_rate"`
	FieldOrder     string            `json:"field_order"`
	ColorTransfer  string            `json:"color_transfer"`
	ColorPrimaries string            `json:"color_primaries"`
	Channels       int               `json:"channels"`
	ChannelLayout  string            `json:"channel_layout"`
	SampleRate     string            `json:"sample_rate"`
	Disposition    map[string]int    `json:"disposition"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeChapter struct {
	ID        int64             `json:"id"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Tags      map[string]string `json:"tags"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		Format:  convertFormat(&raw.Format),
		Streams: make([]Stream, 0, len(raw.Streams)),
	}
	for i := range raw.Streams {
		r.Streams = append(r.Streams, convertStream(&raw.Streams[i]))
	}
	for _, c := range raw.Chapters {
		r.Chapters = append(r.Chapters, Chapter{
			ID:    c.ID,
			Start: parseFloat(c.StartTime),
			End:   parseFloat(c.EndTime),
			Title: c.Tags["title"],
		})
	}
	return r
}

func convertFormat(f *ffprobeFormat) FormatInfo {
	return FormatInfo{
		Filename:       f.Filename,
		NbStreams:      f.NbStreams,
		FormatName:     f.FormatName,
		FormatLongName: f.FormatLongName,
		Duration:       parseFloat(f.Duration),
		Size:           parseInt64(f.Size),
		BitRate:        parseInt64(f.BitRate),
		Tags:           f.Tags,
	}
}

func convertStream(s *ffprobeStream) Stream {
	tags := s.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return Stream{
		Index:          s.Index,
		Type:           StreamType(s.CodecType),
		Codec:          s.CodecName,
		CodecLongName:  s.CodecLongName,
		Profile:        s.Profile,
		Channels:       s.Channels,
		ChannelLayout:  s.ChannelLayout,
		SampleRate:     parseInt(s.SampleRate),
		BitRate:        parseInt64(s.BitRate),
		Width:          s.Width,
		Height:         s.Height,
		FieldOrder:     s.FieldOrder,
		ColorTransfer:  s.ColorTransfer,
		ColorPrimaries: s.ColorPrimaries,
		Disposition:    convertDisposition(s.Disposition),
		Tags:           tags,
	}
}

func convertDisposition(d map[string]int) Disposition {
	on := func(k string) bool { return d[k] == 1 }
	return Disposition{
		Default:         on("default"),
		Dub:             on("dub"),
		Original:        on("original"),
		Comment:         on("comment"),
		Lyrics:          on("lyrics"),
		Karaoke:         on("karaoke"),
		Forced:          on("forced"),
		HearingImpaired: on("hearing_impaired"),
		VisualImpaired:  on("visual_impaired"),
		CleanEffects:    on("clean_effects"),
		AttachedPic:     on("attached_pic"),
		TimedThumbnails: on("timed_thumbnails"),
		NonDiegetic:     on("non_diegetic"),
		Captions:        on("captions"),
		Descriptions:    on("descriptions"),
		Metadata:        on("metadata"),
		Dependent:       on("dependent"),
		StillImage:      on("still_image"),
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
