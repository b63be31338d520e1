package probe

import (
	"fmt"
	"path"
	"strings"
)

// MatroskaFormat is the format name ffprobe reports for mkv/webm inputs.
const MatroskaFormat = "matroska,webm"

// StreamType is ffprobe's codec_type.
type StreamType string

const (
	TypeVideo      StreamType = "video"
	TypeAudio      StreamType = "audio"
	TypeSubtitle   StreamType = "subtitle"
	TypeAttachment StreamType = "attachment"
	TypeData       StreamType = "data"
)

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename       string
	NbStreams      int
	FormatName     string
	FormatLongName string
	Duration       float64
	Size           int64
	BitRate        int64
	Tags           map[string]string
}

// Disposition is the container-declared flag set of a stream.
type Disposition struct {
	Default         bool
	Dub             bool
	Original        bool
	Comment         bool
	Lyrics          bool
	Karaoke         bool
	Forced          bool
	HearingImpaired bool
	VisualImpaired  bool
	CleanEffects    bool
	AttachedPic     bool
	TimedThumbnails bool
	NonDiegetic     bool
	Captions        bool
	Descriptions    bool
	Metadata        bool
	Dependent       bool
	StillImage      bool
}

// Stream is one elementary stream of the container.
type Stream struct {
	Index          int
	Type           StreamType
	Codec          string
	CodecLongName  string
	Profile        string
	Channels       int
	ChannelLayout  string // Empty when ffprobe reports none.
	SampleRate     int
	BitRate        int64
	Width          int
	Height         int
	FieldOrder     string
	ColorTransfer  string
	ColorPrimaries string
	Disposition    Disposition
	Tags           map[string]string
}

// Chapter is one entry of ffprobe's chapters section.
type Chapter struct {
	ID    int64
	Start float64 // Seconds.
	End   float64 // Seconds.
	Title string
}

// Result is the fully parsed output of a single ffprobe JSON call.
type Result struct {
	Format   FormatInfo
	Streams  []Stream
	Chapters []Chapter
}

// IsMatroska reports whether the container is Matroska.
func (r *Result) IsMatroska() bool {
	return r.Format.FormatName == MatroskaFormat
}

// ByType returns the streams of type t in container order.
func (r *Result) ByType(t StreamType) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Tag looks up a tag by key, ignoring case. Matroska tags come back in
// whatever case the muxer wrote them (LANGUAGE, Language, language).
func (s *Stream) Tag(key string) string {
	if v, ok := s.Tags[key]; ok {
		return v
	}
	for k, v := range s.Tags {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Language returns the language tag, or "" when absent.
func (s *Stream) Language() string { return strings.TrimSpace(s.Tag("language")) }

// Title returns the title tag, or "" when absent.
func (s *Stream) Title() string { return s.Tag("title") }

// Name renders the identifier used in every diagnostic about a stream,
// e.g. "#3 (subtitle,ass,eng)".
func (s *Stream) Name() string {
	lang := s.Language()
	if lang == "" {
		lang = "und"
	}
	return fmt.Sprintf("#%d (%s,%s,%s)", s.Index, s.Type, s.Codec, lang)
}

var fontMimetypes = map[string]bool{
	"application/x-truetype-font": true,
	"application/x-font-ttf":      true,
	"application/x-font-otf":      true,
	"application/vnd.ms-opentype": true,
	"application/font-sfnt":       true,
	"font/ttf":                    true,
	"font/otf":                    true,
	"font/sfnt":                   true,
	"font/collection":             true,
	"font/woff":                   true,
	"font/woff2":                  true,
}

var fontExtensions = map[string]bool{
	".ttf":   true,
	".otf":   true,
	".ttc":   true,
	".woff":  true,
	".woff2": true,
}

// IsFont reports whether an attachment stream carries an embedded font,
// judged by codec, mimetype tag, or filename extension.
func (s *Stream) IsFont() bool {
	if s.Type != TypeAttachment {
		return false
	}
	switch s.Codec {
	case "ttf", "otf":
		return true
	}
	if fontMimetypes[strings.ToLower(s.Tag("mimetype"))] {
		return true
	}
	return fontExtensions[strings.ToLower(path.Ext(s.Tag("filename")))]
}
