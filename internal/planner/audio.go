package planner

import (
	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/probe"
)

// downmixLayout is the layout the native AAC encoder cannot reproduce
// (ffmpeg falls back to a PCE that most players ignore).
const downmixLayout = "5.1(side)"

// audioCopyCodecs play in an mp4 as-is.
var audioCopyCodecs = map[string]bool{
	"aac":  true,
	"mp3":  true,
	"opus": true,
}

// audioSidecar describes how a transcoded source is also kept verbatim.
type audioSidecar struct {
	extension string
	format    string // Forced muxer when ffmpeg cannot infer it from extension.
}

// audioTranscodeCodecs are re-encoded to AAC; the value is their
// extraction target. The sidecar extension is the codec name except for
// eac3, which goes to .ac3, and vorbis, which goes to .ogg because ffmpeg
// has no raw vorbis muxer.
var audioTranscodeCodecs = map[string]audioSidecar{
	"ac3":    {extension: "ac3"},
	"eac3":   {extension: "ac3", format: "eac3"},
	"dts":    {extension: "dts"},
	"vorbis": {extension: "ogg", format: "ogg"},
}

// ClassifyAudio produces the actions for the audio streams of one file.
// Compatible codecs are copied; surround-era codecs are transcoded to AAC
// and, above two channels (or always with ExtractStereo), extracted too.
func ClassifyAudio(cfg *config.Config, streams []probe.Stream, base string) (ActionCollection, error) {
	var c ActionCollection
	for i := range streams {
		s := &streams[i]
		clear := NeedsCleaning(s.Title(), cfg.CleanAudioTitles)

		if audioCopyCodecs[s.Codec] {
			c.Add(&Action{Kind: KindTranscode, Stream: s, Codec: CodecCopy, ClearTitle: clear})
			continue
		}

		sidecar, ok := audioTranscodeCodecs[s.Codec]
		if !ok {
			return ActionCollection{}, unsupported(s)
		}
		t, err := aacTranscode(s, cfg.KBitPerChannel, clear)
		if err != nil {
			return ActionCollection{}, err
		}
		c.Add(t)
		if s.Channels > 2 || cfg.ExtractStereo {
			c.Add(&Action{
				Kind:       KindExtraction,
				Stream:     s,
				Codec:      CodecCopy,
				ClearTitle: clear,
				Base:       base,
				Extension:  sidecar.extension,
				Format:     sidecar.format,
			})
		}
	}
	return c, nil
}

// aacTranscode sizes the AAC bitrate from the channel count. Layouts AAC
// cannot encode correctly, and surround sources with no layout at all, are
// downmixed to stereo.
func aacTranscode(s *probe.Stream, kBitPerChannel int, clear bool) (*Action, error) {
	if s.Channels <= 0 {
		return nil, Reject("stream %s has no channel count", s.Name())
	}
	a := &Action{
		Kind:       KindTranscode,
		Stream:     s,
		Codec:      "aac",
		BitrateK:   kBitPerChannel * s.Channels,
		ClearTitle: clear,
	}
	if needsDownmix(s) {
		a.Channels = 2
		a.BitrateK = kBitPerChannel * 2
	}
	return a, nil
}

func needsDownmix(s *probe.Stream) bool {
	return s.ChannelLayout == downmixLayout || (s.Channels > 2 && s.ChannelLayout == "")
}
