package planner

import (
	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/naming"
	"github.com/backmassage/jellystream/internal/probe"
)

// ClassifySubtitles produces the actions for the subtitle streams of one
// file.
//
//	ass                             → mov_text + matroska sidecar (or the shared group)
//	subrip                          → mov_text
//	dvd_subtitle                    → copy (mov_text cannot carry bitmaps)
//	hdmv_pgs_subtitle, dvb_subtitle → matroska sidecar only
func ClassifySubtitles(cfg *config.Config, streams []probe.Stream, base string) (ActionCollection, error) {
	var c ActionCollection
	for i := range streams {
		s := &streams[i]
		clear := NeedsCleaning(s.Title(), cfg.CleanSubtitleTitles)

		switch s.Codec {
		case "ass":
			c.Add(&Action{Kind: KindTranscode, Stream: s, Codec: "mov_text", ClearTitle: clear})
			if cfg.GroupStyledSubtitles {
				c.Add(groupMember(s, base, clear))
			} else {
				c.Add(matroskaSidecar(s, base, clear))
			}
		case "subrip":
			c.Add(&Action{Kind: KindTranscode, Stream: s, Codec: "mov_text", ClearTitle: clear})
		case "dvd_subtitle":
			c.Add(&Action{Kind: KindTranscode, Stream: s, Codec: CodecCopy, ClearTitle: clear})
		case "hdmv_pgs_subtitle", "dvb_subtitle":
			c.Add(matroskaSidecar(s, base, clear))
		default:
			return ActionCollection{}, unsupported(s)
		}
	}
	return c, nil
}

// matroskaSidecar extracts s into its own .mks; ffmpeg does not map that
// extension to a muxer, so matroska is forced.
func matroskaSidecar(s *probe.Stream, base string, clear bool) *Action {
	return &Action{
		Kind:       KindExtraction,
		Stream:     s,
		Codec:      CodecCopy,
		ClearTitle: clear,
		Base:       base,
		Extension:  naming.MatroskaSubsExt,
		Format:     "matroska",
	}
}

func groupMember(s *probe.Stream, base string, clear bool) *Action {
	return &Action{Kind: KindGroupExtraction, Stream: s, Codec: CodecCopy, ClearTitle: clear, Base: base}
}
