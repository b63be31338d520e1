package planner

import (
	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/probe"
)

// ClassifyAttachments decides the fate of attachment streams. Fonts never
// go into the mp4. When a styled-subtitle group exists they join it, so the
// .mks renders with its fonts; otherwise they are dropped if DropFonts is
// set and reject the file if not. Any other attachment rejects the file.
//
// The notes returned describe dropped fonts.
func ClassifyAttachments(cfg *config.Config, streams []probe.Stream, base string, groupActive bool) (ActionCollection, []string, error) {
	var c ActionCollection
	var notes []string
	for i := range streams {
		s := &streams[i]
		if !s.IsFont() {
			return ActionCollection{}, nil, unsupported(s)
		}
		switch {
		case groupActive:
			c.Add(groupMember(s, base, false))
		case cfg.DropFonts:
			notes = append(notes, "Dropping font "+s.Name()+" "+s.Tag("filename"))
		default:
			return ActionCollection{}, nil, Reject("stream %s is an embedded font (use --dropFonts to drop it)", s.Name())
		}
	}
	return c, notes, nil
}
