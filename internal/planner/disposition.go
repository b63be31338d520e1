package planner

import (
	"regexp"

	"github.com/backmassage/jellystream/internal/probe"
)

var (
	reHearingImpaired = regexp.MustCompile(`(?i)\b(sdh|hearing[\s._-]*impaired)\b`)
	reForced          = regexp.MustCompile(`(?i)\bforced\b`)
)

// GuessDisposition derives forced and hearing-impaired flags from a stream
// title. Only those two flags are ever set; an empty title yields neither.
func GuessDisposition(title string) probe.Disposition {
	return probe.Disposition{
		Forced:          reForced.MatchString(title),
		HearingImpaired: reHearingImpaired.MatchString(title),
	}
}

// Annotations holds the guessed disposition per stream index. Guesses are
// advisory: they only add flags the container did not declare.
type Annotations map[int]probe.Disposition

// Annotate guesses dispositions for every subtitle stream. It returns the
// annotations plus one note per flag that the guess added.
func Annotate(streams []probe.Stream) (Annotations, []string) {
	ann := make(Annotations)
	var notes []string
	for i := range streams {
		s := &streams[i]
		if s.Type != probe.TypeSubtitle {
			continue
		}
		title := s.Title()
		g := GuessDisposition(title)
		ann[s.Index] = g
		if g.Forced && !s.Disposition.Forced {
			notes = append(notes, "Guessing that "+s.Name()+" is forced because the title is "+title)
		}
		if g.HearingImpaired && !s.Disposition.HearingImpaired {
			notes = append(notes, "Guessing that "+s.Name()+" is sdh because the title is "+title)
		}
	}
	return ann, notes
}

// Forced reports the declared or guessed forced flag.
func (a Annotations) Forced(s *probe.Stream) bool {
	return s.Disposition.Forced || a[s.Index].Forced
}

// HearingImpaired reports the declared or guessed hearing-impaired flag.
func (a Annotations) HearingImpaired(s *probe.Stream) bool {
	return s.Disposition.HearingImpaired || a[s.Index].HearingImpaired
}
