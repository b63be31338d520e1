package planner

import "github.com/backmassage/jellystream/internal/probe"

// videoCodecs is the allow-list of video codecs copied into the mp4.
var videoCodecs = map[string]bool{
	"hevc": true,
	"h264": true,
	"av1":  true,
}

// CheckStreamTypes rejects the whole file if any stream is not video,
// audio, subtitle or attachment. It runs before any classification.
func CheckStreamTypes(streams []probe.Stream) error {
	for i := range streams {
		switch streams[i].Type {
		case probe.TypeVideo, probe.TypeAudio, probe.TypeSubtitle, probe.TypeAttachment:
		default:
			return unsupported(&streams[i])
		}
	}
	return nil
}

// SelectVideo returns the single real video stream. Cover art (attached or
// still pictures) is ignored and never mapped.
func SelectVideo(streams []probe.Stream) (*probe.Stream, error) {
	var video *probe.Stream
	for i := range streams {
		s := &streams[i]
		if s.Type != probe.TypeVideo || s.Disposition.AttachedPic || s.Disposition.StillImage {
			continue
		}
		if video != nil {
			return nil, Reject("too many video streams found")
		}
		video = s
	}
	if video == nil {
		return nil, Reject("no video stream found")
	}
	if !videoCodecs[video.Codec] {
		return nil, unsupported(video)
	}
	return video, nil
}
