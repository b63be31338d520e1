package planner

import "regexp"

// reReleaseTag matches titles that describe the encode rather than the
// stream: resolutions, codecs, sources and HDR markers, e.g.
// "BluRay 1080p x264" or "WEB-DL HEVC 10bit". Word boundaries keep
// "Forcedhdr" or "avcodec" from matching.
var reReleaseTag = regexp.MustCompile(`(?i)\b(` +
	`480p|576p|720p|1080p|1080i|2160p|4k|uhd|` +
	`x264|x265|h\.?264|h\.?265|hevc|avc|xvid|divx|` +
	`blu-?ray|bdrip|brrip|web-?dl|webrip|hdtv|dvdrip|remux|` +
	`10bit|hdr` +
	`)\b`)

// NeedsCleaning reports whether a title should be cleared from the output
// stream and left out of sidecar names. It is false whenever the policy is
// off.
func NeedsCleaning(title string, enabled bool) bool {
	return enabled && reReleaseTag.MatchString(title)
}
