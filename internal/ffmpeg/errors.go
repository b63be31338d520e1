package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr after a failed run.
// Checked in order by [Diagnose]; the first match wins.
var diagnoses = []struct {
	re   *regexp.Regexp
	hint string
}{
	{
		regexp.MustCompile(`(?i)File '.*' already exists|already exists\. Exiting`),
		"an output file appeared after the pre-check",
	},
	{
		regexp.MustCompile(`Attachment stream \d+ has no (filename|mimetype) tag`),
		"an attachment is missing its filename or mimetype tag",
	},
	{
		regexp.MustCompile(`(?i)Subtitle codec .* is not supported|` +
			`Could not find tag for codec .* in stream .*subtitle|` +
			`Error initializing output stream .*subtitle|` +
			`Subtitle encoding currently only possible from text to text or bitmap to bitmap`),
		"a subtitle stream cannot be muxed as planned",
	},
	{
		regexp.MustCompile(`Too many packets buffered for output stream`),
		"the mux queue overflowed; the source likely has sparse streams",
	},
	{
		regexp.MustCompile(`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`),
		"the source has broken timestamps",
	},
	{
		regexp.MustCompile(`(?i)Unknown encoder|Encoder .* not found`),
		"this ffmpeg build lacks a required encoder (see --check)",
	},
}

// Diagnose returns a short hint for a known failure pattern in ffmpeg's
// stderr, or "" when nothing matches.
func Diagnose(stderr string) string {
	for _, d := range diagnoses {
		if d.re.MatchString(stderr) {
			return d.hint
		}
	}
	return ""
}
