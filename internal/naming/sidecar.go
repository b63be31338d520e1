package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fragments are the optional parts of a sidecar name, in emission order.
// Blank fragments are dropped.
type Fragments struct {
	Title     string // Raw title; sanitized by Sidecar.
	Forced    bool
	SDH       bool
	Default   bool
	Language  string
	Extension string
}

var reUnsafeTitle = regexp.MustCompile(`[^\p{L}\p{N}_() ]+`)

// SanitizeTitle makes a stream title safe for a filename fragment:
// brackets become parentheses, runs of anything outside letters, digits,
// underscore, parentheses and space collapse to a single "_", and leading
// or trailing underscores are trimmed. Input is NFC-normalized first so
// decomposed accents count as letters.
func SanitizeTitle(title string) string {
	s := norm.NFC.String(title)
	s = strings.NewReplacer("[", "(", "]", ")").Replace(s)
	s = reUnsafeTitle.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Sidecar joins base and the non-blank fragments with ".".
func Sidecar(base string, f Fragments) string {
	parts := []string{base, SanitizeTitle(f.Title)}
	if f.Forced {
		parts = append(parts, "forced")
	}
	if f.SDH {
		parts = append(parts, "sdh")
	}
	if f.Default {
		parts = append(parts, "default")
	}
	parts = append(parts, f.Language, f.Extension)

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}
