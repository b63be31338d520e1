// Package probe runs ffprobe against a container and converts its JSON
// output into an immutable, typed view: format descriptor, ordered streams
// (codec identity, disposition flags, tags) and chapters.
//
// Stream indices are taken verbatim from ffprobe and never renumbered;
// every later stage maps and orders streams by [Stream.Index].
package probe
