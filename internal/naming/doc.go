// Package naming derives every output path of a file: the primary .mp4,
// the move target for the original, and the Jellyfin-style sidecar names
// of extracted streams. It also owns the pre-invocation existence checks.
//
// Sidecar names follow Jellyfin's external-file convention:
//
//	<base>[.<title>][.forced][.sdh][.default][.<language>].<ext>
//
// All functions are pure except [CheckFree], which stats the filesystem.
package naming
