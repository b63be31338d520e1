// Command jellystream converts Matroska files into Jellyfin direct-play mp4
// files plus sidecars, with exactly one ffmpeg invocation per input.
package main

import (
	"errors"
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "jellystream: %v\n", err)
		}
		os.Exit(1)
	}
}
