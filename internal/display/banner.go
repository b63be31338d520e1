package display

import (
	"fmt"
	"io"

	"github.com/backmassage/jellystream/internal/term"
)

// PrintBanner prints the ASCII art banner and version to w; uses Magenta if
// colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `   _      _ _           _
  (_) ___| | |_   _ ___| |_ _ __ ___  __ _ _ __ ___
  | |/ _ \ | | | | / __| __| '__/ _ \/ _`+"`"+` | '_ `+"`"+` _ \
  | |  __/ | | |_| \__ \ |_| | |  __/ (_| | | | | | |
 _/ |\___|_|_|\__, |___/\__|_|  \___|\__,_|_| |_| |_|
|__/          |___/
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintf(w, "  v%s\n\n", version)
}
