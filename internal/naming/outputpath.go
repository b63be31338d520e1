package naming

import (
	"path/filepath"
	"strings"
)

// Container and sidecar extensions.
const (
	ContainerExt    = "mp4"
	MatroskaSubsExt = "mks"
)

// BaseName returns <outputDir>/<input stem>. An empty outputDir means the
// input file's own directory.
func BaseName(inputPath, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	name := filepath.Base(inputPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputDir, stem)
}

// ContainerPath returns the primary output path for a base name.
func ContainerPath(base string) string {
	return base + "." + ContainerExt
}

// GroupSidecar returns the shared sidecar path of a stream group. Per-stream
// fragments never apply to groups.
func GroupSidecar(base string) string {
	return base + "." + MatroskaSubsExt
}

// MoveTarget returns where the original is moved after a successful run,
// or "" when moveDir is unset.
func MoveTarget(inputPath, moveDir string) string {
	if moveDir == "" {
		return ""
	}
	return filepath.Join(moveDir, filepath.Base(inputPath))
}
