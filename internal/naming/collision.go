package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// CollisionError reports a planned output path that is already taken,
// either on disk or by another input earlier in the same run.
type CollisionError struct {
	Path  string
	Owner string // Input that claimed Path this run; empty for on-disk files.
}

func (e *CollisionError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("output %s is already planned for %s", e.Path, e.Owner)
	}
	return fmt.Sprintf("output file already exists: %s", e.Path)
}

// CheckFree stats each non-empty path and returns a *CollisionError for
// the first one that exists. This is a best-effort pre-check; files
// created between the check and the ffmpeg run are not detected.
func CheckFree(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_, err := os.Stat(p)
		if err == nil {
			return &CollisionError{Path: p}
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return nil
}

// Claims tracks output paths claimed by input files during one batch, so
// two inputs that map to the same outputs are caught even in a dry run,
// where nothing is written to disk. All methods are goroutine-safe.
type Claims struct {
	mu     sync.Mutex
	owners map[string]string // output path → input path that owns it
}

// NewClaims creates a ready-to-use registry.
func NewClaims() *Claims {
	return &Claims{owners: make(map[string]string)}
}

// Claim records input as the owner of paths. It fails without claiming
// anything if another input already owns one of them. Re-claiming paths
// already owned by input is a no-op.
func (c *Claims) Claim(input string, paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range paths {
		if p == "" {
			continue
		}
		if owner, ok := c.owners[p]; ok && owner != input {
			return &CollisionError{Path: p, Owner: owner}
		}
	}
	for _, p := range paths {
		if p != "" {
			c.owners[p] = input
		}
	}
	return nil
}
