package pipeline

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/backmassage/jellystream/internal/planner"
)

const lockSuffix = ".lock"

// inputLock guards one input against a concurrent jellystream run.
type inputLock struct {
	fl *flock.Flock
}

// lockInput takes a non-blocking advisory lock on path+".lock". A lock held
// elsewhere is a rejection so the batch moves on to the next file.
func lockInput(path string) (*inputLock, error) {
	fl := flock.New(path + lockSuffix)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, planner.Reject("%s is being processed by another run", path)
	}
	return &inputLock{fl: fl}, nil
}

// release removes the lock file while still holding the lock, then unlocks.
// A run that opened the old file before the removal still fails its TryLock
// until the unlock, after which the input has already been processed.
func (l *inputLock) release() {
	if l == nil {
		return
	}
	_ = os.Remove(l.fl.Path())
	_ = l.fl.Unlock()
}
