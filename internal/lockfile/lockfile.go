// Package lockfile provides a cross-process exclusive lock with a bounded wait.
package lockfile

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/flock"
)

// ErrTimeout is returned when the lock could not be acquired within the bound.
var ErrTimeout = errors.New("lockfile: acquisition timed out")

// retryInterval is how often a blocked acquisition re-attempts the lock.
const retryInterval = 25 * time.Millisecond

// Guard serializes access to a shared resource through a named lock file.
// The lock file's contents are not meaningful data; only its lock state is.
type Guard struct {
	path    string
	timeout time.Duration
}

// New creates a guard over the lock file at path. Acquisitions wait at most
// timeout before failing with ErrTimeout.
func New(path string, timeout time.Duration) *Guard {
	return &Guard{path: path, timeout: timeout}
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.path
}

// Timeout returns the configured acquisition bound.
func (g *Guard) Timeout() time.Duration {
	return g.timeout
}

// Acquire obtains the exclusive lock, blocking up to the configured timeout.
// On success it returns a release func that must be called on every exit
// path from the critical section, typically via defer. On timeout it
// returns ErrTimeout without retrying further.
func (g *Guard) Acquire(ctx context.Context) (func(), error) {
	fl := flock.New(g.path)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	if !locked {
		return nil, ErrTimeout
	}

	return func() { _ = fl.Unlock() }, nil
}
