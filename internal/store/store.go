package store

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/taskvault/taskvault/internal/atomicfile"
	"github.com/taskvault/taskvault/internal/lockfile"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/metrics"
)

// DefaultLockTimeout bounds how long an operation waits for the store lock.
const DefaultLockTimeout = 5 * time.Second

// Options configures a FileStore.
type Options struct {
	// Path is the snapshot file. Its ".tmp" and ".lock" siblings are
	// derived from it.
	Path string
	// LockTimeout bounds lock acquisition; DefaultLockTimeout when zero.
	LockTimeout time.Duration
	// Reset makes Initialize overwrite an existing snapshot with an empty
	// one instead of preserving it.
	Reset bool
	// UniqueIDs makes Append reject records whose id collides with a
	// stored record.
	UniqueIDs bool
}

// FileStore keeps an ordered collection of records in a single JSON array
// file. Every operation, reads included, runs under the same exclusive
// cross-process lock for its full read-modify-commit span, so callers
// observe operations in some total order.
type FileStore struct {
	path      string
	lock      *lockfile.Guard
	reset     bool
	uniqueIDs bool
	log       logger.Logger
}

// NewFileStore creates a store over the snapshot file named in opts. The
// store performs no I/O until Initialize or an operation is called.
func NewFileStore(opts Options, log logger.Logger) *FileStore {
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if log == nil {
		log = logger.GetDefault()
	}

	return &FileStore{
		path:      opts.Path,
		lock:      lockfile.New(opts.Path+".lock", timeout),
		reset:     opts.Reset,
		uniqueIDs: opts.UniqueIDs,
		log:       log,
	}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// LockPath returns the lock file path.
func (s *FileStore) LockPath() string {
	return s.lock.Path()
}

// Initialize prepares the snapshot file at start-up. By default an
// existing file is preserved and an empty snapshot is committed only when
// none exists; with Reset set, any prior snapshot is overwritten. Failure
// here is expected to be fatal to the surrounding service.
func (s *FileStore) Initialize(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if !s.reset {
		if _, err := os.Stat(s.path); err == nil {
			s.log.Info("Snapshot file exists, keeping current data",
				logger.String("path", s.path))
			return nil
		}
	}

	if err := s.commit(Snapshot{}); err != nil {
		return err
	}

	s.log.Info("Snapshot initialized", logger.String("path", s.path))
	return nil
}

// FetchAll returns the current snapshot.
func (s *FileStore) FetchAll(ctx context.Context) (Snapshot, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return ReadSnapshot(s.path)
}

// Append adds rec to the end of the collection. With UniqueIDs set, an id
// collision fails with DuplicateIDError before anything is written.
func (s *FileStore) Append(ctx context.Context, rec Record) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	snap, err := ReadSnapshot(s.path)
	if err != nil {
		return err
	}

	if s.uniqueIDs {
		if id, ok := rec.ID(); ok {
			for _, existing := range snap {
				if eid, ok := existing.ID(); ok && eid == id {
					return &DuplicateIDError{ID: id}
				}
			}
		}
	}

	return s.commit(append(snap, rec))
}

// Patch merges the non-id fields of update into the first record whose id
// matches. Fields present in update overwrite, absent fields are left
// untouched, the id itself never changes. A patch carrying nothing besides
// the id is rejected without writing, as is an id with no matching record.
func (s *FileStore) Patch(ctx context.Context, update Record) error {
	id, ok := update.ID()
	if !ok {
		return &MissingIDError{}
	}
	fields := update.Fields()

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	snap, err := ReadSnapshot(s.path)
	if err != nil {
		return err
	}

	for _, rec := range snap {
		rid, ok := rec.ID()
		if !ok || rid != id {
			continue
		}

		if len(fields) == 0 {
			return &EmptyPatchError{ID: id}
		}

		for k, v := range fields {
			rec[k] = v
		}
		return s.commit(snap)
	}

	return &RecordNotFoundError{ID: id}
}

// Delete removes every record whose id matches, comparing canonical string
// forms. When nothing matches, the snapshot is not rewritten.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	snap, err := ReadSnapshot(s.path)
	if err != nil {
		return err
	}

	filtered := make(Snapshot, 0, len(snap))
	for _, rec := range snap {
		if rid, ok := rec.ID(); ok && rid == id {
			continue
		}
		filtered = append(filtered, rec)
	}

	if len(filtered) == len(snap) {
		return &RecordNotFoundError{ID: id}
	}

	return s.commit(filtered)
}

// Ping reports whether the snapshot file is currently readable. Used by
// the health endpoint; it deliberately skips the lock.
func (s *FileStore) Ping() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *FileStore) acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	release, err := s.lock.Acquire(ctx)
	metrics.StoreLockWaitSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, lockfile.ErrTimeout) {
			return nil, &LockTimeoutError{Path: s.lock.Path(), Timeout: s.lock.Timeout()}
		}
		return nil, err
	}
	return release, nil
}

// commit atomically replaces the snapshot file. Callers must hold the lock.
func (s *FileStore) commit(snap Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return &WriteFailureError{Path: s.path, Err: err}
	}

	if err := atomicfile.WriteFile(s.path, data); err != nil {
		return &WriteFailureError{Path: s.path, Err: err}
	}

	metrics.StoreSnapshotBytes.Observe(float64(len(data)))
	metrics.StoreRecords.Set(float64(len(snap)))
	return nil
}
