package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/lockfile"
	"github.com/taskvault/taskvault/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewFromConfig("error", "text")
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	s := NewFileStore(Options{
		Path:        filepath.Join(t.TempDir(), "records.json"),
		LockTimeout: 2 * time.Second,
		UniqueIDs:   true,
	}, testLogger())

	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestInitialize_CreatesEmptySnapshot(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestInitialize_PreservesExistingData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "keep me"}))

	// A second start-up must not wipe the snapshot.
	again := NewFileStore(Options{Path: s.Path(), LockTimeout: 2 * time.Second}, testLogger())
	require.NoError(t, again.Initialize(context.Background()))

	snap, err := again.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "keep me", snap[0]["title"])
}

func TestInitialize_ResetOverwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1"}))

	reset := NewFileStore(Options{Path: s.Path(), LockTimeout: 2 * time.Second, Reset: true}, testLogger())
	require.NoError(t, reset.Initialize(context.Background()))

	snap, err := reset.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestAppendThenFetchAll(t *testing.T) {
	s := newTestStore(t)

	rec := Record{"id": "1", "title": "write tests", "done": false}
	require.NoError(t, s.Append(context.Background(), rec))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, rec, snap[0])
}

func TestAppend_PreservesOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(context.Background(), Record{"id": fmt.Sprintf("%d", i)}))
	}

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 5)
	for i, rec := range snap {
		id, ok := rec.ID()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("%d", i), id)
	}
}

func TestAppend_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "first"}))

	err := s.Append(context.Background(), Record{"id": "1", "title": "second"})
	require.Error(t, err)
	assert.True(t, IsDuplicateID(err))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "first", snap[0]["title"])
}

func TestAppend_DuplicatesAllowedWhenDisabled(t *testing.T) {
	s := NewFileStore(Options{
		Path:        filepath.Join(t.TempDir(), "records.json"),
		LockTimeout: 2 * time.Second,
	}, testLogger())
	require.NoError(t, s.Initialize(context.Background()))

	require.NoError(t, s.Append(context.Background(), Record{"id": "1"}))
	require.NoError(t, s.Append(context.Background(), Record{"id": "1"}))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 2)
}

func TestAppend_MissingSnapshot(t *testing.T) {
	s := NewFileStore(Options{
		Path:        filepath.Join(t.TempDir(), "records.json"),
		LockTimeout: 2 * time.Second,
	}, testLogger())

	err := s.Append(context.Background(), Record{"id": "1"})
	require.Error(t, err)
	assert.True(t, IsSnapshotMissing(err))
}

func TestPatch_MergesFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "a", "done": false}))

	require.NoError(t, s.Patch(context.Background(), Record{"id": "1", "done": true}))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, Record{"id": "1", "title": "a", "done": true}, snap[0])
}

func TestPatch_MissingID(t *testing.T) {
	s := newTestStore(t)

	err := s.Patch(context.Background(), Record{"title": "no id here"})
	require.Error(t, err)
	assert.True(t, IsMissingID(err))
}

func TestPatch_UnknownID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "a"}))

	err := s.Patch(context.Background(), Record{"id": "999", "title": "b"})
	require.Error(t, err)
	assert.True(t, IsRecordNotFound(err))

	// Nothing was rewritten.
	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0]["title"])
}

func TestPatch_EmptyMergeSet(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "a"}))

	err := s.Patch(context.Background(), Record{"id": "1"})
	require.Error(t, err)
	assert.True(t, IsEmptyPatch(err))
}

func TestPatch_NumericIDMatchesStringID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "done": false}))

	// A JSON body {"id": 1, ...} decodes the id as float64.
	require.NoError(t, s.Patch(context.Background(), Record{"id": float64(1), "done": true}))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, snap[0]["done"])
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "only one"}))

	require.NoError(t, s.Delete(context.Background(), "1"))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)

	// Deleting again reports not found and leaves the store unchanged.
	err = s.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, IsRecordNotFound(err))

	snap, err = s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestDelete_RemovesAllMatches(t *testing.T) {
	s := NewFileStore(Options{
		Path:        filepath.Join(t.TempDir(), "records.json"),
		LockTimeout: 2 * time.Second,
	}, testLogger())
	require.NoError(t, s.Initialize(context.Background()))

	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "n": "a"}))
	require.NoError(t, s.Append(context.Background(), Record{"id": "2", "n": "b"}))
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "n": "c"}))

	require.NoError(t, s.Delete(context.Background(), "1"))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "b", snap[0]["n"])
}

func TestFetchAll_CorruptSnapshot(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, IsSnapshotCorrupt(err))
}

func TestLeftoverTempNeverObserved(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), Record{"id": "1", "title": "committed"}))

	// Simulate a crash between temp write and rename: a fully written temp
	// sibling exists, but the target was never advanced.
	tmp := s.Path() + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"id":"ghost"}]`), 0o644))

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "committed", snap[0]["title"])

	// The next commit replaces the leftover temp and cleans it up.
	require.NoError(t, s.Append(context.Background(), Record{"id": "2"}))
	_, statErr := os.Stat(tmp)
	assert.True(t, os.IsNotExist(statErr))

	snap, err = s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 2)
}

func TestConcurrentAppends(t *testing.T) {
	s := NewFileStore(Options{
		Path:        filepath.Join(t.TempDir(), "records.json"),
		LockTimeout: 30 * time.Second,
	}, testLogger())
	require.NoError(t, s.Initialize(context.Background()))

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Append(context.Background(), Record{"id": fmt.Sprintf("%d", i)})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "append %d failed", i)
	}

	snap, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, snap, n)
	seen := make(map[string]bool, n)
	for _, rec := range snap {
		id, ok := rec.ID()
		require.True(t, ok)
		assert.False(t, seen[id], "record %s committed twice", id)
		seen[id] = true
	}
}

func TestLockTimeout(t *testing.T) {
	s := newTestStore(t)

	// Hold the store lock externally for longer than the bound.
	guard := lockfile.New(s.LockPath(), time.Second)
	release, err := guard.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	blocked := NewFileStore(Options{
		Path:        s.Path(),
		LockTimeout: 150 * time.Millisecond,
	}, testLogger())

	start := time.Now()
	_, err = blocked.FetchAll(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsLockTimeout(err))
	assert.Less(t, elapsed, 2*time.Second, "operation should fail fast, not queue")
}
