package lockfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	guard := New(path, time.Second)

	release, err := guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	release()

	// Released lock can be re-acquired immediately.
	release, err = guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("re-Acquire failed: %v", err)
	}
	release()
}

func TestAcquire_TimesOutWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	holder := New(path, time.Second)
	release, err := holder.Acquire(context.Background())
	if err != nil {
		t.Fatalf("holder Acquire failed: %v", err)
	}
	defer release()

	waiter := New(path, 150*time.Millisecond)
	start := time.Now()
	_, err = waiter.Acquire(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("acquire returned before the bound: %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("acquire blocked past the bound: %v", elapsed)
	}
}

func TestAcquire_AfterHolderReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	holder := New(path, time.Second)
	release, err := holder.Acquire(context.Background())
	if err != nil {
		t.Fatalf("holder Acquire failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	waiter := New(path, 2*time.Second)
	releaseWaiter, err := waiter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("waiter should acquire once holder releases: %v", err)
	}
	releaseWaiter()
}

func TestGuardAccessors(t *testing.T) {
	guard := New("/tmp/x.lock", 5*time.Second)
	if guard.Path() != "/tmp/x.lock" {
		t.Errorf("Path() = %q", guard.Path())
	}
	if guard.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", guard.Timeout())
	}
}
