// Package atomicfile replaces a file's contents all-or-nothing: the payload
// is written to a temp sibling, forced to durable storage, then renamed over
// the target. A reader always sees either the old or the new contents.
package atomicfile

import (
	"os"

	"github.com/taskvault/taskvault/internal/logger"
)

// TempPath returns the temp sibling used while replacing path. The name is
// deterministic, so concurrent writers to the same target must be excluded
// externally.
func TempPath(path string) string {
	return path + ".tmp"
}

// WriteFile durably replaces the contents of path with data. On any failure
// the target keeps its previous contents. A leftover temp file is removed
// best-effort; removal failure is logged and never reported to the caller.
func WriteFile(path string, data []byte) error {
	tmp := TempPath(path)

	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			if rmErr := os.Remove(tmp); rmErr != nil {
				logger.Warn("Failed to clean up temp file",
					logger.String("path", tmp),
					logger.Error(rmErr))
			}
		}
	}()

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	// Flush to disk before the rename so a crash cannot publish a
	// partially written snapshot.
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
