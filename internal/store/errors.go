// Package store implements the lock-guarded, atomically persisted record store.
package store

import (
	"fmt"
	"time"
)

// LockTimeoutError is returned when the store lock cannot be acquired
// within the configured bound.
type LockTimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("could not acquire lock %q within %v", e.Path, e.Timeout)
}

// IsLockTimeout checks if an error is a lock timeout error
func IsLockTimeout(err error) bool {
	_, ok := err.(*LockTimeoutError)
	return ok
}

// SnapshotMissingError is returned when the persisted snapshot file
// does not exist. Distinct from corruption.
type SnapshotMissingError struct {
	Path string
}

func (e *SnapshotMissingError) Error() string {
	return fmt.Sprintf("snapshot file %q does not exist", e.Path)
}

// IsSnapshotMissing checks if an error is a missing snapshot error
func IsSnapshotMissing(err error) bool {
	_, ok := err.(*SnapshotMissingError)
	return ok
}

// SnapshotCorruptError is returned when the snapshot file exists but does
// not parse as a JSON array of records.
type SnapshotCorruptError struct {
	Path string
	Err  error
}

func (e *SnapshotCorruptError) Error() string {
	return fmt.Sprintf("snapshot file %q is corrupted: %v", e.Path, e.Err)
}

func (e *SnapshotCorruptError) Unwrap() error {
	return e.Err
}

// IsSnapshotCorrupt checks if an error is a corrupt snapshot error
func IsSnapshotCorrupt(err error) bool {
	_, ok := err.(*SnapshotCorruptError)
	return ok
}

// WriteFailureError is returned when the atomic replace of the snapshot
// failed. The prior snapshot is left intact on disk.
type WriteFailureError struct {
	Path string
	Err  error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("failed to write snapshot %q: %v", e.Path, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

// IsWriteFailure checks if an error is a write failure error
func IsWriteFailure(err error) bool {
	_, ok := err.(*WriteFailureError)
	return ok
}

// RecordNotFoundError is returned when no record in the snapshot matches
// the requested id.
type RecordNotFoundError struct {
	ID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record '%s' not found", e.ID)
}

// IsRecordNotFound checks if an error is a record not found error
func IsRecordNotFound(err error) bool {
	_, ok := err.(*RecordNotFoundError)
	return ok
}

// MissingIDError is returned when an operation requires an id field and
// the input record carries none.
type MissingIDError struct{}

func (e *MissingIDError) Error() string {
	return "record is missing the 'id' field"
}

// IsMissingID checks if an error is a missing id error
func IsMissingID(err error) bool {
	_, ok := err.(*MissingIDError)
	return ok
}

// EmptyPatchError is returned when a patch carries no fields besides the
// id, so there is nothing to merge.
type EmptyPatchError struct {
	ID string
}

func (e *EmptyPatchError) Error() string {
	return fmt.Sprintf("patch for record '%s' has no fields to update", e.ID)
}

// IsEmptyPatch checks if an error is an empty patch error
func IsEmptyPatch(err error) bool {
	_, ok := err.(*EmptyPatchError)
	return ok
}

// DuplicateIDError is returned by Append when id uniqueness is enforced
// and the incoming record collides with a stored one.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("record '%s' already exists", e.ID)
}

// IsDuplicateID checks if an error is a duplicate id error
func IsDuplicateID(err error) bool {
	_, ok := err.(*DuplicateIDError)
	return ok
}
