package store

import (
	"encoding/json"
	"os"
)

// Snapshot is the complete ordered sequence of records at one point in
// time. Insertion order is preserved through Append but carries no other
// meaning.
type Snapshot []Record

// ReadSnapshot loads and parses the persisted snapshot at path. A missing
// file yields SnapshotMissingError, an unparseable one SnapshotCorruptError.
// It never returns a partially parsed result.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &SnapshotMissingError{Path: path}
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &SnapshotCorruptError{Path: path, Err: err}
	}

	// A bare "null" unmarshals to a nil slice; normalize to an empty sequence.
	if snap == nil {
		snap = Snapshot{}
	}

	return snap, nil
}

// Encode serializes the snapshot as one JSON array.
func (s Snapshot) Encode() ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	return json.Marshal(s)
}
