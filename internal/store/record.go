package store

import (
	"fmt"
	"strconv"
)

// FieldID is the one mandatory record field. Its value must be unique
// across the collection for downstream consumers to address records.
const FieldID = "id"

// Record is one open-ended JSON object in the store. Beyond the id field
// its contents are not validated or interpreted.
type Record map[string]any

// ID returns the record's id in canonical string form, and whether the
// record carries one. Numeric ids are normalized so that a client sending
// 1 and a client sending "1" address the same record.
func (r Record) ID() (string, bool) {
	v, ok := r[FieldID]
	if !ok || v == nil {
		return "", false
	}

	switch id := v.(type) {
	case string:
		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	default:
		return fmt.Sprintf("%v", id), true
	}
}

// Fields returns a copy of the record without its id, the merge set
// applied by Patch.
func (r Record) Fields() Record {
	fields := make(Record, len(r))
	for k, v := range r {
		if k == FieldID {
			continue
		}
		fields[k] = v
	}
	return fields
}
