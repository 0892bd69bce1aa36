package store

import "testing"

func TestRecordID(t *testing.T) {
	testCases := []struct {
		name     string
		record   Record
		expected string
		ok       bool
	}{
		{"string id", Record{"id": "abc"}, "abc", true},
		{"integral float id", Record{"id": float64(1)}, "1", true},
		{"fractional float id", Record{"id": 1.5}, "1.5", true},
		{"int id", Record{"id": 7}, "7", true},
		{"bool id", Record{"id": true}, "true", true},
		{"nil id", Record{"id": nil}, "", false},
		{"no id", Record{"title": "x"}, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := tc.record.ID()
			if ok != tc.ok {
				t.Fatalf("ID() ok = %v, expected %v", ok, tc.ok)
			}
			if id != tc.expected {
				t.Errorf("ID() = %q, expected %q", id, tc.expected)
			}
		})
	}
}

func TestRecordFields(t *testing.T) {
	rec := Record{"id": "1", "title": "a", "done": false}

	fields := rec.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if _, ok := fields["id"]; ok {
		t.Error("Fields() must not include the id")
	}
	if fields["title"] != "a" || fields["done"] != false {
		t.Errorf("unexpected fields: %+v", fields)
	}

	// The copy must not alias the record.
	fields["title"] = "changed"
	if rec["title"] != "a" {
		t.Error("mutating the merge set leaked into the record")
	}
}

func TestRecordFields_OnlyID(t *testing.T) {
	fields := Record{"id": "1"}.Fields()
	if len(fields) != 0 {
		t.Errorf("expected empty merge set, got %+v", fields)
	}
}
