package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_CreatesTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	if err := WriteFile(path, []byte(`[]`)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading target failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("unexpected contents: %s", data)
	}

	if _, err := os.Stat(TempPath(path)); !os.IsNotExist(err) {
		t.Error("temp file should not remain after a successful write")
	}
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("expected replaced contents, got %s", data)
	}
}

func TestWriteFile_FailureLeavesTargetIntact(t *testing.T) {
	// A target inside a missing directory makes the temp create fail.
	path := filepath.Join(t.TempDir(), "missing", "data.json")

	if err := WriteFile(path, []byte("x")); err == nil {
		t.Fatal("expected error writing into missing directory")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("target must not exist after a failed write")
	}
}

func TestWriteFile_OverwritesLeftoverTemp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(TempPath(path), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("fresh")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "fresh" {
		t.Errorf("stale temp contents leaked into target: %s", data)
	}
}

func TestTempPath(t *testing.T) {
	if got := TempPath("/tmp/db.json"); got != "/tmp/db.json.tmp" {
		t.Errorf("TempPath = %q", got)
	}
}
