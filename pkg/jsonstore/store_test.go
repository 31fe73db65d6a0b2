package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func TestReadMissingFileKeepsDefault(t *testing.T) {
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	records := []record{{ID: "default"}}
	if err := s.Read("missing.json", &records); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 1 || records[0].ID != "default" {
		t.Errorf("default was modified: %+v", records)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}
	if err := s.Write("records.json", want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got []record
	if err := s.Read("records.json", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].Value != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := s.Write("records.json", []record{{ID: "a"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "records.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after write")
	}
}

func TestUpdateReadModifyWrite(t *testing.T) {
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// First update sees the default.
	err = Update(s, "records.json", []record{}, func(cur []record) ([]record, error) {
		if len(cur) != 0 {
			t.Errorf("expected default on first update, got %+v", cur)
		}
		return append(cur, record{ID: "a"}), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Second update sees the first write.
	err = Update(s, "records.json", []record{}, func(cur []record) ([]record, error) {
		return append(cur, record{ID: "b"}), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got []record
	if err := s.Read("records.json", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("updates not applied in order: %+v", got)
	}
}

func TestUpdateErrorAbortsWrite(t *testing.T) {
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Write("records.json", []record{{ID: "a"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sentinel := errors.New("rejected")
	err = Update(s, "records.json", []record{}, func(cur []record) ([]record, error) {
		return nil, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Update error = %v, want sentinel", err)
	}

	var got []record
	if err := s.Read("records.json", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("failed update must not modify the file: %+v", got)
	}
}

func TestOpenFallsBackWhenUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := filepath.Join(t.TempDir(), "readonly")
	if err := os.MkdirAll(dir, 0o555); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	s, err := Open(filepath.Join(dir, "data"), nil)
	if err != nil {
		t.Fatalf("Open should fall back, got error: %v", err)
	}
	if s.Dir() == filepath.Join(dir, "data") {
		t.Error("expected fallback directory, got primary")
	}
	if err := s.Write("probe.json", []record{}); err != nil {
		t.Errorf("fallback store not writable: %v", err)
	}
}
