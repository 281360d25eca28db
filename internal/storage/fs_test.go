package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempSaves(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir, ".sav")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func write(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	dir, s := tempSaves(t)
	write(t, dir, "slot1.sav", []byte("raw bytes"))
	got, err := s.Read("slot1.sav")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "raw bytes" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingIsNotExist(t *testing.T) {
	_, s := tempSaves(t)
	_, err := s.Read("nope.sav")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	dir, s := tempSaves(t)
	write(t, dir, "b.sav", []byte("b"))
	write(t, dir, "profiles/a.sav", []byte("a"))
	write(t, dir, "notes.txt", []byte("not a save"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "b.sav" || items[1].Path != "profiles/a.sav" {
		t.Errorf("paths = %s, %s", items[0].Path, items[1].Path)
	}
	if items[0].Size != 1 || items[0].Checksum == "" {
		t.Errorf("metadata = %+v", items[0])
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempSaves(t)
	for _, p := range []string{"../../etc/passwd", "../outside.sav", "/etc/shadow"} {
		if _, err := s.Read(p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("%q: err = %v, want ErrInvalidPath", p, err)
		}
	}
	if _, err := s.List("../"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("List outside root: err = %v, want ErrInvalidPath", err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing"), ".sav"); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "savscan-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name(), ".sav"); err == nil {
		t.Error("expected error when root is a file")
	}
}
