// Package testutil provides shared test helpers for building save files and
// save directories.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/starford/savscan/internal/storage"
)

// Header is the tag written in front of every fixture payload.
var Header = []byte{0x01, 0x00, 0x00, 0x00}

// ZlibSave returns header + zlib(payload).
func ZlibSave(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(Header)
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// DeflateSave returns header + raw-deflate(payload) with no zlib framing.
func DeflateSave(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(Header)
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// WriteSave writes a zlib save holding doc to dir/name.
func WriteSave(t *testing.T, dir, name, doc string) string {
	t.Helper()
	return WriteFile(t, dir, name, ZlibSave(t, []byte(doc)))
}

// TestSaveDir creates a temporary save directory with a storage.Provider.
func TestSaveDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir, ".sav")
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
