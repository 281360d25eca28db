package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/savscan/internal/testutil"
)

type dirRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *dirRecorder) fn(kind, path, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+path)
}

func (r *dirRecorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func startDir(t *testing.T) (string, *dirRecorder) {
	t.Helper()
	dir, store := testutil.TestSaveDir(t)
	testutil.WriteSave(t, dir, "existing.sav", `{}`)

	rec := &dirRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Dir(ctx, store, dir, rec.fn, WithDebounce(20*time.Millisecond)); err != nil {
			t.Errorf("Dir: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return dir, rec
}

func TestDir_NewSaveReported(t *testing.T) {
	dir, rec := startDir(t)
	testutil.WriteSave(t, dir, "new.sav", `{"a": 1}`)
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("created:new.sav")
	}, "expected created:new.sav")
	if rec.has("created:existing.sav") {
		t.Error("saves present at start should not be reported")
	}
}

func TestDir_UpdateReported(t *testing.T) {
	dir, rec := startDir(t)
	testutil.WriteSave(t, dir, "existing.sav", `{"changed": true}`)
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("updated:existing.sav")
	}, "expected updated:existing.sav")
}

func TestDir_NewDirWatched(t *testing.T) {
	dir, rec := startDir(t)
	if err := os.MkdirAll(filepath.Join(dir, "slots"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	testutil.WriteSave(t, dir, "slots/deep.sav", `[]`)
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("created:slots/deep.sav")
	}, "save in new subdir not reported")
}

func TestDir_RenameReconciles(t *testing.T) {
	dir, rec := startDir(t)
	if err := os.Rename(filepath.Join(dir, "existing.sav"), filepath.Join(dir, "renamed.sav")); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("deleted:existing.sav") && rec.has("created:renamed.sav")
	}, "rename should report the old path deleted and the new path created")
}

func TestDir_IgnoresOtherExtensions(t *testing.T) {
	dir, rec := startDir(t)
	testutil.WriteFile(t, dir, "notes.txt", []byte("x"))
	time.Sleep(200 * time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}
}
