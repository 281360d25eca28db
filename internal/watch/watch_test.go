package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/savscan/internal/checksum"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (r *recorder) fn(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, string(data))
	if r.fail {
		return errors.New("mid-write")
	}
	return nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func startWatch(t *testing.T, path string, rec *recorder, opts ...Option) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	opts = append([]Option{WithDebounce(20 * time.Millisecond)}, opts...)
	go func() {
		defer close(done)
		if err := Watch(ctx, path, rec.fn, opts...); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatch_ChangeTriggersCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.sav")
	writeFile(t, path, "v1")

	rec := &recorder{}
	startWatch(t, path, rec, WithChecksum(checksum.Sum([]byte("v1"))))

	writeFile(t, path, "v2")
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		calls := rec.snapshot()
		return len(calls) > 0 && calls[len(calls)-1] == "v2"
	}, "expected a callback with v2")
}

func TestWatch_UnchangedContentIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.sav")
	writeFile(t, path, "same")

	rec := &recorder{}
	startWatch(t, path, rec, WithChecksum(checksum.Sum([]byte("same"))))

	writeFile(t, path, "same")
	time.Sleep(200 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestWatch_OtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot.sav")
	writeFile(t, path, "v1")

	rec := &recorder{}
	startWatch(t, path, rec)

	writeFile(t, filepath.Join(dir, "other.sav"), "x")
	time.Sleep(200 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestWatch_FailureRetriedOnNextChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.sav")
	writeFile(t, path, "v1")

	rec := &recorder{fail: true}
	startWatch(t, path, rec)

	writeFile(t, path, "partial")
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		return len(rec.snapshot()) > 0
	}, "expected failing callback to run")

	rec.mu.Lock()
	rec.fail = false
	rec.mu.Unlock()

	writeFile(t, path, "complete")
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		calls := rec.snapshot()
		return len(calls) >= 2 && calls[len(calls)-1] == "complete"
	}, "watcher should keep running after a failed reload")
}

func TestWatch_ReplacedByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot.sav")
	writeFile(t, path, "v1")

	rec := &recorder{}
	startWatch(t, path, rec, WithChecksum(checksum.Sum([]byte("v1"))))

	tmp := filepath.Join(dir, "slot.sav.tmp")
	writeFile(t, tmp, "v2")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		calls := rec.snapshot()
		return len(calls) == 1 && calls[0] == "v2"
	}, "expected reload after atomic replace")
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "slot.sav"), (&recorder{}).fn)
	if err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
