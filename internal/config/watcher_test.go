package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/srtcast/srtcast/internal/session"
)

func writeDefaults(t *testing.T, path string, bitrate int) {
	t.Helper()
	body := fmt.Sprintf("[defaults]\nbitrate = %d\nlatency_ms = 200\nfps = 30\n", bitrate)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newDefaultsWatcher(t *testing.T, path string, opts ...WatcherOption[session.Defaults]) *Watcher[session.Defaults] {
	t.Helper()
	opts = append([]WatcherOption[session.Defaults]{WithDebounce[session.Defaults](50 * time.Millisecond)}, opts...)
	return NewConfigWatcher(path, LoadDefaults, newTestLogger(), opts...)
}

func TestDefaultsWatcher_BasicReload(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 2048)

	received := make(chan session.Defaults, 1)
	watcher := newDefaultsWatcher(t, tmpFile.Name())
	watcher.OnReload(func(d session.Defaults) {
		received <- d
	})

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}
	defer func() {
		if stopErr := watcher.Stop(); stopErr != nil {
			t.Errorf("watcher.Stop failed: %v", stopErr)
		}
	}()

	// Wait for watcher to initialize
	time.Sleep(100 * time.Millisecond)

	writeDefaults(t, tmpFile.Name(), 8192)

	select {
	case d := <-received:
		if d.Bitrate != 8192 {
			t.Errorf("got bitrate %d, want 8192", d.Bitrate)
		}
		if d.LatencyMs != 200 {
			t.Errorf("got latency %d, want 200", d.LatencyMs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for defaults reload")
	}
}

func TestDefaultsWatcher_MultipleHandlers(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 2048)

	var count atomic.Int32
	var mu sync.Mutex
	var seen []session.Defaults

	watcher := newDefaultsWatcher(t, tmpFile.Name())
	for range 3 {
		watcher.OnReload(func(d session.Defaults) {
			count.Add(1)
			mu.Lock()
			seen = append(seen, d)
			mu.Unlock()
		})
	}

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}
	defer func() {
		if stopErr := watcher.Stop(); stopErr != nil {
			t.Errorf("watcher.Stop failed: %v", stopErr)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	writeDefaults(t, tmpFile.Name(), 4096)
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 handlers called, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, d := range seen {
		if d.Bitrate != 4096 {
			t.Errorf("handler %d got bitrate %d, want 4096", i, d.Bitrate)
		}
	}
}

func TestDefaultsWatcher_Unsubscribe(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 1000)

	var count1, count2 atomic.Int32
	watcher := newDefaultsWatcher(t, tmpFile.Name())

	watcher.OnReload(func(_ session.Defaults) { count1.Add(1) })
	unsub2 := watcher.OnReload(func(_ session.Defaults) { count2.Add(1) })

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}
	defer func() {
		if stopErr := watcher.Stop(); stopErr != nil {
			t.Errorf("watcher.Stop failed: %v", stopErr)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	writeDefaults(t, tmpFile.Name(), 2000)
	time.Sleep(200 * time.Millisecond)

	unsub2()

	writeDefaults(t, tmpFile.Name(), 3000)
	time.Sleep(200 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
}

func TestDefaultsWatcher_ErrorHandler(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 2048)

	errorReceived := make(chan error, 1)
	defaultsReceived := make(chan session.Defaults, 1)

	watcher := newDefaultsWatcher(t, tmpFile.Name(),
		WithErrorHandler[session.Defaults](func(err error) {
			errorReceived <- err
		}),
	)
	watcher.OnReload(func(d session.Defaults) {
		defaultsReceived <- d
	})

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}
	defer func() {
		if stopErr := watcher.Stop(); stopErr != nil {
			t.Errorf("watcher.Stop failed: %v", stopErr)
		}
	}()

	// Write invalid TOML
	time.Sleep(100 * time.Millisecond)
	if writeErr := os.WriteFile(tmpFile.Name(), []byte("invalid toml [[["), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	select {
	case <-errorReceived:
		// Expected
	case <-defaultsReceived:
		t.Fatal("reload handler should not be called on parse error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestDefaultsWatcher_Debounce(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 0)

	var count atomic.Int32
	var lastBitrate atomic.Int32

	watcher := NewConfigWatcher(
		tmpFile.Name(),
		LoadDefaults,
		newTestLogger(),
		WithDebounce[session.Defaults](200*time.Millisecond),
	)
	watcher.OnReload(func(d session.Defaults) {
		count.Add(1)
		lastBitrate.Store(int32(d.Bitrate))
	})

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}
	defer func() {
		if stopErr := watcher.Stop(); stopErr != nil {
			t.Errorf("watcher.Stop failed: %v", stopErr)
		}
	}()

	// Rapid changes within the debounce window collapse to one reload
	time.Sleep(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		writeDefaults(t, tmpFile.Name(), i*1000)
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got := lastBitrate.Load(); got != 5000 {
		t.Errorf("expected final bitrate 5000, got %d", got)
	}
}

func TestDefaultsWatcher_Stop(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "srtcast_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()
	writeDefaults(t, tmpFile.Name(), 1000)

	var count atomic.Int32
	watcher := newDefaultsWatcher(t, tmpFile.Name())
	watcher.OnReload(func(_ session.Defaults) {
		count.Add(1)
	})

	if startErr := watcher.Start(); startErr != nil {
		t.Fatal(startErr)
	}

	time.Sleep(100 * time.Millisecond)

	if stopErr := watcher.Stop(); stopErr != nil {
		t.Fatal(stopErr)
	}

	// Changes after stop should not trigger handlers
	writeDefaults(t, tmpFile.Name(), 9000)
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 calls after stop, got %d", got)
	}
}
