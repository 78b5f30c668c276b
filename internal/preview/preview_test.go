package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/malvolio/internal/site"
)

type fakeBuilder struct {
	mu      sync.Mutex
	calls   int
	running int32
	overlap atomic.Bool
	delay   time.Duration
	errs    []error // returned by successive calls; nil entries succeed
}

func (b *fakeBuilder) Build() (*site.Report, error) {
	if atomic.AddInt32(&b.running, 1) > 1 {
		b.overlap.Store(true)
	}
	defer atomic.AddInt32(&b.running, -1)
	time.Sleep(b.delay)

	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.calls
	b.calls++
	if n < len(b.errs) && b.errs[n] != nil {
		return nil, b.errs[n]
	}
	return &site.Report{BuildID: fmt.Sprintf("build-%d", n)}, nil
}

func (b *fakeBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// fakeWatcher hands its onChange callback to the test.
type fakeWatcher struct {
	paths    []string
	onChange chan func()
	err      error
}

func (w *fakeWatcher) Watch(ctx context.Context, paths []string, onChange func()) error {
	w.paths = paths
	if w.err != nil {
		return w.err
	}
	w.onChange <- onChange
	<-ctx.Done()
	return nil
}

type fakeServer struct {
	root    string
	port    int
	started chan struct{}
}

func (s *fakeServer) Serve(ctx context.Context, root string, port int) error {
	s.root, s.port = root, port
	close(s.started)
	<-ctx.Done()
	return nil
}

func newFakes() (*fakeWatcher, *fakeServer) {
	return &fakeWatcher{onChange: make(chan func(), 1)}, &fakeServer{started: make(chan struct{})}
}

func TestRunInitialBuildFailureIsReturned(t *testing.T) {
	boom := errors.New("boom")
	w, s := newFakes()
	err := Run(t.Context(), Options{
		Builder: &fakeBuilder{errs: []error{boom}},
		Watcher: w,
		Server:  s,
		Logger:  quietLogger(),
	})
	require.ErrorIs(t, err, boom)
	select {
	case <-s.started:
		t.Fatal("server started after failed build")
	default:
	}
}

func TestRunRebuildsOnChange(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())
	defer hub.Shutdown()
	b := &fakeBuilder{errs: []error{nil, errors.New("template broke")}}
	w, s := newFakes()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Builder:    b,
			Watcher:    w,
			Server:     s,
			Hub:        hub,
			Root:       "docs",
			Port:       8000,
			WatchPaths: []string{"templates", "content"},
			Logger:     quietLogger(),
		})
	}()

	onChange := <-w.onChange
	<-s.started
	require.Equal(t, []string{"templates", "content"}, w.paths)
	require.Equal(t, "docs", s.root)
	require.Equal(t, 8000, s.port)
	require.Equal(t, "build-0", hub.Current())

	// A failed rebuild keeps the last announced build.
	onChange()
	require.Eventually(t, func() bool { return b.count() == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, "build-0", hub.Current())

	onChange()
	require.Eventually(t, func() bool { return b.count() == 3 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return hub.Current() == "build-2"
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunCoalescesOverlappingTriggers(t *testing.T) {
	b := &fakeBuilder{delay: 50 * time.Millisecond}
	w, s := newFakes()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Builder: b, Watcher: w, Server: s, Logger: quietLogger()})
	}()

	onChange := <-w.onChange
	onChange()
	// Let the first rebuild start, then pile up triggers while it runs.
	require.Eventually(t, func() bool { return atomic.LoadInt32(&b.running) == 1 }, time.Second, time.Millisecond)
	for range 10 {
		onChange()
	}

	require.Eventually(t, func() bool { return b.count() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, 3, b.count(), "initial build, one rebuild, one coalesced follow-up")
	require.False(t, b.overlap.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRunReturnsWatcherError(t *testing.T) {
	boom := errors.New("watch failed")
	w, s := newFakes()
	w.err = boom

	err := Run(t.Context(), Options{Builder: &fakeBuilder{}, Watcher: w, Server: s, Logger: quietLogger()})
	require.ErrorIs(t, err, boom)
}
