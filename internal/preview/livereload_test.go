package preview

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func connect(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

// readUntil reads lines until one contains want or the deadline passes.
func readUntil(r *bufio.Reader, want string, within time.Duration) bool {
	found := make(chan bool, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				found <- false
				return
			}
			if strings.Contains(line, want) {
				found <- true
				return
			}
		}
	}()
	select {
	case ok := <-found:
		return ok
	case <-time.After(within):
		return false
	}
}

func waitForClients(t *testing.T, hub *LiveReloadHub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, time.Second, 5*time.Millisecond)
}

func TestLiveReloadInitialEventCarriesLastHash(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())
	defer hub.Shutdown()
	hub.Broadcast("abc123")

	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := connect(t, srv.URL)
	require.True(t, readUntil(r, `data: {"hash":"abc123"}`, time.Second))
}

func TestLiveReloadInitialEventWithoutBuild(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := connect(t, srv.URL)
	require.True(t, readUntil(r, `data: {"hash":""}`, time.Second))
}

func TestLiveReloadBroadcastSendsEvent(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := connect(t, srv.URL)
	waitForClients(t, hub, 1)

	hub.Broadcast("newhash")
	require.True(t, readUntil(r, "newhash", time.Second))
}

func TestLiveReloadDuplicateBroadcastIgnored(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := connect(t, srv.URL)
	waitForClients(t, hub, 1)

	hub.Broadcast("hash1")
	require.True(t, readUntil(r, "hash1", time.Second))

	hub.Broadcast("hash1")
	require.False(t, readUntil(r, "hash1", 200*time.Millisecond))
}

func TestLiveReloadShutdownDisconnectsClients(t *testing.T) {
	hub := NewLiveReloadHub(nil, quietLogger())

	srv := httptest.NewServer(hub)
	defer srv.Close()

	_ = connect(t, srv.URL)
	waitForClients(t, hub, 1)

	hub.Shutdown()
	require.Equal(t, 0, hub.Clients())

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
