package preview

import (
	"bufio"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/malvolio/internal/logfields"
	"git.home.luguber.info/inful/malvolio/internal/metrics"
)

const (
	heartbeatInterval = 30 * time.Second
	subscriberBuffer  = 8
)

// LiveReloadHub fans "site rebuilt" events out to browsers over server-sent
// events. Each event carries the build hash; browsers reload when it changes.
type LiveReloadHub struct {
	mu      sync.Mutex
	subs    map[*subscriber]struct{}
	current string
	stopped bool

	recorder metrics.LiveReloadRecorder
	logger   *slog.Logger
}

// subscriber is one open /livereload stream.
type subscriber struct {
	hashes chan string
	gone   chan struct{}
	once   sync.Once
}

func (s *subscriber) disconnect() { s.once.Do(func() { close(s.gone) }) }

// NewLiveReloadHub creates a hub. A nil recorder disables metrics.
func NewLiveReloadHub(rec metrics.LiveReloadRecorder, logger *slog.Logger) *LiveReloadHub {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveReloadHub{subs: make(map[*subscriber]struct{}), recorder: rec, logger: logger}
}

// Clients returns the number of connected browsers.
func (h *LiveReloadHub) Clients() int {
	h.mu.Lock()
	n := len(h.subs)
	h.mu.Unlock()
	return n
}

// Current returns the last broadcast hash.
func (h *LiveReloadHub) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *LiveReloadHub) subscribe() (*subscriber, string, bool) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil, "", false
	}
	sub := &subscriber{hashes: make(chan string, subscriberBuffer), gone: make(chan struct{})}
	h.subs[sub] = struct{}{}
	baseline, n := h.current, len(h.subs)
	h.mu.Unlock()
	h.recorder.SetLiveReloadClients(n)
	return sub, baseline, true
}

func (h *LiveReloadHub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	_, present := h.subs[sub]
	delete(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()
	sub.disconnect()
	if present {
		h.recorder.SetLiveReloadClients(n)
	}
}

// ServeHTTP holds the stream open until the browser leaves or the hub stops.
// The first event is the current hash so the page has a baseline to compare
// against.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	sub, baseline, ok := h.subscribe()
	if !ok {
		http.Error(w, "server is stopping", http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(sub)

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")

	out := bufio.NewWriter(w)
	write := func(frame string) error {
		if _, err := out.WriteString(frame); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	ping := time.NewTicker(heartbeatInterval)
	defer ping.Stop()

	frame := ": connected\n\n" + hashEvent(baseline)
	for {
		if err := write(frame); err != nil {
			h.logger.Debug("Live reload client went away", logfields.Error(err))
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-sub.gone:
			return
		case <-ping.C:
			frame = ": ping\n\n"
		case hash := <-sub.hashes:
			frame = hashEvent(hash)
		}
	}
}

func hashEvent(hash string) string {
	return fmt.Sprintf("data: {\"hash\":%q}\n\n", hash)
}

// Broadcast announces a new build. Empty hashes and repeats of the current
// hash are ignored. A browser that has fallen a full buffer behind is
// disconnected and will reconnect on its own.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	if h.stopped || hash == "" || hash == h.current {
		h.mu.Unlock()
		return
	}
	h.current = hash
	targets := slices.Collect(maps.Keys(h.subs))
	h.mu.Unlock()

	var slow []*subscriber
	for _, sub := range targets {
		select {
		case sub.hashes <- hash:
		default:
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		h.unsubscribe(sub)
	}
	h.recorder.IncLiveReloadBroadcast()
	h.logger.Debug("Live reload broadcast",
		slog.String("hash", hash),
		logfields.Count(len(targets)),
		slog.Int("dropped", len(slow)))
}

// Shutdown disconnects every browser. Later subscriptions are refused.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	subs := h.subs
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()
	for sub := range subs {
		sub.disconnect()
	}
	h.recorder.SetLiveReloadClients(0)
}

// LiveReloadScript connects to /livereload and reloads the page on every
// event after the first.
const LiveReloadScript = `(() => {
  if (window.__MALVOLIO_LR__) return;
  window.__MALVOLIO_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let first = true;
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (first) { first = false; current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
