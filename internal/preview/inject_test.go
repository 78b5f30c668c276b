package preview

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveThrough(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestInjectLiveReloadBeforeBodyEnd(t *testing.T) {
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>hi</p>"))
		_, _ = w.Write([]byte("</body></html>"))
	}))

	rec := serveThrough(h, "/thought.html")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html><body><p>hi</p>"+scriptTag+"</body></html>", rec.Body.String())
}

func TestInjectLiveReloadSkipsNonHTMLPaths(t *testing.T) {
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("body{}</body>"))
	}))

	rec := serveThrough(h, "/style.css")
	require.Equal(t, "body{}</body>", rec.Body.String())
}

func TestInjectLiveReloadSkipsNonHTMLContentType(t *testing.T) {
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("</body>"))
	}))

	rec := serveThrough(h, "/")
	require.Equal(t, "</body>", rec.Body.String())
}

func TestInjectLiveReloadKeepsErrorStatus(t *testing.T) {
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))

	rec := serveThrough(h, "/missing.html")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotContains(t, rec.Body.String(), scriptTag)
}

func TestInjectLiveReloadPassesThroughLargePages(t *testing.T) {
	big := "<html><body>" + strings.Repeat("x", maxInjectSize) + "</body></html>"
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(big[:100]))
		_, _ = w.Write([]byte(big[100:]))
	}))

	rec := serveThrough(h, "/")
	require.Equal(t, big, rec.Body.String())
}

func TestInjectLiveReloadWithoutBodyTag(t *testing.T) {
	h := injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>fragment</p>"))
	}))

	rec := serveThrough(h, "/")
	require.Equal(t, "<p>fragment</p>", rec.Body.String())
}
