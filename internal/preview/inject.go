package preview

import (
	"bytes"
	"net/http"
	"slices"
	"strings"
)

const (
	scriptPath    = "/livereload.js"
	scriptTag     = `<script async src="` + scriptPath + `"></script>`
	maxInjectSize = 512 * 1024
)

// injectLiveReload adds the live-reload script tag to HTML pages served by next.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p != "/" && p != "" && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, ".html") {
			next.ServeHTTP(w, r)
			return
		}
		inj := &liveReloadInjector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

type injectMode int

const (
	modeUndecided injectMode = iota
	modeBuffer
	modePassthrough
)

// liveReloadInjector holds back an HTML body so the script tag can go in
// before </body>. Anything else, and bodies over maxInjectSize, stream
// straight through.
type liveReloadInjector struct {
	http.ResponseWriter
	status int
	sent   bool
	mode   injectMode
	body   bytes.Buffer
}

func (l *liveReloadInjector) WriteHeader(code int) {
	l.status = code
	if l.mode == modePassthrough {
		l.sendHeader()
	}
}

func (l *liveReloadInjector) sendHeader() {
	if !l.sent {
		l.sent = true
		l.ResponseWriter.WriteHeader(l.status)
	}
}

func (l *liveReloadInjector) decide() injectMode {
	if l.status != http.StatusOK {
		return modePassthrough
	}
	if ct := l.Header().Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return modePassthrough
	}
	return modeBuffer
}

// flushRaw switches to passthrough and releases whatever was held back.
func (l *liveReloadInjector) flushRaw() error {
	l.mode = modePassthrough
	l.Header().Del("Content-Length")
	l.sendHeader()
	_, err := l.body.WriteTo(l.ResponseWriter)
	return err
}

func (l *liveReloadInjector) Write(data []byte) (int, error) {
	if l.mode == modeUndecided {
		l.mode = l.decide()
	}
	if l.mode == modeBuffer && l.body.Len()+len(data) > maxInjectSize {
		if err := l.flushRaw(); err != nil {
			return 0, err
		}
	}
	if l.mode == modePassthrough {
		l.sendHeader()
		return l.ResponseWriter.Write(data)
	}
	return l.body.Write(data)
}

// finalize writes the held-back body with the script tag added.
func (l *liveReloadInjector) finalize() {
	if l.mode != modeBuffer || l.body.Len() == 0 {
		l.sendHeader()
		return
	}
	page := l.body.Bytes()
	if at := bytes.LastIndex(page, []byte("</body>")); at >= 0 {
		page = slices.Concat(page[:at], []byte(scriptTag), page[at:])
	}
	l.Header().Del("Content-Length")
	l.sendHeader()
	_, _ = l.ResponseWriter.Write(page)
}
