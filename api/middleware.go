package api

import (
	"bytes"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// loggingMiddleware records method, path, status, and latency of every
// API request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// corsMiddleware allows browser clients from any origin. The game has no
// cookies or per-user credentials beyond the move token, so a permissive
// policy is safe here.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// chaosInjector deliberately fails every Nth request passing through it.
// It exercises client retry paths without touching game logic.
type chaosInjector struct {
	every   uint64
	counter atomic.Uint64
}

func newChaosInjector(every int) *chaosInjector {
	return &chaosInjector{every: uint64(every)}
}

func (c *chaosInjector) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.counter.Add(1)%c.every == 0 {
			respondError(w, http.StatusInternalServerError, "injected fault")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// readCache is a short-lived response cache for the read endpoints. Reads
// are idempotent and side-effect free, so serving a response up to one TTL
// old never affects correctness; mutations invalidate it anyway so polls
// converge faster.
type readCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	status      int
	contentType string
	body        []byte
	expires     time.Time
}

func newReadCache(ttl time.Duration) *readCache {
	return &readCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// wrap serves GET responses from the cache within the freshness window.
func (c *readCache) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path

		c.mu.Lock()
		entry, ok := c.entries[key]
		if ok && c.now().Before(entry.expires) {
			c.mu.Unlock()
			if entry.contentType != "" {
				w.Header().Set("Content-Type", entry.contentType)
			}
			w.WriteHeader(entry.status)
			w.Write(entry.body)
			return
		}
		c.mu.Unlock()

		recorder := &responseRecorder{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.status < 300 {
			c.mu.Lock()
			c.entries[key] = &cacheEntry{
				status:      recorder.status,
				contentType: recorder.header.Get("Content-Type"),
				body:        recorder.body.Bytes(),
				expires:     c.now().Add(c.ttl),
			}
			c.mu.Unlock()
		}

		if ct := recorder.header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(recorder.status)
		w.Write(recorder.body.Bytes())
	})
}

// invalidate drops every cached response.
func (c *readCache) invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// responseRecorder captures a handler's response for caching.
type responseRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	return r.body.Write(data)
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
}
