package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Echo serves the echo endpoint's JSON body, {"origin": "..."}, cycling
// through its configured origins round-robin. A delay simulates a slow
// upstream.
type Echo struct {
	srv     *httptest.Server
	origins []string
	delay   time.Duration

	mu   sync.Mutex
	next int
	hits int
}

func NewEcho(origins ...string) *Echo {
	return newEcho(0, false, origins)
}

// NewDelayedEcho waits for the given duration before answering.
func NewDelayedEcho(delay time.Duration, origins ...string) *Echo {
	return newEcho(delay, false, origins)
}

// NewTLSEcho serves over TLS with a self-signed certificate.
func NewTLSEcho(origins ...string) *Echo {
	return newEcho(0, true, origins)
}

func newEcho(delay time.Duration, useTLS bool, origins []string) *Echo {
	if len(origins) == 0 {
		origins = []string{"127.0.0.1"}
	}
	e := &Echo{origins: origins, delay: delay}
	if useTLS {
		e.srv = httptest.NewTLSServer(http.HandlerFunc(e.handle))
	} else {
		e.srv = httptest.NewServer(http.HandlerFunc(e.handle))
	}
	return e
}

func (e *Echo) URL() string {
	return e.srv.URL
}

func (e *Echo) Close() {
	e.srv.Close()
}

func (e *Echo) Hits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits
}

func (e *Echo) handle(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	origin := e.origins[e.next%len(e.origins)]
	e.next++
	e.hits++
	e.mu.Unlock()

	if e.delay > 0 {
		time.Sleep(e.delay)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"origin": origin})
}
