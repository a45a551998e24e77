// Package testutil provides in-process stand-ins for the external services
// the probe talks to: a forward proxy and an origin echo endpoint.
package testutil

import (
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Proxy is a minimal forward proxy for exercising clients in tests. It
// relays absolute-URI requests, tunnels CONNECT requests via hijacking, and
// optionally enforces Basic authentication with a 407 on failure.
type Proxy struct {
	srv  *httptest.Server
	user string
	pass string

	mu       sync.Mutex
	connects int
	relays   int
	rejects  int
}

func NewProxy() *Proxy {
	return newProxy("", "")
}

// NewAuthProxy requires the given Basic credentials on every request.
func NewAuthProxy(user, pass string) *Proxy {
	return newProxy(user, pass)
}

func newProxy(user, pass string) *Proxy {
	p := &Proxy{user: user, pass: pass}
	p.srv = httptest.NewServer(http.HandlerFunc(p.handle))
	return p
}

func (p *Proxy) URL() string {
	return p.srv.URL
}

func (p *Proxy) Host() string {
	return strings.TrimPrefix(p.srv.URL, "http://")
}

func (p *Proxy) Close() {
	p.srv.Close()
}

// Connects reports how many CONNECT tunnels were established.
func (p *Proxy) Connects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

// Relays reports how many absolute-URI requests were forwarded.
func (p *Proxy) Relays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.relays
}

// Rejects reports how many requests were refused with 407.
func (p *Proxy) Rejects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rejects
}

func (p *Proxy) handle(w http.ResponseWriter, r *http.Request) {
	if p.user != "" && !p.authorized(r) {
		p.mu.Lock()
		p.rejects++
		p.mu.Unlock()
		w.Header().Set("Proxy-Authenticate", `Basic realm="proxyprobe"`)
		http.Error(w, "proxy authentication required", http.StatusProxyAuthRequired)
		return
	}

	if r.Method == http.MethodConnect {
		p.handleConnect(w, r)
		return
	}
	p.handleRelay(w, r)
}

func (p *Proxy) authorized(r *http.Request) bool {
	header := r.Header.Get("Proxy-Authorization")
	if !strings.HasPrefix(header, "Basic ") {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return false
	}
	return string(decoded) == p.user+":"+p.pass
}

func (p *Proxy) handleConnect(w http.ResponseWriter, r *http.Request) {
	target := r.Host
	if _, _, err := net.SplitHostPort(target); err != nil {
		target = net.JoinHostPort(target, "443")
	}

	serverConn, err := net.DialTimeout("tcp", target, 5*time.Second)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	hj, ok := w.(http.Hijacker)
	if !ok {
		serverConn.Close()
		http.Error(w, "hijacking not supported", http.StatusInternalServerError)
		return
	}
	clientConn, brw, err := hj.Hijack()
	if err != nil {
		serverConn.Close()
		return
	}

	p.mu.Lock()
	p.connects++
	p.mu.Unlock()

	_, _ = brw.WriteString("HTTP/1.1 200 Connection Established\r\n\r\n")
	_ = brw.Flush()

	// Forward anything the server's reader buffered ahead of the hijack.
	if n := brw.Reader.Buffered(); n > 0 {
		peeked, _ := brw.Reader.Peek(n)
		_, _ = serverConn.Write(peeked)
	}

	done := make(chan struct{}, 2)
	pipe := func(dst io.Writer, src io.Reader) {
		_, _ = io.Copy(dst, src)
		done <- struct{}{}
	}
	go pipe(serverConn, clientConn)
	go pipe(clientConn, serverConn)
	<-done
	clientConn.Close()
	serverConn.Close()
	<-done
}

func (p *Proxy) handleRelay(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.relays++
	p.mu.Unlock()

	outbound := r.Clone(r.Context())
	outbound.RequestURI = ""
	outbound.Header.Del("Proxy-Authorization")
	if outbound.URL.Scheme == "" {
		outbound.URL.Scheme = "http"
	}
	if outbound.URL.Host == "" {
		outbound.URL.Host = r.Host
	}

	resp, err := http.DefaultTransport.RoundTrip(outbound)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
