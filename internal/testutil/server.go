package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// NewIPv4TestServer starts a test server bound to IPv4 loopback to avoid
// IPv6 listener issues in sandboxes.
func NewIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen on IPv4 loopback: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	t.Cleanup(server.Close)
	return server
}

// DeadURL returns the URL of a server that has already been shut down, so
// requests to it fail at the transport level.
func DeadURL(t *testing.T) string {
	t.Helper()

	server := NewIPv4TestServer(t, http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}

// StaticResponder answers every request with status and body and counts
// the requests it saw.
type StaticResponder struct {
	Status int
	Body   string
	hits   atomic.Int64
	last   atomic.Value
}

// ServeHTTP implements http.Handler.
func (s *StaticResponder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	s.last.Store(r.URL.EscapedPath())

	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s.Body))
}

// Hits returns how many requests were served.
func (s *StaticResponder) Hits() int {
	return int(s.hits.Load())
}

// LastPath returns the escaped path of the most recent request.
func (s *StaticResponder) LastPath() string {
	p, _ := s.last.Load().(string)
	return p
}
