package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a settable clock shared by the provider under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// tokenServer is a mock client-credentials endpoint.
type tokenServer struct {
	*httptest.Server

	calls int32

	mu          sync.Mutex
	status      int
	body        string
	lastRequest *http.Request
	delay       time.Duration
}

func newTokenServer(t *testing.T, accessToken string, expiresIn int) *tokenServer {
	t.Helper()
	b, _ := json.Marshal(map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
	ts := &tokenServer{status: http.StatusOK, body: string(b)}
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handle))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&ts.calls, 1)

	ts.mu.Lock()
	ts.lastRequest = r.Clone(r.Context())
	status, body, delay := ts.status, ts.body, ts.delay
	ts.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (ts *tokenServer) respond(status int, body string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.status = status
	ts.body = body
}

func (ts *tokenServer) setDelay(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.delay = d
}

func (ts *tokenServer) Calls() int {
	return int(atomic.LoadInt32(&ts.calls))
}

func (ts *tokenServer) LastRequest() *http.Request {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.lastRequest
}
