// internal/chaos/transport.go
package chaos

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrInjectedFault is the transport error produced by a Fail fault.
var ErrInjectedFault = errors.New("chaos: injected transport failure")

// Fault describes what FaultTransport does to matching requests.
type Fault struct {
	PathPrefix string        // empty matches every request
	Fail       bool          // return a transport error
	Status     int           // answer with this status instead of forwarding
	Latency    time.Duration // delay before forwarding or answering
}

// FaultTransport wraps an http.RoundTripper and injects the active fault.
type FaultTransport struct {
	base http.RoundTripper

	mu     sync.RWMutex
	fault  *Fault
	served int
}

func NewFaultTransport(base http.RoundTripper) *FaultTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &FaultTransport{base: base}
}

// Inject activates f for subsequent requests.
func (t *FaultTransport) Inject(f Fault) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fault = &f
}

// Clear removes the active fault.
func (t *FaultTransport) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fault = nil
}

// Faulted returns how many requests were altered by a fault.
func (t *FaultTransport) Faulted() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.served
}

func (t *FaultTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	f := t.fault
	if f != nil && !strings.HasPrefix(req.URL.Path, f.PathPrefix) {
		f = nil
	}
	if f != nil {
		t.served++
	}
	t.mu.Unlock()

	if f == nil {
		return t.base.RoundTrip(req)
	}

	if f.Latency > 0 {
		timer := time.NewTimer(f.Latency)
		select {
		case <-timer.C:
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		}
	}

	switch {
	case f.Fail:
		return nil, ErrInjectedFault
	case f.Status != 0:
		return &http.Response{
			StatusCode: f.Status,
			Status:     http.StatusText(f.Status),
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	default:
		return t.base.RoundTrip(req)
	}
}
