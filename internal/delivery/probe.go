package delivery

import (
	"context"
	"net/http"
	"time"
)

// Probe is the lightweight reachability check issued before each send
// attempt. It never returns an error: any network failure, timeout, or
// non-2xx response just reads as "unreachable".
type Probe struct {
	url        string // {backend}/api/test
	httpClient *http.Client
}

// NewProbe builds a probe against the backend's health-check path. A
// non-positive timeout falls back to 5s.
func NewProbe(backendURL string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Probe{
		url:        backendURL + "/api/test",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsReachable reports whether the backend answered the health check with a
// 2xx within the probe timeout.
func (p *Probe) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
