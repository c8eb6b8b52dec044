package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/harshil1002/website-monitor/internal/domain"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultSlowThreshold = 2 * time.Second
)

// HTTPChecker classifies a URL with a single GET. Timeouts, transport
// errors and non-2xx responses are down; a 2xx slower than
// SlowThreshold is slow; anything else is up. A check never returns an
// error, only a classified outcome.
type HTTPChecker struct {
	Client        *http.Client
	SlowThreshold time.Duration
}

func NewHTTPChecker(timeout, slowThreshold time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return &HTTPChecker{
		Client:        &http.Client{Timeout: timeout},
		SlowThreshold: slowThreshold,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) domain.CheckOutcome {
	start := time.Now()
	out := domain.CheckOutcome{URL: target, CheckedAt: start.UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		out.Status = domain.StatusDown
		out.Reason = err.Error()
		return out
	}

	resp, err := h.Client.Do(req)
	out.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		out.Status = domain.StatusDown
		if isTimeout(err) {
			out.Reason = "Timeout"
		} else {
			out.Reason = err.Error()
		}
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		out.Status = domain.StatusDown
		out.Reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return out
	}

	if out.LatencyMS > h.SlowThreshold.Milliseconds() {
		out.Status = domain.StatusSlow
		out.Reason = fmt.Sprintf("Slow (%dms)", out.LatencyMS)
		return out
	}

	out.Status = domain.StatusUp
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
