package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"probe-wizard/pkg/httpclient"
	"time"

	"github.com/rs/zerolog"
)

const (
	ReasonInvalidRequest = "INVALID_REQUEST"
	ReasonBlocked        = "BLOCKED_ADDRESS"
	ReasonTimeout        = "TIMEOUT"
	ReasonDNSFailure     = "DNS_FAILURE"
	ReasonNetworkTimeout = "NETWORK_TIMEOUT"
	ReasonNetworkError   = "NETWORK_ERROR"
	ReasonUnexpected     = "UNEXPECTED_STATUS"
	ReasonUnknown        = "UNKNOWN_ERROR"
)

// PreviewResult is the outcome of sending a probe's first request once.
type PreviewResult struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	Status    int       `json:"status,omitempty"`
	LatencyMs int64     `json:"latency_ms"`
	Reason    string    `json:"reason,omitempty"`
	Retryable bool      `json:"retryable"`
	CheckedAt time.Time `json:"checked_at"`
}

type Previewer struct {
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewPreviewer(httpClient *http.Client, logger *zerolog.Logger) *Previewer {
	return &Previewer{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Preview sends the first request of p and reports what happened. It never returns an error:
// every failure is described by the result's Reason.
func (pv *Previewer) Preview(ctx context.Context, p Probe) PreviewResult {
	req, ok := p.FirstRequest()
	if !ok {
		return PreviewResult{Reason: ReasonInvalidRequest, CheckedAt: time.Now()}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	result := PreviewResult{
		URL:    req.URL,
		Method: method,
	}

	timeout := time.Duration(req.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := newHTTPRequest(reqCtx, method, req)
	if err != nil {
		// the url was validated on submit, so this is a draft that was never submitted
		result.Reason = ReasonInvalidRequest
		result.CheckedAt = time.Now()
		return result
	}

	start := time.Now()
	resp, err := pv.httpClient.Do(httpReq)
	result.LatencyMs = time.Since(start).Milliseconds()
	result.CheckedAt = time.Now()

	if err != nil {
		result.Reason, result.Retryable = classifyError(err)
		pv.logger.Debug().
			Err(err).
			Str("url", req.URL).
			Str("reason", result.Reason).
			Msg("probe preview failed")
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	result.Status = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !result.Success {
		result.Reason = ReasonUnexpected
	}

	return result
}

func newHTTPRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 && method != http.MethodGet && method != http.MethodHead {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

func classifyError(err error) (string, bool) {

	if errors.Is(err, httpclient.ErrBlockedAddress) {
		return ReasonBlocked, false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout, true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonDNSFailure, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonNetworkTimeout, true
		}
		return ReasonNetworkError, true
	}

	return ReasonUnknown, true
}
