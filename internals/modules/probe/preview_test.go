package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"probe-wizard/pkg/httpclient"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreviewer() *Previewer {
	log := zerolog.Nop()
	return NewPreviewer(&http.Client{}, &log)
}

func probeFor(url string, timeoutMs int, body map[string]string) Probe {
	return Probe{
		Name:     "test",
		Interval: 10,
		Requests: []Request{{URL: url, Method: http.MethodPost, Body: body, Timeout: timeoutMs}},
	}
}

func TestPreviewSendsJSONBody(t *testing.T) {
	var got map[string]string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	res := newTestPreviewer().Preview(context.Background(), probeFor(srv.URL, 1000, map[string]string{"email": "a@example.com"}))

	assert.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, http.MethodPost, res.Method)
	assert.Empty(t, res.Reason)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{"email": "a@example.com"}, got)
}

func TestPreviewUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newTestPreviewer().Preview(context.Background(), probeFor(srv.URL, 1000, nil))

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, ReasonUnexpected, res.Reason)
}

func TestPreviewTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	res := newTestPreviewer().Preview(context.Background(), probeFor(srv.URL, 50, nil))

	assert.False(t, res.Success)
	assert.Equal(t, ReasonTimeout, res.Reason)
	assert.True(t, res.Retryable)
}

func TestPreviewConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := newTestPreviewer().Preview(context.Background(), probeFor(url, 1000, nil))

	assert.False(t, res.Success)
	assert.Equal(t, ReasonNetworkError, res.Reason)
}

func TestPreviewWithoutRequests(t *testing.T) {
	res := newTestPreviewer().Preview(context.Background(), Probe{Name: "empty"})
	assert.Equal(t, ReasonInvalidRequest, res.Reason)
}

func TestPreviewInvalidURL(t *testing.T) {
	res := newTestPreviewer().Preview(context.Background(), probeFor("http://[::1", 1000, nil))
	assert.Equal(t, ReasonInvalidRequest, res.Reason)
}

func TestPreviewBlockedAddress(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	log := zerolog.Nop()
	pv := NewPreviewer(httpclient.NewHttpClient(0, true), &log)

	res := pv.Preview(context.Background(), probeFor(srv.URL, 1000, nil))
	assert.False(t, res.Success)
	assert.Equal(t, ReasonBlocked, res.Reason)
	assert.False(t, res.Retryable)
	assert.Zero(t, hits.Load())
}

func TestClassifyError(t *testing.T) {
	reason, retry := classifyError(&net.DNSError{Err: "no such host", Name: "nope.invalid"})
	assert.Equal(t, ReasonDNSFailure, reason)
	assert.False(t, retry)

	reason, retry = classifyError(context.DeadlineExceeded)
	assert.Equal(t, ReasonTimeout, reason)
	assert.True(t, retry)

	reason, _ = classifyError(errors.New("weird"))
	assert.Equal(t, ReasonUnknown, reason)
}

func TestFirstRequest(t *testing.T) {
	_, ok := Probe{}.FirstRequest()
	assert.False(t, ok)

	req, ok := probeFor("https://example.com", 10, nil).FirstRequest()
	require.True(t, ok)
	assert.Equal(t, "https://example.com", req.URL)
}
