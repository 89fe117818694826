package innertube

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // the service requires SHA1 for SAPISIDHASH
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultOrigin = "https://music.youtube.com"

// Transport carries one request to the service and returns the raw JSON
// body. It owns headers, auth signing and proxying. Implementations decide
// nothing about pagination or decoding.
type Transport interface {
	Send(ctx context.Context, identity ClientIdentity, path string, body map[string]any) (json.RawMessage, error)
}

// HTTPTransport is the default Transport. It signs requests with
// SAPISIDHASH when a cookie is configured and can rate-limit outgoing calls.
type HTTPTransport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	origin     string
	proxyURL   *url.URL
	log        *log.Logger

	mu     sync.RWMutex
	cookie string
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) { t.httpClient = c }
}

// WithProxy routes all requests through the given proxy URL. Applies to
// whichever HTTP client ends up in use, regardless of option order.
func WithProxy(proxyURL *url.URL) TransportOption {
	return func(t *HTTPTransport) { t.proxyURL = proxyURL }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) TransportOption {
	return func(t *HTTPTransport) {
		if rps > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithOrigin overrides the service origin. Tests point this at a local
// server.
func WithOrigin(origin string) TransportOption {
	return func(t *HTTPTransport) { t.origin = strings.TrimSuffix(origin, "/") }
}

// NewHTTPTransport creates the default transport.
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		origin:     defaultOrigin,
		log:        log.WithPrefix("transport"),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.proxyURL != nil {
		t.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(t.proxyURL)}
	}

	return t
}

// SetCookie installs or replaces the auth cookie used for request signing.
// Safe to call while requests are in flight.
func (t *HTTPTransport) SetCookie(cookie string) {
	t.mu.Lock()
	t.cookie = cookie
	t.mu.Unlock()
}

// Send posts one API call and returns the raw response body.
func (t *HTTPTransport) Send(ctx context.Context, identity ClientIdentity, path string, body map[string]any) (json.RawMessage, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Path: path, Err: err}
		}
	}

	endpoint := fmt.Sprintf("%s/youtubei/v1/%s", t.origin, path)
	if strings.Contains(path, "?") {
		endpoint += "&prettyPrint=false"
	} else {
		endpoint += "?prettyPrint=false"
	}

	if identity.APIKey != "" {
		endpoint += "&key=" + url.QueryEscape(identity.APIKey)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Origin", defaultOrigin)

	if identity.UserAgent != "" {
		req.Header.Set("User-Agent", identity.UserAgent)
	}

	t.mu.RLock()
	cookie := t.cookie
	t.mu.RUnlock()

	if cookie != "" {
		req.Header.Set("Cookie", cookie)

		if sapisid := extractSAPISID(cookie); sapisid != "" {
			req.Header.Set("Authorization", fmt.Sprintf("SAPISIDHASH %s", sapisidHash(sapisid, time.Now())))
		}
	}

	t.log.Debug("send", "client", identity.Name, "path", path)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &TransportError{Path: path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return raw, nil
}

// sapisidHash computes the SAPISIDHASH authorization value.
func sapisidHash(sapisid string, now time.Time) string {
	timestamp := now.Unix()
	data := fmt.Sprintf("%d %s %s", timestamp, sapisid, defaultOrigin)

	h := sha1.New() //nolint:gosec // the service requires SHA1 for SAPISIDHASH
	h.Write([]byte(data))

	return fmt.Sprintf("%d_%x", timestamp, h.Sum(nil))
}

func extractSAPISID(cookies string) string {
	for _, part := range strings.Split(cookies, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "SAPISID=") {
			return strings.TrimPrefix(part, "SAPISID=")
		}

		if strings.HasPrefix(part, "__Secure-3PAPISID=") {
			return strings.TrimPrefix(part, "__Secure-3PAPISID=")
		}
	}

	return ""
}
