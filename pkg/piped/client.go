// Package piped is a client for Piped-compatible stream extraction APIs,
// used as the last step of the playback resolver.
package piped

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ajisai/melodine/pkg/innertube"
)

// DefaultInstance is a public Piped API instance. Self-hosters should point
// the client at their own.
const DefaultInstance = "https://pipedapi.kavin.rocks"

// Client queries a Piped instance for audio streams.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Client) { p.httpClient = c }
}

// New creates a client for the given instance URL. An empty URL selects
// DefaultInstance.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultInstance
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.WithPrefix("piped"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// streamsResponse mirrors the subset of /streams/{id} this client reads.
type streamsResponse struct {
	AudioStreams []struct {
		URL           string `json:"url"`
		Bitrate       int    `json:"bitrate"`
		MimeType      string `json:"mimeType"`
		Codec         string `json:"codec"`
		ContentLength string `json:"contentLength"`
	} `json:"audioStreams"`
	Message string `json:"message"`
}

// AudioStreams implements innertube.StreamExtractor.
func (c *Client) AudioStreams(ctx context.Context, trackID string) ([]innertube.ExtractedStream, error) {
	url := fmt.Sprintf("%s/streams/%s", c.baseURL, trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &innertube.TransportError{Path: "streams", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &innertube.TransportError{Path: "streams", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &innertube.TransportError{Path: "streams", Err: err}
	}

	var decoded streamsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &innertube.TransportError{Path: "streams", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		if decoded.Message != "" {
			err = fmt.Errorf("status %d: %s", resp.StatusCode, decoded.Message)
		}

		return nil, &innertube.TransportError{Path: "streams", Err: err}
	}

	streams := make([]innertube.ExtractedStream, 0, len(decoded.AudioStreams))

	for _, s := range decoded.AudioStreams {
		if s.URL == "" {
			continue
		}

		length, _ := strconv.ParseInt(s.ContentLength, 10, 64)

		streams = append(streams, innertube.ExtractedStream{
			URL:           s.URL,
			Bitrate:       s.Bitrate,
			MimeType:      s.MimeType,
			Codec:         s.Codec,
			ContentLength: length,
		})
	}

	c.log.Debug("extracted streams", "trackId", trackID, "count", len(streams))

	return streams, nil
}
