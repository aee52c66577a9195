// CLAUDE:SUMMARY HTTP Fetcher implementation against a resolver sidecar (yt-dlp style) with ErrNoTranscript mapping.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoTranscript is returned when the video exists but exposes no
// caption track in any supported format.
var ErrNoTranscript = errors.New("transcript: no caption track available")

// Config configures the HTTP fetcher.
type Config struct {
	// Endpoint is the base URL of the resolver service (a yt-dlp style
	// sidecar exposing POST /api/resolve).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Timeout per HTTP request. Default: 60s — caption extraction on the
	// resolver side can be slow for long videos.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "scribe/1.0"
	}
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// NewClient creates an HTTP Fetcher against the given resolver endpoint.
func NewClient(cfg Config) (*Client, error) {
	cfg.defaults()
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("transcript: resolver endpoint is required")
	}
	return &Client{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type resolveRequest struct {
	URL string `json:"url"`
}

type resolveResponse struct {
	Metadata Metadata `json:"metadata"`
	Captions string   `json:"captions"`
	Error    string   `json:"error,omitempty"`
}

// Fetch implements Fetcher. A 404 with error "no_transcript" maps to
// ErrNoTranscript; every other non-200 wraps the resolver's message.
func (c *Client) Fetch(ctx context.Context, url string) (*Source, error) {
	body, err := json.Marshal(resolveRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("transcript: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/resolve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transcript: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript: resolve %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("transcript: read response: %w", err)
	}

	var rr resolveResponse
	if jsonErr := json.Unmarshal(data, &rr); jsonErr != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("transcript: decode response: %w", jsonErr)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && rr.Error == "no_transcript":
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, url)
	case resp.StatusCode != http.StatusOK:
		msg := rr.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return nil, fmt.Errorf("transcript: resolver status %d: %s", resp.StatusCode, msg)
	}

	if rr.Captions == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, url)
	}
	return &Source{Metadata: rr.Metadata, Captions: rr.Captions}, nil
}
