// CLAUDE:SUMMARY LLM summarization boundary: Summarizer interface over OpenAI-compatible chat completions, noop fallback.
// Package summarize turns transcript chunks into a structured summary
// (free text, TL;DR, tag list) via any OpenAI-compatible chat-completions
// server. Like the embedding client, the backend is a deployment choice;
// an empty endpoint yields a degraded local fallback so ingestion never
// hard-depends on a model server.
package summarize

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Request carries everything the model needs to summarize one video.
type Request struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Chunks []string `json:"chunks"`
}

// Result is the structured summary produced for a video.
type Result struct {
	Summary string   `json:"summary"`
	TLDR    string   `json:"tldr"`
	Tags    []string `json:"tags"`
}

// Summarizer produces a structured summary from transcript chunks.
type Summarizer interface {
	Summarize(ctx context.Context, req *Request) (*Result, error)
}

// Config configures the chat-completions client.
type Config struct {
	// Endpoint is the base URL of the chat server. If empty, New returns
	// a local fallback that derives a summary by truncation.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the model name sent in the request.
	Model string `json:"model" yaml:"model"`

	// APIKey is sent as a Bearer token when non-empty.
	APIKey string `json:"api_key" yaml:"api_key"`

	// MaxInputChars caps the transcript text included in the prompt.
	// Default: 48000.
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars"`

	// Timeout per HTTP request. Default: 120s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Logger for debug/error messages. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = 48_000
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates a Summarizer from config.
func New(cfg Config) Summarizer {
	cfg.defaults()
	if cfg.Endpoint == "" {
		return &truncating{}
	}
	return newClient(cfg)
}

// truncating is the no-model fallback: the "summary" is the leading slice
// of the transcript. Good enough to keep lexical search useful.
type truncating struct{}

const truncateAt = 400

func (truncating) Summarize(_ context.Context, req *Request) (*Result, error) {
	text := strings.Join(req.Chunks, " ")
	if utf8.RuneCountInString(text) > truncateAt {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:truncateAt])) + "…"
	}
	return &Result{Summary: text}, nil
}
