package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"
)

const systemPrompt = `You summarize video transcripts. Reply with a single JSON object and nothing else:
{"summary": "<2-4 paragraph summary>", "tldr": "<one sentence>", "tags": ["<3-8 short topic tags>"]}`

type client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func newClient(cfg Config) *client {
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  cfg.Logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *client) Summarize(ctx context.Context, req *Request) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: c.userPrompt(req)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("summarize: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("summarize: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("summarize: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summarize: server returned %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("summarize: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("summarize: response has no choices")
	}

	res, err := parseResult(chat.Choices[0].Message.Content)
	if err != nil {
		c.log.Error("summarize: unparseable model output", "error", err)
		return nil, err
	}
	return res, nil
}

func (c *client) userPrompt(req *Request) string {
	var b strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	}
	if req.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", req.Author)
	}
	b.WriteString("Transcript:\n")
	budget := c.cfg.MaxInputChars
	for _, chunk := range req.Chunks {
		if budget <= 0 {
			break
		}
		if len(chunk) > budget {
			// Back up to a rune boundary so the prompt stays valid UTF-8.
			cut := budget
			for cut > 0 && !utf8.RuneStart(chunk[cut]) {
				cut--
			}
			chunk = chunk[:cut]
		}
		b.WriteString(chunk)
		b.WriteByte('\n')
		budget -= len(chunk) + 1
	}
	return b.String()
}

// parseResult extracts the JSON object from model output, tolerating
// markdown code fences and leading prose.
func parseResult(content string) (*Result, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("summarize: no JSON object in model output")
	}
	var res Result
	if err := json.Unmarshal([]byte(content[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("summarize: decode model output: %w", err)
	}
	if res.Summary == "" {
		return nil, fmt.Errorf("summarize: model output missing summary")
	}
	return &res, nil
}

func truncateBody(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
