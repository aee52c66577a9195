package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// client implements Embedder using the OpenAI /v1/embeddings API format.
type client struct {
	endpoint  string
	model     string
	dim       int // 0 = auto-detect
	batchSize int
	http      *http.Client
	cfg       Config
	mu        sync.Mutex // protects dim on first call
}

func newClient(cfg Config) *client {
	return &client{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		model:     cfg.Model,
		dim:       cfg.Dimension,
		batchSize: cfg.BatchSize,
		http:      &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		vecs, err := c.callAPI(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch [%d:%d]: %w", start, end, err)
		}
		copy(result[start:end], vecs)
	}
	return result, nil
}

func (c *client) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.endpoint + "/v1/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned from %s", url)
	}

	// Auto-detect dimension on first call.
	if c.dim == 0 && len(result.Data[0].Embedding) > 0 {
		c.mu.Lock()
		if c.dim == 0 {
			c.dim = len(result.Data[0].Embedding)
			c.cfg.Logger.Info("auto-detected embedding dimension",
				"dimension", c.dim, "model", result.Model)
		}
		c.mu.Unlock()
	}

	// Reassemble in input order (the server returns index-tagged rows).
	vecs := make([][]float32, len(texts))
	for _, d := range result.Data {
		if d.Index >= 0 && d.Index < len(vecs) {
			vecs[d.Index] = d.Embedding
		}
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input index %d", i)
		}
	}
	return vecs, nil
}

func (c *client) Dimension() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dim
}

func (c *client) Model() string { return c.model }
