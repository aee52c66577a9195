package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetch_OK(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resolve" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req resolveRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(resolveResponse{
			Metadata: Metadata{VideoID: "abc123", URL: req.URL, Title: "A talk", Duration: 600},
			Captions: "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nhello\n",
		})
	})

	src, err := c.Fetch(context.Background(), "https://videos.example/watch?v=abc123")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if src.Metadata.VideoID != "abc123" || src.Metadata.Duration != 600 {
		t.Errorf("metadata: got %+v", src.Metadata)
	}
	if src.Captions == "" {
		t.Error("captions empty")
	}
}

func TestFetch_NoTranscript(t *testing.T) {
	// WHAT: 404 + "no_transcript" and an empty caption body both map to
	// the ErrNoTranscript sentinel.
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(resolveResponse{Error: "no_transcript"})
	})
	_, err := c.Fetch(context.Background(), "https://videos.example/silent")
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("got %v, want ErrNoTranscript", err)
	}

	c = newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(resolveResponse{Metadata: Metadata{VideoID: "x"}})
	})
	_, err = c.Fetch(context.Background(), "https://videos.example/empty")
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("empty captions: got %v, want ErrNoTranscript", err)
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "resolver exploded", http.StatusInternalServerError)
	})
	_, err := c.Fetch(context.Background(), "https://videos.example/x")
	if err == nil || errors.Is(err, ErrNoTranscript) {
		t.Fatalf("got %v, want plain upstream error", err)
	}
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("NewClient accepted empty endpoint")
	}
}
