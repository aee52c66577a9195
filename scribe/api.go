// CLAUDE:SUMMARY HTTP API over the service: search, videos, stats, health on a chi router.
package scribe

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/scribe/transcript"
)

// Router builds the HTTP API for serve mode.
func (svc *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/search", svc.handleSearch)
	r.Get("/api/videos", svc.handleListVideos)
	r.Get("/api/videos/{video_id}", svc.handleGetVideo)
	r.Delete("/api/videos/{video_id}", svc.handleDeleteVideo)
	r.Post("/api/videos", svc.handleAddVideo)
	r.Get("/api/stats", svc.handleStats)

	return r
}

// handleSearch serves GET /api/search?q=&mode=videos|chunks|semantic&limit=.
func (svc *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	mode := r.URL.Query().Get("mode")
	limit := queryInt(r, "limit")

	var (
		results any
		err     error
	)
	switch mode {
	case "", "videos":
		results, err = svc.Query(r.Context(), q, limit)
	case "chunks":
		results, err = svc.QueryChunks(r.Context(), q, limit)
	case "semantic":
		results, err = svc.QuerySemantic(r.Context(), q, limit)
	default:
		svc.respondError(w, http.StatusBadRequest, errors.New("mode must be videos, chunks or semantic"))
		return
	}
	if err != nil {
		svc.respondError(w, statusFor(err), err)
		return
	}
	svc.respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (svc *Service) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := svc.Recent(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		svc.respondError(w, http.StatusInternalServerError, err)
		return
	}
	svc.respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (svc *Service) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	v, err := svc.Summary(r.Context(), chi.URLParam(r, "video_id"))
	if err != nil {
		svc.respondError(w, statusFor(err), err)
		return
	}
	if v == nil {
		svc.respondError(w, http.StatusNotFound, errors.New("unknown video"))
		return
	}
	svc.respondJSON(w, http.StatusOK, v)
}

func (svc *Service) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	deleted, err := svc.Delete(r.Context(), chi.URLParam(r, "video_id"))
	if err != nil {
		svc.respondError(w, statusFor(err), err)
		return
	}
	if !deleted {
		svc.respondError(w, http.StatusNotFound, errors.New("unknown video"))
		return
	}
	svc.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAddVideo serves POST /api/videos with body {"url": "..."}.
// Ingestion is synchronous; the resolver and model calls dominate latency.
func (svc *Service) handleAddVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svc.respondError(w, http.StatusBadRequest, err)
		return
	}
	v, err := svc.Add(r.Context(), req.URL)
	if err != nil {
		svc.respondError(w, statusFor(err), err)
		return
	}
	svc.respondJSON(w, http.StatusCreated, map[string]any{
		"video_id": v.VideoID,
		"title":    v.Title,
		"chunks":   len(v.Chunks),
	})
}

func (svc *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := svc.Stats(r.Context())
	if err != nil {
		svc.respondError(w, http.StatusInternalServerError, err)
		return
	}
	svc.respondJSON(w, http.StatusOK, stats)
}

func (svc *Service) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		svc.logger.Error("encode response", "error", err)
	}
}

func (svc *Service) respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, transcript.ErrNoTranscript):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
