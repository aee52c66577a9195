// CLAUDE:SUMMARY Dual-mode retrieval: FTS5 lexical search on videos/chunks and brute-force vector scan.
// Package search executes queries against the knowledge store: lexical
// full-text retrieval through the FTS5 mirrors, and vector similarity
// through a linear scan of stored embeddings.
//
// The vector path is a deliberate O(chunks) baseline. If the corpus ever
// outgrows it, Similar is the single extension point to swap in an ANN
// index; nothing else assumes one exists.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/hazyhaar/scribe/scribe/internal/store"
	"github.com/hazyhaar/scribe/vec"
)

// Engine runs queries against a Store's database.
type Engine struct {
	db *sql.DB
}

// New creates an Engine over the store's database handle.
func New(s *store.Store) *Engine {
	return &Engine{db: s.DB()}
}

// VideoHit is one lexical video search result. Rank is the FTS5 bm25
// score; lower ranks first.
type VideoHit struct {
	Video *store.Video `json:"video"`
	Rank  float64      `json:"rank"`
}

// ChunkHit is one chunk-level result, lexical or semantic, joined with
// its parent video's display metadata.
type ChunkHit struct {
	Chunk  *store.Chunk `json:"chunk"`
	Title  string       `json:"title"`
	Author string       `json:"author"`
	URL    string       `json:"url"`
	Score  float64      `json:"score"`
}

// Videos runs a lexical search over the video index, ranked by relevance.
// An empty term or an empty knowledge base yields an empty result.
func (e *Engine) Videos(ctx context.Context, term string, limit int) ([]VideoHit, error) {
	q := ftsQuery(term)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := e.db.QueryContext(ctx,
		`SELECT v.video_id, v.url, v.title, v.author, v.duration, v.view_count,
		v.upload_date, v.description, v.summary, v.tldr, v.tags, '', v.processed_at, rank
		FROM videos_fts f
		JOIN videos v ON v.rowid = f.rowid
		WHERE videos_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	defer rows.Close()

	var hits []VideoHit
	for rows.Next() {
		var h VideoHit
		h.Video, err = store.ScanVideoRow(rows, &h.Rank)
		if err != nil {
			return nil, fmt.Errorf("scan video hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Chunks runs a lexical search over the chunk-text index. Each hit is
// joined with its parent video's title, author and URL.
func (e *Engine) Chunks(ctx context.Context, term string, limit int) ([]ChunkHit, error) {
	q := ftsQuery(term)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := e.db.QueryContext(ctx,
		`SELECT c.chunk_id, c.video_id, c.text, c.start, c."end",
		v.title, v.author, v.url, rank
		FROM chunks_fts f
		JOIN chunks c ON c.chunk_id = f.rowid
		JOIN videos v ON v.video_id = c.video_id
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		var c store.Chunk
		if err := rows.Scan(&c.ChunkID, &c.VideoID, &c.Text, &c.Start, &c.End,
			&h.Title, &h.Author, &h.URL, &h.Score); err != nil {
			return nil, fmt.Errorf("scan chunk hit: %w", err)
		}
		h.Chunk = &c
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Similar ranks every embedded chunk by dot product against the query
// vector and returns the top limit. Stored and query vectors are assumed
// unit-normalized, making the dot product a cosine similarity; the store
// does not enforce the normalization itself. The scan walks chunks in
// insertion order and the sort is stable, so equal scores keep that order.
func (e *Engine) Similar(ctx context.Context, query []float32, limit int) ([]ChunkHit, error) {
	if len(query) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := e.db.QueryContext(ctx,
		`SELECT c.chunk_id, c.video_id, c.text, c.embedding, c.start, c."end",
		v.title, v.author, v.url
		FROM chunks c
		JOIN videos v ON v.video_id = c.video_id
		WHERE c.embedding IS NOT NULL
		ORDER BY c.chunk_id`)
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}
	defer rows.Close()

	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		var c store.Chunk
		var blob []byte
		if err := rows.Scan(&c.ChunkID, &c.VideoID, &c.Text, &blob, &c.Start, &c.End,
			&h.Title, &h.Author, &h.URL); err != nil {
			return nil, fmt.Errorf("scan embedded chunk: %w", err)
		}
		c.Embedding, err = vec.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", c.ChunkID, err)
		}
		h.Chunk = &c
		h.Score = vec.Dot(query, c.Embedding)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// ftsQuery turns raw user input into a safe FTS5 phrase query. Quoting
// keeps MATCH operators in user input from becoming syntax errors.
// Whitespace-only input yields "" and callers return empty results.
func ftsQuery(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}
