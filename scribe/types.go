// CLAUDE:SUMMARY Re-exports store and search types (Video, Chunk, Stats, hits) as the scribe public API.
// Package scribe builds a searchable knowledge base from spoken-video
// transcripts.
//
// A video URL is resolved to its caption track, parsed into timed cues,
// split into chunks, embedded, summarized, and stored in a single SQLite
// file with FTS5 mirrors kept in lock-step. Queries run lexically over
// videos or chunks, or semantically over the stored embedding vectors.
package scribe

import (
	"github.com/hazyhaar/scribe/scribe/internal/search"
	"github.com/hazyhaar/scribe/scribe/internal/store"
)

// Re-export store and search types for public API.
type (
	Video          = store.Video
	Chunk          = store.Chunk
	Stats          = store.Stats
	SearchLogEntry = store.SearchLogEntry
	VideoHit       = search.VideoHit
	ChunkHit       = search.ChunkHit
)
