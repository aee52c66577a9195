// CLAUDE:SUMMARY Store data types: Video, Chunk, SearchLogEntry, Stats.
package store

import "github.com/hazyhaar/scribe/caption"

// Video is one knowledge-base entry per source recording.
type Video struct {
	VideoID        string   `json:"video_id"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Duration       float64  `json:"duration"` // seconds
	ViewCount      *int64   `json:"view_count,omitempty"`
	UploadDate     string   `json:"upload_date"`
	Description    string   `json:"description,omitempty"`
	Summary        string   `json:"summary"`
	TLDR           string   `json:"tldr,omitempty"`
	Tags           []string `json:"tags"`
	FullTranscript string   `json:"full_transcript,omitempty"`
	ProcessedAt    int64    `json:"processed_at"` // unix ms, set at write time

	// Chunks is populated by GetVideo, ordered by Start.
	Chunks []*Chunk `json:"chunks,omitempty"`
}

// Chunk is a contiguous, time-bounded slice of a video's transcript.
// ChunkID is assigned by the store on insert, monotonically increasing.
type Chunk struct {
	ChunkID   int64         `json:"chunk_id"`
	VideoID   string        `json:"video_id"`
	Text      string        `json:"text"`
	Start     float64       `json:"start"`
	End       float64       `json:"end"`
	Embedding []float32     `json:"embedding,omitempty"`
	RawCues   []caption.Cue `json:"raw_cues,omitempty"`
}

// SearchLogEntry records one executed query.
type SearchLogEntry struct {
	ID          string `json:"id"`
	Query       string `json:"query"`
	Mode        string `json:"mode"` // "videos" | "chunks" | "semantic"
	ResultCount int    `json:"result_count"`
	SearchedAt  int64  `json:"searched_at"`
}

// Stats holds aggregate counters for the knowledge base.
type Stats struct {
	Videos   int `json:"videos"`
	Chunks   int `json:"chunks"`
	Embedded int `json:"embedded"` // chunks with a stored embedding
}
