// CLAUDE:SUMMARY Caption-fetch boundary: Fetcher interface, video metadata, ErrNoTranscript sentinel.
// Package transcript is the boundary to the video platform: it resolves a
// video URL to its metadata and raw caption track. The core never talks
// to the platform directly; it consumes this interface, and tests swap in
// a fake.
package transcript

import "context"

// Metadata is what the platform knows about a video before ingestion.
type Metadata struct {
	VideoID     string  `json:"video_id"`
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Duration    float64 `json:"duration"` // seconds
	ViewCount   *int64  `json:"view_count,omitempty"`
	UploadDate  string  `json:"upload_date"`
	Description string  `json:"description,omitempty"`
}

// Source is one resolved video: its metadata plus the raw caption track
// text, ready for the caption parser.
type Source struct {
	Metadata Metadata `json:"metadata"`
	Captions string   `json:"captions"`
}

// Fetcher resolves a video URL into a Source. Implementations return
// ErrNoTranscript when the video has no caption track in any supported
// format; any other failure is a transient upstream error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Source, error)
}
