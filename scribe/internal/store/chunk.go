// CLAUDE:SUMMARY Chunk reads: ordered retrieval per video with optional embedding decode.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hazyhaar/scribe/vec"
)

// GetChunks returns a video's chunks ordered by start time. Embeddings are
// decoded from their blob form only when includeEmbeddings is set — the
// blobs dominate row size and most callers only want text and timing.
func (s *Store) GetChunks(ctx context.Context, videoID string, includeEmbeddings bool) ([]*Chunk, error) {
	cols := `chunk_id, video_id, text, NULL, start, "end", raw_cues`
	if includeEmbeddings {
		cols = `chunk_id, video_id, text, embedding, start, "end", raw_cues`
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM chunks WHERE video_id = ? ORDER BY start, chunk_id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	defer rows.Close()

	var result []*Chunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		var rawCues sql.NullString
		if err := rows.Scan(&c.ChunkID, &c.VideoID, &c.Text, &blob, &c.Start, &c.End, &rawCues); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if len(blob) > 0 {
			c.Embedding, err = vec.Decode(blob)
			if err != nil {
				return nil, fmt.Errorf("chunk %d: %w", c.ChunkID, err)
			}
		}
		c.RawCues, err = decodeRawCues(rawCues, c.VideoID)
		if err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}
