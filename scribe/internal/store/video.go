// CLAUDE:SUMMARY Video CRUD: atomic upsert-replace with explicit FTS5 sync, get-with-chunks, delete, list recent.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazyhaar/scribe/caption"
	"github.com/hazyhaar/scribe/dbopen"
	"github.com/hazyhaar/scribe/vec"
)

// StoreVideo persists a video and its chunks in one transaction.
//
// If the video_id already exists the previous video and all of its chunks
// are deleted first — a full replace, never a field-level merge. Every
// base-table mutation is paired with its FTS5 mirror statement inside the
// same transaction, so the index never observes a state the base table
// didn't also reach. ProcessedAt is set at write time.
func (s *Store) StoreVideo(ctx context.Context, v *Video, chunks []*Chunk) error {
	if v == nil || v.VideoID == "" {
		return ErrMissingVideoID
	}

	tags, err := json.Marshal(v.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	v.ProcessedAt = time.Now().UnixMilli()

	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := deleteVideoTx(ctx, tx, v.VideoID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO videos (video_id, url, title, author, duration, view_count,
			upload_date, description, summary, tldr, tags, full_transcript, processed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.VideoID, v.URL, v.Title, v.Author, v.Duration, v.ViewCount,
			v.UploadDate, v.Description, v.Summary, v.TLDR, string(tags),
			v.FullTranscript, v.ProcessedAt,
		)
		if err != nil {
			return fmt.Errorf("insert video: %w", err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("video rowid: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO videos_fts (rowid, title, summary, tldr, tags, full_transcript)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rowid, v.Title, v.Summary, v.TLDR, string(tags), v.FullTranscript,
		); err != nil {
			return fmt.Errorf("index video: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO chunks (video_id, text, embedding, start, "end", raw_cues)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare chunk insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range chunks {
			var blob []byte
			if len(c.Embedding) > 0 {
				blob = vec.Encode(c.Embedding)
			}
			var rawCues any
			if len(c.RawCues) > 0 {
				data, err := json.Marshal(c.RawCues)
				if err != nil {
					return fmt.Errorf("marshal raw cues %d: %w", i, err)
				}
				rawCues = string(data)
			}
			res, err := stmt.ExecContext(ctx, v.VideoID, c.Text, blob, c.Start, c.End, rawCues)
			if err != nil {
				return fmt.Errorf("insert chunk %d: %w", i, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("chunk id %d: %w", i, err)
			}
			c.ChunkID = id
			c.VideoID = v.VideoID
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunks_fts (rowid, text) VALUES (?, ?)`, id, c.Text,
			); err != nil {
				return fmt.Errorf("index chunk %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetVideo retrieves a video with its chunks ordered by start time.
// A missing id is a normal (nil, nil) result.
func (s *Store) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT video_id, url, title, author, duration, view_count, upload_date,
		description, summary, tldr, tags, full_transcript, processed_at
		FROM videos WHERE video_id = ?`, videoID)

	v, err := scanVideo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}

	v.Chunks, err = s.GetChunks(ctx, videoID, false)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVideo removes a video, its chunks, and every index entry.
// It reports whether a row existed; deleting an unknown id is not an error.
func (s *Store) DeleteVideo(ctx context.Context, videoID string) (bool, error) {
	existed := false
	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		existed, err = deleteVideoTx(ctx, tx, videoID)
		return err
	})
	return existed, err
}

// ListRecent returns video summaries ordered by processed_at descending.
// The full transcript is not fetched.
func (s *Store) ListRecent(ctx context.Context, limit, offset int) ([]*Video, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, url, title, author, duration, view_count, upload_date,
		description, summary, tldr, tags, '', processed_at
		FROM videos ORDER BY processed_at DESC, video_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	var result []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.FullTranscript = ""
		result = append(result, v)
	}
	return result, rows.Err()
}

// deleteVideoTx removes a video, its chunks, and their FTS5 mirror rows
// inside an open transaction. The FTS5 tables are external-content, so
// deletion requires replaying the old column values with the 'delete'
// command before the base rows go away.
func deleteVideoTx(ctx context.Context, tx *sql.Tx, videoID string) (bool, error) {
	var rowid int64
	var title, summary, tldr, tags, transcript string
	err := tx.QueryRowContext(ctx,
		`SELECT rowid, title, summary, tldr, tags, full_transcript
		FROM videos WHERE video_id = ?`, videoID).
		Scan(&rowid, &title, &summary, &tldr, &tags, &transcript)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load video for delete: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT chunk_id, text FROM chunks WHERE video_id = ?`, videoID)
	if err != nil {
		return false, fmt.Errorf("load chunks for delete: %w", err)
	}
	type ftsRow struct {
		id   int64
		text string
	}
	var old []ftsRow
	for rows.Next() {
		var r ftsRow
		if err := rows.Scan(&r.id, &r.text); err != nil {
			rows.Close()
			return false, fmt.Errorf("scan chunk for delete: %w", err)
		}
		old = append(old, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, r := range old {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunks_fts (chunks_fts, rowid, text) VALUES ('delete', ?, ?)`,
			r.id, r.text); err != nil {
			return false, fmt.Errorf("unindex chunk %d: %w", r.id, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE video_id = ?`, videoID); err != nil {
		return false, fmt.Errorf("delete chunks: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO videos_fts (videos_fts, rowid, title, summary, tldr, tags, full_transcript)
		VALUES ('delete', ?, ?, ?, ?, ?, ?)`,
		rowid, title, summary, tldr, tags, transcript); err != nil {
		return false, fmt.Errorf("unindex video: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE video_id = ?`, videoID); err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner, extra ...any) (*Video, error) {
	var v Video
	var tags string
	dest := []any{&v.VideoID, &v.URL, &v.Title, &v.Author, &v.Duration,
		&v.ViewCount, &v.UploadDate, &v.Description, &v.Summary, &v.TLDR,
		&tags, &v.FullTranscript, &v.ProcessedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &v.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for %s: %w", v.VideoID, err)
	}
	return &v, nil
}

// ScanVideoRow scans the standard 13 video columns (plus any trailing
// extras such as an FTS rank) from a row. It exists for the search engine,
// which selects video columns through its own joins.
func ScanVideoRow(rows *sql.Rows, extra ...any) (*Video, error) {
	return scanVideo(rows, extra...)
}

func decodeRawCues(data sql.NullString, videoID string) ([]caption.Cue, error) {
	if !data.Valid || data.String == "" {
		return nil, nil
	}
	var cues []caption.Cue
	if err := json.Unmarshal([]byte(data.String), &cues); err != nil {
		return nil, fmt.Errorf("decode raw cues for %s: %w", videoID, err)
	}
	return cues, nil
}
