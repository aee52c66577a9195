// CLAUDE:SUMMARY Aggregate counters and the fire-and-forget search log.
package store

import (
	"context"
	"fmt"
	"time"
)

// GetStats returns aggregate counters for the knowledge base.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&st.Videos); err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&st.Chunks); err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE embedding IS NOT NULL`).Scan(&st.Embedded); err != nil {
		return nil, fmt.Errorf("count embedded: %w", err)
	}
	return &st, nil
}

// LogSearch records an executed query. Failures are swallowed by callers;
// the log is observability, not state.
func (s *Store) LogSearch(ctx context.Context, query, mode string, resultCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_log (id, query, mode, result_count, searched_at) VALUES (?, ?, ?, ?, ?)`,
		s.newID(), query, mode, resultCount, time.Now().UnixMilli())
	return err
}

// ListSearchLog returns recent search log entries, newest first.
func (s *Store) ListSearchLog(ctx context.Context, limit int) ([]SearchLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, mode, result_count, searched_at
		FROM search_log ORDER BY searched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SearchLogEntry
	for rows.Next() {
		var e SearchLogEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.Mode, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
