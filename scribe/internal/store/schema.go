// CLAUDE:SUMMARY Knowledge-base SQL schema: videos, chunks, external-content FTS5 mirrors, search log.
package store

import "database/sql"

// Schema is the complete knowledge-base schema.
//
// The FTS5 tables are external-content mirrors of videos and chunks. They
// are synchronized by explicit statements inside the same transaction as
// every base-table write — deliberately not by triggers, so the "index
// mirrors base table" invariant lives in application code where it can be
// read and tested.
const Schema = `
CREATE TABLE IF NOT EXISTS videos (
    video_id        TEXT PRIMARY KEY,
    url             TEXT NOT NULL,
    title           TEXT NOT NULL,
    author          TEXT NOT NULL DEFAULT '',
    duration        REAL NOT NULL DEFAULT 0,
    view_count      INTEGER,
    upload_date     TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    summary         TEXT NOT NULL DEFAULT '',
    tldr            TEXT NOT NULL DEFAULT '',
    tags            TEXT NOT NULL DEFAULT '[]',
    full_transcript TEXT NOT NULL DEFAULT '',
    processed_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_videos_processed ON videos(processed_at DESC);

CREATE TABLE IF NOT EXISTS chunks (
    chunk_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    video_id  TEXT NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
    text      TEXT NOT NULL,
    embedding BLOB,
    start     REAL NOT NULL,
    "end"     REAL NOT NULL,
    raw_cues  TEXT,
    CHECK ("end" >= start)
);
CREATE INDEX IF NOT EXISTS idx_chunks_video ON chunks(video_id);

CREATE VIRTUAL TABLE IF NOT EXISTS videos_fts USING fts5(
    title, summary, tldr, tags, full_transcript,
    content='videos', content_rowid='rowid',
    tokenize='unicode61 remove_diacritics 2'
);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
    text,
    content='chunks', content_rowid='chunk_id',
    tokenize='unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS search_log (
    id           TEXT PRIMARY KEY,
    query        TEXT NOT NULL,
    mode         TEXT NOT NULL DEFAULT 'videos',
    result_count INTEGER NOT NULL DEFAULT 0,
    searched_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_log_time ON search_log(searched_at DESC);
`

// ApplySchema creates all tables and indexes on the given database.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
